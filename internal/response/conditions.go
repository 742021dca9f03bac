package response

import (
	"net/http"
	"strings"
	"time"

	"github.com/yourname/static_lite/pkg/staticproto"
)

// Conditions — условные заголовки и Range из запроса в сыром виде.
type Conditions struct {
	IfMatch           string
	IfNoneMatch       string
	IfModifiedSince   string
	IfUnmodifiedSince string
	IfRange           string
	Range             string
}

// ParseConditions извлекает условные заголовки из запроса.
func ParseConditions(h http.Header) Conditions {
	return Conditions{
		IfMatch:           h.Get(staticproto.HeaderIfMatch),
		IfNoneMatch:       h.Get(staticproto.HeaderIfNoneMatch),
		IfModifiedSince:   h.Get(staticproto.HeaderIfModifiedSince),
		IfUnmodifiedSince: h.Get(staticproto.HeaderIfUnmodifiedSince),
		IfRange:           h.Get(staticproto.HeaderIfRange),
		Range:             h.Get(staticproto.HeaderRange),
	}
}

type conditionOutcome int

const (
	conditionProceed conditionOutcome = iota
	conditionPreconditionFailed
	conditionNotModified
)

// evaluate применяет условия в порядке If-Match, If-Unmodified-Since,
// If-None-Match, If-Modified-Since. Нераспознаваемые даты игнорируются.
func (c Conditions) evaluate(v Validators) conditionOutcome {
	if c.IfMatch != "" && !matchETagList(c.IfMatch, v.ETag, false) {
		return conditionPreconditionFailed
	}

	if c.IfUnmodifiedSince != "" && v.HasLastModified() {
		if since, err := http.ParseTime(c.IfUnmodifiedSince); err == nil && v.LastModified.After(since) {
			return conditionPreconditionFailed
		}
	}

	if c.IfNoneMatch != "" {
		if matchETagList(c.IfNoneMatch, v.ETag, true) {
			return conditionNotModified
		}
		return conditionProceed
	}

	if c.IfModifiedSince != "" && v.HasLastModified() {
		if since, err := http.ParseTime(c.IfModifiedSince); err == nil && !v.LastModified.After(since) {
			return conditionNotModified
		}
	}

	return conditionProceed
}

// rangeAllowed проверяет If-Range: ETag сравнивается строго, дата на точное совпадение.
func (c Conditions) rangeAllowed(v Validators) bool {
	value := strings.TrimSpace(c.IfRange)
	if value == "" {
		return true
	}

	if strings.HasPrefix(value, `"`) || strings.HasPrefix(value, "W/") {
		return strongMatch(value, v.ETag)
	}

	if !v.HasLastModified() {
		return false
	}
	at, err := http.ParseTime(value)
	if err != nil {
		return false
	}

	return v.LastModified.Equal(at.Truncate(time.Second))
}
