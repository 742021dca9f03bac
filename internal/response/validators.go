package response

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yourname/static_lite/internal/models"
)

// Validators содержит ETag и Last-Modified, вычисленные из текущих метаданных файла.
type Validators struct {
	ETag         string
	LastModified time.Time
}

// NewValidators строит сильный ETag из времени модификации (нс) и размера.
// Last-Modified усечён до секунд, точности формата HTTP-date.
func NewValidators(file models.ResolvedFile) Validators {
	return Validators{
		ETag:         fmt.Sprintf(`"%x-%x"`, file.ModTime.UnixNano(), file.Size),
		LastModified: file.ModTime.UTC().Truncate(time.Second),
	}
}

// HasLastModified сообщает, можно ли доверять времени модификации.
func (v Validators) HasLastModified() bool {
	return !v.LastModified.IsZero() && !v.LastModified.Equal(time.Unix(0, 0))
}

// LastModifiedHeader форматирует Last-Modified в http.TimeFormat.
func (v Validators) LastModifiedHeader() string {
	return v.LastModified.Format(http.TimeFormat)
}

// matchETagList проверяет список из If-Match/If-None-Match.
// "*" совпадает с любым существующим представлением.
func matchETagList(header, current string, weak bool) bool {
	header = strings.TrimSpace(header)
	if header == "*" {
		return true
	}

	for {
		tag, rest, ok := scanETag(header)
		if !ok {
			return false
		}
		if weak && weakMatch(tag, current) || !weak && strongMatch(tag, current) {
			return true
		}
		header = rest
	}
}

// scanETag выделяет первый entity-tag из списка через запятую.
func scanETag(s string) (tag, rest string, ok bool) {
	s = strings.TrimLeft(s, " \t,")
	start := 0
	if strings.HasPrefix(s, "W/") {
		start = 2
	}
	if len(s) < start+2 || s[start] != '"' {
		return "", "", false
	}

	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return "", "", false
	}
	end += start + 2

	return s[:end], s[end:], true
}

func isWeak(tag string) bool {
	return strings.HasPrefix(tag, "W/")
}

func strongMatch(a, b string) bool {
	return a == b && a != "" && !isWeak(a) && !isWeak(b)
}

func weakMatch(a, b string) bool {
	return strings.TrimPrefix(a, "W/") == strings.TrimPrefix(b, "W/")
}
