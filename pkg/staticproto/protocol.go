// Package staticproto описывает HTTP-протокол раздачи файлов: заголовки и форматы
// диапазонов, общие для сервера и клиента.
package staticproto

import (
	"fmt"
	"strconv"
	"strings"
)

// Заголовки, которые читает и выставляет сервер.
const (
	HeaderRequestID         = "X-Request-Id"
	HeaderContentType       = "Content-Type"
	HeaderContentLength     = "Content-Length"
	HeaderContentRange      = "Content-Range"
	HeaderAcceptRanges      = "Accept-Ranges"
	HeaderETag              = "ETag"
	HeaderLastModified      = "Last-Modified"
	HeaderRange             = "Range"
	HeaderIfRange           = "If-Range"
	HeaderIfMatch           = "If-Match"
	HeaderIfNoneMatch       = "If-None-Match"
	HeaderIfModifiedSince   = "If-Modified-Since"
	HeaderIfUnmodifiedSince = "If-Unmodified-Since"
)

const (
	RangeUnit          = "bytes"
	DefaultMountPrefix = "/static/"
	DefaultMimeType    = "application/octet-stream"
)

// ConditionalHeaders — заголовки запроса, влияющие на выбор ответа.
var ConditionalHeaders = []string{
	HeaderRange,
	HeaderIfRange,
	HeaderIfMatch,
	HeaderIfNoneMatch,
	HeaderIfModifiedSince,
	HeaderIfUnmodifiedSince,
}

// ExposedHeaders перечисляет заголовки ответа, которые нужны клиенту для докачки.
var ExposedHeaders = []string{
	HeaderETag,
	HeaderLastModified,
	HeaderContentRange,
	HeaderAcceptRanges,
	HeaderContentLength,
	HeaderRequestID,
}

// FormatContentRange возвращает "bytes start-end/size" для ответа 206.
func FormatContentRange(start, end, size int64) string {
	return fmt.Sprintf("%s %d-%d/%d", RangeUnit, start, end, size)
}

// FormatUnsatisfiedRange возвращает "bytes */size" для ответа 416.
func FormatUnsatisfiedRange(size int64) string {
	return fmt.Sprintf("%s */%d", RangeUnit, size)
}

// FormatRangeFrom возвращает заголовок Range для докачки с позиции offset.
func FormatRangeFrom(offset int64) string {
	return fmt.Sprintf("%s=%d-", RangeUnit, offset)
}

// FormatRange возвращает заголовок Range для окна [start, end].
func FormatRange(start, end int64) string {
	return fmt.Sprintf("%s=%d-%d", RangeUnit, start, end)
}

// ParseContentRange разбирает "bytes start-end/size" из ответа 206.
func ParseContentRange(value string) (start, end, size int64, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(value), RangeUnit+" ")
	if !ok {
		return 0, 0, 0, fmt.Errorf("invalid Content-Range %q", value)
	}

	window, total, ok := strings.Cut(rest, "/")
	if !ok {
		return 0, 0, 0, fmt.Errorf("invalid Content-Range %q", value)
	}

	first, last, ok := strings.Cut(window, "-")
	if !ok {
		return 0, 0, 0, fmt.Errorf("invalid Content-Range %q", value)
	}

	if start, err = strconv.ParseInt(first, 10, 64); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid Content-Range start: %w", err)
	}
	if end, err = strconv.ParseInt(last, 10, 64); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid Content-Range end: %w", err)
	}
	if size, err = strconv.ParseInt(total, 10, 64); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid Content-Range size: %w", err)
	}
	if start < 0 || end < start || end >= size {
		return 0, 0, 0, fmt.Errorf("inconsistent Content-Range %q", value)
	}

	return start, end, size, nil
}
