package staticclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yourname/static_lite/pkg/staticproto"
)

var (
	// ErrNotFound возвращается на 404 от сервера.
	ErrNotFound = errors.New("remote file not found")
	// ErrRangeNotSatisfiable: 416, запрошенная позиция за концом файла.
	ErrRangeNotSatisfiable = errors.New("range not satisfiable")
)

// FileInfo — метаданные файла из заголовков ответа.
type FileInfo struct {
	Size         int64
	ETag         string
	LastModified time.Time
	ContentType  string
	AcceptRanges bool
}

// GetRequest описывает GET одного файла; Offset > 0 запрашивает хвост с этой позиции.
type GetRequest struct {
	Path    string
	Offset  int64
	IfRange string
}

// Body — тело ответа вместе с метаданными. Partial=true означает, что сервер
// прислал хвост начиная с Start, иначе в теле файл целиком.
type Body struct {
	io.ReadCloser
	Info    FileInfo
	Partial bool
	Start   int64
}

type Client interface {
	// Stat Получить метаданные файла через HEAD
	Stat(ctx context.Context, baseURL, path string) (FileInfo, error)
	// Get Скачать файл целиком или хвост с указанной позиции
	Get(ctx context.Context, baseURL string, req GetRequest) (*Body, error)
	// Download Скачать файл в локальный файл с докачкой
	Download(ctx context.Context, baseURL string, req DownloadRequest) (DownloadResult, error)
	// Health Проверить состояние сервера
	Health(ctx context.Context, baseURL string) (Health, error)
}

type httpClient struct {
	c        *http.Client
	progress io.Writer
}

// Option настраивает клиент.
type Option func(*httpClient)

// WithHTTPClient подменяет http.Client (таймауты, транспорт).
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) { h.c = c }
}

// WithProgress включает ASCII-индикатор скачивания в w.
func WithProgress(w io.Writer) Option {
	return func(h *httpClient) { h.progress = w }
}

// New создаёт HTTP-клиент по умолчанию.
func New(opts ...Option) Client {
	h := &httpClient{c: &http.Client{}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Stat запрашивает заголовки файла без тела.
func (h *httpClient) Stat(ctx context.Context, baseURL, path string) (FileInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, fileURL(baseURL, path), nil)
	if err != nil {
		return FileInfo{}, err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return FileInfo{}, err
	}
	defer resp.Body.Close()

	if err := statusError(http.MethodHead, resp); err != nil {
		return FileInfo{}, err
	}

	return parseInfo(resp, resp.ContentLength), nil
}

// Get скачивает файл. При Offset > 0 шлёт Range и, если задан, If-Range.
func (h *httpClient) Get(ctx context.Context, baseURL string, r GetRequest) (*Body, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL(baseURL, r.Path), nil)
	if err != nil {
		return nil, err
	}
	if r.Offset > 0 {
		req.Header.Set(staticproto.HeaderRange, staticproto.FormatRangeFrom(r.Offset))
		if r.IfRange != "" {
			req.Header.Set(staticproto.HeaderIfRange, r.IfRange)
		}
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return &Body{ReadCloser: resp.Body, Info: parseInfo(resp, resp.ContentLength)}, nil
	case http.StatusPartialContent:
		start, _, size, err := staticproto.ParseContentRange(resp.Header.Get(staticproto.HeaderContentRange))
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		if start != r.Offset {
			resp.Body.Close()
			return nil, fmt.Errorf("server resumed at %d, asked for %d", start, r.Offset)
		}
		return &Body{ReadCloser: resp.Body, Info: parseInfo(resp, size), Partial: true, Start: start}, nil
	default:
		defer resp.Body.Close()
		return nil, statusError(http.MethodGet, resp)
	}
}

func parseInfo(resp *http.Response, size int64) FileInfo {
	info := FileInfo{
		Size:         size,
		ETag:         resp.Header.Get(staticproto.HeaderETag),
		ContentType:  resp.Header.Get(staticproto.HeaderContentType),
		AcceptRanges: resp.Header.Get(staticproto.HeaderAcceptRanges) == staticproto.RangeUnit,
	}
	if info.Size < 0 {
		if v, err := strconv.ParseInt(resp.Header.Get(staticproto.HeaderContentLength), 10, 64); err == nil {
			info.Size = v
		}
	}
	if lm, err := http.ParseTime(resp.Header.Get(staticproto.HeaderLastModified)); err == nil {
		info.LastModified = lm
	}
	return info
}

func statusError(method string, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusRequestedRangeNotSatisfiable:
		return ErrRangeNotSatisfiable
	case resp.StatusCode >= http.StatusMultipleChoices:
		return fmt.Errorf("static %s failed: %s", method, resp.Status)
	}
	return nil
}

// fileURL экранирует каждый сегмент пути, сохраняя разделители.
func fileURL(baseURL, path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.Join(segments, "/")
}
