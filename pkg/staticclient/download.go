package staticclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// DownloadRequest описывает скачивание Path в локальный файл Dest.
// ETag хранит валидатор, полученный при прошлой (прерванной) попытке. Без него
// уже скачанная часть не проверяема, и файл качается заново.
type DownloadRequest struct {
	Path string
	Dest string
	ETag string
}

type DownloadResult struct {
	Size    int64
	Written int64
	ETag    string
	Resumed bool
}

// Download качает файл с докачкой: если Dest уже содержит начало файла, шлёт
// Range с If-Range. 206 дописывает хвост, 200 означает, что файл на сервере
// изменился, и Dest перезаписывается целиком.
func (h *httpClient) Download(ctx context.Context, baseURL string, req DownloadRequest) (DownloadResult, error) {
	f, err := os.OpenFile(req.Dest, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return DownloadResult{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return DownloadResult{}, err
	}

	have := info.Size()
	if req.ETag == "" {
		have = 0
	}

	body, err := h.Get(ctx, baseURL, GetRequest{Path: req.Path, Offset: have, IfRange: req.ETag})
	if errors.Is(err, ErrRangeNotSatisfiable) {
		return h.finishComplete(ctx, baseURL, f, req, have)
	}
	if err != nil {
		return DownloadResult{}, err
	}

	start := int64(0)
	if body.Partial {
		start = body.Start
	}

	defer body.Close()

	if err := f.Truncate(start); err != nil {
		return DownloadResult{}, err
	}
	if _, err := f.Seek(start, io.SeekStart); err != nil {
		return DownloadResult{}, err
	}

	bar := newDownloadProgress(h.progress, fmt.Sprintf("Downloading %s", req.Path), start, body.Info.Size)
	n, err := io.Copy(f, withProgress(body.ReadCloser, bar))
	if err == nil && body.Info.Size >= 0 && start+n != body.Info.Size {
		err = fmt.Errorf("short download: have %d of %d bytes", start+n, body.Info.Size)
	}
	bar.done(err)

	return DownloadResult{
		Size:    body.Info.Size,
		Written: n,
		ETag:    body.Info.ETag,
		Resumed: body.Partial,
	}, err
}

// finishComplete обрабатывает 416 на докачке: если локальный файл уже совпадает с
// удалённым по размеру и ETag, скачивать нечего; иначе качаем заново.
func (h *httpClient) finishComplete(ctx context.Context, baseURL string, f *os.File, req DownloadRequest, have int64) (DownloadResult, error) {
	info, err := h.Stat(ctx, baseURL, req.Path)
	if err != nil {
		return DownloadResult{}, err
	}
	if info.Size == have && info.ETag == req.ETag {
		return DownloadResult{Size: have, ETag: info.ETag, Resumed: true}, nil
	}

	if err := f.Truncate(0); err != nil {
		return DownloadResult{}, err
	}
	req.ETag = ""
	return h.Download(ctx, baseURL, req)
}
