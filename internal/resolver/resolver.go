// Package resolver превращает недоверенный путь запроса в абсолютный путь к обычному
// файлу, который гарантированно лежит внутри корня раздачи.
//
// Проверки идут в два слоя: сначала лексический отказ от сегментов "." и "..",
// затем сравнение канонического пути (после раскрытия symlink'ов) с каноническим корнем.
package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/yourname/static_lite/internal/models"
)

// maxIndexHops ограничивает переход директория → index-файл одной итерацией.
const maxIndexHops = 1

// Options задаёт политику разрешения путей.
type Options struct {
	// IndexFile пробуется для запросов к директории; пустое значение отключает политику.
	IndexFile string
	// AllowDotfiles разрешает сегменты, начинающиеся с точки.
	AllowDotfiles bool
}

// Resolver разрешает пути относительно фиксированного канонического корня.
// Состояния между запросами не хранит, поэтому безопасен для конкурентного использования.
type Resolver struct {
	root string
	opts Options
}

// New проверяет корень раздачи и возвращает резолвер.
// Отсутствующий корень считается ошибкой конфигурации, а не запроса.
func New(root string, opts Options) (*Resolver, error) {
	canon, err := CanonicalRoot(root)
	if err != nil {
		return nil, err
	}

	if opts.IndexFile != "" {
		if strings.ContainsAny(opts.IndexFile, `/\`) || opts.IndexFile == "." || opts.IndexFile == ".." {
			return nil, fmt.Errorf("invalid index file %q: must be a plain file name", opts.IndexFile)
		}
	}

	return &Resolver{root: canon, opts: opts}, nil
}

// CanonicalRoot возвращает абсолютный путь корня с раскрытыми symlink'ами.
func CanonicalRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", fmt.Errorf("serve root is empty")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("serve root %q: %w", root, err)
	}

	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("serve root %q: %w", root, err)
	}

	info, err := os.Stat(canon)
	if err != nil {
		return "", fmt.Errorf("serve root %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("serve root %q is not a directory", root)
	}

	return canon, nil
}

// Root возвращает канонический корень раздачи.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve разрешает путь запроса (уже без префикса монтирования, ещё в percent-encoded виде).
func (r *Resolver) Resolve(requestPath string) (models.ResolvedFile, error) {
	segments, err := r.segments(requestPath)
	if err != nil {
		return models.ResolvedFile{}, err
	}

	candidate := filepath.Join(append([]string{r.root}, segments...)...)

	return r.resolveCandidate(candidate, maxIndexHops)
}

// segments декодирует путь и лексически отбрасывает всё, что может увести за пределы корня.
func (r *Resolver) segments(requestPath string) ([]string, error) {
	decoded, err := url.PathUnescape(requestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformed, err)
	}
	if strings.IndexByte(decoded, 0) >= 0 {
		return nil, fmt.Errorf("%w: NUL byte in path", models.ErrMalformed)
	}

	trimmed := strings.TrimPrefix(decoded, "/")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return nil, nil
	}

	parts := strings.Split(trimmed, "/")
	for _, seg := range parts {
		if err := r.checkSegment(seg); err != nil {
			return nil, err
		}
	}

	return parts, nil
}

func (r *Resolver) checkSegment(seg string) error {
	switch {
	case seg == "":
		return fmt.Errorf("%w: empty path segment", models.ErrForbidden)
	case seg == "." || seg == "..":
		return fmt.Errorf("%w: dot segment %q", models.ErrForbidden, seg)
	case strings.ContainsRune(seg, '\\'):
		return fmt.Errorf("%w: backslash in segment %q", models.ErrForbidden, seg)
	case filepath.VolumeName(seg) != "":
		return fmt.Errorf("%w: volume name in segment %q", models.ErrForbidden, seg)
	case !r.opts.AllowDotfiles && strings.HasPrefix(seg, "."):
		return fmt.Errorf("%w: hidden segment %q", models.ErrForbidden, seg)
	}

	return nil
}

// resolveCandidate канонизирует кандидата, проверяет границу корня и тип файла.
func (r *Resolver) resolveCandidate(candidate string, hops int) (models.ResolvedFile, error) {
	canonical, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return models.ResolvedFile{}, statError(candidate, err)
	}

	if !within(r.root, canonical) {
		return models.ResolvedFile{}, fmt.Errorf("%w: %q escapes serve root", models.ErrForbidden, candidate)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return models.ResolvedFile{}, statError(candidate, err)
	}

	switch {
	case info.IsDir():
		if r.opts.IndexFile == "" || hops == 0 {
			return models.ResolvedFile{}, fmt.Errorf("%w: %q is a directory", models.ErrNotFound, candidate)
		}
		return r.resolveCandidate(filepath.Join(canonical, r.opts.IndexFile), hops-1)
	case !info.Mode().IsRegular():
		return models.ResolvedFile{}, fmt.Errorf("%w: %q is not a regular file (%s)", models.ErrForbidden, candidate, info.Mode().Type())
	}

	return models.ResolvedFile{
		Path:    canonical,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// within сравнивает префикс по границе разделителя: корень /var/www не принимает /var/wwwdata.
func within(root, path string) bool {
	if path == root {
		return true
	}

	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}

	return strings.HasPrefix(path, prefix)
}

func statError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return fmt.Errorf("%w: %q", models.ErrNotFound, path)
	}

	// EACCES и прочие сбои считаются серверной ошибкой, а не отсутствием файла.
	return fmt.Errorf("%w: %q: %v", models.ErrIO, path, err)
}
