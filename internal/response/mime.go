package response

import (
	"path/filepath"
	"strings"

	"github.com/yourname/static_lite/pkg/staticproto"
)

// builtinTypes: расширение → MIME. Содержимое файла не анализируется.
var builtinTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".htm":   "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "text/javascript; charset=utf-8",
	".mjs":   "text/javascript; charset=utf-8",
	".json":  "application/json",
	".map":   "application/json",
	".xml":   "application/xml",
	".txt":   "text/plain; charset=utf-8",
	".md":    "text/markdown; charset=utf-8",
	".csv":   "text/csv; charset=utf-8",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".avif":  "image/avif",
	".ico":   "image/x-icon",
	".pdf":   "application/pdf",
	".zip":   "application/zip",
	".gz":    "application/gzip",
	".tar":   "application/x-tar",
	".wasm":  "application/wasm",
	".mp3":   "audio/mpeg",
	".ogg":   "audio/ogg",
	".wav":   "audio/wav",
	".mp4":   "video/mp4",
	".webm":  "video/webm",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
}

// MimeTable выбирает Content-Type по расширению файла.
type MimeTable struct {
	defaultType string
	types       map[string]string
}

// NewMimeTable объединяет встроенную таблицу с переопределениями из конфигурации.
// Ключи переопределений нормализуются: регистр не важен, точка в начале необязательна.
func NewMimeTable(defaultType string, overrides map[string]string) *MimeTable {
	if strings.TrimSpace(defaultType) == "" {
		defaultType = staticproto.DefaultMimeType
	}

	types := make(map[string]string, len(builtinTypes)+len(overrides))
	for ext, typ := range builtinTypes {
		types[ext] = typ
	}
	for ext, typ := range overrides {
		ext = normalizeExt(ext)
		typ = strings.TrimSpace(typ)
		if ext == "" || typ == "" {
			continue
		}
		types[ext] = typ
	}

	return &MimeTable{defaultType: defaultType, types: types}
}

// Lookup возвращает MIME-тип для имени файла либо тип по умолчанию.
func (m *MimeTable) Lookup(name string) string {
	if typ, ok := m.types[strings.ToLower(filepath.Ext(name))]; ok {
		return typ
	}
	return m.defaultType
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
