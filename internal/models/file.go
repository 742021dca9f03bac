package models

import (
	"path/filepath"
	"time"
)

// ResolvedFile описывает файл, который гарантированно лежит внутри корня раздачи.
// Метаданные снимаются заново на каждый запрос и нигде не кешируются.
type ResolvedFile struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Name возвращает базовое имя файла (используется для выбора MIME-типа).
func (f ResolvedFile) Name() string {
	return filepath.Base(f.Path)
}
