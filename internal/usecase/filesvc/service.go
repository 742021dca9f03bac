package filesvc

import (
	"context"
	"io"
	"net/http"

	"github.com/yourname/static_lite/internal/models"
	"github.com/yourname/static_lite/internal/response"
)

// DefaultChunkSize задаёт размер буфера, которым окно файла передаётся клиенту.
const DefaultChunkSize = 32 << 10

type (
	// Resolver превращает путь запроса в безопасный путь внутри корня раздачи.
	Resolver interface {
		Resolve(requestPath string) (models.ResolvedFile, error)
	}

	// ResponseBuilder решает, какой ответ отправить для разрешённого файла.
	ResponseBuilder interface {
		Build(file models.ResolvedFile, cond response.Conditions) (response.Descriptor, error)
	}

	// Service объединяет разбор запроса и передачу тела.
	Service interface {
		Handle(ctx context.Context, requestPath string, header http.Header) (*Plan, error)
		Stream(ctx context.Context, plan *Plan, w io.Writer) (int64, error)
	}
)

type Deps struct {
	Resolver  Resolver
	Builder   ResponseBuilder
	ChunkSize int
}

type Files struct {
	Deps
}

// Plan — результат Handle: разрешённый файл и описание ответа.
type Plan struct {
	File       models.ResolvedFile
	Descriptor response.Descriptor
}

// New конструирует сервис раздачи с заданными зависимостями.
func New(deps Deps) *Files {
	if deps.ChunkSize <= 0 {
		deps.ChunkSize = DefaultChunkSize
	}
	return &Files{Deps: deps}
}

var _ Service = (*Files)(nil)

// Handle разрешает путь и строит описание ответа. Каждый вызов заново читает метаданные.
func (s *Files) Handle(ctx context.Context, requestPath string, header http.Header) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := s.Resolver.Resolve(requestPath)
	if err != nil {
		return nil, err
	}

	desc, err := s.Builder.Build(file, response.ParseConditions(header))
	if err != nil {
		return nil, err
	}

	return &Plan{File: file, Descriptor: desc}, nil
}
