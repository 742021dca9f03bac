package statichttp

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/yourname/static_lite/internal/config"
	"github.com/yourname/static_lite/internal/resolver"
	"github.com/yourname/static_lite/internal/response"
	"github.com/yourname/static_lite/internal/usecase/filesvc"
)

// Server serves files below the configured root over HTTP.
type Server struct {
	Files filesvc.Service
	Cfg   *config.Config

	root  string
	mount string

	// escapedMount — mount в том виде, в каком он приходит в EscapedPath запроса.
	escapedMount string
	log          zerolog.Logger
}

// NewServer проверяет конфигурацию, собирает сервис раздачи и роутер.
func NewServer(cfg *config.Config, logger zerolog.Logger) (http.Handler, *Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	res, err := resolver.New(cfg.Root, resolver.Options{
		IndexFile:     cfg.IndexFile,
		AllowDotfiles: cfg.AllowDotfiles,
	})
	if err != nil {
		return nil, nil, err
	}

	files := filesvc.New(filesvc.Deps{
		Resolver:  res,
		Builder:   response.NewBuilder(response.NewMimeTable(cfg.DefaultMimeType, cfg.MimeOverrides)),
		ChunkSize: cfg.ChunkSize,
	})

	mount := strings.TrimSuffix(cfg.MountPrefix, "/")
	srv := &Server{
		Files:        files,
		Cfg:          cfg,
		root:         res.Root(),
		mount:        mount,
		escapedMount: (&url.URL{Path: mount}).EscapedPath(),
		log:          logger,
	}

	return srv.routes(), srv, nil
}

// Root возвращает канонический корень раздачи (после разворота симлинков).
func (s *Server) Root() string { return s.root }

// routes регистрирует раздачу файлов под префиксом монтирования и health-check.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)

	files := func(fr chi.Router) {
		if h := corsHandler(s.Cfg.AllowedOrigins); h != nil {
			fr.Use(h)
		}
		if s.Cfg.MaxInFlight > 0 {
			fr.Use(middleware.Throttle(s.Cfg.MaxInFlight))
		}
		fr.Get("/*", s.getFile)
		fr.Head("/*", s.getFile)
	}

	// При mount_prefix "/" файлы висят на корне, а /health остаётся служебным маршрутом.
	if s.mount == "" {
		r.Group(files)
	} else {
		r.Route(s.mount, files)
	}

	return r
}
