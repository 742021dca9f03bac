package statichttp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/yourname/static_lite/internal/response"
	"github.com/yourname/static_lite/pkg/httperrors"
)

// getFile обслуживает GET и HEAD: разрешает путь, строит описание ответа и передаёт окно файла.
func (s *Server) getFile(w http.ResponseWriter, r *http.Request) {
	plan, err := s.Files.Handle(r.Context(), s.requestPath(r), r.Header)
	if err != nil {
		s.logReject(r, err)
		httperrors.Write(w, err)
		return
	}

	cw := &committingWriter{ResponseWriter: w, desc: plan.Descriptor}
	if r.Method == http.MethodHead || !plan.Descriptor.HasBody() || plan.Descriptor.Length == 0 {
		cw.commit()
		return
	}

	n, err := s.Files.Stream(r.Context(), plan, cw)
	if err == nil {
		return
	}

	// До первого байта ещё можно ответить ошибкой, после остаётся только оборвать соединение.
	if !cw.committed {
		s.logReject(r, err)
		httperrors.Write(w, err)
		return
	}

	s.log.Warn().
		Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Int64("sent", n).
		Int64("want", plan.Descriptor.Length).
		Msg("stream aborted")
	panic(http.ErrAbortHandler)
}

// requestPath отрезает префикс монтирования от ещё не декодированного пути.
// chi.URLParam не подходит: он берёт RawPath или Path в зависимости от запроса,
// и путь мог бы декодироваться дважды. Поэтому и префикс сравнивается в экранированном виде.
func (s *Server) requestPath(r *http.Request) string {
	return strings.TrimPrefix(r.URL.EscapedPath(), s.escapedMount)
}

func (s *Server) logReject(r *http.Request, err error) {
	if ctxErr := r.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return
	}
	s.log.Debug().
		Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.EscapedPath()).
		Msg("request rejected")
}

// committingWriter откладывает запись статуса и заголовков до первого байта тела.
type committingWriter struct {
	http.ResponseWriter
	desc      response.Descriptor
	committed bool
}

func (c *committingWriter) commit() {
	if c.committed {
		return
	}
	c.committed = true

	h := c.ResponseWriter.Header()
	for k, vs := range c.desc.Header {
		h[k] = append([]string(nil), vs...)
	}
	c.ResponseWriter.WriteHeader(c.desc.Status)
}

func (c *committingWriter) Write(p []byte) (int, error) {
	c.commit()
	return c.ResponseWriter.Write(p)
}
