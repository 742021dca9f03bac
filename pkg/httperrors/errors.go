package httperrors

import (
	"errors"
	"net/http"

	"github.com/yourname/static_lite/internal/models"
)

// Write переводит ошибку ядра в HTTP-статус без тела: запрет по обходу корня
// и отсутствие файла неразличимы для клиента.
func Write(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Length", "0")
	w.WriteHeader(Status(err))
}

// Status возвращает статус для ошибки. Всё, что не является отказом по запросу,
// включая истёкший контекст, считается сбоем сервера.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrMalformed):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrForbidden):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
