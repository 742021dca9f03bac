package staticclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrUnhealthy возвращается, когда сервер ответил, но корень раздачи недоступен.
var ErrUnhealthy = errors.New("static server is unhealthy")

var healthHTTPClient = &http.Client{Timeout: 2 * time.Second}

// Health — payload ответа /health.
type Health struct {
	OK   bool   `json:"ok"`
	Root string `json:"root"`
}

// Health опрашивает /health сервера. baseURL указывается без префикса монтирования.
func (h *httpClient) Health(ctx context.Context, baseURL string) (payload Health, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL(baseURL), nil)
	if err != nil {
		return Health{}, err
	}

	resp, err := healthHTTPClient.Do(req)
	if err != nil {
		return Health{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusServiceUnavailable:
	default:
		return Health{}, fmt.Errorf("health check failed: %s", resp.Status)
	}

	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Health{}, err
	}
	if !payload.OK {
		return payload, ErrUnhealthy
	}

	return payload, nil
}

func healthURL(base string) string {
	return strings.TrimRight(base, "/") + "/health"
}
