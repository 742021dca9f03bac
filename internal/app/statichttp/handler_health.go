package statichttp

import (
	"encoding/json"
	"net/http"
	"os"
)

// healthStats — payload ответа /health.
type healthStats struct {
	OK   bool   `json:"ok"`
	Root string `json:"root"`
}

// health проверяет, что корень раздачи по-прежнему существует и является каталогом.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	stats := healthStats{Root: s.root}
	if info, err := os.Stat(s.root); err == nil && info.IsDir() {
		stats.OK = true
	}

	w.Header().Set("Content-Type", "application/json")
	if !stats.OK {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(stats); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
