package freshproxy

import (
	"encoding/json"
	"net/http"

	"github.com/antonls/freshproxy/metrics"

	"github.com/go-chi/chi/v5"
)

// AdminHandler serves the observability endpoints: a health check on
// /healthz and the counter snapshot on /stats.
func AdminHandler(collector *metrics.Collector) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "up"})
	})
	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(collector.Snapshot())
	})
	return r
}
