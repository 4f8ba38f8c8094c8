// cmd/worker-manager/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"procurement-workers/internal/catalog"
)

type readiness interface {
	Ready() bool
	Stats() catalog.Stats
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func newServeMux(cat readiness, zeebe healthChecker) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status, code := "healthy", http.StatusOK
		body := map[string]interface{}{"time": time.Now().UTC().Format(time.RFC3339)}

		if zeebe != nil {
			if err := zeebe.HealthCheck(r.Context()); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
				body["zeebe"] = err.Error()
			}
		}
		body["status"] = status
		writeJSON(w, code, body)
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		stats := cat.Stats()
		status, code := "ready", http.StatusOK
		if !cat.Ready() {
			status, code = "loading", http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]interface{}{
			"status":  status,
			"catalog": stats,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
