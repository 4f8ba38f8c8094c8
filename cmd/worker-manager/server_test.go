// cmd/worker-manager/server_test.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-workers/internal/catalog"
)

type stubCatalog struct {
	ready bool
	stats catalog.Stats
}

func (s stubCatalog) Ready() bool          { return s.ready }
func (s stubCatalog) Stats() catalog.Stats { return s.stats }

type stubZeebe struct {
	err error
}

func (s stubZeebe) HealthCheck(ctx context.Context) error { return s.err }

func get(t *testing.T, mux *http.ServeMux, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("loading", func(t *testing.T) {
		mux := newServeMux(stubCatalog{}, nil)

		rec, body := get(t, mux, "/ready")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "loading", body["status"])
	})

	t.Run("ready", func(t *testing.T) {
		mux := newServeMux(stubCatalog{ready: true, stats: catalog.Stats{Records: 12, Seeds: 2}}, nil)

		rec, body := get(t, mux, "/ready")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", body["status"])
		stats := body["catalog"].(map[string]interface{})
		assert.EqualValues(t, 12, stats["records"])
		assert.EqualValues(t, 2, stats["seeds"])
	})
}

func TestHealthEndpoint(t *testing.T) {
	rec, body := get(t, newServeMux(stubCatalog{}, stubZeebe{}), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])

	rec, body = get(t, newServeMux(stubCatalog{}, stubZeebe{err: errors.New("gateway unreachable")}), "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "gateway unreachable", body["zeebe"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec, _ := get(t, newServeMux(stubCatalog{}, nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "procurement_catalog_records")
}
