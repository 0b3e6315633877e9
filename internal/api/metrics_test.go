package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsRecordsMatchedPattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(HTTPMetricsOptions{Registerer: reg})
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/gear/{id}", func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "Gear item not found")
	})
	handler := m.Middleware(mux)

	for _, path := range []string{"/api/gear/a", "/api/gear/b", "/nowhere"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "GET /api/gear/{id}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Duration))
}

func TestNewHTTPMetricsReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewHTTPMetrics(HTTPMetricsOptions{Registerer: reg})
	require.NoError(t, err)
	second, err := NewHTTPMetrics(HTTPMetricsOptions{Registerer: reg})
	require.NoError(t, err)

	assert.Same(t, first.Requests, second.Requests)
	assert.Same(t, first.Duration, second.Duration)
}

func TestNilHTTPMetricsPassesThrough(t *testing.T) {
	var m *HTTPMetrics
	called := false
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.True(t, called)
}
