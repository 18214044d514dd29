package api

import (
	"net/http"
	"testing"

	"github.com/felixgeelhaar/taskrank/pkg/observability"
	"github.com/stretchr/testify/assert"
)

func TestRequestMetrics(t *testing.T) {
	srv := newTestServer(t)
	metrics := observability.NewInMemoryMetrics()
	srv.SetMetrics(metrics)

	doRequest(t, srv, http.MethodGet, "/health", nil)
	doRequest(t, srv, http.MethodGet, "/health", nil)

	count := metrics.GetCounter(observability.MetricOperationTotal,
		observability.T("operation", "GET /health"))
	assert.Equal(t, int64(2), count)

	timings := metrics.GetTimings(observability.MetricOperationDuration,
		observability.T("operation", "GET /health"))
	assert.Len(t, timings, 2)
}

func TestUnknownRouteIs404(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
