package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe(http.MethodGet, "/api/v1/products", http.StatusOK, 25*time.Millisecond)
	m.Observe(http.MethodGet, "/api/v1/products", http.StatusOK, 30*time.Millisecond)

	count := testutil.CollectAndCount(reg, "http_requests_total")
	assert.Equal(t, 1, count)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe(http.MethodGet, "/x", http.StatusOK, time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.Observe(http.MethodGet, "", http.StatusOK, time.Millisecond)
}
