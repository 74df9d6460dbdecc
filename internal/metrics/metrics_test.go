package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection(t *testing.T) {
	tests := map[string]string{
		"/products":       "products",
		"/products/abc":   "products",
		"/users/login":    "users",
		"categories/c1/x": "categories",
		"/":               "root",
	}
	for in, want := range tests {
		assert.Equal(t, want, Collection(in), in)
	}
}

func TestRecorder_ObserveRequest(t *testing.T) {
	r := NewRecorder()

	r.ObserveRequest("GET", "/orders/o1", 200, 10*time.Millisecond, nil)
	r.ObserveRequest("GET", "/orders/o2", 200, 10*time.Millisecond, nil)
	r.ObserveRequest("PUT", "/orders/o1", 500, time.Millisecond, errors.New("boom"))
	r.ObserveRequest("GET", "/orders", 0, time.Millisecond, errors.New("refused"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.upstreamTotal.WithLabelValues("GET", "orders", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.upstreamTotal.WithLabelValues("PUT", "orders", "500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.upstreamTotal.WithLabelValues("GET", "orders", "error")))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.ObserveHTTP("GET", "/admin", 200, time.Millisecond)
	r.ObserveHTTP("GET", "", 404, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, MetricHTTPRequestsTotal))
	assert.Contains(t, body, `route="unmatched"`)
}
