// Package metrics exposes Prometheus metrics for the console and for its calls
// to the storefront API.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MetricUpstreamRequestsTotal   = "storefront_upstream_requests_total"
	MetricUpstreamDurationSeconds = "storefront_upstream_request_duration_seconds"
	MetricHTTPRequestsTotal       = "storefront_http_requests_total"
	MetricHTTPDurationSeconds     = "storefront_http_request_duration_seconds"
)

// Recorder owns a private registry so tests can create as many as they like.
type Recorder struct {
	registry *prometheus.Registry

	upstreamTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	httpTotal        *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricUpstreamRequestsTotal,
			Help: "Requests sent to the storefront API",
		}, []string{"method", "collection", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricUpstreamDurationSeconds,
			Help:    "Latency of requests sent to the storefront API",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "collection"}),
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricHTTPRequestsTotal,
			Help: "Requests served by the console",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricHTTPDurationSeconds,
			Help:    "Latency of requests served by the console",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		r.upstreamTotal,
		r.upstreamDuration,
		r.httpTotal,
		r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRequest records one storefront API call. Transport failures carry
// the status label "error".
func (r *Recorder) ObserveRequest(method, path string, status int, elapsed time.Duration, err error) {
	collection := Collection(path)
	label := strconv.Itoa(status)
	if err != nil && status == 0 {
		label = "error"
	}
	r.upstreamTotal.WithLabelValues(method, collection, label).Inc()
	r.upstreamDuration.WithLabelValues(method, collection).Observe(elapsed.Seconds())
}

// ObserveHTTP records one request served by the console under its route pattern.
func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.httpTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Collection is the first segment of an API path, keeping label cardinality
// independent of record ids.
func Collection(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}
