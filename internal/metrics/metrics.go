// Package metrics holds Prometheus instruments used across the backend.
// All collectors are registered with the global registry, so importing
// this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Cumulative number of HTTP requests by method and status.",
		}, []string{"method", "status"})

	RequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distribution.",
			Buckets: prometheus.DefBuckets,
		})

	SlugConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "slug_conflicts_total",
			Help: "Cumulative number of slug allocation retries after unique-index conflicts.",
		})

	OrdersCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Cumulative number of purchase requests submitted.",
		})
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		SlugConflictsTotal,
		OrdersCreatedTotal,
	)
}

// statusRecorder captures the response status for the metrics middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Middleware instruments every request with a counter and a latency
// histogram.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		RequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		RequestDuration.Observe(time.Since(start).Seconds())
	})
}
