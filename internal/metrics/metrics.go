// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// LinksCreatedTotal counts short links created.
	LinksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "links_created_total",
			Help: "Total number of short links created",
		},
	)

	// RedirectsTotal counts redirects served.
	RedirectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redirects_total",
			Help: "Total number of redirects served",
		},
	)

	// AuthFailuresTotal counts rejected PIN checks.
	AuthFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total number of failed PIN checks",
		},
	)

	// AllocationRetriesTotal counts identifier candidates discarded on collision.
	AllocationRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "allocation_retries_total",
			Help: "Total number of identifier candidates discarded due to collision",
		},
	)

	// StoreOpDuration measures store operation latency.
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_op_duration_seconds",
			Help:    "Link store operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records an HTTP request metric.
func RecordRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordLinkCreated records a link creation.
func RecordLinkCreated() {
	LinksCreatedTotal.Inc()
}

// RecordRedirect records a served redirect.
func RecordRedirect() {
	RedirectsTotal.Inc()
}

// RecordAuthFailure records a rejected PIN check.
func RecordAuthFailure() {
	AuthFailuresTotal.Inc()
}

// RecordAllocationRetry records a discarded identifier candidate.
func RecordAllocationRetry() {
	AllocationRetriesTotal.Inc()
}

// RecordStoreOp records the duration of a store operation started at start.
func RecordStoreOp(operation string, start time.Time) {
	StoreOpDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
