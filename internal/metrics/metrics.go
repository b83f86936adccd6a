// Package metrics exposes Prometheus collectors for checkout activity and the
// HTTP surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gearkiosk_transitions_total",
		Help: "Item transitions by logged action",
	}, []string{"action"})

	sweepDeletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gearkiosk_sweep_deleted_total",
		Help: "One-time records removed by cleanup, by kind",
	}, []string{"kind"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gearkiosk_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gearkiosk_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Sweep kinds.
const (
	KindStudent = "student"
	KindItem    = "item"
)

// ObserveTransition counts a committed item transition.
func ObserveTransition(action string) {
	transitionsTotal.WithLabelValues(action).Inc()
}

// ObserveSweep counts one-time records deleted by a cleanup pass.
func ObserveSweep(kind string, n int64) {
	if n <= 0 {
		return
	}
	sweepDeletedTotal.WithLabelValues(kind).Add(float64(n))
}

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
