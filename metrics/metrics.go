// Package metrics exposes Prometheus collectors for the HTTP surface and the
// reservation workflow.
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
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservations_http_requests_total",
		Help: "Total HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reservations_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	StatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservations_status_transitions_total",
		Help: "Reservation status changes by origin and target status",
	}, []string{"from", "to"})

	RejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservations_workflow_rejections_total",
		Help: "Requests rejected by validation or business rules, by error kind",
	}, []string{"kind"})

	EventPublishFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservations_event_publish_failures_total",
		Help: "Domain events that could not be published, by routing key",
	}, []string{"key"})
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncTransition records a reservation status change.
func IncTransition(from, to string) {
	if from == "" {
		from = "none"
	}
	StatusTransitionsTotal.WithLabelValues(from, to).Inc()
}

// IncRejection records a request refused with the given error kind.
func IncRejection(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	RejectionsTotal.WithLabelValues(kind).Inc()
}

// IncPublishFailure records an event that could not be delivered.
func IncPublishFailure(key string) {
	EventPublishFailuresTotal.WithLabelValues(key).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
