package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics, labelled by route template rather than raw path
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AI service calls
	ChatUpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_upstream_requests_total",
			Help: "Total number of calls to the AI service",
		},
		[]string{"endpoint", "outcome"},
	)

	ChatWebsocketSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_ws_sessions_active",
			Help: "Number of open chat websocket sessions",
		},
	)
)

// Upstream call outcomes
const (
	OutcomeSuccess      = "success"
	OutcomeUpstreamFail = "upstream_error"
	OutcomeTransport    = "transport_error"
)

// RecordRequest records one served HTTP request
func RecordRequest(method, route, status string, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordUpstream records one call to the AI service
func RecordUpstream(endpoint, outcome string) {
	ChatUpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
}

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}
