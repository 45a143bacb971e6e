package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtside_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "courtside_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	OutboxEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtside_outbox_enqueued_total",
			Help: "Notification events written to the outbox",
		},
		[]string{"type"},
	)

	OutboxDispatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "courtside_outbox_dispatched_total",
			Help: "Outbox events delivered as notifications",
		},
	)

	OutboxFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "courtside_outbox_failures_total",
			Help: "Outbox delivery attempts that failed",
		},
	)

	OutboxPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "courtside_outbox_pending",
			Help: "Undelivered outbox events seen by the last dispatch run",
		},
	)

	XPAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "courtside_xp_awarded_total",
			Help: "XP granted for logged training sessions",
		},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtside_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordAPIRequest records one finished request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
