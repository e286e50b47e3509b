package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for session metrics. Auth failures use their error code.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// SessionOperations counts SessionManager calls by operation and outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var SessionOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "branchauth_session_operations_total",
		Help: "Total number of session operations",
	},
	[]string{"operation", "outcome"},
)

// SessionOperationDuration observes SessionManager latency.
var SessionOperationDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "branchauth_session_operation_duration_seconds",
		Help:    "Session operation duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// RefreshHashesCleared counts refresh hashes dropped by housekeeping.
var RefreshHashesCleared = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "branchauth_refresh_hashes_cleared_total",
		Help: "Total number of expired refresh token hashes cleared by housekeeping",
	},
)

// RegisterMetrics registers service metrics with reg. Panics if registration
// fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(SessionOperations)
	reg.MustRegister(SessionOperationDuration)
	reg.MustRegister(RefreshHashesCleared)
}

func recordOperation(operation, outcome string, duration time.Duration) {
	SessionOperations.WithLabelValues(operation, outcome).Inc()
	SessionOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
