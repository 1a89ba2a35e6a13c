// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the process-wide registry served by Handler.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		ModelCallDuration, ModelCallsTotal,
		ActivityRecordsTotal, ActivityLogLength,
	)
}

// Outcome labels for ModelCallsTotal.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// ModelCallDuration records model round-trip latency per contract operation.
var ModelCallDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "monitize_model_call_duration_seconds",
		Help:    "Latency of generative model calls in seconds.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ModelCallsTotal counts contract operations by outcome. Rejected means the
// input guard stopped the call before it reached the model.
var ModelCallsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "monitize_model_calls_total",
		Help: "Contract operations by outcome.",
	},
	[]string{"operation", "outcome"},
)

// ActivityRecordsTotal counts appended audit entries.
var ActivityRecordsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "monitize_activity_records_total",
		Help: "Audit entries appended to the activity log.",
	},
	[]string{"action_type", "content_source"},
)

// ActivityLogLength records the length of a log after each append. It has
// no per-learner label so the series count stays fixed.
var ActivityLogLength = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "monitize_activity_log_length",
		Help:    "Entries in an activity log after an append.",
		Buckets: []float64{1, 10, 50, 100, 250, 500, 750, 1000},
	},
)

// ObserveModelCall records one finished model call.
func ObserveModelCall(operation, outcome string, elapsed time.Duration) {
	ModelCallsTotal.WithLabelValues(operation, outcome).Inc()
	if outcome != OutcomeRejected {
		ModelCallDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
