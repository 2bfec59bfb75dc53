package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ActivityRecorded    prometheus.Counter
	ActivityLogFailures prometheus.Counter
	PermissionDenials   *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
}

// New registers all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers all metrics on the given registerer. Tests pass a fresh
// prometheus.NewRegistry so parallel suites don't collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActivityRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "opsdesk_activity_entries_recorded_total",
			Help: "Total number of activity log entries recorded",
		}),
		ActivityLogFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "opsdesk_activity_log_failures_total",
			Help: "Total number of activity log appends that failed and were swallowed",
		}),
		PermissionDenials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "opsdesk_permission_denials_total",
			Help: "Total number of permission checks that returned false at a gate",
		}, []string{"token"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "opsdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
}
