package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	audit "wardaudit/pkg/platform/audit"
)

// Metrics holds Prometheus metrics for audit emission.
type Metrics struct {
	EventsEmitted   *prometheus.CounterVec
	PersistFailures prometheus.Counter
	PersistDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EventsEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wardaudit_audit_events_emitted_total",
			Help: "Audit events persisted, by category",
		}, []string{"category"}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "wardaudit_audit_persist_failures_total",
			Help: "Audit events that could not be persisted",
		}),
		PersistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wardaudit_audit_persist_duration_seconds",
			Help:    "Time to persist one audit event",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncEventsEmitted(category audit.EventCategory) {
	m.EventsEmitted.WithLabelValues(string(category)).Inc()
}

func (m *Metrics) IncPersistFailures() {
	m.PersistFailures.Inc()
}

func (m *Metrics) ObservePersistDuration(seconds float64) {
	m.PersistDuration.Observe(seconds)
}
