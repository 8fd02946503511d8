package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for approval decisions.
type Metrics struct {
	Decisions *prometheus.CounterVec
	Duration  prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wardaudit_approval_decisions_total",
			Help: "Approval attempts by outcome",
		}, []string{"outcome"}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wardaudit_approval_duration_seconds",
			Help:    "Duration of approval attempts including the post-approval refresh",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

func (m *Metrics) IncDecision(outcome string) {
	m.Decisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveDuration(start time.Time) {
	m.Duration.Observe(time.Since(start).Seconds())
}
