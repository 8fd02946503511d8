package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for snapshot refreshes and cache reads.
type Metrics struct {
	WardRefreshDuration prometheus.Histogram
	CycleDuration       prometheus.Histogram
	RefreshFailures     *prometheus.CounterVec
	PersistFailures     prometheus.Counter
	CacheReads          *prometheus.CounterVec
	CachedWards         prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		WardRefreshDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wardaudit_ward_refresh_duration_seconds",
			Help:    "Duration of a single ward evaluation including fact gathering",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		CycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wardaudit_refresh_cycle_duration_seconds",
			Help:    "Duration of a full RefreshAll cycle",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		RefreshFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wardaudit_ward_refresh_failures_total",
			Help: "Ward refreshes that failed, by error code",
		}, []string{"code"}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "wardaudit_snapshot_persist_failures_total",
			Help: "Snapshots computed but not written to durable storage",
		}),
		CacheReads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wardaudit_snapshot_cache_reads_total",
			Help: "Snapshot reads by outcome (hit, miss, stale)",
		}, []string{"outcome"}),
		CachedWards: f.NewGauge(prometheus.GaugeOpts{
			Name: "wardaudit_snapshot_cached_wards",
			Help: "Number of wards with a cached snapshot",
		}),
	}
}

func (m *Metrics) ObserveWardRefresh(start time.Time) {
	m.WardRefreshDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveCycle(start time.Time) {
	m.CycleDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncRefreshFailure(code string) {
	m.RefreshFailures.WithLabelValues(code).Inc()
}

func (m *Metrics) IncPersistFailure() {
	m.PersistFailures.Inc()
}

func (m *Metrics) IncCacheRead(outcome string) {
	m.CacheReads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetCachedWards(n int) {
	m.CachedWards.Set(float64(n))
}
