package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP-level Prometheus metrics shared by every router.
type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

// NewRegistry returns a registry preloaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New creates and registers the HTTP metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EndpointLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wardaudit_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route pattern",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wardaudit_http_requests_total",
			Help: "Total HTTP requests by route pattern and status",
		}, []string{"method", "route", "status"}),
	}
}

// ObserveEndpointLatency records a request duration for the route.
func (m *Metrics) ObserveEndpointLatency(method, route string, seconds float64) {
	m.EndpointLatency.WithLabelValues(method, route).Observe(seconds)
}

// IncrementRequests counts a finished request.
func (m *Metrics) IncrementRequests(method, route, status string) {
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
