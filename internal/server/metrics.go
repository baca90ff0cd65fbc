package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-jubilee/internal/config"
)

// Metrics holds the Prometheus collectors exposed on /metrics.
// Each instance owns its registry so tests and servers don't collide.
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	groupSize prometheus.Gauge
	refreshes *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: config.MetricRequestsTotal,
			Help: config.MetricRequestsHelp,
		}, []string{config.MetricLabelRoute, config.MetricLabelStatus}),
		groupSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: config.MetricGroupSize,
			Help: config.MetricGroupHelp,
		}),
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: config.MetricRefreshes,
			Help: config.MetricRefreshHelp,
		}, []string{config.MetricLabelOutcome}),
	}
}

// ObserveRefresh records one refresh. The group size only moves on success.
func (m *Metrics) ObserveRefresh(members int, err error) {
	if err != nil {
		m.refreshes.WithLabelValues(config.OutcomeError).Inc()
		return
	}
	m.refreshes.WithLabelValues(config.OutcomeSuccess).Inc()
	m.groupSize.Set(float64(members))
}

func (m *Metrics) incRequests(route string, status int) {
	m.requests.WithLabelValues(route, statusClass(status)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func statusClass(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
