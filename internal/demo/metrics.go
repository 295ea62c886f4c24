package demo

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts demo server traffic on its own registry.
type Metrics struct {
	registry            *prometheus.Registry
	requestsTotal       *prometheus.CounterVec
	transactionsDeleted prometheus.Counter
	summaryShapes       *prometheus.CounterVec
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_demo_requests_total",
				Help: "Total number of requests handled by the demo server",
			},
			[]string{"method", "route", "status"},
		),
		transactionsDeleted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_demo_transactions_deleted_total",
				Help: "Total number of transactions deleted",
			},
		),
		summaryShapes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_demo_summary_shapes_total",
				Help: "Summaries served, by field spelling",
			},
			[]string{"shape"},
		),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) recordRequest(method, route string, status int) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) recordDelete() {
	m.transactionsDeleted.Inc()
}

func (m *Metrics) recordSummaryShape(shape string) {
	m.summaryShapes.WithLabelValues(shape).Inc()
}
