package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/urbanops/dataqual/pkg/models"
)

// Metrics collects validation counters on a dedicated Prometheus registry
type Metrics struct {
	registry *prometheus.Registry

	runsTotal        *prometheus.CounterVec
	checksTotal      *prometheus.CounterVec
	successRate      *prometheus.GaugeVec
	reporterFailures *prometheus.CounterVec
}

// New creates a metrics collector with its own registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dataqual",
			Name:      "validation_runs_total",
			Help:      "Validation runs by suite and outcome",
		}, []string{"suite", "outcome"}),
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dataqual",
			Name:      "checks_total",
			Help:      "Individual rule evaluations by suite and result",
		}, []string{"suite", "result"}),
		successRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dataqual",
			Name:      "suite_success_rate",
			Help:      "Success rate of the most recent run per suite",
		}, []string{"suite"}),
		reporterFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dataqual",
			Name:      "reporter_failures_total",
			Help:      "Report delivery failures by reporter",
		}, []string{"reporter"}),
	}

	m.registry.MustRegister(m.runsTotal, m.checksTotal, m.successRate, m.reporterFailures)
	return m
}

// ObserveReport records the counters derived from one finished report
func (m *Metrics) ObserveReport(report *models.Report) {
	outcome := "success"
	if !report.IsSuccess() {
		outcome = "failure"
	}
	m.runsTotal.WithLabelValues(report.SuiteName, outcome).Inc()
	m.checksTotal.WithLabelValues(report.SuiteName, "passed").Add(float64(report.PassedCount()))
	m.checksTotal.WithLabelValues(report.SuiteName, "failed").Add(float64(report.FailedCount()))
	m.successRate.WithLabelValues(report.SuiteName).Set(report.SuccessRate())
}

// ReporterFailure counts one failed delivery for the named reporter
func (m *Metrics) ReporterFailure(reporter string) {
	m.reporterFailures.WithLabelValues(reporter).Inc()
}

// Handler exposes the registry in Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
