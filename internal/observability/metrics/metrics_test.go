package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/urbanops/dataqual/pkg/models"
)

func TestObserveReport(t *testing.T) {
	m := New()

	report := models.NewReport("fact_taxi_daily", 100, []models.RuleResult{
		{Name: "a", Passed: true},
		{Name: "b", Passed: true},
		{Name: "c", Passed: false},
	})
	m.ObserveReport(report)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("fact_taxi_daily", "failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.checksTotal.WithLabelValues("fact_taxi_daily", "passed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checksTotal.WithLabelValues("fact_taxi_daily", "failed")))
	assert.InDelta(t, 66.67, testutil.ToFloat64(m.successRate.WithLabelValues("fact_taxi_daily")), 0.01)
}

func TestObserveReportSuccessOutcome(t *testing.T) {
	m := New()

	report := models.NewReport("clean", 10, []models.RuleResult{{Name: "a", Passed: true}})
	m.ObserveReport(report)
	m.ObserveReport(report)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("clean", "success")))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.successRate.WithLabelValues("clean")))
}

func TestReporterFailure(t *testing.T) {
	m := New()

	m.ReporterFailure("telegram")
	m.ReporterFailure("telegram")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reporterFailures.WithLabelValues("telegram")))
}
