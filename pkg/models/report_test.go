package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReport(t *testing.T) {
	results := []RuleResult{
		{Name: "column_exists(a)", Column: "a", Passed: true, Details: "column exists"},
		{Name: "values_positive(b)", Column: "b", Passed: false, Details: "2 non-positive values found"},
	}

	report := NewReport("test_suite", 100, results)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "test_suite", report.SuiteName)
	assert.Equal(t, 100, report.RowCount)
	assert.WithinDuration(t, time.Now().UTC(), report.Timestamp, 5*time.Second)
	assert.Len(t, report.Results, 2)
}

func TestReportCounts(t *testing.T) {
	report := NewReport("counts", 10, []RuleResult{
		{Name: "a", Passed: true},
		{Name: "b", Passed: false},
		{Name: "c", Passed: true},
		{Name: "d", Passed: false},
	})

	assert.Equal(t, 4, report.TotalChecks())
	assert.Equal(t, 2, report.PassedCount())
	assert.Equal(t, 2, report.FailedCount())
	assert.Equal(t, 50.0, report.SuccessRate())
	assert.False(t, report.IsSuccess())
}

func TestReportSuccessRateEmpty(t *testing.T) {
	report := NewReport("empty", 0, nil)

	assert.Equal(t, 0.0, report.SuccessRate())
	assert.True(t, report.IsSuccess())
	assert.Equal(t, 0, report.TotalChecks())
}

func TestReportAllPassed(t *testing.T) {
	report := NewReport("green", 5, []RuleResult{
		{Name: "a", Passed: true},
		{Name: "b", Passed: true},
	})

	assert.Equal(t, 100.0, report.SuccessRate())
	assert.True(t, report.IsSuccess())
	assert.Empty(t, report.FailedResults())
}

func TestReportFailedResultsOrder(t *testing.T) {
	report := NewReport("order", 5, []RuleResult{
		{Name: "first", Passed: false},
		{Name: "second", Passed: true},
		{Name: "third", Passed: false},
	})

	failed := report.FailedResults()
	require.Len(t, failed, 2)
	assert.Equal(t, "first", failed[0].Name)
	assert.Equal(t, "third", failed[1].Name)
}

func TestReportDocument(t *testing.T) {
	report := NewReport("doc_suite", 42, []RuleResult{
		{Name: "column_exists(x)", Column: "x", Passed: true, Details: "column exists"},
		{Name: "not_null(y)", Column: "y", Passed: false, Details: "3 null values found"},
	})

	doc := report.Document()

	assert.Equal(t, report.ID, doc["report_id"])
	assert.Equal(t, "doc_suite", doc["suite_name"])
	assert.Equal(t, 42, doc["row_count"])
	assert.Equal(t, 2, doc["total_checks"])
	assert.Equal(t, 1, doc["passed"])
	assert.Equal(t, 1, doc["failed"])
	assert.Equal(t, 50.0, doc["success_rate"])
	assert.Equal(t, false, doc["is_success"])

	results, ok := doc["results"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, results, 2)
	assert.Equal(t, "column_exists(x)", results[0]["name"])
	assert.Equal(t, "3 null values found", results[1]["details"])
}

func TestSnapshotConstruction(t *testing.T) {
	snap, err := NewSnapshot(
		IntColumn("id", []int64{1, 2, 3}),
		FloatColumn("fare", []float64{10.5, 20.0, 7.25}),
	)
	require.NoError(t, err)

	assert.Equal(t, 3, snap.RowCount())
	assert.Equal(t, 2, snap.ColumnCount())
	assert.Equal(t, []string{"id", "fare"}, snap.ColumnNames())
	assert.True(t, snap.HasColumn("fare"))
	assert.False(t, snap.HasColumn("tip"))
}

func TestSnapshotLengthMismatch(t *testing.T) {
	_, err := NewSnapshot(
		IntColumn("a", []int64{1, 2}),
		IntColumn("b", []int64{1, 2, 3}),
	)
	assert.Error(t, err)
}

func TestSnapshotDuplicateColumn(t *testing.T) {
	_, err := NewSnapshot(
		IntColumn("a", []int64{1}),
		FloatColumn("a", []float64{1.0}),
	)
	assert.Error(t, err)
}

func TestNullableFloatColumn(t *testing.T) {
	v := 4.2
	col := NullableFloatColumn("pm25", []*float64{&v, nil, &v})

	assert.Equal(t, 1, col.NullCount())
	assert.Equal(t, []float64{4.2, 4.2}, col.NumericValues())
}
