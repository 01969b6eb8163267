package expectations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanops/dataqual/pkg/models"
)

func TestColumnExists(t *testing.T) {
	snap := taxiSnapshot(t)

	rule, err := NewColumnExists("total_fare")
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.True(t, result.Passed)
	assert.Equal(t, "column_exists(total_fare)", result.Name)
	assert.Equal(t, "total_fare", result.Column)
	assert.Equal(t, "column exists", result.Details)
}

func TestColumnExistsMissing(t *testing.T) {
	snap := taxiSnapshot(t)

	rule, err := NewColumnExists("tip_amount")
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.False(t, result.Passed)
	assert.Equal(t, "column not found", result.Details)
}

func TestColumnExistsEmptyName(t *testing.T) {
	_, err := NewColumnExists("")
	assert.Error(t, err)
}

func TestColumnNotNullClean(t *testing.T) {
	snap := taxiSnapshot(t)

	rule, err := NewColumnNotNull("date_key", 0)
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.True(t, result.Passed)
	assert.Equal(t, 0, result.ViolationCount)
}

func TestColumnNotNullWithinTolerance(t *testing.T) {
	// 1 null out of 4 rows is a fraction of 0.25
	snap := snapshotWithNulls(t)

	rule, err := NewColumnNotNull("avg_fare", 0.5)
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.True(t, result.Passed)
	assert.Equal(t, 1, result.ViolationCount)
}

func TestColumnNotNullExceedsTolerance(t *testing.T) {
	snap := snapshotWithNulls(t)

	rule, err := NewColumnNotNull("avg_fare", 0.1)
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.ViolationCount)
	assert.Contains(t, result.Details, "exceeds limit")
}

func TestColumnNotNullInvalidFraction(t *testing.T) {
	_, err := NewColumnNotNull("a", -0.1)
	assert.Error(t, err)

	_, err = NewColumnNotNull("a", 1.5)
	assert.Error(t, err)
}

func TestColumnNotNullMissingColumn(t *testing.T) {
	snap := taxiSnapshot(t)

	rule, err := NewColumnNotNull("missing", 0)
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.False(t, result.Passed)
	assert.Equal(t, "column does not exist", result.Details)
}

func TestValuesBetweenAllWithin(t *testing.T) {
	snap := taxiSnapshot(t)

	rule, err := NewColumnValuesBetween("pickup_zone_id", 1, 265)
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.True(t, result.Passed)
	require.NotNil(t, result.ObservedMin)
	require.NotNil(t, result.ObservedMax)
	assert.Equal(t, 4.0, *result.ObservedMin)
	assert.Equal(t, 132.0, *result.ObservedMax)
}

func TestValuesBetweenBoundsInclusive(t *testing.T) {
	snap, err := models.NewSnapshot(models.IntColumn("zone", []int64{1, 265}))
	require.NoError(t, err)

	rule, err := NewColumnValuesBetween("zone", 1, 265)
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.True(t, result.Passed)
}

func TestValuesBetweenViolation(t *testing.T) {
	snap, err := models.NewSnapshot(models.IntColumn("zone", []int64{0, 10, 300}))
	require.NoError(t, err)

	rule, err := NewColumnValuesBetween("zone", 1, 265)
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.False(t, result.Passed)
	assert.Equal(t, 2, result.ViolationCount)
	assert.Equal(t, 0.0, *result.ObservedMin)
	assert.Equal(t, 300.0, *result.ObservedMax)
}

func TestValuesBetweenIgnoresNulls(t *testing.T) {
	snap := snapshotWithNulls(t)

	rule, err := NewColumnValuesBetween("avg_fare", 1, 500)
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.True(t, result.Passed)
	assert.Equal(t, 0, result.ViolationCount)
}

func TestValuesBetweenAllNullColumn(t *testing.T) {
	snap, err := models.NewSnapshot(
		models.NullableFloatColumn("fare", []*float64{nil, nil, nil}),
	)
	require.NoError(t, err)

	rule, err := NewColumnValuesBetween("fare", 1, 500)
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.True(t, result.Passed)
	assert.Nil(t, result.ObservedMin)
	assert.Nil(t, result.ObservedMax)
	assert.Equal(t, "no non-null values to check", result.Details)
}

func TestValuesBetweenNonNumericColumn(t *testing.T) {
	snap, err := models.NewSnapshot(models.StringColumn("city", []string{"nyc"}))
	require.NoError(t, err)

	rule, err := NewColumnValuesBetween("city", 0, 10)
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.False(t, result.Passed)
	assert.Equal(t, "column is not numeric", result.Details)
}

func TestValuesBetweenInvertedRange(t *testing.T) {
	_, err := NewColumnValuesBetween("fare", 500, 1)
	assert.Error(t, err)
}

func TestValuesPositive(t *testing.T) {
	snap := taxiSnapshot(t)

	rule, err := NewColumnValuesPositive("total_fare")
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.True(t, result.Passed)
}

func TestValuesPositiveZeroFails(t *testing.T) {
	snap, err := models.NewSnapshot(models.FloatColumn("fare", []float64{10, 0, -5}))
	require.NoError(t, err)

	rule, err := NewColumnValuesPositive("fare")
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.False(t, result.Passed)
	assert.Equal(t, 2, result.ViolationCount)
	assert.Contains(t, result.Details, "non-positive")
}

func TestValuesGreaterThan(t *testing.T) {
	snap, err := models.NewSnapshot(models.FloatColumn("distance", []float64{0.5, 1.2, 3.0}))
	require.NoError(t, err)

	rule, err := NewColumnValuesGreaterThan("distance", 0)
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.True(t, result.Passed)
}

func TestValuesGreaterThanExclusive(t *testing.T) {
	// The threshold itself does not count as greater
	snap, err := models.NewSnapshot(models.FloatColumn("distance", []float64{5.0, 6.0}))
	require.NoError(t, err)

	rule, err := NewColumnValuesGreaterThan("distance", 5.0)
	require.NoError(t, err)

	result := rule.Evaluate(snap)
	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.ViolationCount)
}

func TestRuleEvaluationIdempotent(t *testing.T) {
	snap := taxiSnapshot(t)

	rule, err := NewColumnValuesBetween("avg_fare", 1, 500)
	require.NoError(t, err)

	first := rule.Evaluate(snap)
	second := rule.Evaluate(snap)
	assert.Equal(t, first, second)
}

// taxiSnapshot builds a small clean fact table used across rule tests
func taxiSnapshot(t *testing.T) *models.Snapshot {
	t.Helper()
	snap, err := models.NewSnapshot(
		models.IntColumn("date_key", []int64{20251001, 20251001, 20251002, 20251002}),
		models.IntColumn("pickup_zone_id", []int64{132, 4, 88, 45}),
		models.IntColumn("dropoff_zone_id", []int64{45, 88, 4, 132}),
		models.IntColumn("total_trips", []int64{120, 85, 40, 210}),
		models.FloatColumn("total_fare", []float64{3500.5, 2100.0, 950.75, 6200.25}),
		models.FloatColumn("avg_fare", []float64{29.17, 24.71, 23.77, 29.52}),
	)
	require.NoError(t, err)
	return snap
}

// snapshotWithNulls has one null avg_fare out of four rows
func snapshotWithNulls(t *testing.T) *models.Snapshot {
	t.Helper()
	a, b, c := 25.5, 30.1, 22.8
	snap, err := models.NewSnapshot(
		models.IntColumn("date_key", []int64{20251001, 20251001, 20251002, 20251002}),
		models.NullableFloatColumn("avg_fare", []*float64{&a, nil, &b, &c}),
	)
	require.NoError(t, err)
	return snap
}
