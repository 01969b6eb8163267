package loaders

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanops/dataqual/pkg/models"
)

func TestCSVLoader(t *testing.T) {
	path := writeCSV(t, "trips.csv",
		"date_key,pickup_zone_id,avg_fare,city\n"+
			"20251001,132,29.17,Manhattan\n"+
			"20251002,4,,Queens\n"+
			"20251003,88,23.77,Brooklyn\n")

	loader := NewCSVLoader(path, []ColumnSpec{
		{Name: "date_key", Kind: models.KindInt},
		{Name: "pickup_zone_id", Kind: models.KindInt},
		{Name: "avg_fare", Kind: models.KindFloat},
		{Name: "city", Kind: models.KindString},
	}, quietLogger())

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, snap.RowCount())
	assert.Equal(t, 4, snap.ColumnCount())

	fare, ok := snap.Column("avg_fare")
	require.True(t, ok)
	assert.Equal(t, 1, fare.NullCount())
	assert.Equal(t, []float64{29.17, 23.77}, fare.NumericValues())

	city, ok := snap.Column("city")
	require.True(t, ok)
	assert.Equal(t, "Queens", city.Values[1].Str)
}

func TestCSVLoaderUnparsableNumericBecomesNull(t *testing.T) {
	path := writeCSV(t, "bad.csv",
		"fare\n10.5\nnot-a-number\n7.0\n")

	loader := NewCSVLoader(path, []ColumnSpec{
		{Name: "fare", Kind: models.KindFloat},
	}, quietLogger())

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)

	fare, _ := snap.Column("fare")
	assert.Equal(t, 1, fare.NullCount())
	assert.Equal(t, []float64{10.5, 7.0}, fare.NumericValues())
}

func TestCSVLoaderMissingFile(t *testing.T) {
	loader := NewCSVLoader("/nonexistent/trips.csv", []ColumnSpec{
		{Name: "fare", Kind: models.KindFloat},
	}, quietLogger())

	_, err := loader.Load(context.Background())
	assert.Error(t, err)
}

func TestCSVLoaderMissingColumn(t *testing.T) {
	path := writeCSV(t, "partial.csv", "a\n1\n")

	loader := NewCSVLoader(path, []ColumnSpec{
		{Name: "b", Kind: models.KindFloat},
	}, quietLogger())

	_, err := loader.Load(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSampleLoaderDeterministic(t *testing.T) {
	loader := NewSampleLoader(quietLogger())

	first, err := loader.Load(context.Background())
	require.NoError(t, err)
	second, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1000, first.RowCount())
	assert.Equal(t, first.ColumnNames(), second.ColumnNames())

	fareA, _ := first.Column("total_fare")
	fareB, _ := second.Column("total_fare")
	assert.Equal(t, fareA.Values, fareB.Values)
}

func TestSampleLoaderShape(t *testing.T) {
	loader := NewSampleLoader(quietLogger())

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"date_key", "pickup_zone_id", "dropoff_zone_id",
		"total_trips", "total_fare", "avg_fare", "total_distance",
	}, snap.ColumnNames())

	avgFare, _ := snap.Column("avg_fare")
	assert.Equal(t, 5, avgFare.NullCount())

	zones, _ := snap.Column("pickup_zone_id")
	for _, v := range zones.NumericValues() {
		assert.GreaterOrEqual(t, v, 1.0)
		assert.LessOrEqual(t, v, 264.0)
	}
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
