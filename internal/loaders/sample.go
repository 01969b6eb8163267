package loaders

import (
	"context"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/pkg/models"
)

const sampleRowCount = 1000

// sampleSeed fixes the generated data so repeated runs validate identically
const sampleSeed = 42

// SampleLoader produces a deterministic synthetic taxi fact table. It backs
// demo runs and lets the validate command work without a warehouse.
type SampleLoader struct {
	logger *logrus.Logger
}

// NewSampleLoader creates a loader of generated taxi data
func NewSampleLoader(logger *logrus.Logger) *SampleLoader {
	if logger == nil {
		logger = logrus.New()
	}
	return &SampleLoader{logger: logger}
}

func (l *SampleLoader) Load(ctx context.Context) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(sampleSeed))

	dateKeys := make([]int64, sampleRowCount)
	pickupZones := make([]int64, sampleRowCount)
	dropoffZones := make([]int64, sampleRowCount)
	totalTrips := make([]int64, sampleRowCount)
	totalFares := make([]float64, sampleRowCount)
	avgFares := make([]*float64, sampleRowCount)
	totalDistances := make([]float64, sampleRowCount)

	// a handful of missing averages, fixed positions
	nullIndexes := map[int]bool{97: true, 211: true, 456: true, 702: true, 919: true}

	for i := 0; i < sampleRowCount; i++ {
		dateKeys[i] = 20251001 + int64(i%31)
		pickupZones[i] = int64(rng.Intn(264)) + 1
		dropoffZones[i] = int64(rng.Intn(264)) + 1
		totalTrips[i] = int64(rng.Intn(990)) + 10

		avgFare := 10.0 + rng.Float64()*90.0
		totalFares[i] = avgFare * float64(totalTrips[i])
		totalDistances[i] = float64(totalTrips[i]) * (1.0 + rng.Float64()*9.0)

		if nullIndexes[i] {
			avgFares[i] = nil
		} else {
			v := avgFare
			avgFares[i] = &v
		}
	}

	snapshot, err := models.NewSnapshot(
		models.IntColumn("date_key", dateKeys),
		models.IntColumn("pickup_zone_id", pickupZones),
		models.IntColumn("dropoff_zone_id", dropoffZones),
		models.IntColumn("total_trips", totalTrips),
		models.FloatColumn("total_fare", totalFares),
		models.NullableFloatColumn("avg_fare", avgFares),
		models.FloatColumn("total_distance", totalDistances),
	)
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"rows": snapshot.RowCount(),
	}).Info("Generated sample taxi snapshot")
	return snapshot, nil
}
