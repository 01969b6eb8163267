package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/pkg/errors"
)

// TaxiTrip is one cleaned trip record
type TaxiTrip struct {
	PickupTime    time.Time `json:"pickup_time"`
	DropoffTime   time.Time `json:"dropoff_time"`
	PickupZoneID  int64     `json:"pickup_zone_id"`
	DropoffZoneID int64     `json:"dropoff_zone_id"`
	DistanceKM    float64   `json:"distance_km"`
	FareAmount    float64   `json:"fare_amount"`
}

// CleanTrips filters raw trips down to plausible ones: positive distance and
// positive fare. The input order is preserved.
func CleanTrips(trips []TaxiTrip, logger *logrus.Logger) []TaxiTrip {
	if logger == nil {
		logger = logrus.New()
	}

	cleaned := make([]TaxiTrip, 0, len(trips))
	for _, trip := range trips {
		if trip.DistanceKM <= 0 || trip.FareAmount <= 0 {
			continue
		}
		cleaned = append(cleaned, trip)
	}

	logger.WithFields(logrus.Fields{
		"input":   len(trips),
		"kept":    len(cleaned),
		"dropped": len(trips) - len(cleaned),
	}).Info("Cleaned taxi trips")
	return cleaned
}

// ReadTripsCSV parses raw trip records from a CSV file with the columns
// pickup_datetime, dropoff_datetime, pickup_zone_id, dropoff_zone_id,
// trip_distance, fare_amount. Rows that fail to parse are skipped.
func ReadTripsCSV(ctx context.Context, path string, logger *logrus.Logger) ([]TaxiTrip, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeDataSource, errors.CodeSourceNotFound,
			fmt.Sprintf("failed to open %s", path))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeDataSource, errors.CodeMalformedData,
			fmt.Sprintf("failed to parse %s", path))
	}
	if len(records) == 0 {
		return nil, errors.NewDataSourceError(errors.CodeMalformedData, "trips CSV has no header row")
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[name] = i
	}
	for _, required := range []string{"pickup_datetime", "dropoff_datetime", "pickup_zone_id", "dropoff_zone_id", "trip_distance", "fare_amount"} {
		if _, ok := index[required]; !ok {
			return nil, errors.NewDataSourceError(errors.CodeMalformedData,
				fmt.Sprintf("column %q not found in %s", required, path))
		}
	}

	trips := make([]TaxiTrip, 0, len(records)-1)
	skipped := 0
	for _, row := range records[1:] {
		trip, parseErr := parseTripRow(row, index)
		if parseErr != nil {
			skipped++
			continue
		}
		trips = append(trips, trip)
	}

	logger.WithFields(logrus.Fields{
		"path":    path,
		"trips":   len(trips),
		"skipped": skipped,
	}).Info("Read raw taxi trips")
	return trips, nil
}

func parseTripRow(row []string, index map[string]int) (TaxiTrip, error) {
	pickup, err := time.Parse("2006-01-02 15:04:05", row[index["pickup_datetime"]])
	if err != nil {
		return TaxiTrip{}, err
	}
	dropoff, err := time.Parse("2006-01-02 15:04:05", row[index["dropoff_datetime"]])
	if err != nil {
		return TaxiTrip{}, err
	}
	pickupZone, err := strconv.ParseInt(row[index["pickup_zone_id"]], 10, 64)
	if err != nil {
		return TaxiTrip{}, err
	}
	dropoffZone, err := strconv.ParseInt(row[index["dropoff_zone_id"]], 10, 64)
	if err != nil {
		return TaxiTrip{}, err
	}
	distance, err := strconv.ParseFloat(row[index["trip_distance"]], 64)
	if err != nil {
		return TaxiTrip{}, err
	}
	fare, err := strconv.ParseFloat(row[index["fare_amount"]], 64)
	if err != nil {
		return TaxiTrip{}, err
	}

	return TaxiTrip{
		PickupTime:    pickup,
		DropoffTime:   dropoff,
		PickupZoneID:  pickupZone,
		DropoffZoneID: dropoffZone,
		DistanceKM:    distance,
		FareAmount:    fare,
	}, nil
}
