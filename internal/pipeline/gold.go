package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/urbanops/dataqual/pkg/models"
)

// FactTaxiDaily is one aggregated fact row: all trips for a pickup/dropoff
// zone pair on one day
type FactTaxiDaily struct {
	DateKey       int64   `json:"date_key"`
	PickupZoneID  int64   `json:"pickup_zone_id"`
	DropoffZoneID int64   `json:"dropoff_zone_id"`
	TotalTrips    int64   `json:"total_trips"`
	TotalFare     float64 `json:"total_fare"`
	AvgFare       float64 `json:"avg_fare"`
	TotalDistance float64 `json:"total_distance"`
	AvgDistance   float64 `json:"avg_distance"`
}

// DimDate is one calendar dimension row
type DimDate struct {
	DateKey   int64  `json:"date_key"`
	Date      string `json:"date"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	DayOfWeek string `json:"day_of_week"`
	IsWeekend bool   `json:"is_weekend"`
}

// DateKey encodes a day as yyyymmdd
func DateKey(t time.Time) int64 {
	return int64(t.Year())*10000 + int64(t.Month())*100 + int64(t.Day())
}

type factKey struct {
	dateKey int64
	pickup  int64
	dropoff int64
}

// BuildFactTaxiDaily aggregates cleaned trips by day and zone pair. Rows are
// sorted by date key, then pickup zone, then dropoff zone, so repeated runs
// produce identical output. Averages are rounded to two decimals.
func BuildFactTaxiDaily(trips []TaxiTrip) []FactTaxiDaily {
	type accumulator struct {
		trips    int64
		fare     float64
		distance float64
	}

	groups := make(map[factKey]*accumulator)
	for _, trip := range trips {
		key := factKey{
			dateKey: DateKey(trip.PickupTime),
			pickup:  trip.PickupZoneID,
			dropoff: trip.DropoffZoneID,
		}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{}
			groups[key] = acc
		}
		acc.trips++
		acc.fare += trip.FareAmount
		acc.distance += trip.DistanceKM
	}

	facts := make([]FactTaxiDaily, 0, len(groups))
	for key, acc := range groups {
		facts = append(facts, FactTaxiDaily{
			DateKey:       key.dateKey,
			PickupZoneID:  key.pickup,
			DropoffZoneID: key.dropoff,
			TotalTrips:    acc.trips,
			TotalFare:     round2(acc.fare),
			AvgFare:       round2(acc.fare / float64(acc.trips)),
			TotalDistance: round2(acc.distance),
			AvgDistance:   round2(acc.distance / float64(acc.trips)),
		})
	}

	sort.Slice(facts, func(i, j int) bool {
		if facts[i].DateKey != facts[j].DateKey {
			return facts[i].DateKey < facts[j].DateKey
		}
		if facts[i].PickupZoneID != facts[j].PickupZoneID {
			return facts[i].PickupZoneID < facts[j].PickupZoneID
		}
		return facts[i].DropoffZoneID < facts[j].DropoffZoneID
	})
	return facts
}

// BuildDimDate derives the calendar dimension covering every distinct trip
// day, sorted by date key
func BuildDimDate(trips []TaxiTrip) []DimDate {
	seen := make(map[int64]time.Time)
	for _, trip := range trips {
		key := DateKey(trip.PickupTime)
		if _, ok := seen[key]; !ok {
			seen[key] = trip.PickupTime
		}
	}

	dims := make([]DimDate, 0, len(seen))
	for key, t := range seen {
		weekday := t.Weekday()
		dims = append(dims, DimDate{
			DateKey:   key,
			Date:      t.Format("2006-01-02"),
			Year:      t.Year(),
			Month:     int(t.Month()),
			Day:       t.Day(),
			DayOfWeek: weekday.String(),
			IsWeekend: weekday == time.Saturday || weekday == time.Sunday,
		})
	}

	sort.Slice(dims, func(i, j int) bool { return dims[i].DateKey < dims[j].DateKey })
	return dims
}

// FactSnapshot converts fact rows into a snapshot for validation
func FactSnapshot(facts []FactTaxiDaily) (*models.Snapshot, error) {
	n := len(facts)
	dateKeys := make([]int64, n)
	pickup := make([]int64, n)
	dropoff := make([]int64, n)
	trips := make([]int64, n)
	totalFares := make([]float64, n)
	avgFares := make([]float64, n)
	distances := make([]float64, n)

	for i, fact := range facts {
		dateKeys[i] = fact.DateKey
		pickup[i] = fact.PickupZoneID
		dropoff[i] = fact.DropoffZoneID
		trips[i] = fact.TotalTrips
		totalFares[i] = fact.TotalFare
		avgFares[i] = fact.AvgFare
		distances[i] = fact.TotalDistance
	}

	return models.NewSnapshot(
		models.IntColumn("date_key", dateKeys),
		models.IntColumn("pickup_zone_id", pickup),
		models.IntColumn("dropoff_zone_id", dropoff),
		models.IntColumn("total_trips", trips),
		models.FloatColumn("total_fare", totalFares),
		models.FloatColumn("avg_fare", avgFares),
		models.FloatColumn("total_distance", distances),
	)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
