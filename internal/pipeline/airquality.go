package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/pkg/errors"
)

// Measurement is one raw air quality reading
type Measurement struct {
	Time      time.Time `json:"time"`
	Station   string    `json:"station"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Pollutant string    `json:"pollutant"`
	Value     float64   `json:"value"`
}

// AirQualityDaily is one pivoted daily row per station with pollutant
// averages and a derived air quality index. Stations with coordinates are
// matched to their nearest taxi zone.
type AirQualityDaily struct {
	DateKey int64    `json:"date_key"`
	Station string   `json:"station"`
	ZoneID  int64    `json:"zone_id"`
	Borough string   `json:"borough"`
	PM25    *float64 `json:"pm25"`
	NO2     *float64 `json:"no2"`
	O3      *float64 `json:"o3"`
	AQI     *float64 `json:"aqi"`
}

type pollutantAccumulator struct {
	sum   float64
	count int
}

// BuildAirQualityDaily pivots raw measurements into one row per station and
// day, averaging each pollutant to one decimal. Negative PM2.5 readings are
// sensor glitches and become nulls. Rows sort by date key then station.
func BuildAirQualityDaily(measurements []Measurement) []AirQualityDaily {
	type key struct {
		dateKey int64
		station string
	}

	type coord struct {
		lat float64
		lon float64
	}

	groups := make(map[key]map[string]*pollutantAccumulator)
	coords := make(map[string]coord)
	for _, m := range measurements {
		k := key{dateKey: DateKey(m.Time), station: m.Station}
		pollutants, ok := groups[k]
		if !ok {
			pollutants = make(map[string]*pollutantAccumulator)
			groups[k] = pollutants
		}
		acc, ok := pollutants[m.Pollutant]
		if !ok {
			acc = &pollutantAccumulator{}
			pollutants[m.Pollutant] = acc
		}
		acc.sum += m.Value
		acc.count++

		if _, ok := coords[m.Station]; !ok && (m.Lat != 0 || m.Lon != 0) {
			coords[m.Station] = coord{lat: m.Lat, lon: m.Lon}
		}
	}

	rows := make([]AirQualityDaily, 0, len(groups))
	for k, pollutants := range groups {
		row := AirQualityDaily{DateKey: k.dateKey, Station: k.station}
		if c, ok := coords[k.station]; ok {
			zone := NearestZone(c.lat, c.lon)
			row.ZoneID = zone.ID
			row.Borough = zone.Borough
		}
		row.PM25 = average(pollutants["pm25"])
		row.NO2 = average(pollutants["no2"])
		row.O3 = average(pollutants["o3"])

		if row.PM25 != nil && *row.PM25 < 0 {
			row.PM25 = nil
		}
		if row.PM25 != nil {
			aqi := ComputeAQI(*row.PM25)
			row.AQI = &aqi
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DateKey != rows[j].DateKey {
			return rows[i].DateKey < rows[j].DateKey
		}
		return rows[i].Station < rows[j].Station
	})
	return rows
}

// ComputeAQI maps a PM2.5 concentration onto a simplified 0-100 index
func ComputeAQI(pm25 float64) float64 {
	switch {
	case pm25 <= 12:
		return round1(pm25 / 12 * 50)
	case pm25 <= 35.4:
		return round1(50 + (pm25-12)/23.4*50)
	default:
		return 100
	}
}

// ReadMeasurementsCSV parses raw air quality readings from a CSV file with
// the columns timestamp, station, latitude, longitude, pollutant, value.
// Rows that fail to parse are skipped.
func ReadMeasurementsCSV(ctx context.Context, path string, logger *logrus.Logger) ([]Measurement, error) {
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
		return nil, errors.NewDataSourceError(errors.CodeMalformedData, "air quality CSV has no header row")
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[name] = i
	}
	for _, required := range []string{"timestamp", "station", "latitude", "longitude", "pollutant", "value"} {
		if _, ok := index[required]; !ok {
			return nil, errors.NewDataSourceError(errors.CodeMalformedData,
				fmt.Sprintf("column %q not found in %s", required, path))
		}
	}

	measurements := make([]Measurement, 0, len(records)-1)
	skipped := 0
	for _, row := range records[1:] {
		m, parseErr := parseMeasurementRow(row, index)
		if parseErr != nil {
			skipped++
			continue
		}
		measurements = append(measurements, m)
	}

	logger.WithFields(logrus.Fields{
		"path":         path,
		"measurements": len(measurements),
		"skipped":      skipped,
	}).Info("Read air quality measurements")
	return measurements, nil
}

func parseMeasurementRow(row []string, index map[string]int) (Measurement, error) {
	ts, err := time.Parse("2006-01-02 15:04:05", row[index["timestamp"]])
	if err != nil {
		return Measurement{}, err
	}
	lat, err := strconv.ParseFloat(row[index["latitude"]], 64)
	if err != nil {
		return Measurement{}, err
	}
	lon, err := strconv.ParseFloat(row[index["longitude"]], 64)
	if err != nil {
		return Measurement{}, err
	}
	value, err := strconv.ParseFloat(row[index["value"]], 64)
	if err != nil {
		return Measurement{}, err
	}

	return Measurement{
		Time:      ts,
		Station:   row[index["station"]],
		Lat:       lat,
		Lon:       lon,
		Pollutant: row[index["pollutant"]],
		Value:     value,
	}, nil
}

func average(acc *pollutantAccumulator) *float64 {
	if acc == nil || acc.count == 0 {
		return nil
	}
	avg := round1(acc.sum / float64(acc.count))
	return &avg
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
