package ingest

import (
	"context"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/pkg/errors"
)

// weatherMeasurement is the InfluxDB measurement weather points land in
const weatherMeasurement = "nyc_weather"

// InfluxWriterConfig holds InfluxDB connection settings
type InfluxWriterConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// InfluxWriter persists weather observations into InfluxDB
type InfluxWriter struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	logger   *logrus.Logger
}

// NewInfluxWriter creates a writer against the configured bucket
func NewInfluxWriter(cfg InfluxWriterConfig, logger *logrus.Logger) (*InfluxWriter, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.URL == "" {
		return nil, errors.NewConfigError(errors.CodeMissingSetting, "influxdb url is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.NewConfigError(errors.CodeMissingSetting, "influxdb bucket is required")
	}

	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxWriter{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		logger:   logger,
	}, nil
}

// WriteObservations stores every observation as one point. Fields that are
// absent in the source payload are left off the point.
func (w *InfluxWriter) WriteObservations(ctx context.Context, observations []WeatherObservation) (int, error) {
	written := 0
	for _, obs := range observations {
		fields := make(map[string]interface{})
		setField(fields, "temperature_c", obs.TemperatureC)
		setField(fields, "humidity_pct", obs.HumidityPct)
		setField(fields, "precipitation_mm", obs.PrecipitationMM)
		setField(fields, "wind_speed_kmh", obs.WindSpeedKMH)
		setField(fields, "pressure_hpa", obs.PressureHPA)
		setField(fields, "cloud_cover_pct", obs.CloudCoverPct)
		if len(fields) == 0 {
			continue
		}

		point := influxdb2.NewPoint(weatherMeasurement,
			map[string]string{
				"city":   obs.City,
				"source": "open-meteo",
			},
			fields,
			obs.Time,
		)

		if err := w.writeAPI.WritePoint(ctx, point); err != nil {
			return written, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeWriteFailed,
				"failed to write weather point")
		}
		written++
	}

	w.logger.WithFields(logrus.Fields{
		"measurement": weatherMeasurement,
		"points":      written,
	}).Info("Wrote weather observations to InfluxDB")
	return written, nil
}

// Close shuts the underlying InfluxDB client down
func (w *InfluxWriter) Close() {
	w.client.Close()
}

func setField(fields map[string]interface{}, name string, value *float64) {
	if value != nil {
		fields[name] = *value
	}
}
