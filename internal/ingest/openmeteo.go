package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/internal/retry"
	"github.com/urbanops/dataqual/pkg/errors"
)

const defaultOpenMeteoAPI = "https://api.open-meteo.com"

// hourlyVariables are the Open-Meteo hourly fields requested per fetch
const hourlyVariables = "temperature_2m,relative_humidity_2m,precipitation,wind_speed_10m,surface_pressure,cloud_cover"

// WeatherObservation is one hourly weather record for a city
type WeatherObservation struct {
	Time            time.Time
	City            string
	TemperatureC    *float64
	HumidityPct     *float64
	PrecipitationMM *float64
	WindSpeedKMH    *float64
	PressureHPA     *float64
	CloudCoverPct   *float64
}

// OpenMeteoClient fetches hourly weather from the Open-Meteo API
type OpenMeteoClient struct {
	baseURL string
	city    string
	lat     float64
	lon     float64
	client  *http.Client
	policy  retry.Policy
	logger  *logrus.Logger
}

// OpenMeteoConfig holds the fetch target
type OpenMeteoConfig struct {
	BaseURL   string
	City      string
	Latitude  float64
	Longitude float64
	Timeout   time.Duration
}

// NewOpenMeteoClient creates a weather API client
func NewOpenMeteoClient(cfg OpenMeteoConfig, logger *logrus.Logger) *OpenMeteoClient {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenMeteoAPI
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &OpenMeteoClient{
		baseURL: cfg.BaseURL,
		city:    cfg.City,
		lat:     cfg.Latitude,
		lon:     cfg.Longitude,
		client:  &http.Client{Timeout: cfg.Timeout},
		policy:  retry.DefaultPolicy(),
		logger:  logger,
	}
}

type openMeteoResponse struct {
	Hourly struct {
		Time            []string   `json:"time"`
		Temperature     []*float64 `json:"temperature_2m"`
		Humidity        []*float64 `json:"relative_humidity_2m"`
		Precipitation   []*float64 `json:"precipitation"`
		WindSpeed       []*float64 `json:"wind_speed_10m"`
		SurfacePressure []*float64 `json:"surface_pressure"`
		CloudCover      []*float64 `json:"cloud_cover"`
	} `json:"hourly"`
}

// FetchHourly retrieves the current day's hourly observations
func (c *OpenMeteoClient) FetchHourly(ctx context.Context) ([]WeatherObservation, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", c.lat))
	params.Set("longitude", fmt.Sprintf("%.4f", c.lon))
	params.Set("hourly", hourlyVariables)
	params.Set("timezone", "UTC")
	params.Set("forecast_days", "1")

	endpoint := fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, params.Encode())

	var payload openMeteoResponse
	err := c.policy.Do(ctx, c.logger, "openmeteo_fetch", func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if reqErr != nil {
			return reqErr
		}

		resp, doErr := c.client.Do(req)
		if doErr != nil {
			return doErr
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("open-meteo returned status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&payload)
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeTransport, errors.CodeNetworkError,
			"failed to fetch weather data")
	}

	observations := make([]WeatherObservation, 0, len(payload.Hourly.Time))
	for i, stamp := range payload.Hourly.Time {
		ts, parseErr := time.Parse("2006-01-02T15:04", stamp)
		if parseErr != nil {
			c.logger.WithFields(logrus.Fields{
				"timestamp": stamp,
				"index":     i,
			}).Debug("Skipping observation with unparsable timestamp")
			continue
		}

		observations = append(observations, WeatherObservation{
			Time:            ts.UTC(),
			City:            c.city,
			TemperatureC:    at(payload.Hourly.Temperature, i),
			HumidityPct:     at(payload.Hourly.Humidity, i),
			PrecipitationMM: at(payload.Hourly.Precipitation, i),
			WindSpeedKMH:    at(payload.Hourly.WindSpeed, i),
			PressureHPA:     at(payload.Hourly.SurfacePressure, i),
			CloudCoverPct:   at(payload.Hourly.CloudCover, i),
		})
	}

	c.logger.WithFields(logrus.Fields{
		"city":         c.city,
		"observations": len(observations),
	}).Info("Fetched weather observations")
	return observations, nil
}

// at returns the i-th element when present, nil otherwise
func at(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}
