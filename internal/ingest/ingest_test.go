package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hourlyPayload = `{
	"hourly": {
		"time": ["2025-10-01T00:00", "2025-10-01T01:00", "2025-10-01T02:00"],
		"temperature_2m": [18.5, 17.9, null],
		"relative_humidity_2m": [62, 65, 70],
		"precipitation": [0.0, 0.2, 0.0],
		"wind_speed_10m": [12.3, 10.8, 9.4],
		"surface_pressure": [1013.2, 1012.8, 1012.5],
		"cloud_cover": [40, 55, 80]
	}
}`

func TestOpenMeteoFetchHourly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "40.7128", r.URL.Query().Get("latitude"))
		assert.Contains(t, r.URL.Query().Get("hourly"), "temperature_2m")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(hourlyPayload))
	}))
	defer server.Close()

	client := NewOpenMeteoClient(OpenMeteoConfig{
		BaseURL:   server.URL,
		City:      "New York",
		Latitude:  40.7128,
		Longitude: -74.0060,
	}, quietLogger())

	observations, err := client.FetchHourly(context.Background())
	require.NoError(t, err)
	require.Len(t, observations, 3)

	first := observations[0]
	assert.Equal(t, "New York", first.City)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), first.Time)
	require.NotNil(t, first.TemperatureC)
	assert.Equal(t, 18.5, *first.TemperatureC)
	require.NotNil(t, first.PressureHPA)
	assert.Equal(t, 1013.2, *first.PressureHPA)

	// null temperature stays absent rather than turning into zero
	assert.Nil(t, observations[2].TemperatureC)
	require.NotNil(t, observations[2].CloudCoverPct)
	assert.Equal(t, 80.0, *observations[2].CloudCoverPct)
}

func TestOpenMeteoRetriesTransientFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(hourlyPayload))
	}))
	defer server.Close()

	client := NewOpenMeteoClient(OpenMeteoConfig{
		BaseURL: server.URL,
		City:    "New York",
	}, quietLogger())
	client.policy.Delay = time.Millisecond

	observations, err := client.FetchHourly(context.Background())
	require.NoError(t, err)
	assert.Len(t, observations, 3)
	assert.Equal(t, 2, attempts)
}

func TestOpenMeteoGivesUpAfterRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewOpenMeteoClient(OpenMeteoConfig{
		BaseURL: server.URL,
		City:    "New York",
	}, quietLogger())
	client.policy.Delay = time.Millisecond

	_, err := client.FetchHourly(context.Background())
	assert.Error(t, err)
}

func TestRunnerSuccess(t *testing.T) {
	fetcher := &stubFetcher{observations: sampleObservations(4)}
	writer := &stubWriter{}
	runner := NewRunner(fetcher, writer, quietLogger())

	result := runner.Run(context.Background())

	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, 4, result.Fetched)
	assert.Equal(t, 4, result.Written)
	assert.NoError(t, result.Err)
}

func TestRunnerFetchFailure(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("api down")}
	writer := &stubWriter{}
	runner := NewRunner(fetcher, writer, quietLogger())

	result := runner.Run(context.Background())

	assert.Equal(t, "fetch_failed", result.Status)
	assert.Error(t, result.Err)
	assert.Equal(t, 0, writer.calls)
}

func TestRunnerWriteFailure(t *testing.T) {
	fetcher := &stubFetcher{observations: sampleObservations(2)}
	writer := &stubWriter{err: errors.New("bucket unavailable")}
	runner := NewRunner(fetcher, writer, quietLogger())

	result := runner.Run(context.Background())

	assert.Equal(t, "write_failed", result.Status)
	assert.Equal(t, 2, result.Fetched)
	assert.Error(t, result.Err)
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	fetcher := &stubFetcher{observations: sampleObservations(1)}
	writer := &stubWriter{}
	runner := NewRunner(fetcher, writer, quietLogger())
	scheduler := NewScheduler(runner, 10*time.Millisecond, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	err := scheduler.Start(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// immediate run plus at least one tick
	assert.GreaterOrEqual(t, writer.calls, 2)
}

type stubFetcher struct {
	observations []WeatherObservation
	err          error
}

func (s *stubFetcher) FetchHourly(_ context.Context) ([]WeatherObservation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.observations, nil
}

type stubWriter struct {
	calls int
	err   error
}

func (s *stubWriter) WriteObservations(_ context.Context, observations []WeatherObservation) (int, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return len(observations), nil
}

func sampleObservations(n int) []WeatherObservation {
	observations := make([]WeatherObservation, n)
	for i := range observations {
		temp := 18.0 + float64(i)
		observations[i] = WeatherObservation{
			Time:         time.Date(2025, 10, 1, i, 0, 0, 0, time.UTC),
			City:         "New York",
			TemperatureC: &temp,
		}
	}
	return observations
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
