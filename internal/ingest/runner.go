package ingest

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Result summarizes one ingestion cycle
type Result struct {
	Fetched  int           `json:"fetched"`
	Written  int           `json:"written"`
	Duration time.Duration `json:"duration"`
	Status   string        `json:"status"`
	Err      error         `json:"-"`
}

// PointWriter persists weather observations somewhere durable
type PointWriter interface {
	WriteObservations(ctx context.Context, observations []WeatherObservation) (int, error)
}

// WeatherFetcher produces hourly observations for the configured location
type WeatherFetcher interface {
	FetchHourly(ctx context.Context) ([]WeatherObservation, error)
}

// Runner performs one fetch-and-store ingestion cycle
type Runner struct {
	fetcher WeatherFetcher
	writer  PointWriter
	logger  *logrus.Logger
}

// NewRunner wires a fetcher to a writer
func NewRunner(fetcher WeatherFetcher, writer PointWriter, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.New()
	}
	return &Runner{
		fetcher: fetcher,
		writer:  writer,
		logger:  logger,
	}
}

// Run executes one ingestion cycle and returns its summary. The returned
// result always carries status and timing, also on failure.
func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()

	observations, err := r.fetcher.FetchHourly(ctx)
	if err != nil {
		r.logger.WithError(err).Error("Weather fetch failed")
		return Result{Duration: time.Since(start), Status: "fetch_failed", Err: err}
	}

	written, err := r.writer.WriteObservations(ctx, observations)
	if err != nil {
		r.logger.WithError(err).Error("Weather write failed")
		return Result{
			Fetched:  len(observations),
			Written:  written,
			Duration: time.Since(start),
			Status:   "write_failed",
			Err:      err,
		}
	}

	result := Result{
		Fetched:  len(observations),
		Written:  written,
		Duration: time.Since(start),
		Status:   "ok",
	}

	r.logger.WithFields(logrus.Fields{
		"fetched":  result.Fetched,
		"written":  result.Written,
		"duration": result.Duration.String(),
	}).Info("Ingestion cycle complete")
	return result
}
