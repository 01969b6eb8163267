package ingest

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Scheduler runs ingestion cycles on a fixed interval until the context is
// cancelled. The first cycle runs immediately.
type Scheduler struct {
	runner   *Runner
	interval time.Duration
	logger   *logrus.Logger
}

// NewScheduler creates a scheduler over the given runner
func NewScheduler(runner *Runner, interval time.Duration, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Start blocks, running cycles until ctx is done. It returns ctx.Err().
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"interval": s.interval.String(),
	}).Info("Starting ingestion scheduler")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runner.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Ingestion scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runner.Run(ctx)
		}
	}
}
