package retry

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Policy controls retry behavior for transient failures
type Policy struct {
	MaxAttempts int           `json:"max_attempts" yaml:"max_attempts"`
	Delay       time.Duration `json:"delay" yaml:"delay"`
	Backoff     float64       `json:"backoff" yaml:"backoff"`
}

// DefaultPolicy returns the policy used by network-facing components
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Delay:       time.Second,
		Backoff:     2.0,
	}
}

// Do runs fn up to MaxAttempts times, waiting between attempts with
// exponential backoff. It returns the last error when every attempt fails
// and stops early when the context is cancelled.
func (p Policy) Do(ctx context.Context, logger *logrus.Logger, operation string, fn func() error) error {
	if logger == nil {
		logger = logrus.New()
	}

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.Delay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		logger.WithFields(logrus.Fields{
			"operation": operation,
			"attempt":   attempt,
			"delay":     delay.String(),
			"error":     lastErr.Error(),
		}).Warn("Operation failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * p.Backoff)
	}

	return lastErr
}
