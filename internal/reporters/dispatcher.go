package reporters

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/pkg/interfaces"
	"github.com/urbanops/dataqual/pkg/models"
)

// FailureSink counts failed deliveries per reporter
type FailureSink interface {
	ReporterFailure(reporter string)
}

// Dispatcher fans a report out to every registered reporter. Reporters run
// sequentially and one failing reporter never blocks the others.
type Dispatcher struct {
	reporters []interfaces.Reporter
	logger    *logrus.Logger
	failures  FailureSink
}

// NewDispatcher creates a dispatcher over the given reporters
func NewDispatcher(logger *logrus.Logger, reporters ...interfaces.Reporter) *Dispatcher {
	if logger == nil {
		logger = logrus.New()
	}
	return &Dispatcher{
		reporters: reporters,
		logger:    logger,
	}
}

// Register appends reporters to the dispatch list
func (d *Dispatcher) Register(reporters ...interfaces.Reporter) {
	d.reporters = append(d.reporters, reporters...)
}

// WithFailureSink records failed deliveries in the given sink
func (d *Dispatcher) WithFailureSink(sink FailureSink) *Dispatcher {
	d.failures = sink
	return d
}

// Dispatch delivers the report to every reporter and returns the number of
// successful deliveries. Failures are counted and logged, not returned.
func (d *Dispatcher) Dispatch(ctx context.Context, report *models.Report) int {
	delivered := 0
	for _, reporter := range d.reporters {
		if err := reporter.Notify(ctx, report); err != nil {
			d.logger.WithFields(logrus.Fields{
				"reporter":  reporter.Name(),
				"report_id": report.ID,
				"error":     err.Error(),
			}).Error("Reporter delivery failed")
			if d.failures != nil {
				d.failures.ReporterFailure(reporter.Name())
			}
			continue
		}
		delivered++
	}
	return delivered
}
