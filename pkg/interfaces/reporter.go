package interfaces

import (
	"context"

	"github.com/urbanops/dataqual/pkg/models"
)

// Reporter delivers a finished report to one destination
type Reporter interface {
	// Name returns the destination name used in logs
	Name() string

	// Notify delivers the report. A delivery failure is returned as an error
	// and must not affect other reporters.
	Notify(ctx context.Context, report *models.Report) error
}
