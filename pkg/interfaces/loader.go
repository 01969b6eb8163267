package interfaces

import (
	"context"

	"github.com/urbanops/dataqual/pkg/models"
)

// Loader produces a snapshot from some data source
type Loader interface {
	// Load reads the source and materializes it as a snapshot
	Load(ctx context.Context) (*models.Snapshot, error)
}

// ReportStore persists evaluation reports for later retrieval
type ReportStore interface {
	// Save persists a report and marks it as the latest
	Save(ctx context.Context, report *models.Report) error

	// Latest returns the most recently saved report
	Latest(ctx context.Context) (*models.Report, error)

	// Get returns the report with the given identifier
	Get(ctx context.Context, id string) (*models.Report, error)

	// Close releases any underlying resources
	Close() error
}
