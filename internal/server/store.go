package server

import (
	"context"
	"sync"

	"github.com/urbanops/dataqual/pkg/errors"
	"github.com/urbanops/dataqual/pkg/models"
)

// MemoryStore keeps reports in process memory. It backs deployments that run
// without Redis.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*models.Report
	latest  *models.Report
}

// NewMemoryStore creates an empty in-memory report store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[string]*models.Report),
	}
}

func (s *MemoryStore) Save(_ context.Context, report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = report
	s.latest = report
	return nil
}

func (s *MemoryStore) Latest(_ context.Context) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, errors.NewStorageError(errors.CodeReportNotFound, "no reports stored yet")
	}
	return s.latest, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		return nil, errors.NewStorageError(errors.CodeReportNotFound, "report not found: "+id)
	}
	return report, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
