package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/internal/expectations"
	"github.com/urbanops/dataqual/internal/observability/metrics"
	"github.com/urbanops/dataqual/internal/reporters"
	apperrors "github.com/urbanops/dataqual/pkg/errors"
	"github.com/urbanops/dataqual/pkg/interfaces"
)

// Service handles validation API requests
type Service struct {
	loader     interfaces.Loader
	engine     *expectations.Engine
	dispatcher *reporters.Dispatcher
	store      interfaces.ReportStore
	metrics    *metrics.Metrics
	logger     *logrus.Logger
	startTime  time.Time
}

// NewService wires the validation pipeline behind the HTTP API
func NewService(loader interfaces.Loader, engine *expectations.Engine, dispatcher *reporters.Dispatcher, store interfaces.ReportStore, m *metrics.Metrics, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		loader:     loader,
		engine:     engine,
		dispatcher: dispatcher,
		store:      store,
		metrics:    m,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// HandleValidate loads a fresh snapshot, runs the suite, stores the report,
// and notifies every reporter
func (s *Service) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snapshot, err := s.loader.Load(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}

	report, err := s.engine.Evaluate(ctx, snapshot)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.ObserveReport(report)
	}
	if err := s.store.Save(ctx, report); err != nil {
		s.logger.WithError(err).Error("Failed to store report")
	}
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, report)
	}

	s.writeJSON(w, http.StatusOK, report.Document())
}

// HandleLatest returns the most recent stored report
func (s *Service) HandleLatest(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.Latest(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report.Document())
}

// HandleGet returns a stored report by id
func (s *Service) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	report, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report.Document())
}

// HandleHealth reports liveness and uptime
func (s *Service) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"suite":  s.engine.SuiteName(),
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		switch appErr.Type {
		case apperrors.ErrorTypeValidation, apperrors.ErrorTypeConfiguration:
			status = http.StatusBadRequest
		case apperrors.ErrorTypeDataSource:
			status = http.StatusBadGateway
		case apperrors.ErrorTypeStorage:
			if appErr.Code == apperrors.CodeReportNotFound {
				status = http.StatusNotFound
			}
		}
	}

	s.logger.WithFields(logrus.Fields{
		"status": status,
		"code":   code,
		"error":  err.Error(),
	}).Error("Request failed")

	s.writeJSON(w, status, map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}
