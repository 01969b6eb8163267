package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/internal/observability/metrics"
)

// NewRouter builds the HTTP routing table for the validation API
func NewRouter(service *Service, m *metrics.Metrics, logger *logrus.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware(logger))

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/validate", service.HandleValidate).Methods(http.MethodPost)
	api.HandleFunc("/reports/latest", service.HandleLatest).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}", service.HandleGet).Methods(http.MethodGet)

	router.HandleFunc("/health", service.HandleHealth).Methods(http.MethodGet)
	if m != nil {
		router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	return router
}

func loggingMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	if logger == nil {
		logger = logrus.New()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start).String(),
			}).Debug("Request handled")
		})
	}
}
