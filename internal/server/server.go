package server

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Server wraps the HTTP server lifecycle around the validation API
type Server struct {
	httpServer *http.Server
	logger     *logrus.Logger
}

// Config holds HTTP listener settings
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// New creates a server on the configured address
func New(cfg Config, handler http.Handler, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}
}

// Start listens and serves until the server is shut down
func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"address": s.httpServer.Addr,
	}).Info("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
