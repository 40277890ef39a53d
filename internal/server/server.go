// Package server exposes the ops HTTP endpoints: liveness, readiness and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edgard/enrollbot/internal/config"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the ops HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.ServerConfig
}

// New creates the server with its routes mounted on a chi router.
func New(cfg *config.ServerConfig, logger *slog.Logger, store Pinger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "ops_server")

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      NewRouter(log, store),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: log,
		cfg:    cfg,
	}
}

// NewRouter builds the ops routes.
func NewRouter(logger *slog.Logger, store Pinger) http.Handler {
	h := &healthHandler{store: store, logger: logger}

	router := chi.NewRouter()
	router.Get("/health/live", h.live)
	router.Get("/health/ready", h.ready)
	router.Handle("/metrics", promhttp.Handler())
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Ops HTTP server started", "addr", s.httpServer.Addr)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutdown signal received, stopping ops HTTP server...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ops http server failed: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ops http server shutdown failed: %w", err)
	}

	s.logger.Info("Ops HTTP server stopped")
	return nil
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout > 0 {
		return s.cfg.ShutdownTimeout
	}
	return config.DefaultServerShutdownTimeout
}
