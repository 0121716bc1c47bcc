// Package ops serves the health and metrics endpoints for long runs.
package ops

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zperzan/scrape-wunderground/internal/logging"
)

// Server is a small HTTP listener exposing /healthz and /metrics. It is
// started only when an address is configured; one-shot scrapes run without
// it.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// New builds a Server serving the given Prometheus gatherer.
func New(addr string, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	log := logging.OrNop(logger)

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte("ok\n")); err != nil {
			log.Debug("healthz write failed", zap.Error(err))
		}
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: log,
	}
}

// Handler exposes the router, for httptest.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start begins serving on its own goroutine.
func (s *Server) Start() {
	go func() {
		s.logger.Info("ops server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("ops server failed", zap.Error(err))
		}
	}()
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown ops server: %w", err)
	}
	return nil
}
