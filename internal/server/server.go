// AngelaMos | 2026
// server.go

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pulsecrm/pulse-crm/internal/config"
	"github.com/pulsecrm/pulse-crm/internal/core"
)

// HealthHandler is flipped to shutting down before connections drain.
type HealthHandler interface {
	SetShutdown(shutdown bool)
}

type Config struct {
	ServerConfig  config.ServerConfig
	HealthHandler HealthHandler
	Logger        *slog.Logger
}

type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	health     HealthHandler
	logger     *slog.Logger
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		core.JSONError(w, core.NewAppError(
			core.ErrNotFound,
			"route not found",
			http.StatusNotFound,
			"NOT_FOUND",
		))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		core.JSONError(w, core.NewAppError(
			core.ErrInvalidInput,
			"method not allowed",
			http.StatusMethodNotAllowed,
			"METHOD_NOT_ALLOWED",
		))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.ServerConfig.Address(),
			Handler:           router,
			ReadTimeout:       cfg.ServerConfig.ReadTimeout,
			ReadHeaderTimeout: cfg.ServerConfig.ReadTimeout,
			WriteTimeout:      cfg.ServerConfig.WriteTimeout,
			IdleTimeout:       cfg.ServerConfig.IdleTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
		router: router,
		health: cfg.HealthHandler,
		logger: logger,
	}
}

func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

// Shutdown fails readiness first, waits drain so load balancers notice,
// then stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context, drain time.Duration) error {
	if s.health != nil {
		s.health.SetShutdown(true)
	}

	if drain > 0 {
		s.logger.Info("draining before shutdown", "delay", drain)
		select {
		case <-time.After(drain):
		case <-ctx.Done():
		}
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}

// RegisterOnShutdown runs f when Shutdown begins, for hijacked
// connections the server does not track.
func (s *Server) RegisterOnShutdown(f func()) {
	s.httpServer.RegisterOnShutdown(f)
}
