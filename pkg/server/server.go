/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

// Package server exposes the file validation runner over HTTP: a JSON
// validation endpoint plus health, readiness and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/etholab/kinetrack/pkg/validators"
)

const name = "kinetrack"

// version is set at build time via ldflags.
var version = "dev"

// Server serves the validation API.
type Server struct {
	cfg     *Config
	runner  *validators.Runner
	limiter *rate.Limiter
	httpSrv *http.Server

	mu    sync.RWMutex
	ready bool
}

// Option customizes a Server.
type Option func(*Server)

// WithRunner replaces the validation runner, mainly for tests.
func WithRunner(r *validators.Runner) Option {
	return func(s *Server) {
		s.runner = r
	}
}

// New creates a Server from cfg; nil cfg uses defaults.
func New(cfg *Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		cfg: cfg,
		runner: validators.NewRunner(
			validators.WithConcurrency(cfg.Concurrency),
			validators.WithHDF5Datasets(cfg.HDF5Datasets...),
		),
		limiter: rate.NewLimiter(cfg.RateLimit, cfg.RateLimitBurst),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpSrv = &http.Server{
		Addr:         net.JoinHostPort(cfg.Address, fmt.Sprintf("%d", cfg.Port)),
		Handler:      s.setupRoutes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// SetReady flips the readiness state reported by /ready.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
}

// Start runs the server until ctx is canceled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", s.httpSrv.Addr, "version", version)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	s.SetReady(true)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.SetReady(false)
	slog.Info("server shutting down", "timeout", s.cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpSrv.Addr
}

// timestamp returns the current UTC time, truncated for stable responses.
func timestamp() time.Time {
	return time.Now().UTC()
}
