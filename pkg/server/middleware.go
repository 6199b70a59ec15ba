/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
)

type contextKey string

// contextKeyRequestID carries the per-request UUID through handler chains.
const contextKeyRequestID contextKey = "requestID"

// withMiddleware wraps an API handler with request ID assignment, rate
// limiting, panic recovery and access logging. System endpoints (/health,
// /ready, /metrics) bypass this chain.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		r = r.WithContext(context.WithValue(r.Context(), contextKeyRequestID, requestID))
		w.Header().Set("X-Request-ID", requestID)

		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("handler panicked",
					"request_id", requestID,
					"path", r.URL.Path,
					"panic", rec)
				WriteError(w, r, http.StatusInternalServerError,
					kterrors.ErrCodeInternal, "internal server error", true, nil)
			}
		}()

		if !s.limiter.Allow() {
			httpRequestsTotal.WithLabelValues(r.URL.Path, "429").Inc()
			WriteError(w, r, http.StatusTooManyRequests,
				kterrors.ErrCodeRateLimited, "rate limit exceeded", true, nil)
			return
		}

		if s.cfg.MaxBodyBytes > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
		}

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)

		httpRequestsTotal.WithLabelValues(r.URL.Path, httpStatusLabel(sw.status)).Inc()
		httpRequestDuration.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())

		slog.Debug("handled request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr)
	}
}

// statusWriter records the response status for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
