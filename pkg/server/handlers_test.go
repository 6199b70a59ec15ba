/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
	"github.com/etholab/kinetrack/pkg/validators"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := New(DefaultConfig())
	s.SetReady(true)
	return s
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestHandleReady(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.handleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)

	s.SetReady(false)
	w = httptest.NewRecorder()
	s.handleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
}

func TestHandleValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "poses.csv")
	require.NoError(t, os.WriteFile(good,
		[]byte("scorer,model,model,model\nbodyparts,snout,snout,snout\ncoords,x,y,likelihood\n0,1,2,0.9\n"), 0o600))
	bad := filepath.Join(dir, "missing.csv")

	body, err := json.Marshal(ValidateRequest{Paths: []string{good, bad}})
	require.NoError(t, err)

	s := newTestServer(t)
	handler := s.setupRoutes()

	req := httptest.NewRequest(http.MethodPost, "/v1/validate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Report)
	require.Len(t, resp.Report.Results, 2)
	assert.Equal(t, validators.StatusPassed, resp.Report.Results[0].Status)
	assert.Equal(t, validators.StatusFailed, resp.Report.Results[1].Status)
	assert.Equal(t, kterrors.ErrCodeNotFound, resp.Report.Results[1].Code)
	assert.NotEmpty(t, resp.RequestID)
}

func TestHandleValidate_BadRequests(t *testing.T) {
	s := newTestServer(t)
	handler := s.setupRoutes()

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"malformed json", http.MethodPost, "{not json", http.StatusBadRequest},
		{"no paths", http.MethodPost, `{"paths":[]}`, http.StatusBadRequest},
		{"empty path", http.MethodPost, `{"paths":[""]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/validate", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestMiddleware_RateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = 1
	cfg.RateLimitBurst = 1

	s := New(cfg)
	s.SetReady(true)
	handler := s.setupRoutes()

	body := []byte(`{"paths":["x"]}`)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/v1/validate", bytes.NewReader(body)))
	require.NotEqual(t, http.StatusTooManyRequests, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/v1/validate", bytes.NewReader(body)))
	require.Equal(t, http.StatusTooManyRequests, second.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, kterrors.ErrCodeRateLimited, resp.Code)
	assert.True(t, resp.Retryable)
}

func TestHandleDefault(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.handleDefault(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Name   string   `json:"name"`
		Ready  bool     `json:"ready"`
		Routes []string `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, name, resp.Name)
	assert.True(t, resp.Ready)
	assert.Contains(t, resp.Routes, "POST /v1/validate")
}
