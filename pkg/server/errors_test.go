/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
)

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"invalid request", kterrors.ErrCodeInvalidRequest, http.StatusBadRequest},
		{"format", kterrors.ErrCodeFormat, http.StatusBadRequest},
		{"schema", kterrors.ErrCodeSchema, http.StatusBadRequest},
		{"consistency", kterrors.ErrCodeConsistency, http.StatusBadRequest},
		{"not found", kterrors.ErrCodeNotFound, http.StatusNotFound},
		{"permission", kterrors.ErrCodePermission, http.StatusForbidden},
		{"method not allowed", kterrors.ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{"rate limit", kterrors.ErrCodeRateLimited, http.StatusTooManyRequests},
		{"internal", kterrors.ErrCodeInternal, http.StatusInternalServerError},
		{"unknown defaults to internal", "SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusFromCode(tt.code); got != tt.want {
				t.Fatalf("HTTPStatusFromCode(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestRetryableFromCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{kterrors.ErrCodeInvalidRequest, false},
		{kterrors.ErrCodeNotFound, false},
		{kterrors.ErrCodeRateLimited, true},
		{kterrors.ErrCodeInternal, true},
		{"SOMETHING_ELSE", false},
	}

	for _, tt := range tests {
		if got := retryableFromCode(tt.code); got != tt.want {
			t.Errorf("retryableFromCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestMergeDetails(t *testing.T) {
	if got := mergeDetails(nil, nil); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}

	a := map[string]any{"a": 1, "shared": "old"}
	b := map[string]any{"b": 2, "shared": "new"}
	got := mergeDetails(a, b)
	if got["a"].(int) != 1 || got["b"].(int) != 2 {
		t.Fatalf("unexpected merge: %#v", got)
	}
	if got["shared"].(string) != "new" {
		t.Fatalf("expected second map to win, got %#v", got["shared"])
	}
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), contextKeyRequestID, "req-123"))
	w := httptest.NewRecorder()

	WriteError(w, req, http.StatusBadRequest, kterrors.ErrCodeInvalidRequest,
		"bad request", false, map[string]any{"k": "v"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Code != kterrors.ErrCodeInvalidRequest {
		t.Fatalf("expected code %q, got %q", kterrors.ErrCodeInvalidRequest, resp.Code)
	}
	if resp.RequestID != "req-123" {
		t.Fatalf("expected requestId req-123, got %q", resp.RequestID)
	}
	if resp.Retryable {
		t.Fatal("expected retryable=false")
	}
	if resp.Details["k"].(string) != "v" {
		t.Fatalf("expected details k=v, got %#v", resp.Details)
	}
}

func TestWriteErrorFromErr_Structured(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	cause := errors.New("no such file")
	err := kterrors.Wrap(cause, kterrors.ErrCodeNotFound, "file missing.csv does not exist")

	WriteErrorFromErr(w, req, err, "fallback", map[string]any{"extra": "yes"})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	var resp ErrorResponse
	if uerr := json.Unmarshal(w.Body.Bytes(), &resp); uerr != nil {
		t.Fatalf("failed to unmarshal response: %v", uerr)
	}
	if resp.Code != kterrors.ErrCodeNotFound {
		t.Fatalf("expected code %q, got %q", kterrors.ErrCodeNotFound, resp.Code)
	}
	if resp.Message != "file missing.csv does not exist" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if resp.Details["error"].(string) != "no such file" {
		t.Fatalf("expected cause in details, got %#v", resp.Details)
	}
	if resp.Details["extra"].(string) != "yes" {
		t.Fatalf("expected extra detail kept, got %#v", resp.Details)
	}
}

func TestWriteErrorFromErr_PlainErrorFallsBackToInternal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	WriteErrorFromErr(w, req, errors.New("boom"), "fallback", nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Code != kterrors.ErrCodeInternal {
		t.Fatalf("expected internal code, got %q", resp.Code)
	}
	if resp.Message != "fallback" {
		t.Fatalf("expected fallback message, got %q", resp.Message)
	}
	if !resp.Retryable {
		t.Fatal("expected retryable=true")
	}
}
