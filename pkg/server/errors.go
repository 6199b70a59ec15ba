/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
	"github.com/etholab/kinetrack/pkg/serializer"
)

// HTTPStatusFromCode maps a structured error code to an HTTP status.
// Unknown codes map to 500.
func HTTPStatusFromCode(code string) int {
	switch code {
	case kterrors.ErrCodeInvalidRequest,
		kterrors.ErrCodeFormat,
		kterrors.ErrCodeSchema,
		kterrors.ErrCodeConsistency,
		kterrors.ErrCodeSuffix,
		kterrors.ErrCodeIsADirectory:
		return http.StatusBadRequest
	case kterrors.ErrCodeNotFound:
		return http.StatusNotFound
	case kterrors.ErrCodePermission:
		return http.StatusForbidden
	case kterrors.ErrCodeAlreadyExists:
		return http.StatusConflict
	case kterrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case kterrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// retryableFromCode reports whether a client may usefully retry the request.
func retryableFromCode(code string) bool {
	switch code {
	case kterrors.ErrCodeRateLimited, kterrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails merges two detail maps, the second winning on key conflicts.
// Returns nil when both are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// WriteError writes an ErrorResponse with the given status and code.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr maps a structured error to an ErrorResponse. Errors
// without a structured code become 500s with the fallback message.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error,
	fallback string, details map[string]any) {

	code := kterrors.CodeOf(err)
	message := fallback

	var se *kterrors.StructuredError
	if errors.As(err, &se) {
		message = se.Message
		if se.Err != nil {
			details = mergeDetails(details, map[string]any{"error": se.Err.Error()})
		}
	} else if err != nil {
		details = mergeDetails(details, map[string]any{"error": err.Error()})
	}

	WriteError(w, r, HTTPStatusFromCode(code), code, message,
		retryableFromCode(code), details)
}
