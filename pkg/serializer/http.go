/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package serializer

import (
	"bytes"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"
)

// RespondJSON writes a JSON response with the given status code and data.
// The encoding is buffered before any header is written, so an encoding
// failure produces a clean 500 instead of a partial response.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		// Connection is broken, log but can't recover.
		slog.Warn("response write failed", "error", err)
	}
}
