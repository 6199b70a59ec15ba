/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
	"github.com/etholab/kinetrack/pkg/serializer"
	"github.com/etholab/kinetrack/pkg/validators"
)

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// handleValidate handles POST /v1/validate: it runs the file validators over
// the requested paths and returns the report. Validation failures of the
// target files are reported in the body with status 200; only malformed
// requests produce error statuses.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, r, http.StatusMethodNotAllowed,
			kterrors.ErrCodeMethodNotAllowed, "only POST is supported", false, nil)
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, kterrors.ErrCodeInvalidRequest,
			"request body is not valid JSON", false,
			map[string]any{"error": err.Error()})
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, kterrors.ErrCodeInvalidRequest,
			"request must include at least one non-empty path", false,
			map[string]any{"error": err.Error()})
		return
	}

	runner := s.runner
	if len(req.HDF5Datasets) > 0 {
		runner = validators.NewRunner(
			validators.WithConcurrency(s.cfg.Concurrency),
			validators.WithHDF5Datasets(req.HDF5Datasets...),
		)
	}

	report, err := runner.Run(r.Context(), req.Paths)
	if err != nil {
		WriteErrorFromErr(w, r, err, "validation run failed", nil)
		return
	}

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	serializer.RespondJSON(w, http.StatusOK, ValidateResponse{
		RequestID: requestID,
		Report:    report,
	})
}
