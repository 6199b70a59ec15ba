/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package errors

import (
	"errors"
	"fmt"
)

// Error codes grouped by cause, as string constants so they survive
// serialization into API responses and logs.
const (
	// Path/filesystem kind.
	ErrCodeIsADirectory  = "IS_A_DIRECTORY"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodePermission    = "PERMISSION_DENIED"
	ErrCodeSuffix        = "UNEXPECTED_SUFFIX"

	// Format kind.
	ErrCodeFormat = "INVALID_FORMAT"
	ErrCodeSchema = "SCHEMA_MISMATCH"

	// Consistency kind.
	ErrCodeConsistency = "INCONSISTENT_DATA"

	// Service/infrastructure kind.
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// StructuredError is an error carrying a stable machine-readable code next
// to its human-readable message. Callers match on the code with errors.As.
type StructuredError struct {
	// Code is one of the ErrCode* constants.
	Code string
	// Message describes the failure, naming the offending file/row/field.
	Message string
	// Err is the wrapped cause, if any.
	Err error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *StructuredError) Unwrap() error {
	return e.Err
}

// New creates a StructuredError with the given code and formatted message.
func New(code, format string, args ...any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a StructuredError wrapping err with the given code and
// formatted message. Returns nil if err is nil.
func Wrap(err error, code, format string, args ...any) *StructuredError {
	if err == nil {
		return nil
	}
	return &StructuredError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// CodeOf extracts the error code from err, or ErrCodeInternal if err is not
// a StructuredError.
func CodeOf(err error) string {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err is a StructuredError with the given code.
func HasCode(err error, code string) bool {
	var se *StructuredError
	return errors.As(err, &se) && se.Code == code
}
