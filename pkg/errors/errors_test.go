/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "file %s does not exist", "poses.csv")
	if err.Code != ErrCodeNotFound {
		t.Fatalf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	want := "NOT_FOUND: file poses.csv does not exist"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := Wrap(cause, ErrCodeFormat, "unable to parse %s", "tracks.csv")
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be matchable with errors.Is")
	}

	var se *StructuredError
	if !errors.As(err, &se) {
		t.Fatalf("expected StructuredError, got %T", err)
	}
	if se.Code != ErrCodeFormat {
		t.Fatalf("expected code %s, got %s", ErrCodeFormat, se.Code)
	}

	if Wrap(nil, ErrCodeFormat, "ignored") != nil {
		t.Fatal("wrapping nil should return nil")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(ErrCodeSchema, "bad header")); got != ErrCodeSchema {
		t.Fatalf("expected %s, got %s", ErrCodeSchema, got)
	}
	if got := CodeOf(io.EOF); got != ErrCodeInternal {
		t.Fatalf("expected %s for plain error, got %s", ErrCodeInternal, got)
	}

	// Codes survive another layer of fmt wrapping.
	wrapped := fmt.Errorf("loading: %w", New(ErrCodeConsistency, "dup track"))
	if got := CodeOf(wrapped); got != ErrCodeConsistency {
		t.Fatalf("expected %s, got %s", ErrCodeConsistency, got)
	}
}

func TestHasCode(t *testing.T) {
	err := New(ErrCodePermission, "no read access")
	if !HasCode(err, ErrCodePermission) {
		t.Fatal("expected HasCode to match")
	}
	if HasCode(err, ErrCodeNotFound) {
		t.Fatal("expected HasCode to reject a different code")
	}
	if HasCode(nil, ErrCodePermission) {
		t.Fatal("expected HasCode to reject nil")
	}
}
