/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package validators

import (
	"log/slog"
	"sort"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
	"gonum.org/v1/hdf5"
)

// HDF5 validates that a file parses as HDF5 and contains a required set of
// datasets at the top level of the object hierarchy.
type HDF5 struct {
	// Path is the validated file path.
	Path string
	// ExpectedDatasets are the top-level dataset names that must be present.
	// Empty disables the dataset check.
	ExpectedDatasets []string
}

// HDF5Option is a functional option for configuring HDF5 validation.
type HDF5Option func(*HDF5)

// WithExpectedDatasets sets the top-level dataset names that must exist.
func WithExpectedDatasets(names ...string) HDF5Option {
	return func(h *HDF5) {
		h.ExpectedDatasets = names
	}
}

// NewHDF5 validates path and returns the HDF5 on success. The file is opened
// once per check; validation is a one-time, small-file operation, not a hot
// path.
func NewHDF5(path string, opts ...HDF5Option) (*HDF5, error) {
	h := &HDF5{Path: path}
	for _, opt := range opts {
		opt(h)
	}

	checks := []func() error{
		h.checkOpensAsHDF5,
		h.checkExpectedDatasets,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// checkOpensAsHDF5 fails if the file cannot be opened as HDF5.
func (h *HDF5) checkOpensAsHDF5() error {
	f, err := hdf5.OpenFile(h.Path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"file %s does not seem to be in valid HDF5 format", h.Path)
	}
	if err := f.Close(); err != nil {
		slog.Warn("failed to close HDF5 file", "path", h.Path, "error", err)
	}
	return nil
}

// checkExpectedDatasets fails listing exactly the names from
// ExpectedDatasets that are absent among the file's top-level objects.
func (h *HDF5) checkExpectedDatasets() error {
	if len(h.ExpectedDatasets) == 0 {
		return nil
	}

	f, err := hdf5.OpenFile(h.Path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"file %s does not seem to be in valid HDF5 format", h.Path)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close HDF5 file", "path", h.Path, "error", err)
		}
	}()

	n, err := f.NumObjects()
	if err != nil {
		return kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"unable to list top-level objects in file %s", h.Path)
	}

	present := make(map[string]bool, n)
	for i := uint(0); i < n; i++ {
		present[f.ObjectNameByIndex(i)] = true
	}

	var missing []string
	for _, name := range h.ExpectedDatasets {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return kterrors.New(kterrors.ErrCodeFormat,
			"could not find the expected dataset(s) %v in file %s", missing, h.Path)
	}
	return nil
}
