/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package validators

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
	"github.com/etholab/kinetrack/pkg/textio"
)

// Kind identifies the tracking-data format a file is validated as.
type Kind string

const (
	// KindDLCCSV is a DeepLabCut pose estimation CSV export.
	KindDLCCSV Kind = "dlc-csv"
	// KindVIATracksCSV is a VIA tracks bounding-box CSV export.
	KindVIATracksCSV Kind = "via-tracks-csv"
	// KindHDF5 is an HDF5 pose file (DeepLabCut or SLEAP analysis output).
	KindHDF5 Kind = "hdf5"
	// KindUnknown is a file whose format could not be determined.
	KindUnknown Kind = "unknown"
)

// Status is the outcome of validating one file.
type Status string

const (
	// StatusPassed means every check succeeded.
	StatusPassed Status = "passed"
	// StatusFailed means a check found a violation.
	StatusFailed Status = "failed"
	// StatusSkipped means the file format could not be determined.
	StatusSkipped Status = "skipped"
)

// Result is the validation outcome for a single file.
type Result struct {
	Path    string `json:"path" yaml:"path"`
	Kind    Kind   `json:"kind" yaml:"kind"`
	Status  Status `json:"status" yaml:"status"`
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Summary aggregates per-file results.
type Summary struct {
	Total    int           `json:"total" yaml:"total"`
	Passed   int           `json:"passed" yaml:"passed"`
	Failed   int           `json:"failed" yaml:"failed"`
	Skipped  int           `json:"skipped" yaml:"skipped"`
	Status   Status        `json:"status" yaml:"status"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Report is the full outcome of a validation run.
type Report struct {
	Results []Result `json:"results" yaml:"results"`
	Summary Summary  `json:"summary" yaml:"summary"`
}

// Runner validates batches of tracking-data files, producing a Report.
type Runner struct {
	// Concurrency bounds how many files are validated in parallel.
	Concurrency int
	// HDF5Datasets are the top-level dataset names required of HDF5 files.
	HDF5Datasets []string
}

// RunnerOption is a functional option for configuring Runner instances.
type RunnerOption func(*Runner)

// WithConcurrency sets the parallel validation bound. Values below 1 are
// treated as 1.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		r.Concurrency = n
	}
}

// WithHDF5Datasets sets the dataset names required of validated HDF5 files.
func WithHDF5Datasets(names ...string) RunnerOption {
	return func(r *Runner) {
		r.HDF5Datasets = names
	}
}

// NewRunner creates a Runner with the provided options.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{Concurrency: 4}
	for _, opt := range opts {
		opt(r)
	}
	if r.Concurrency < 1 {
		r.Concurrency = 1
	}
	return r
}

// Run validates every path and returns the aggregate report. File order is
// preserved in the report regardless of completion order. The returned error
// reflects infrastructure failures only (e.g. context cancellation); check
// failures are reported per file.
func (r *Runner) Run(ctx context.Context, paths []string) (*Report, error) {
	start := time.Now()

	report := &Report{Results: make([]Result, len(paths))}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Concurrency)

	var mu sync.Mutex
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			res := r.validateOne(path)

			mu.Lock()
			report.Results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range report.Results {
		switch res.Status {
		case StatusPassed:
			report.Summary.Passed++
		case StatusFailed:
			report.Summary.Failed++
		case StatusSkipped:
			report.Summary.Skipped++
		}
	}
	report.Summary.Total = len(paths)
	report.Summary.Duration = time.Since(start)

	switch {
	case report.Summary.Failed > 0:
		report.Summary.Status = StatusFailed
	case report.Summary.Skipped > 0:
		report.Summary.Status = StatusSkipped
	default:
		report.Summary.Status = StatusPassed
	}

	slog.Debug("validation completed",
		"passed", report.Summary.Passed,
		"failed", report.Summary.Failed,
		"skipped", report.Summary.Skipped,
		"status", report.Summary.Status,
		"duration", report.Summary.Duration)

	return report, nil
}

// validateOne runs the path checks plus the format-appropriate validator
// for a single file.
func (r *Runner) validateOne(path string) Result {
	start := time.Now()
	kind := DetectKind(path)
	res := Result{Path: path, Kind: kind}

	defer func() {
		validationDuration.Observe(time.Since(start).Seconds())
		validationTotal.WithLabelValues(string(kind), string(res.Status)).Inc()
	}()

	fail := func(err error) Result {
		res.Status = StatusFailed
		res.Code = kterrors.CodeOf(err)
		res.Message = err.Error()
		return res
	}

	if _, err := NewFile(path, WithPermission(PermissionRead)); err != nil {
		return fail(err)
	}

	switch kind {
	case KindDLCCSV:
		if _, err := NewDeepLabCutCSV(path); err != nil {
			return fail(err)
		}
	case KindVIATracksCSV:
		if _, err := NewVIATracksCSV(path); err != nil {
			return fail(err)
		}
	case KindHDF5:
		if _, err := NewHDF5(path, WithExpectedDatasets(r.HDF5Datasets...)); err != nil {
			return fail(err)
		}
	default:
		res.Status = StatusSkipped
		res.Message = "unrecognized tracking-data format"
		return res
	}

	res.Status = StatusPassed
	return res
}

// DetectKind infers the tracking-data format of a file from its suffix and,
// for CSV files, its first header cell.
func DetectKind(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h5", ".hdf5", ".slp":
		return KindHDF5
	case ".csv":
		return detectCSVKind(path)
	}
	return KindUnknown
}

// detectCSVKind peeks at the first line to tell DeepLabCut exports
// (starting with a "scorer" index row) from VIA tracks exports (starting
// with a "filename" column).
func detectCSVKind(path string) Kind {
	f, err := os.Open(path)
	if err != nil {
		// Let the path validator report the failure with full context.
		return KindUnknown
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close file", "path", path, "error", err)
		}
	}()

	scanner := bufio.NewScanner(textio.NewBOMReader(f))
	if !scanner.Scan() {
		return KindUnknown
	}
	first, _, _ := strings.Cut(scanner.Text(), ",")
	switch first {
	case "scorer":
		return KindDLCCSV
	case "filename":
		return KindVIATracksCSV
	}
	return KindUnknown
}
