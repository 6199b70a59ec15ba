/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package validators

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
)

func TestDetectKind(t *testing.T) {
	dlc := writeTempFile(t, "poses.csv", singleAnimalDLC)
	via := writeTempFile(t, "tracks.csv", "filename,file_size\n")
	other := writeTempFile(t, "notes.csv", "a,b\n")

	assert.Equal(t, KindDLCCSV, DetectKind(dlc))
	assert.Equal(t, KindVIATracksCSV, DetectKind(via))
	assert.Equal(t, KindUnknown, DetectKind(other))
	assert.Equal(t, KindHDF5, DetectKind("poses.h5"))
	assert.Equal(t, KindHDF5, DetectKind("poses.HDF5"))
	assert.Equal(t, KindUnknown, DetectKind("poses.txt"))
}

func TestRunner_Run(t *testing.T) {
	good := writeTempFile(t, "poses.csv", singleAnimalDLC)
	bad := writeTempFile(t, "broken.csv", "scorer,m\nwrong,level\ncoords,x\n0,1\n")
	unknown := writeTempFile(t, "notes.txt", "free text\n")
	missing := filepath.Join(t.TempDir(), "absent.csv")

	runner := NewRunner(WithConcurrency(2))
	report, err := runner.Run(context.Background(), []string{good, bad, unknown, missing})
	require.NoError(t, err)

	require.Len(t, report.Results, 4)

	assert.Equal(t, StatusPassed, report.Results[0].Status)
	assert.Equal(t, KindDLCCSV, report.Results[0].Kind)

	assert.Equal(t, StatusFailed, report.Results[1].Status)
	assert.Equal(t, kterrors.ErrCodeSchema, report.Results[1].Code)

	assert.Equal(t, StatusSkipped, report.Results[2].Status)

	assert.Equal(t, StatusFailed, report.Results[3].Status)
	assert.Equal(t, kterrors.ErrCodeNotFound, report.Results[3].Code)

	assert.Equal(t, 4, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Passed)
	assert.Equal(t, 2, report.Summary.Failed)
	assert.Equal(t, 1, report.Summary.Skipped)
	assert.Equal(t, StatusFailed, report.Summary.Status)
}

func TestRunner_RunEmpty(t *testing.T) {
	report, err := NewRunner().Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Summary.Total)
	assert.Equal(t, StatusPassed, report.Summary.Status)
}

func TestRunner_RunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	good := writeTempFile(t, "poses.csv", singleAnimalDLC)
	_, err := NewRunner(WithConcurrency(1)).Run(ctx, []string{good, good, good})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunner_ConcurrencyFloor(t *testing.T) {
	assert.Equal(t, 1, NewRunner(WithConcurrency(0)).Concurrency)
	assert.Equal(t, 4, NewRunner().Concurrency)
}
