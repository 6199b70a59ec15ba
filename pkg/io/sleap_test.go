/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
)

func TestLoadSLEAPHDF5_MissingFile(t *testing.T) {
	_, err := LoadSLEAPHDF5(filepath.Join(t.TempDir(), "missing.h5"), 0)
	require.Error(t, err)
	assert.True(t, kterrors.HasCode(err, kterrors.ErrCodeNotFound))
}

func TestLoadSLEAPHDF5_RejectsSuffix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poses.txt")
	require.NoError(t, os.WriteFile(path, []byte("not hdf5"), 0o600))

	_, err := LoadSLEAPHDF5(path, 0)
	require.Error(t, err)
	assert.True(t, kterrors.HasCode(err, kterrors.ErrCodeSuffix))
}

func TestLoadSLEAPHDF5_RejectsNonHDF5Content(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poses.h5")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not hdf5"), 0o600))

	_, err := LoadSLEAPHDF5(path, 0)
	require.Error(t, err)
	assert.True(t, kterrors.HasCode(err, kterrors.ErrCodeFormat))
}
