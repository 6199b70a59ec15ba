/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package validators

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewFile_DirectoryAlwaysFails(t *testing.T) {
	dir := t.TempDir()

	for _, perm := range []Permission{PermissionRead, PermissionWrite, PermissionReadWrite} {
		_, err := NewFile(dir, WithPermission(perm))
		require.Error(t, err, "permission %q", perm)
		assert.True(t, kterrors.HasCode(err, kterrors.ErrCodeIsADirectory),
			"permission %q: got %v", perm, err)
	}
}

func TestNewFile_ExistenceVersusPermission(t *testing.T) {
	existing := writeTempFile(t, "tracks.csv", "filename\n")
	missing := filepath.Join(t.TempDir(), "absent.csv")

	tests := []struct {
		name     string
		path     string
		perm     Permission
		wantCode string
	}{
		{"read missing", missing, PermissionRead, kterrors.ErrCodeNotFound},
		{"readwrite missing", missing, PermissionReadWrite, kterrors.ErrCodeNotFound},
		{"write existing", existing, PermissionWrite, kterrors.ErrCodeAlreadyExists},
		{"read existing ok", existing, PermissionRead, ""},
		{"write missing ok", missing, PermissionWrite, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFile(tt.path, WithPermission(tt.perm))
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.path, f.Path)
				return
			}
			require.Error(t, err)
			assert.True(t, kterrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestNewFile_UnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission bits are not enforced")
	}

	path := writeTempFile(t, "locked.csv", "data\n")
	require.NoError(t, os.Chmod(path, 0o000))
	t.Cleanup(func() { _ = os.Chmod(path, 0o644) })

	_, err := NewFile(path, WithPermission(PermissionRead))
	require.Error(t, err)
	assert.True(t, kterrors.HasCode(err, kterrors.ErrCodePermission), "got %v", err)
}

func TestNewFile_SuffixCheck(t *testing.T) {
	path := writeTempFile(t, "poses.h5", "")

	_, err := NewFile(path, WithSuffixes(".csv"))
	require.Error(t, err)
	assert.True(t, kterrors.HasCode(err, kterrors.ErrCodeSuffix), "got %v", err)

	_, err = NewFile(path, WithSuffixes(".csv", ".h5"))
	assert.NoError(t, err)

	// Empty suffix list disables the check.
	_, err = NewFile(path)
	assert.NoError(t, err)
}

func TestNewFile_InvalidPermission(t *testing.T) {
	path := writeTempFile(t, "poses.csv", "")

	_, err := NewFile(path, WithPermission(Permission("rx")))
	require.Error(t, err)
	assert.True(t, kterrors.HasCode(err, kterrors.ErrCodeInvalidRequest), "got %v", err)
}

func TestNewFile_DirectoryBeatsExistence(t *testing.T) {
	// The directory check runs first, so a directory in write mode reports
	// the directory error, not already-exists.
	_, err := NewFile(t.TempDir(), WithPermission(PermissionWrite))
	require.Error(t, err)
	assert.True(t, kterrors.HasCode(err, kterrors.ErrCodeIsADirectory), "got %v", err)
}

func TestAccessProbes(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, "tracks.csv", "filename\n")

	assert.True(t, readable(path))
	assert.True(t, writable(dir))
	assert.False(t, readable(filepath.Join(dir, "absent.csv")))
}
