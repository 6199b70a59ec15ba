/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package validators

import (
	"os"
	"path/filepath"
	"slices"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
)

// Permission describes the access a caller intends to perform on a file.
type Permission string

const (
	// PermissionRead expects an existing, readable file.
	PermissionRead Permission = "r"
	// PermissionWrite expects the file to not exist yet and its parent
	// directory to be writable.
	PermissionWrite Permission = "w"
	// PermissionReadWrite expects an existing, readable file whose parent
	// directory is writable.
	PermissionReadWrite Permission = "rw"
)

// IsValid reports whether p is one of the supported permissions.
func (p Permission) IsValid() bool {
	switch p {
	case PermissionRead, PermissionWrite, PermissionReadWrite:
		return true
	}
	return false
}

func (p Permission) reads() bool  { return p == PermissionRead || p == PermissionReadWrite }
func (p Permission) writes() bool { return p == PermissionWrite || p == PermissionReadWrite }

// File validates a filesystem path against an intended access mode and an
// optional set of acceptable suffixes.
type File struct {
	// Path is the validated file path.
	Path string
	// Permission is the access the caller intends to perform.
	Permission Permission
	// Suffixes are the acceptable file extensions. Empty disables the check.
	Suffixes []string
}

// FileOption is a functional option for configuring File validation.
type FileOption func(*File)

// WithPermission sets the intended access mode. Default: PermissionRead.
func WithPermission(p Permission) FileOption {
	return func(f *File) {
		f.Permission = p
	}
}

// WithSuffixes sets the acceptable file extensions, including the leading
// dot (e.g. ".csv", ".h5").
func WithSuffixes(suffixes ...string) FileOption {
	return func(f *File) {
		f.Suffixes = suffixes
	}
}

// NewFile validates path and returns the File on success. Checks run in a
// fixed order and the first violation is returned: directory kind, existence
// versus the requested permission, access permissions, expected suffix.
func NewFile(path string, opts ...FileOption) (*File, error) {
	f := &File{
		Path:       path,
		Permission: PermissionRead,
	}
	for _, opt := range opts {
		opt(f)
	}

	if !f.Permission.IsValid() {
		return nil, kterrors.New(kterrors.ErrCodeInvalidRequest,
			"unsupported permission %q, expected one of r, w, rw", f.Permission)
	}

	checks := []func() error{
		f.checkNotDirectory,
		f.checkExistence,
		f.checkAccess,
		f.checkSuffix,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// checkNotDirectory fails if the path points at a directory.
func (f *File) checkNotDirectory() error {
	info, err := os.Stat(f.Path)
	if err == nil && info.IsDir() {
		return kterrors.New(kterrors.ErrCodeIsADirectory,
			"expected a file path but got a directory: %s", f.Path)
	}
	return nil
}

// checkExistence fails if the file is absent when it must be read, or
// present when it is about to be written.
func (f *File) checkExistence() error {
	_, err := os.Stat(f.Path)
	exists := err == nil

	if f.Permission.reads() {
		if !exists {
			return kterrors.New(kterrors.ErrCodeNotFound,
				"file %s does not exist", f.Path)
		}
		return nil
	}
	// Write-only: the file must not be there yet.
	if exists {
		return kterrors.New(kterrors.ErrCodeAlreadyExists,
			"file %s already exists", f.Path)
	}
	return nil
}

// checkAccess fails if read access is required but the file is unreadable,
// or write access is required but the parent directory is not writable.
func (f *File) checkAccess() error {
	if f.Permission.reads() && !readable(f.Path) {
		return kterrors.New(kterrors.ErrCodePermission,
			"unable to read file %s, make sure you have read permissions", f.Path)
	}
	if f.Permission.writes() && !writable(filepath.Dir(f.Path)) {
		return kterrors.New(kterrors.ErrCodePermission,
			"unable to write to file %s, make sure you have write permissions", f.Path)
	}
	return nil
}

// checkSuffix fails if a suffix allow-list is set and the file extension is
// not a member.
func (f *File) checkSuffix() error {
	if len(f.Suffixes) == 0 {
		return nil
	}
	suffix := filepath.Ext(f.Path)
	if !slices.Contains(f.Suffixes, suffix) {
		return kterrors.New(kterrors.ErrCodeSuffix,
			"expected file with suffix(es) %v but got suffix %q instead", f.Suffixes, suffix)
	}
	return nil
}
