/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

// Package sampledata exposes a curated registry of publicly hosted pose
// tracking sample files and downloads them on demand, verifying the
// checksum of entries whose digest is pinned in the registry.
package sampledata

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
)

// Entry describes one downloadable sample dataset.
type Entry struct {
	// Name is the registry key and the filename the download is saved under.
	Name string `json:"name" yaml:"name"`
	// Format identifies the loader for the file (dlc-csv, sleap-h5,
	// via-tracks-csv).
	Format string `json:"format" yaml:"format"`
	// URL is the full download location.
	URL string `json:"url" yaml:"url"`
	// SHA256 is the hex digest the download must match. Empty means the
	// digest is not pinned and verification is skipped.
	SHA256 string `json:"sha256,omitempty" yaml:"sha256,omitempty"`
	// FPS is the recording's sampling rate; 0 when unknown.
	FPS float64 `json:"fps" yaml:"fps"`
	// Species is the recorded animal species.
	Species string `json:"species" yaml:"species"`
	// Note is a one-line description of the recording.
	Note string `json:"note" yaml:"note"`
}

// Registry is the parsed embedded registry file.
type Registry struct {
	Datasets []Entry `yaml:"datasets"`
}

// List returns all registry entries in registry order.
func List(ctx context.Context) ([]Entry, error) {
	reg, err := loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	return reg.Datasets, nil
}

// Get returns the registry entry with the given name.
func Get(ctx context.Context, name string) (Entry, error) {
	reg, err := loadRegistry(ctx)
	if err != nil {
		return Entry{}, err
	}
	for _, e := range reg.Datasets {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, kterrors.New(kterrors.ErrCodeNotFound,
		"sample dataset %q not found in the registry", name)
}

// Fetch downloads the named sample dataset into destDir and returns the
// local path. A file that is already present with the expected checksum is
// not downloaded again.
func Fetch(ctx context.Context, name, destDir string) (string, error) {
	entry, err := Get(ctx, name)
	if err != nil {
		return "", err
	}
	return FetchEntry(ctx, entry, destDir)
}

// FetchEntry downloads one entry into destDir, verifying its checksum.
func FetchEntry(ctx context.Context, entry Entry, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", kterrors.Wrap(err, kterrors.ErrCodePermission,
			"unable to create directory %s", destDir)
	}
	dest := filepath.Join(destDir, entry.Name)

	if entry.SHA256 == "" {
		if _, err := os.Stat(dest); err == nil {
			slog.Debug("sample dataset already present", "name", entry.Name, "path", dest)
			return dest, nil
		}
	} else if digest, err := fileSHA256(dest); err == nil && digest == entry.SHA256 {
		slog.Debug("sample dataset already present", "name", entry.Name, "path", dest)
		return dest, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.URL, nil)
	if err != nil {
		return "", kterrors.Wrap(err, kterrors.ErrCodeInternal,
			"unable to build request for %s", entry.URL)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", kterrors.Wrap(err, kterrors.ErrCodeInternal,
			"unable to download %s", entry.URL)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "url", entry.URL, "error", err)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return "", kterrors.New(kterrors.ErrCodeInternal,
			"unexpected status %s downloading %s", resp.Status, entry.URL)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", kterrors.Wrap(err, kterrors.ErrCodePermission,
			"unable to create file %s", dest)
	}

	h := sha256.New()
	_, err = io.Copy(f, io.TeeReader(resp.Body, h))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return "", kterrors.Wrap(err, kterrors.ErrCodeInternal,
			"unable to write %s", dest)
	}

	digest := hex.EncodeToString(h.Sum(nil))
	if entry.SHA256 == "" {
		slog.Warn("no pinned checksum for sample dataset, skipping verification",
			"name", entry.Name, "sha256", digest)
	} else if digest != entry.SHA256 {
		_ = os.Remove(dest)
		return "", kterrors.New(kterrors.ErrCodeConsistency,
			"checksum mismatch for %s: expected %s, got %s",
			entry.Name, entry.SHA256, digest)
	}

	slog.Info("fetched sample dataset", "name", entry.Name, "path", dest)
	return dest, nil
}

// fileSHA256 returns the hex SHA-256 digest of an existing file.
func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close file", "path", path, "error", err)
		}
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
