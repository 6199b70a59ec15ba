/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package validators

import (
	"bufio"
	"log/slog"
	"os"
	"slices"
	"strings"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
	"github.com/etholab/kinetrack/pkg/textio"
)

// dlcIndexLevels are the index column levels shared by single- and
// multi-animal DeepLabCut output files.
var dlcIndexLevels = []string{"scorer", "bodyparts", "coords"}

// DeepLabCutCSV validates that a .csv file carries the multi-row index
// convention of DeepLabCut pose estimation output.
//
// The first four lines must start with one of two canonical label
// sequences: the single-animal form, where the fourth line starts with the
// keypoint count (a bare digit sequence), or the multi-animal form with an
// "individuals" level inserted after "scorer".
type DeepLabCutCSV struct {
	// Path is the validated file path.
	Path string
}

// NewDeepLabCutCSV validates path and returns the DeepLabCutCSV on success.
func NewDeepLabCutCSV(path string) (*DeepLabCutCSV, error) {
	d := &DeepLabCutCSV{Path: path}
	if err := d.checkIndexLevels(); err != nil {
		return nil, err
	}
	return d, nil
}

// checkIndexLevels fails if the leading tokens of the top four rows do not
// equal the expected index level sequence exactly.
func (d *DeepLabCutCSV) checkIndexLevels() error {
	f, err := os.Open(d.Path)
	if err != nil {
		return kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"unable to open file %s", d.Path)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close file", "path", d.Path, "error", err)
		}
	}()

	scanner := bufio.NewScanner(textio.NewBOMReader(f))
	rowStarts := make([]string, 0, 4)
	for len(rowStarts) < 4 && scanner.Scan() {
		token, _, _ := strings.Cut(scanner.Text(), ",")
		rowStarts = append(rowStarts, token)
	}
	if err := scanner.Err(); err != nil {
		return kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"unable to read file %s", d.Path)
	}
	if len(rowStarts) < 4 {
		return kterrors.New(kterrors.ErrCodeSchema,
			"file %s has fewer than the 4 header rows expected of DeepLabCut "+
				"pose estimation output files", d.Path)
	}

	expected := slices.Clone(dlcIndexLevels)
	if isAllDigits(rowStarts[3]) {
		// A bare digit in the 4th row is the keypoint count of a
		// single-animal file.
		expected = append(expected, rowStarts[3])
	} else {
		expected = slices.Insert(expected, 1, "individuals")
	}

	if !slices.Equal(rowStarts, expected) {
		return kterrors.New(kterrors.ErrCodeSchema,
			"file %s: header rows %v do not match the known format for "+
				"DeepLabCut pose estimation output files (expected %v)",
			d.Path, rowStarts, expected)
	}
	return nil
}

// isAllDigits reports whether s is non-empty and consists only of ASCII
// digits.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
