/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package validators

import (
	"encoding/csv"
	"io"
	"log/slog"
	"math"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
	"github.com/etholab/kinetrack/pkg/textio"
)

// viaTracksHeader is the exact, order-sensitive header of a VIA tracks
// export.
var viaTracksHeader = []string{
	"filename",
	"file_size",
	"file_attributes",
	"region_count",
	"region_id",
	"region_shape_attributes",
	"region_attributes",
}

// bboxShapeKeys are the geometric parameters every rectangle must define.
var bboxShapeKeys = []string{"x", "y", "width", "height"}

// frameInFilename matches a zero-led frame number between an underscore and
// the file extension, e.g. img_00234.png -> 234.
var frameInFilename = regexp.MustCompile(`_(0\d*)\.\w+$`)

// viaRow is one parsed CSV record of a VIA tracks file.
type viaRow struct {
	index      int // 0-based data row index
	filename   string
	fileAttrs  string
	shapeAttrs string
	regionAttr string
}

// VIATracksCSV validates a VIA tracks .csv file: header schema, frame
// numbers, bounding-box geometry and per-file track-ID uniqueness.
type VIATracksCSV struct {
	// Path is the validated file path.
	Path string
}

// NewVIATracksCSV validates path and returns the VIATracksCSV on success.
// The four checks run in a fixed order, each re-reading the file; the first
// failure is returned and later checks do not run. Whole-file reads are
// acceptable for the expected file sizes; this is not a streaming parser.
func NewVIATracksCSV(path string) (*VIATracksCSV, error) {
	v := &VIATracksCSV{Path: path}

	checks := []func() error{
		v.checkHeader,
		v.checkFrameNumbers,
		v.checkBoundingBoxes,
		v.checkTrackUniqueness,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// readRows parses the whole CSV, returning its data rows. The header is
// assumed to have been checked already when called from later checks.
func (v *VIATracksCSV) readRows() ([]viaRow, error) {
	f, err := os.Open(v.Path)
	if err != nil {
		return nil, kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"unable to open file %s", v.Path)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close file", "path", v.Path, "error", err)
		}
	}()

	r := csv.NewReader(textio.NewBOMReader(f))
	r.FieldsPerRecord = len(viaTracksHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"unable to parse file %s as CSV", v.Path)
	}
	if len(records) == 0 {
		return nil, kterrors.New(kterrors.ErrCodeSchema,
			"file %s is empty, expected a VIA tracks header row", v.Path)
	}

	rows := make([]viaRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		rows = append(rows, viaRow{
			index:      i,
			filename:   rec[0],
			fileAttrs:  rec[2],
			shapeAttrs: rec[5],
			regionAttr: rec[6],
		})
	}
	return rows, nil
}

// checkHeader fails unless the literal header row equals viaTracksHeader.
func (v *VIATracksCSV) checkHeader() error {
	f, err := os.Open(v.Path)
	if err != nil {
		return kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"unable to open file %s", v.Path)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close file", "path", v.Path, "error", err)
		}
	}()

	r := csv.NewReader(textio.NewBOMReader(f))
	header, err := r.Read()
	if err == io.EOF {
		return kterrors.New(kterrors.ErrCodeSchema,
			"file %s is empty, expected a VIA tracks header row", v.Path)
	}
	if err != nil {
		return kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"unable to parse header row of file %s", v.Path)
	}

	if !slices.Equal(header, viaTracksHeader) {
		msg := "file %s: header row does not match the known format for " +
			"VIA tracks output files, expected %v but got %v"
		if hint := suggestHeader(header, viaTracksHeader); hint != "" {
			msg += " (" + hint + ")"
		}
		return kterrors.New(kterrors.ErrCodeSchema, msg, v.Path, viaTracksHeader, header)
	}
	return nil
}

// checkFrameNumbers extracts one frame number per row, preferring a "frame"
// file attribute present on every row and falling back to the filename
// pattern, then requires a 1:1 mapping between distinct frame numbers and
// distinct filenames.
func (v *VIATracksCSV) checkFrameNumbers() error {
	rows, err := v.readRows()
	if err != nil {
		return err
	}

	attrs := make([]map[string]any, len(rows))
	allHaveFrame := len(rows) > 0
	for i, row := range rows {
		a, err := ParseAttributes(row.fileAttrs)
		if err != nil {
			return kterrors.Wrap(err, kterrors.ErrCodeFormat,
				"%s (row %d): malformed file_attributes dictionary %q",
				row.filename, row.index, row.fileAttrs)
		}
		attrs[i] = a
		if _, ok := a["frame"]; !ok {
			allHaveFrame = false
		}
	}

	frames := make(map[int]bool, len(rows))
	filenames := make(map[string]bool, len(rows))
	for i, row := range rows {
		var frame int
		if allHaveFrame {
			frame, err = CastInt(attrs[i]["frame"])
			if err != nil {
				return kterrors.New(kterrors.ErrCodeConsistency,
					"%s (row %d): 'frame' file attribute cannot be cast as an "+
						"integer, please review the file attributes %q",
					row.filename, row.index, row.fileAttrs)
			}
		} else {
			var ok bool
			frame, ok = FrameFromFilename(row.filename)
			if !ok {
				return kterrors.New(kterrors.ErrCodeConsistency,
					"%s (row %d): a frame number could not be extracted from "+
						"the filename; if included in the filename, the frame "+
						"number is expected as a zero-padded integer between "+
						"an underscore '_' and the file extension "+
						"(e.g. img_00234.png)",
					row.filename, row.index)
			}
		}
		frames[frame] = true
		filenames[row.filename] = true
	}

	if len(frames) != len(filenames) {
		return kterrors.New(kterrors.ErrCodeConsistency,
			"file %s: the number of unique frame numbers (%d) does not match "+
				"the number of unique image files (%d), ensure a unique frame "+
				"number is defined for each file",
			v.Path, len(frames), len(filenames))
	}
	return nil
}

// checkBoundingBoxes fails unless every row is a rectangle with full
// geometry and an integer-castable track ID.
func (v *VIATracksCSV) checkBoundingBoxes() error {
	rows, err := v.readRows()
	if err != nil {
		return err
	}

	for _, row := range rows {
		shape, err := ParseAttributes(row.shapeAttrs)
		if err != nil {
			return kterrors.Wrap(err, kterrors.ErrCodeFormat,
				"%s (row %d): malformed region_shape_attributes dictionary %q",
				row.filename, row.index, row.shapeAttrs)
		}
		region, err := ParseAttributes(row.regionAttr)
		if err != nil {
			return kterrors.Wrap(err, kterrors.ErrCodeFormat,
				"%s (row %d): malformed region_attributes dictionary %q",
				row.filename, row.index, row.regionAttr)
		}

		if name, _ := shape["name"].(string); name != "rect" {
			return kterrors.New(kterrors.ErrCodeConsistency,
				"%s (row %d): bounding box shape must be 'rect' (rectangular) "+
					"but instead got %q", row.filename, row.index, shape["name"])
		}

		for _, key := range bboxShapeKeys {
			if _, ok := shape[key]; !ok {
				return kterrors.New(kterrors.ErrCodeConsistency,
					"%s (row %d): at least one bounding box shape parameter is "+
						"missing, expected %v to exist as region_shape_attributes "+
						"but got %v",
					row.filename, row.index, bboxShapeKeys, mapKeys(shape))
			}
		}

		track, ok := region["track"]
		if !ok {
			return kterrors.New(kterrors.ErrCodeConsistency,
				"%s (row %d): bounding box does not have a 'track' attribute "+
					"defined under region_attributes", row.filename, row.index)
		}
		if _, err := CastInt(track); err != nil {
			return kterrors.New(kterrors.ErrCodeConsistency,
				"%s (row %d): the track ID for the bounding box cannot be "+
					"cast as an integer", row.filename, row.index)
		}
	}
	return nil
}

// checkTrackUniqueness fails if any filename carries two bounding boxes with
// the same track ID.
func (v *VIATracksCSV) checkTrackUniqueness() error {
	rows, err := v.readRows()
	if err != nil {
		return err
	}

	seen := make(map[string]map[int]bool)
	for _, row := range rows {
		region, err := ParseAttributes(row.regionAttr)
		if err != nil {
			return kterrors.Wrap(err, kterrors.ErrCodeFormat,
				"%s (row %d): malformed region_attributes dictionary %q",
				row.filename, row.index, row.regionAttr)
		}
		track, err := CastInt(region["track"])
		if err != nil {
			// Already reported with row context by checkBoundingBoxes.
			return kterrors.New(kterrors.ErrCodeConsistency,
				"%s (row %d): the track ID for the bounding box cannot be "+
					"cast as an integer", row.filename, row.index)
		}

		tracks := seen[row.filename]
		if tracks == nil {
			tracks = make(map[int]bool)
			seen[row.filename] = tracks
		}
		if tracks[track] {
			return kterrors.New(kterrors.ErrCodeConsistency,
				"%s: multiple bounding boxes in this file have the same "+
					"track ID %d", row.filename, track)
		}
		tracks[track] = true
	}
	return nil
}

// FrameFromFilename extracts the frame number encoded in an image filename
// as a zero-led integer between an underscore and the extension. The second
// return value is false when the filename carries no such pattern.
func FrameFromFilename(filename string) (int, bool) {
	m := frameInFilename.FindStringSubmatch(filename)
	if m == nil {
		return 0, false
	}
	frame, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return frame, true
}

// ParseAttributes parses a stringified attribute dictionary from a CSV cell.
// VIA exports these cells as JSON objects.
func ParseAttributes(cell string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(cell), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// CastInt converts a decoded attribute value to an integer, accepting
// integral JSON numbers and digit strings.
func CastInt(v any) (int, error) {
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) {
			return 0, strconv.ErrSyntax
		}
		return int(t), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	case json.Number:
		return strconv.Atoi(t.String())
	default:
		return 0, strconv.ErrSyntax
	}
}

// mapKeys returns the sorted keys of m for use in error messages.
func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
