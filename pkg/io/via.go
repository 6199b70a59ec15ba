/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package io

import (
	"encoding/csv"
	"log/slog"
	"os"
	"strconv"
	"strings"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
	"github.com/etholab/kinetrack/pkg/poses"
	"github.com/etholab/kinetrack/pkg/textio"
	"github.com/etholab/kinetrack/pkg/validators"
)

// sourceVIA names the VGG Image Annotator as the dataset source.
const sourceVIA = "VIA-tracks"

// LoadVIATracksCSV reads a VIA tracks bounding-box CSV export into a
// BBoxDataset keyed by frame number.
func LoadVIATracksCSV(path string, fps float64) (*poses.BBoxDataset, error) {
	if _, err := validators.NewFile(path,
		validators.WithPermission(validators.PermissionRead),
		validators.WithSuffixes(".csv"),
	); err != nil {
		return nil, err
	}
	if _, err := validators.NewVIATracksCSV(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"unable to open file %s", path)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close file", "path", path, "error", err)
		}
	}()

	r := csv.NewReader(textio.NewBOMReader(f))
	records, err := r.ReadAll()
	if err != nil {
		return nil, kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"unable to parse file %s as CSV", path)
	}

	ds := poses.NewBBoxDataset()
	ds.Metadata.Source = sourceVIA
	ds.Metadata.SourceFile = path
	ds.Metadata.FPS = fps

	// The validator has already established that every cell parses, every
	// box is a rectangle and every frame number is derivable.
	for _, rec := range records[1:] {
		filename, fileAttrsCell := rec[0], rec[2]
		shapeCell, regionCell := rec[5], rec[6]

		fileAttrs, err := validators.ParseAttributes(fileAttrsCell)
		if err != nil {
			return nil, kterrors.Wrap(err, kterrors.ErrCodeFormat,
				"%s: malformed file_attributes dictionary %q", filename, fileAttrsCell)
		}
		frame, err := frameNumber(filename, fileAttrs)
		if err != nil {
			return nil, err
		}

		shape, err := validators.ParseAttributes(shapeCell)
		if err != nil {
			return nil, kterrors.Wrap(err, kterrors.ErrCodeFormat,
				"%s: malformed region_shape_attributes dictionary %q", filename, shapeCell)
		}
		region, err := validators.ParseAttributes(regionCell)
		if err != nil {
			return nil, kterrors.Wrap(err, kterrors.ErrCodeFormat,
				"%s: malformed region_attributes dictionary %q", filename, regionCell)
		}
		track, err := validators.CastInt(region["track"])
		if err != nil {
			return nil, kterrors.New(kterrors.ErrCodeConsistency,
				"%s: track ID cannot be cast as an integer", filename)
		}

		box := poses.BBox{
			Track:  track,
			X:      floatAttr(shape, "x"),
			Y:      floatAttr(shape, "y"),
			Width:  floatAttr(shape, "width"),
			Height: floatAttr(shape, "height"),
		}
		ds.Boxes[frame] = append(ds.Boxes[frame], box)
	}

	slog.Debug("loaded VIA tracks CSV",
		"path", path,
		"frames", ds.Frames(),
		"tracks", len(ds.TrackIDs()))

	return ds, nil
}

// frameNumber resolves the frame number for a row from its file attributes
// or, failing that, the filename pattern.
func frameNumber(filename string, fileAttrs map[string]any) (int, error) {
	if v, ok := fileAttrs["frame"]; ok {
		if frame, err := validators.CastInt(v); err == nil {
			return frame, nil
		}
	}
	if frame, ok := validators.FrameFromFilename(filename); ok {
		return frame, nil
	}
	return 0, kterrors.New(kterrors.ErrCodeConsistency,
		"%s: a frame number could not be derived from the file attributes "+
			"or the filename", filename)
}

// floatAttr reads a numeric attribute, tolerating string-encoded numbers.
func floatAttr(attrs map[string]any, key string) float64 {
	switch v := attrs[key].(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}
