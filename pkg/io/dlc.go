/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package io

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
	"github.com/etholab/kinetrack/pkg/poses"
	"github.com/etholab/kinetrack/pkg/textio"
	"github.com/etholab/kinetrack/pkg/validators"
)

// sourceDLC names DeepLabCut as the dataset source in metadata.
const sourceDLC = "DeepLabCut"

// defaultIndividual is the individual name assigned to single-animal files,
// which carry no individuals header row.
const defaultIndividual = "individual_0"

// LoadDLCCSV reads a DeepLabCut pose estimation CSV export into a dataset.
// fps may be 0 when the sampling rate is unknown.
func LoadDLCCSV(path string, fps float64) (*poses.Dataset, error) {
	if _, err := validators.NewFile(path,
		validators.WithPermission(validators.PermissionRead),
		validators.WithSuffixes(".csv"),
	); err != nil {
		return nil, err
	}
	if _, err := validators.NewDeepLabCutCSV(path); err != nil {
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

	// The validator guarantees 3 or 4 index rows; multi-animal files carry
	// an individuals row after scorer.
	multiAnimal := len(records) > 1 && records[1][0] == "individuals"
	headerRows := 3
	if multiAnimal {
		headerRows = 4
	}
	if len(records) < headerRows {
		return nil, kterrors.New(kterrors.ErrCodeSchema,
			"file %s: expected %d header rows, got %d", path, headerRows, len(records))
	}

	var individualsRow []string
	bodypartsRow := records[1]
	coordsRow := records[2]
	if multiAnimal {
		individualsRow = records[1]
		bodypartsRow = records[2]
		coordsRow = records[3]
	}

	// Column layout: first column is the frame index, then one column per
	// (individual, bodypart, coord) triple.
	type column struct {
		individual int
		keypoint   int
		coord      string
	}

	individuals := []string{defaultIndividual}
	if multiAnimal {
		individuals = uniqueInOrder(individualsRow[1:])
	}
	keypoints := uniqueInOrder(bodypartsRow[1:])

	indIndex := indexOf(individuals)
	kpIndex := indexOf(keypoints)

	columns := make([]column, len(coordsRow))
	for j := 1; j < len(coordsRow); j++ {
		ind := defaultIndividual
		if multiAnimal {
			ind = individualsRow[j]
		}
		columns[j] = column{
			individual: indIndex[ind],
			keypoint:   kpIndex[bodypartsRow[j]],
			coord:      coordsRow[j],
		}
	}

	dataRows := records[headerRows:]
	ds := poses.NewDataset(len(dataRows), individuals, keypoints)
	ds.Metadata.Source = sourceDLC
	ds.Metadata.SourceFile = path
	ds.Metadata.FPS = fps

	for t, rec := range dataRows {
		if len(rec) != len(coordsRow) {
			return nil, kterrors.New(kterrors.ErrCodeSchema,
				"file %s: data row %d has %d columns, expected %d",
				path, t, len(rec), len(coordsRow))
		}
		for j := 1; j < len(rec); j++ {
			val := parseCell(rec[j])
			col := columns[j]
			switch col.coord {
			case "x":
				ds.Position[t][col.individual][col.keypoint][0] = val
			case "y":
				ds.Position[t][col.individual][col.keypoint][1] = val
			case "likelihood":
				ds.Confidence[t][col.individual][col.keypoint] = val
			default:
				return nil, kterrors.New(kterrors.ErrCodeSchema,
					"file %s: unknown coords level %q in column %d, "+
						"expected x, y or likelihood", path, col.coord, j)
			}
		}
	}

	slog.Debug("loaded DeepLabCut CSV",
		"path", path,
		"frames", ds.Frames(),
		"individuals", len(individuals),
		"keypoints", len(keypoints))

	return ds, nil
}

// SaveDLCCSV writes a dataset in the DeepLabCut CSV layout. Single-
// individual datasets use the single-animal 3-row header; anything else
// writes the multi-animal form with an individuals row. The scorer level is
// filled with the dataset source.
func SaveDLCCSV(ds *poses.Dataset, path string) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	if _, err := validators.NewFile(path,
		validators.WithPermission(validators.PermissionWrite),
		validators.WithSuffixes(".csv"),
	); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return kterrors.Wrap(err, kterrors.ErrCodePermission,
			"unable to create file %s", path)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close file", "path", path, "error", err)
		}
	}()

	w := csv.NewWriter(f)

	scorer := ds.Metadata.Source
	if scorer == "" {
		scorer = "kinetrack"
	}
	multiAnimal := len(ds.Individuals) > 1

	nCols := len(ds.Individuals) * len(ds.Keypoints) * 3
	scorerRow := headerRow("scorer", nCols, func(int) string { return scorer })
	rows := [][]string{scorerRow}

	if multiAnimal {
		rows = append(rows, headerRow("individuals", nCols, func(j int) string {
			return ds.Individuals[j/(len(ds.Keypoints)*3)]
		}))
	}
	rows = append(rows,
		headerRow("bodyparts", nCols, func(j int) string {
			return ds.Keypoints[(j/3)%len(ds.Keypoints)]
		}),
		headerRow("coords", nCols, func(j int) string {
			return []string{"x", "y", "likelihood"}[j%3]
		}),
	)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return kterrors.Wrap(err, kterrors.ErrCodeInternal,
				"unable to write header to %s", path)
		}
	}

	for t := range ds.Position {
		rec := make([]string, 0, nCols+1)
		rec = append(rec, strconv.Itoa(t))
		for i := range ds.Individuals {
			for k := range ds.Keypoints {
				p := ds.Position[t][i][k]
				rec = append(rec,
					formatCell(p[0]),
					formatCell(p[1]),
					formatCell(ds.Confidence[t][i][k]),
				)
			}
		}
		if err := w.Write(rec); err != nil {
			return kterrors.Wrap(err, kterrors.ErrCodeInternal,
				"unable to write data row %d to %s", t, path)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return kterrors.Wrap(err, kterrors.ErrCodeInternal,
			"unable to flush %s", path)
	}

	slog.Debug("saved DeepLabCut CSV", "path", path, "frames", ds.Frames())
	return nil
}

// headerRow builds one index row: the level name followed by nCols values.
func headerRow(level string, nCols int, value func(j int) string) []string {
	row := make([]string, nCols+1)
	row[0] = level
	for j := 0; j < nCols; j++ {
		row[j+1] = value(j)
	}
	return row
}

// parseCell converts a CSV cell to a float, mapping empty and unparsable
// cells to NaN (missing sample).
func parseCell(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// formatCell renders a float for CSV output, writing missing samples as
// empty cells the way DeepLabCut does.
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%g", v)
}

// uniqueInOrder returns values deduplicated, preserving first appearance.
func uniqueInOrder(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// indexOf builds a name-to-index lookup for a slice of unique names.
func indexOf(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[n] = i
	}
	return m
}
