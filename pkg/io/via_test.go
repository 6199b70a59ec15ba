/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package io

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
)

func writeVIACSV(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracks.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := csv.NewWriter(f)
	require.NoError(t, w.Write([]string{
		"filename", "file_size", "file_attributes", "region_count",
		"region_id", "region_shape_attributes", "region_attributes",
	}))
	require.NoError(t, w.WriteAll(rows))
	w.Flush()
	require.NoError(t, w.Error())
	require.NoError(t, f.Close())
	return path
}

func viaDataRow(filename string, track int, x, y float64) []string {
	return []string{
		filename, "1000", "{}", "1", "0",
		`{"name":"rect","x":` + strconv.FormatFloat(x, 'g', -1, 64) +
			`,"y":` + strconv.FormatFloat(y, 'g', -1, 64) +
			`,"width":30,"height":40}`,
		`{"track":` + strconv.Itoa(track) + `}`,
	}
}

func TestLoadVIATracksCSV(t *testing.T) {
	path := writeVIACSV(t, [][]string{
		viaDataRow("img_00001.png", 1, 10, 20),
		viaDataRow("img_00001.png", 2, 50, 60),
		viaDataRow("img_00002.png", 1, 12, 22),
	})

	ds, err := LoadVIATracksCSV(path, 25)
	require.NoError(t, err)

	assert.Equal(t, sourceVIA, ds.Metadata.Source)
	assert.Equal(t, 25.0, ds.Metadata.FPS)
	assert.Equal(t, 2, ds.Frames())
	assert.Equal(t, []int{1, 2}, ds.TrackIDs())

	require.Len(t, ds.Boxes[1], 2)
	box := ds.Boxes[1][0]
	assert.Equal(t, 1, box.Track)
	assert.Equal(t, 10.0, box.X)
	assert.Equal(t, 20.0, box.Y)
	assert.Equal(t, 30.0, box.Width)
	assert.Equal(t, 40.0, box.Height)

	require.Len(t, ds.Boxes[2], 1)
	assert.Equal(t, 12.0, ds.Boxes[2][0].X)
}

func TestLoadVIATracksCSV_FrameAttribute(t *testing.T) {
	row := viaDataRow("snapshot.png", 1, 1, 2)
	row[2] = `{"frame": 42}`
	path := writeVIACSV(t, [][]string{row})

	ds, err := LoadVIATracksCSV(path, 0)
	require.NoError(t, err)
	require.Len(t, ds.Boxes[42], 1)
	assert.Equal(t, 1, ds.Boxes[42][0].Track)
}

func TestLoadVIATracksCSV_StringGeometry(t *testing.T) {
	row := viaDataRow("img_00007.png", 3, 0, 0)
	row[5] = `{"name":"rect","x":"1.5","y":"2.5","width":"3","height":"4"}`
	path := writeVIACSV(t, [][]string{row})

	ds, err := LoadVIATracksCSV(path, 0)
	require.NoError(t, err)
	box := ds.Boxes[7][0]
	assert.Equal(t, 1.5, box.X)
	assert.Equal(t, 2.5, box.Y)
	assert.Equal(t, 3.0, box.Width)
	assert.Equal(t, 4.0, box.Height)
}

func TestLoadVIATracksCSV_RejectsInvalid(t *testing.T) {
	row := viaDataRow("img_00001.png", 1, 1, 2)
	row[5] = `{"name":"circle","cx":5,"cy":5,"r":2}`
	path := writeVIACSV(t, [][]string{row})

	_, err := LoadVIATracksCSV(path, 0)
	require.Error(t, err)
	assert.True(t, kterrors.HasCode(err, kterrors.ErrCodeConsistency))
}
