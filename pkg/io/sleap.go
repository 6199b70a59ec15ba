/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package io

import (
	"log/slog"

	"gonum.org/v1/hdf5"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
	"github.com/etholab/kinetrack/pkg/poses"
	"github.com/etholab/kinetrack/pkg/validators"
)

// sourceSLEAP names SLEAP as the dataset source.
const sourceSLEAP = "SLEAP"

// Datasets required of a SLEAP analysis file. point_scores is optional;
// older exports omit it.
var sleapDatasets = []string{"tracks", "node_names", "track_names"}

// LoadSLEAPHDF5 reads a SLEAP analysis HDF5 file into a dataset. The tracks
// array is stored as [track][coord][node][frame]; missing samples are NaN.
func LoadSLEAPHDF5(path string, fps float64) (*poses.Dataset, error) {
	if _, err := validators.NewFile(path,
		validators.WithPermission(validators.PermissionRead),
		validators.WithSuffixes(".h5", ".hdf5", ".slp"),
	); err != nil {
		return nil, err
	}
	if _, err := validators.NewHDF5(path,
		validators.WithExpectedDatasets(sleapDatasets...),
	); err != nil {
		return nil, err
	}

	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"file %s does not seem to be in valid HDF5 format", path)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close HDF5 file", "path", path, "error", err)
		}
	}()

	nodeNames, err := readStringDataset(f, "node_names")
	if err != nil {
		return nil, kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"file %s: unable to read node_names", path)
	}
	trackNames, err := readStringDataset(f, "track_names")
	if err != nil {
		return nil, kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"file %s: unable to read track_names", path)
	}

	tracks, dims, err := readFloatDataset(f, "tracks")
	if err != nil {
		return nil, kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"file %s: unable to read tracks", path)
	}
	if len(dims) != 4 || dims[1] != 2 {
		return nil, kterrors.New(kterrors.ErrCodeSchema,
			"file %s: tracks dataset has shape %v, expected "+
				"[tracks, 2, nodes, frames]", path, dims)
	}
	nTracks, nNodes, nFrames := int(dims[0]), int(dims[2]), int(dims[3])
	if nTracks != len(trackNames) || nNodes != len(nodeNames) {
		return nil, kterrors.New(kterrors.ErrCodeConsistency,
			"file %s: tracks shape %v does not match %d track names and "+
				"%d node names", path, dims, len(trackNames), len(nodeNames))
	}

	var scores []float64
	if hasObject(f, "point_scores") {
		var scoreDims []uint
		scores, scoreDims, err = readFloatDataset(f, "point_scores")
		if err != nil {
			return nil, kterrors.Wrap(err, kterrors.ErrCodeFormat,
				"file %s: unable to read point_scores", path)
		}
		if len(scores) != nTracks*nNodes*nFrames {
			return nil, kterrors.New(kterrors.ErrCodeConsistency,
				"file %s: point_scores shape %v does not match tracks shape %v",
				path, scoreDims, dims)
		}
	}

	ds := poses.NewDataset(nFrames, trackNames, nodeNames)
	ds.Metadata.Source = sourceSLEAP
	ds.Metadata.SourceFile = path
	ds.Metadata.FPS = fps

	at := func(track, coord, node, frame int) float64 {
		return tracks[((track*2+coord)*nNodes+node)*nFrames+frame]
	}
	for t := 0; t < nFrames; t++ {
		for i := 0; i < nTracks; i++ {
			for k := 0; k < nNodes; k++ {
				ds.Position[t][i][k] = poses.Point{at(i, 0, k, t), at(i, 1, k, t)}
				if scores != nil {
					ds.Confidence[t][i][k] = scores[(i*nNodes+k)*nFrames+t]
				}
			}
		}
	}

	slog.Debug("loaded SLEAP analysis HDF5",
		"path", path,
		"frames", nFrames,
		"individuals", nTracks,
		"keypoints", nNodes)

	return ds, nil
}

// readStringDataset reads a 1D variable-length string dataset.
func readStringDataset(f *hdf5.File, name string) ([]string, error) {
	dset, err := f.OpenDataset(name)
	if err != nil {
		return nil, err
	}
	defer dset.Close()

	space := dset.Space()
	defer space.Close()

	n := space.SimpleExtentNPoints()
	out := make([]string, n)
	if n == 0 {
		return out, nil
	}
	if err := dset.Read(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// readFloatDataset reads an N-dimensional numeric dataset flattened in row-
// major order, along with its dimensions.
func readFloatDataset(f *hdf5.File, name string) ([]float64, []uint, error) {
	dset, err := f.OpenDataset(name)
	if err != nil {
		return nil, nil, err
	}
	defer dset.Close()

	space := dset.Space()
	defer space.Close()

	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, nil, err
	}
	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	out := make([]float64, n)
	if n == 0 {
		return out, dims, nil
	}
	if err := dset.Read(&out); err != nil {
		return nil, nil, err
	}
	return out, dims, nil
}

// hasObject reports whether a top-level object with the given name exists.
func hasObject(f *hdf5.File, name string) bool {
	n, err := f.NumObjects()
	if err != nil {
		return false
	}
	for i := uint(0); i < n; i++ {
		if f.ObjectNameByIndex(i) == name {
			return true
		}
	}
	return false
}
