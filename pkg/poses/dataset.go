/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package poses

import (
	"math"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
)

// Point is a 2D keypoint position in pixel coordinates. NaN components mark
// a missing sample.
type Point [2]float64

// IsNaN reports whether either coordinate is missing.
func (p Point) IsNaN() bool {
	return math.IsNaN(p[0]) || math.IsNaN(p[1])
}

// NaNPoint is the missing-sample marker.
func NaNPoint() Point {
	return Point{math.NaN(), math.NaN()}
}

// MarshalJSON encodes the point as a two-element array with null standing in
// for NaN coordinates, which plain JSON cannot represent.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{jsonCoord(p[0]), jsonCoord(p[1])})
}

func jsonCoord(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// Metadata describes the provenance of a dataset.
type Metadata struct {
	// ID is a unique identifier assigned at load time.
	ID string `json:"id" yaml:"id"`
	// Source names the tool that produced the file (e.g. "DeepLabCut").
	Source string `json:"source" yaml:"source"`
	// SourceFile is the path the dataset was loaded from.
	SourceFile string `json:"sourceFile" yaml:"sourceFile"`
	// FPS is the sampling rate in frames per second; 0 means unknown, in
	// which case time is expressed in frames.
	FPS float64 `json:"fps" yaml:"fps"`
	// LoadedAt records when the dataset was read into memory.
	LoadedAt time.Time `json:"loadedAt" yaml:"loadedAt"`
}

// Dataset holds pose tracks: per-frame 2D positions and confidence scores
// for every individual and keypoint.
//
// Position and Confidence are indexed [frame][individual][keypoint].
// Missing samples are NaN.
type Dataset struct {
	Metadata    Metadata      `json:"metadata" yaml:"metadata"`
	Individuals []string      `json:"individuals" yaml:"individuals"`
	Keypoints   []string      `json:"keypoints" yaml:"keypoints"`
	Position    [][][]Point   `json:"-" yaml:"-"`
	Confidence  [][][]float64 `json:"-" yaml:"-"`
}

// NewDataset allocates a dataset of the given shape with every sample
// marked missing and assigns a fresh metadata ID.
func NewDataset(frames int, individuals, keypoints []string) *Dataset {
	ds := &Dataset{
		Metadata: Metadata{
			ID:       uuid.New().String(),
			LoadedAt: time.Now().UTC(),
		},
		Individuals: individuals,
		Keypoints:   keypoints,
		Position:    make([][][]Point, frames),
		Confidence:  make([][][]float64, frames),
	}
	for t := range ds.Position {
		ds.Position[t] = make([][]Point, len(individuals))
		ds.Confidence[t] = make([][]float64, len(individuals))
		for i := range ds.Position[t] {
			ds.Position[t][i] = make([]Point, len(keypoints))
			ds.Confidence[t][i] = make([]float64, len(keypoints))
			for k := range ds.Position[t][i] {
				ds.Position[t][i][k] = NaNPoint()
				ds.Confidence[t][i][k] = math.NaN()
			}
		}
	}
	return ds
}

// Frames returns the number of frames in the dataset.
func (ds *Dataset) Frames() int {
	return len(ds.Position)
}

// KeypointIndex returns the index of the named keypoint, or an error naming
// the available keypoints.
func (ds *Dataset) KeypointIndex(name string) (int, error) {
	for i, kp := range ds.Keypoints {
		if kp == name {
			return i, nil
		}
	}
	return 0, kterrors.New(kterrors.ErrCodeInvalidRequest,
		"keypoint %q not found, available keypoints: %v", name, ds.Keypoints)
}

// Validate checks that the position and confidence arrays are consistent
// with the declared individuals and keypoints.
func (ds *Dataset) Validate() error {
	if len(ds.Position) != len(ds.Confidence) {
		return kterrors.New(kterrors.ErrCodeConsistency,
			"position has %d frames but confidence has %d",
			len(ds.Position), len(ds.Confidence))
	}
	for t := range ds.Position {
		if len(ds.Position[t]) != len(ds.Individuals) || len(ds.Confidence[t]) != len(ds.Individuals) {
			return kterrors.New(kterrors.ErrCodeConsistency,
				"frame %d: expected %d individuals, got %d position and %d confidence entries",
				t, len(ds.Individuals), len(ds.Position[t]), len(ds.Confidence[t]))
		}
		for i := range ds.Position[t] {
			if len(ds.Position[t][i]) != len(ds.Keypoints) || len(ds.Confidence[t][i]) != len(ds.Keypoints) {
				return kterrors.New(kterrors.ErrCodeConsistency,
					"frame %d, individual %q: expected %d keypoints, got %d position and %d confidence entries",
					t, ds.Individuals[i], len(ds.Keypoints),
					len(ds.Position[t][i]), len(ds.Confidence[t][i]))
			}
		}
	}
	return nil
}

// Copy returns a deep copy of the dataset sharing no slices with the
// original. Filtering operations work on copies so inputs are never
// mutated.
func (ds *Dataset) Copy() *Dataset {
	out := &Dataset{
		Metadata:    ds.Metadata,
		Individuals: append([]string(nil), ds.Individuals...),
		Keypoints:   append([]string(nil), ds.Keypoints...),
		Position:    make([][][]Point, len(ds.Position)),
		Confidence:  make([][][]float64, len(ds.Confidence)),
	}
	for t := range ds.Position {
		out.Position[t] = make([][]Point, len(ds.Position[t]))
		out.Confidence[t] = make([][]float64, len(ds.Confidence[t]))
		for i := range ds.Position[t] {
			out.Position[t][i] = append([]Point(nil), ds.Position[t][i]...)
			out.Confidence[t][i] = append([]float64(nil), ds.Confidence[t][i]...)
		}
	}
	return out
}

// TimeAt converts a frame index to seconds when FPS is known, or returns
// the frame index itself otherwise.
func (ds *Dataset) TimeAt(t int) float64 {
	if ds.Metadata.FPS > 0 {
		return float64(t) / ds.Metadata.FPS
	}
	return float64(t)
}
