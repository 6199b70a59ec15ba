/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

// Package kinematics derives motion variables from pose datasets:
// displacement, velocity, speed, centroids and head direction. All results
// follow the dataset's frame/individual/keypoint indexing, and NaN inputs
// propagate to NaN outputs.
package kinematics

import (
	"math"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
	"github.com/etholab/kinetrack/pkg/poses"
	"github.com/etholab/kinetrack/pkg/vector"
)

// CameraView orients the image plane relative to the animal for head
// direction computations.
type CameraView string

const (
	// CameraViewTopDown means the camera looks down at the animal, so the
	// image y axis points away from the viewer.
	CameraViewTopDown CameraView = "top_down"
	// CameraViewBottomUp means the camera looks up through a transparent
	// floor.
	CameraViewBottomUp CameraView = "bottom_up"
)

// IsValid reports whether v is a known camera view.
func (v CameraView) IsValid() bool {
	return v == CameraViewTopDown || v == CameraViewBottomUp
}

// Displacement returns, per frame, individual and keypoint, the position
// change since the previous frame. The first frame's displacement is the
// zero vector.
func Displacement(ds *poses.Dataset) ([][][]poses.Point, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	n := ds.Frames()
	out := allocPoints(ds)
	for t := 0; t < n; t++ {
		for i := range ds.Individuals {
			for k := range ds.Keypoints {
				if t == 0 {
					out[t][i][k] = poses.Point{0, 0}
					continue
				}
				out[t][i][k] = vector.Sub(ds.Position[t][i][k], ds.Position[t-1][i][k])
			}
		}
	}
	return out, nil
}

// Velocity differentiates position over time using central differences, with
// one-sided differences at the edges. Units are pixels per second when the
// dataset knows its FPS, pixels per frame otherwise.
func Velocity(ds *poses.Dataset) ([][][]poses.Point, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	n := ds.Frames()
	dt := 1.0
	if ds.Metadata.FPS > 0 {
		dt = 1.0 / ds.Metadata.FPS
	}

	out := allocPoints(ds)
	for t := 0; t < n; t++ {
		for i := range ds.Individuals {
			for k := range ds.Keypoints {
				out[t][i][k] = gradientAt(ds, t, i, k, dt)
			}
		}
	}
	return out, nil
}

// gradientAt computes the velocity sample for one position series element.
func gradientAt(ds *poses.Dataset, t, i, k int, dt float64) poses.Point {
	n := ds.Frames()
	if n < 2 {
		return poses.NaNPoint()
	}
	switch t {
	case 0:
		return vector.Scale(vector.Sub(ds.Position[1][i][k], ds.Position[0][i][k]), 1/dt)
	case n - 1:
		return vector.Scale(vector.Sub(ds.Position[n-1][i][k], ds.Position[n-2][i][k]), 1/dt)
	default:
		return vector.Scale(vector.Sub(ds.Position[t+1][i][k], ds.Position[t-1][i][k]), 1/(2*dt))
	}
}

// Speed returns the magnitude of the velocity per frame, individual and
// keypoint.
func Speed(ds *poses.Dataset) ([][][]float64, error) {
	vel, err := Velocity(ds)
	if err != nil {
		return nil, err
	}

	out := make([][][]float64, len(vel))
	for t := range vel {
		out[t] = make([][]float64, len(vel[t]))
		for i := range vel[t] {
			out[t][i] = make([]float64, len(vel[t][i]))
			for k := range vel[t][i] {
				out[t][i][k] = vector.Norm(vel[t][i][k])
			}
		}
	}
	return out, nil
}

// Centroid returns the per-frame mean position of each individual across its
// present keypoints. A frame with no present keypoint yields NaN.
func Centroid(ds *poses.Dataset) ([][]poses.Point, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	out := make([][]poses.Point, ds.Frames())
	for t := range out {
		out[t] = make([]poses.Point, len(ds.Individuals))
		for i := range ds.Individuals {
			var sum poses.Point
			count := 0
			for k := range ds.Keypoints {
				p := ds.Position[t][i][k]
				if p.IsNaN() {
					continue
				}
				sum = vector.Add(sum, p)
				count++
			}
			if count == 0 {
				out[t][i] = poses.NaNPoint()
				continue
			}
			out[t][i] = vector.Scale(sum, 1/float64(count))
		}
	}
	return out, nil
}

// HeadDirectionVector computes the unit vector pointing forward from the
// midpoint between two symmetric head keypoints, perpendicular to their
// connecting axis. The camera view decides which perpendicular points
// forward.
func HeadDirectionVector(ds *poses.Dataset, leftKeypoint, rightKeypoint string, view CameraView) ([][]poses.Point, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if leftKeypoint == rightKeypoint {
		return nil, kterrors.New(kterrors.ErrCodeInvalidRequest,
			"left and right keypoints must differ, both are %q", leftKeypoint)
	}
	if !view.IsValid() {
		return nil, kterrors.New(kterrors.ErrCodeInvalidRequest,
			"camera view must be %q or %q, got %q",
			CameraViewTopDown, CameraViewBottomUp, view)
	}
	left, err := ds.KeypointIndex(leftKeypoint)
	if err != nil {
		return nil, err
	}
	right, err := ds.KeypointIndex(rightKeypoint)
	if err != nil {
		return nil, err
	}

	out := make([][]poses.Point, ds.Frames())
	for t := range out {
		out[t] = make([]poses.Point, len(ds.Individuals))
		for i := range ds.Individuals {
			lr := vector.Sub(ds.Position[t][i][right], ds.Position[t][i][left])
			norm := vector.Norm(lr)
			if math.IsNaN(norm) || norm == 0 {
				out[t][i] = poses.NaNPoint()
				continue
			}
			// Rotate the left-to-right axis a quarter turn towards the snout.
			// In image coordinates y grows downwards, so the two camera views
			// rotate in opposite directions.
			forward := poses.Point{-lr[1], lr[0]}
			if view == CameraViewBottomUp {
				forward = poses.Point{lr[1], -lr[0]}
			}
			out[t][i] = vector.Scale(forward, 1/norm)
		}
	}
	return out, nil
}

// Heading returns the signed angle in radians between each individual's head
// direction vector and reference, positive counter-clockwise, in (-pi, pi].
// A zero reference vector is rejected.
func Heading(ds *poses.Dataset, leftKeypoint, rightKeypoint string, view CameraView, reference poses.Point) ([][]float64, error) {
	if reference[0] == 0 && reference[1] == 0 {
		return nil, kterrors.New(kterrors.ErrCodeInvalidRequest,
			"reference vector must not be the zero vector")
	}
	forward, err := HeadDirectionVector(ds, leftKeypoint, rightKeypoint, view)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(forward))
	for t := range forward {
		out[t] = make([]float64, len(forward[t]))
		for i := range forward[t] {
			out[t][i] = vector.AngleBetween(reference, forward[t][i])
		}
	}
	return out, nil
}

// allocPoints allocates a result array matching the dataset shape.
func allocPoints(ds *poses.Dataset) [][][]poses.Point {
	out := make([][][]poses.Point, ds.Frames())
	for t := range out {
		out[t] = make([][]poses.Point, len(ds.Individuals))
		for i := range out[t] {
			out[t][i] = make([]poses.Point, len(ds.Keypoints))
		}
	}
	return out
}
