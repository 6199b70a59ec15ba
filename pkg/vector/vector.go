/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

// Package vector provides small 2D vector helpers shared by the kinematics
// computations: polar conversions, norms and angles.
package vector

import (
	"math"

	"github.com/etholab/kinetrack/pkg/poses"
)

// Norm returns the Euclidean length of p.
func Norm(p poses.Point) float64 {
	return math.Hypot(p[0], p[1])
}

// Cart2Pol converts a Cartesian vector to (rho, phi), with phi in radians
// measured counter-clockwise from the positive x axis in (-pi, pi].
func Cart2Pol(p poses.Point) (rho, phi float64) {
	return math.Hypot(p[0], p[1]), math.Atan2(p[1], p[0])
}

// Pol2Cart converts polar coordinates (rho, phi) back to a Cartesian vector.
func Pol2Cart(rho, phi float64) poses.Point {
	return poses.Point{rho * math.Cos(phi), rho * math.Sin(phi)}
}

// Sub returns a - b.
func Sub(a, b poses.Point) poses.Point {
	return poses.Point{a[0] - b[0], a[1] - b[1]}
}

// Add returns a + b.
func Add(a, b poses.Point) poses.Point {
	return poses.Point{a[0] + b[0], a[1] + b[1]}
}

// Scale returns p scaled by s.
func Scale(p poses.Point, s float64) poses.Point {
	return poses.Point{p[0] * s, p[1] * s}
}

// Dot returns the dot product of a and b.
func Dot(a, b poses.Point) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

// AngleBetween returns the signed angle from a to b in radians, positive
// counter-clockwise, in (-pi, pi]. NaN if either vector is zero or carries a
// NaN component.
func AngleBetween(a, b poses.Point) float64 {
	if a.IsNaN() || b.IsNaN() || (a[0] == 0 && a[1] == 0) || (b[0] == 0 && b[1] == 0) {
		return math.NaN()
	}
	cross := a[0]*b[1] - a[1]*b[0]
	return math.Atan2(cross, Dot(a, b))
}
