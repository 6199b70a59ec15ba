/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

// Package poses defines the in-memory data model for tracked keypoint and
// bounding-box data: time series of 2D positions with confidence scores for
// one or more individuals, plus dataset provenance metadata.
package poses
