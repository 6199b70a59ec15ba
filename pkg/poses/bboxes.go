/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package poses

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// BBox is one tracked bounding box in one frame, in pixel coordinates.
type BBox struct {
	// Track is the integer track ID, unique within a frame.
	Track int `json:"track" yaml:"track"`
	// X, Y locate the top-left corner.
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	// Width and Height are the box extents.
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Centroid returns the box center.
func (b BBox) Centroid() Point {
	return Point{b.X + b.Width/2, b.Y + b.Height/2}
}

// BBoxDataset holds bounding-box tracks loaded from a VIA tracks export,
// grouped by frame number.
type BBoxDataset struct {
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	// Boxes maps frame number to the boxes annotated in that frame.
	Boxes map[int][]BBox `json:"boxes" yaml:"boxes"`
}

// NewBBoxDataset creates an empty bounding-box dataset with a fresh
// metadata ID.
func NewBBoxDataset() *BBoxDataset {
	return &BBoxDataset{
		Metadata: Metadata{
			ID:       uuid.New().String(),
			LoadedAt: time.Now().UTC(),
		},
		Boxes: make(map[int][]BBox),
	}
}

// Frames returns the number of annotated frames.
func (ds *BBoxDataset) Frames() int {
	return len(ds.Boxes)
}

// TrackIDs returns the distinct track IDs across all frames, sorted.
func (ds *BBoxDataset) TrackIDs() []int {
	seen := make(map[int]bool)
	for _, boxes := range ds.Boxes {
		for _, b := range boxes {
			seen[b.Track] = true
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
