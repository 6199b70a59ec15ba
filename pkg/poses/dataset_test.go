/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package poses

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
)

func TestNewDataset_ShapeAndMissingMarkers(t *testing.T) {
	ds := NewDataset(3, []string{"mouse1", "mouse2"}, []string{"snout", "tail"})

	require.NoError(t, ds.Validate())
	assert.Equal(t, 3, ds.Frames())
	assert.NotEmpty(t, ds.Metadata.ID)

	for tt := range ds.Position {
		for i := range ds.Position[tt] {
			for k := range ds.Position[tt][i] {
				assert.True(t, ds.Position[tt][i][k].IsNaN())
				assert.True(t, math.IsNaN(ds.Confidence[tt][i][k]))
			}
		}
	}
}

func TestDataset_KeypointIndex(t *testing.T) {
	ds := NewDataset(1, []string{"a"}, []string{"snout", "left_ear", "right_ear"})

	idx, err := ds.KeypointIndex("left_ear")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = ds.KeypointIndex("nose")
	require.Error(t, err)
	assert.True(t, kterrors.HasCode(err, kterrors.ErrCodeInvalidRequest), "got %v", err)
}

func TestDataset_ValidateDetectsRaggedShapes(t *testing.T) {
	ds := NewDataset(2, []string{"a"}, []string{"snout"})
	ds.Position[1] = ds.Position[1][:0]

	err := ds.Validate()
	require.Error(t, err)
	assert.True(t, kterrors.HasCode(err, kterrors.ErrCodeConsistency), "got %v", err)
}

func TestDataset_CopyIsDeep(t *testing.T) {
	ds := NewDataset(1, []string{"a"}, []string{"snout"})
	ds.Position[0][0][0] = Point{1, 2}
	ds.Confidence[0][0][0] = 0.9

	cp := ds.Copy()
	cp.Position[0][0][0] = Point{9, 9}
	cp.Confidence[0][0][0] = 0.1

	assert.Equal(t, Point{1, 2}, ds.Position[0][0][0])
	assert.Equal(t, 0.9, ds.Confidence[0][0][0])
}

func TestDataset_TimeAt(t *testing.T) {
	ds := NewDataset(1, []string{"a"}, []string{"snout"})
	assert.Equal(t, 5.0, ds.TimeAt(5))

	ds.Metadata.FPS = 50
	assert.Equal(t, 0.1, ds.TimeAt(5))
}

func TestBBoxDataset(t *testing.T) {
	ds := NewBBoxDataset()
	ds.Boxes[1] = []BBox{{Track: 1, X: 0, Y: 0, Width: 10, Height: 20}}
	ds.Boxes[2] = []BBox{{Track: 1}, {Track: 2}}

	assert.Equal(t, 2, ds.Frames())
	assert.ElementsMatch(t, []int{1, 2}, ds.TrackIDs())
	assert.Equal(t, Point{5, 10}, ds.Boxes[1][0].Centroid())
}
