/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package filtering

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
	"github.com/etholab/kinetrack/pkg/poses"
)

// lineDataset builds a single-individual, single-keypoint dataset whose x
// coordinate walks the given values with y fixed at 0 and full confidence.
func lineDataset(xs ...float64) *poses.Dataset {
	ds := poses.NewDataset(len(xs), []string{"a"}, []string{"kp"})
	for t, x := range xs {
		ds.Position[t][0][0] = poses.Point{x, 0}
		ds.Confidence[t][0][0] = 1
	}
	return ds
}

func xs(ds *poses.Dataset) []float64 {
	out := make([]float64, ds.Frames())
	for t := range out {
		out[t] = ds.Position[t][0][0][0]
	}
	return out
}

func TestFilterByConfidence(t *testing.T) {
	ds := lineDataset(1, 2, 3, 4)
	ds.Confidence[1][0][0] = 0.3
	ds.Confidence[2][0][0] = math.NaN()

	out, err := FilterByConfidence(ds, 0.6)
	require.NoError(t, err)

	assert.True(t, out.Position[1][0][0].IsNaN())
	// Unknown confidence keeps the sample.
	assert.Equal(t, 3.0, out.Position[2][0][0][0])
	assert.Equal(t, 1.0, out.Position[0][0][0][0])

	// Input is untouched.
	assert.Equal(t, 2.0, ds.Position[1][0][0][0])
}

func TestFilterByConfidence_RejectsThreshold(t *testing.T) {
	_, err := FilterByConfidence(lineDataset(1), 1.5)
	require.Error(t, err)
	assert.True(t, kterrors.HasCode(err, kterrors.ErrCodeInvalidRequest))
}

func TestMedianFilter(t *testing.T) {
	// A spike at frame 2 gets smoothed away by a window of 3.
	ds := lineDataset(1, 2, 100, 4, 5)

	out, err := MedianFilter(ds, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 4, 5, 4}, xs(out))
}

func TestMedianFilter_MinPeriods(t *testing.T) {
	ds := lineDataset(1, math.NaN(), math.NaN(), 4)

	// Full window required: every position touches a NaN, so the two middle
	// windows have only one present sample each.
	out, err := MedianFilter(ds, 3, 3)
	require.NoError(t, err)
	for _, v := range xs(out) {
		assert.True(t, math.IsNaN(v))
	}

	out, err = MedianFilter(ds, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, xs(out)[0])
	assert.Equal(t, 4.0, xs(out)[3])
}

func TestMedianFilter_RejectsWindow(t *testing.T) {
	_, err := MedianFilter(lineDataset(1), 0, 0)
	require.Error(t, err)

	_, err = MedianFilter(lineDataset(1), 3, 4)
	require.Error(t, err)
	assert.True(t, kterrors.HasCode(err, kterrors.ErrCodeInvalidRequest))
}

func TestInterpolateOverTime(t *testing.T) {
	ds := lineDataset(0, math.NaN(), math.NaN(), 3)

	out, err := InterpolateOverTime(ds, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, xs(out))
}

func TestInterpolateOverTime_MaxGap(t *testing.T) {
	ds := lineDataset(0, math.NaN(), math.NaN(), 3, math.NaN(), 5)

	out, err := InterpolateOverTime(ds, 1)
	require.NoError(t, err)

	got := xs(out)
	// The 2-frame gap stays, the 1-frame gap is filled.
	assert.True(t, math.IsNaN(got[1]))
	assert.True(t, math.IsNaN(got[2]))
	assert.Equal(t, 4.0, got[4])
}

func TestInterpolateOverTime_EdgesStayMissing(t *testing.T) {
	ds := lineDataset(math.NaN(), 1, math.NaN(), 3, math.NaN())

	out, err := InterpolateOverTime(ds, 0)
	require.NoError(t, err)

	got := xs(out)
	assert.True(t, math.IsNaN(got[0]))
	assert.Equal(t, 2.0, got[2])
	assert.True(t, math.IsNaN(got[4]))
}

func TestReportNaNs(t *testing.T) {
	ds := lineDataset(0, math.NaN(), 2, math.NaN())

	stats := ReportNaNs(ds)
	require.Len(t, stats, 1)
	assert.Equal(t, "a", stats[0].Individual)
	assert.Equal(t, "kp", stats[0].Keypoint)
	assert.Equal(t, 2, stats[0].Missing)
	assert.Equal(t, 4, stats[0].Total)
	assert.Equal(t, 50.0, stats[0].Percent)
}

func TestFillBriefInterruptions(t *testing.T) {
	tests := []struct {
		name string
		in   []bool
		want []bool
	}{
		{
			name: "single-frame lapse closed",
			in:   []bool{false, false, true, true, false, true, false, false, true, false},
			want: []bool{false, false, true, true, true, true, false, false, true, false},
		},
		{
			name: "two-frame lapse kept",
			in:   []bool{true, false, false, true},
			want: []bool{true, false, false, true},
		},
		{
			name: "edges untouched",
			in:   []bool{false, true, true, false},
			want: []bool{false, true, true, false},
		},
		{
			name: "all false",
			in:   []bool{false, false, false},
			want: []bool{false, false, false},
		},
		{
			name: "empty",
			in:   []bool{},
			want: []bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]bool(nil), tt.in...)
			assert.Equal(t, tt.want, FillBriefInterruptions(in))
			// The input is never mutated.
			assert.Equal(t, tt.in, in)
		})
	}
}
