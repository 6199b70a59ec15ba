/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

// Package filtering cleans pose trajectories: confidence thresholding,
// rolling-median smoothing and gap interpolation. Every function returns a
// new dataset and leaves its input untouched. Missing samples are NaN
// throughout.
package filtering

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
	"github.com/etholab/kinetrack/pkg/poses"
)

// FilterByConfidence replaces position samples whose confidence falls below
// threshold with NaN. Samples without a confidence score (NaN) are kept.
func FilterByConfidence(ds *poses.Dataset, threshold float64) (*poses.Dataset, error) {
	if threshold < 0 || threshold > 1 {
		return nil, kterrors.New(kterrors.ErrCodeInvalidRequest,
			"confidence threshold must be between 0 and 1, got %g", threshold)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	out := ds.Copy()
	dropped := 0
	for t := range out.Position {
		for i := range out.Position[t] {
			for k := range out.Position[t][i] {
				c := out.Confidence[t][i][k]
				if !math.IsNaN(c) && c < threshold {
					out.Position[t][i][k] = poses.NaNPoint()
					dropped++
				}
			}
		}
	}

	slog.Debug("filtered by confidence",
		"threshold", threshold, "dropped", dropped)
	return out, nil
}

// MedianFilter smooths each coordinate series with a centered rolling median
// of the given window size. A window position produces a value only when at
// least minPeriods of its samples are present; minPeriods 0 means the full
// window must be present. NaNs inside the window are ignored when enough
// samples remain.
func MedianFilter(ds *poses.Dataset, window, minPeriods int) (*poses.Dataset, error) {
	if window < 1 {
		return nil, kterrors.New(kterrors.ErrCodeInvalidRequest,
			"median filter window must be at least 1, got %d", window)
	}
	if minPeriods == 0 {
		minPeriods = window
	}
	if minPeriods < 1 || minPeriods > window {
		return nil, kterrors.New(kterrors.ErrCodeInvalidRequest,
			"min periods must be between 1 and the window size %d, got %d",
			window, minPeriods)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	out := ds.Copy()
	n := ds.Frames()
	half := window / 2
	buf := make([]float64, 0, window)

	for i := range ds.Individuals {
		for k := range ds.Keypoints {
			for c := 0; c < 2; c++ {
				for t := 0; t < n; t++ {
					lo := max(0, t-half)
					hi := min(n, t-half+window)
					buf = buf[:0]
					for s := lo; s < hi; s++ {
						if v := ds.Position[s][i][k][c]; !math.IsNaN(v) {
							buf = append(buf, v)
						}
					}
					if len(buf) < minPeriods {
						out.Position[t][i][k][c] = math.NaN()
						continue
					}
					sort.Float64s(buf)
					out.Position[t][i][k][c] = stat.Quantile(0.5, stat.Empirical, buf, nil)
				}
			}
		}
	}
	return out, nil
}

// InterpolateOverTime fills NaN gaps in each coordinate series by linear
// interpolation between the surrounding present samples. Gaps longer than
// maxGap frames are left as NaN; maxGap 0 fills gaps of any length. Leading
// and trailing gaps are never filled.
func InterpolateOverTime(ds *poses.Dataset, maxGap int) (*poses.Dataset, error) {
	if maxGap < 0 {
		return nil, kterrors.New(kterrors.ErrCodeInvalidRequest,
			"max gap must not be negative, got %d", maxGap)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	out := ds.Copy()
	n := ds.Frames()

	for i := range ds.Individuals {
		for k := range ds.Keypoints {
			for c := 0; c < 2; c++ {
				prev := -1 // last frame with a present sample
				for t := 0; t <= n; t++ {
					present := t < n && !math.IsNaN(out.Position[t][i][k][c])
					if t < n && !present {
						continue
					}
					if present && prev >= 0 && t-prev > 1 {
						gap := t - prev - 1
						if maxGap == 0 || gap <= maxGap {
							a := out.Position[prev][i][k][c]
							b := out.Position[t][i][k][c]
							for s := prev + 1; s < t; s++ {
								frac := float64(s-prev) / float64(t-prev)
								out.Position[s][i][k][c] = a + (b-a)*frac
							}
						}
					}
					if present {
						prev = t
					}
				}
			}
		}
	}
	return out, nil
}

// FillBriefInterruptions returns a copy of a boolean series, such as a
// per-frame interaction signal, with single-frame false lapses closed: a
// false value with true neighbours on both sides becomes true. Longer
// interruptions are kept.
func FillBriefInterruptions(series []bool) []bool {
	out := append([]bool(nil), series...)
	for t := 1; t < len(series)-1; t++ {
		if !series[t] && series[t-1] && series[t+1] {
			out[t] = true
		}
	}
	return out
}

// NaNStats summarises missing samples for one individual and keypoint.
type NaNStats struct {
	Individual string  `json:"individual" yaml:"individual"`
	Keypoint   string  `json:"keypoint" yaml:"keypoint"`
	Missing    int     `json:"missing" yaml:"missing"`
	Total      int     `json:"total" yaml:"total"`
	Percent    float64 `json:"percent" yaml:"percent"`
}

// ReportNaNs counts missing position samples per individual and keypoint. A
// sample counts as missing when either coordinate is NaN.
func ReportNaNs(ds *poses.Dataset) []NaNStats {
	n := ds.Frames()
	out := make([]NaNStats, 0, len(ds.Individuals)*len(ds.Keypoints))
	for i, ind := range ds.Individuals {
		for k, kp := range ds.Keypoints {
			missing := 0
			for t := 0; t < n; t++ {
				if ds.Position[t][i][k].IsNaN() {
					missing++
				}
			}
			pct := 0.0
			if n > 0 {
				pct = 100 * float64(missing) / float64(n)
			}
			out = append(out, NaNStats{
				Individual: ind,
				Keypoint:   kp,
				Missing:    missing,
				Total:      n,
				Percent:    pct,
			})
		}
	}
	return out
}
