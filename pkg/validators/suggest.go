/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package validators

import (
	"fmt"
	"slices"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a column name may be from an expected
// one before a suggestion is considered noise.
const maxSuggestDistance = 3

// suggestHeader compares an actual header row against the expected one and
// returns a "did you mean" hint for the first near-miss column, or an empty
// string when no close match exists.
func suggestHeader(actual, expected []string) string {
	for i, got := range actual {
		if i < len(expected) && got == expected[i] {
			continue
		}
		if slices.Contains(expected, got) {
			continue
		}
		if want, dist := closestMatch(got, expected); dist > 0 && dist <= maxSuggestDistance {
			return fmt.Sprintf("did you mean %q instead of %q?", want, got)
		}
	}
	return ""
}

// closestMatch returns the expected name nearest to got by edit distance.
func closestMatch(got string, expected []string) (string, int) {
	best := ""
	bestDist := -1
	for _, want := range expected {
		d := levenshtein.ComputeDistance(got, want)
		if bestDist < 0 || d < bestDist {
			best, bestDist = want, d
		}
	}
	return best, bestDist
}
