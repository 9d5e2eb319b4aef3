// FuzzDex Core
// Copyright (c) 2026 The FuzzDex Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of FuzzDex Core.
//
// FuzzDex Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// FuzzDex Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with FuzzDex Core.  If not, see <http://www.gnu.org/licenses/>.

package similarity

// EditDistance returns the Levenshtein distance between the rune sequences
// of a and b: the minimum number of unit-cost insertions, deletions and
// substitutions transforming one into the other. Inputs are compared as
// given; apply NormalizeChars first for case/punctuation-insensitive use.
func EditDistance(a, b string) int {
	return editDistanceRunes([]rune(a), []rune(b))
}

// EditScore returns the edit similarity 1 - distance/max(len(a), len(b)) in
// [0,1]. Two empty strings score 1.0.
//
// Example:
//
//	EditScore("kitten", "sitting")
//	→ 1 - 3/7 ≈ 0.571
func EditScore(a, b string) float64 {
	return editScoreRunes([]rune(a), []rune(b))
}

// editDistanceRunes is the two-row dynamic programming baseline: O(la*lb)
// time, O(min(la,lb)) space. Any replacement (banded, bit-parallel) must
// return identical distances.
func editDistanceRunes(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Keep the rows sized by the shorter sequence.
	if len(a) < len(b) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution or match
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func editScoreRunes(a, b []rune) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	maxLen := max(len(a), len(b))
	return clamp01(1.0 - float64(editDistanceRunes(a, b))/float64(maxLen))
}
