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

// Tuning constants for strategy selection and fusion. These were calibrated
// against the worked examples in the package tests; they are deliberate
// choices, not bit-exact requirements of the metrics themselves.
const (
	// HammingMaxLen is the longest equal-length pair that also gets the
	// positional Hamming check. Beyond this length transpositions dominate
	// and the positional signal is just noise next to edit distance.
	HammingMaxLen = 12

	// PartialLengthRatio bounds the band in which full-string edit distance
	// still runs alongside the window scorer. Once the target is more than
	// this many times longer than the query, whole-string edit distance is
	// dominated by the length mismatch and is skipped.
	PartialLengthRatio = 3

	// WindowStrideDivisor controls the window scan stride:
	// stride = max(1, queryLen/WindowStrideDivisor). Worst case the best
	// alignment is missed by half a stride, costing at most one stride of
	// extra edit distance.
	WindowStrideDivisor = 16

	// TokenWeight scales the token-overlap component at fusion time. A pure
	// word reordering ("bella ciao" vs "ciao bella") has full token overlap;
	// the weight keeps it clearly high without colliding with identity.
	TokenWeight = 0.70

	// PartialPenaltyFloor is the minimum of the window scorer's length
	// penalty: penalty = floor + (1-floor)*(queryLen/targetLen)^2. A short
	// query matching verbatim inside an ever-longer target degrades smoothly
	// toward this floor instead of pinning at 1.0.
	PartialPenaltyFloor = 0.55
)

// clamp01 bounds a score to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
