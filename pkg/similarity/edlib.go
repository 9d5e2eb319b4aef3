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

import (
	"github.com/hbollon/go-edlib"
)

// Alternative scorers backed by go-edlib. They share Score's signature and
// [0,1] range, so anything accepting a scorer function takes them
// interchangeably with the built-in fusion: useful when a corpus wants
// prefix-weighted matching (Jaro-Winkler) or transposition tolerance
// (Damerau-Levenshtein) instead of the fused default.

// JaroWinklerScore scores the folded character views with Jaro-Winkler
// similarity, which boosts shared prefixes. Identical folded views score
// 1.0; one empty side scores 0.0.
func JaroWinklerScore(query, target string) float64 {
	q := NormalizeChars(query)
	t := NormalizeChars(target)
	if q == t {
		return 1.0
	}
	if q == "" || t == "" {
		return 0.0
	}
	return clamp01(float64(edlib.JaroWinklerSimilarity(q, t)))
}

// DamerauLevenshteinScore scores the folded character views with
// transposition-aware edit distance, normalized to [0,1] the same way as
// EditScore. Adjacent-character swaps ("ciao" vs "caio") cost one edit
// instead of two.
func DamerauLevenshteinScore(query, target string) float64 {
	q := NormalizeChars(query)
	t := NormalizeChars(target)
	if q == t {
		return 1.0
	}
	if q == "" || t == "" {
		return 0.0
	}

	dist := edlib.DamerauLevenshteinDistance(q, t)
	maxLen := max(len([]rune(q)), len([]rune(t)))
	return clamp01(1.0 - float64(dist)/float64(maxLen))
}
