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

// HammingScore returns 1 - mismatches/length over the rune sequences of a
// and b. It is only meaningful for equal-length inputs; unequal lengths
// score 0.0 rather than erroring so the function stays total. Two empty
// strings score 1.0.
func HammingScore(a, b string) float64 {
	return hammingRunes([]rune(a), []rune(b))
}

func hammingRunes(a, b []rune) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	if len(a) == 0 {
		return 1.0
	}

	mismatches := 0
	for i := range a {
		if a[i] != b[i] {
			mismatches++
		}
	}

	return 1.0 - float64(mismatches)/float64(len(a))
}
