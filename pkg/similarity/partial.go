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

// PartialWindowScore scores a short query against the best-matching
// contiguous region of a longer target. A window of min(len(query),
// len(target)) runes slides over the target; each position is scored with
// EditScore against the query and the maximum wins. The scan advances by
// stride = max(1, len(query)/WindowStrideDivisor) and always samples the
// final position; an exact window hit stops the scan early.
//
// The window maximum is scaled by a length penalty that decays toward
// PartialPenaltyFloor as the target outgrows the query, so "query appears
// verbatim somewhere inside a huge text" reads as a solid partial match,
// not as identity.
//
// An empty query scores 0.0: there is no meaningful match against nothing.
// Inputs are compared as given; apply NormalizeChars first for
// case/punctuation-insensitive use.
func PartialWindowScore(query, target string) float64 {
	return partialWindowRunes([]rune(query), []rune(target))
}

func partialWindowRunes(q, t []rune) float64 {
	lq, lt := len(q), len(t)
	if lq == 0 || lt == 0 {
		return 0.0
	}

	window := min(lq, lt)
	last := lt - window

	stride := max(1, lq/WindowStrideDivisor)

	best := 0.0
	for off := 0; off <= last; off += stride {
		if s := editScoreRunes(q, t[off:off+window]); s > best {
			best = s
			if best >= 1.0 {
				break
			}
		}
	}
	// The loop may step past the final window; it holds the only alignment
	// that reaches the end of the target, so always sample it.
	if best < 1.0 && last%stride != 0 {
		if s := editScoreRunes(q, t[last:last+window]); s > best {
			best = s
		}
	}

	return best * lengthPenalty(lq, lt)
}

// lengthPenalty returns the window scorer's scale factor
// floor + (1-floor)*ratio^2 where ratio = len(query)/len(target), capped at
// 1. Quadratic decay keeps near-equal lengths near 1.0 while long targets
// settle at the floor.
func lengthPenalty(lq, lt int) float64 {
	r := float64(lq) / float64(lt)
	if r > 1 {
		r = 1
	}
	return PartialPenaltyFloor + (1-PartialPenaltyFloor)*r*r
}
