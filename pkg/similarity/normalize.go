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

// Package similarity implements the fuzzy text scoring engine: text
// normalization, the individual distance metrics (Hamming, Levenshtein,
// token Jaccard, windowed partial ratio) and the length-aware strategy
// selection that fuses them into a single score in [0,1].
//
// Every function in this package is a pure function of its inputs: no I/O,
// no shared state, safe for unsynchronized concurrent use. Behavior on
// malformed UTF-8 is undefined but deterministic (invalid bytes decode as
// U+FFFD through normal rune iteration).
package similarity

import "strings"

// punctStripped is the fixed set of punctuation removed during
// normalization: comma, period, exclamation, question mark, apostrophe and
// straight or typographic quotes. Removal deletes only the character itself;
// surrounding whitespace is left exactly as written.
const punctStripped = ",.!?'\"’‘“”"

// punctStripper removes the punctuation set in a single pass for the
// non-ASCII slow path.
var punctStripper = newPunctStripper()

func newPunctStripper() *strings.Replacer {
	var pairs []string
	for _, r := range punctStripped {
		pairs = append(pairs, string(r), "")
	}
	return strings.NewReplacer(pairs...)
}

// isASCII checks if a string contains only ASCII characters (bytes < 128).
// Used to skip Unicode processing on the common case.
func isASCII(s string) bool {
	for i := range len(s) {
		if s[i] >= 128 {
			return false
		}
	}
	return true
}

// NormalizeChars produces the folded character view of s: lower-cased, with
// the fixed punctuation set removed and all whitespace preserved as written.
// Runs of spaces survive so that edit-distance comparisons see the original
// spacing. Empty input yields an empty string, never an error.
//
// Example:
//
//	NormalizeChars("Ciao, Bella!")
//	→ "ciao bella"
func NormalizeChars(s string) string {
	if s == "" {
		return ""
	}

	if isASCII(s) {
		var b strings.Builder
		b.Grow(len(s))
		for i := range len(s) {
			c := s[i]
			// ASCII subset of punctStripped.
			switch c {
			case ',', '.', '!', '?', '\'', '"':
				continue
			}
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
			b.WriteByte(c)
		}
		return b.String()
	}

	return punctStripper.Replace(strings.ToLower(s))
}

// NormalizeTokens produces the token view of s: the folded character view
// split on Unicode whitespace with empty tokens dropped. Token order is
// preserved; duplicates are kept (set semantics are applied by the Jaccard
// scorer, not here).
//
// Example:
//
//	NormalizeTokens("  Bella,   CIAO! ")
//	→ []string{"bella", "ciao"}
func NormalizeTokens(s string) []string {
	return strings.Fields(NormalizeChars(s))
}
