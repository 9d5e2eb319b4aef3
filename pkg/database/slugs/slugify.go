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

// Package slugs turns human corpus names into stable lookup keys. Slugs are
// what the Corpora table indexes on, so two spellings of the same name
// ("Café Menu", "cafe   menu!") must land on the same row.
package slugs

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var separatorRunRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// isASCII checks if a string contains only ASCII characters (bytes < 128),
// used to skip Unicode processing on the common pure-ASCII path.
func isASCII(s string) bool {
	for i := range s {
		if s[i] >= 128 {
			return false
		}
	}
	return true
}

// NormalizeWidth folds fullwidth and halfwidth variants to their canonical
// forms ("ＡＢＣ１２３" to "ABC123"). Returns the input unchanged if the
// transform fails.
func NormalizeWidth(s string) string {
	if normalized, _, err := transform.String(width.Fold, s); err == nil {
		return normalized
	}
	return s
}

// removeDiacritics strips combining marks ("Pokémon" to "Pokemon") by
// decomposing, dropping the marks, and recomposing.
func removeDiacritics(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if normalized, _, err := transform.String(t, s); err == nil {
		return normalized
	}
	return s
}

// containsCJK reports whether any rune is Han, Hiragana, Katakana, or
// Hangul.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			return true
		}
	}
	return false
}

// NormalizeUnicode removes symbol runes (trademark, copyright, currency),
// applies compatibility normalization, and strips diacritics. Pure ASCII
// input is returned unchanged.
//
// CJK names get NFC only: NFD decomposes kana voicing marks (dakuten) into
// combining runes that diacritic stripping would otherwise discard.
func NormalizeUnicode(s string) string {
	if isASCII(s) {
		return s
	}

	symbolPredicate := runes.Predicate(func(r rune) bool {
		return unicode.Is(unicode.So, r) || unicode.Is(unicode.Sc, r)
	})
	symbolRemover := runes.Remove(symbolPredicate)
	if cleaned, _, err := transform.String(symbolRemover, s); err == nil {
		s = cleaned
	}

	if containsCJK(s) {
		return norm.NFC.String(s)
	}

	s = norm.NFKC.String(s)
	return removeDiacritics(s)
}

// Slugify converts a corpus name to its canonical slug: width folding,
// Unicode normalization, lowercasing, then collapsing every run of
// non-letter, non-digit runes to a single hyphen.
//
// Slugify is deterministic and idempotent:
//
//	Slugify("Café   Menu!") == "cafe-menu"
//	Slugify(Slugify(x)) == Slugify(x)
//
// A name with no letters or digits at all slugifies to the empty string;
// callers treat that as an invalid corpus name.
func Slugify(name string) string {
	s := NormalizeWidth(name)
	s = NormalizeUnicode(s)
	s = strings.ToLower(s)
	s = separatorRunRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
