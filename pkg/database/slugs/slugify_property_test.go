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

package slugs

import (
	"strings"
	"testing"
	"unicode"

	"pgregory.net/rapid"
)

// realisticNameGen generates strings from character sets that show up in
// real corpus names, rather than exotic Unicode that never would.
func realisticNameGen() *rapid.Generator[string] {
	//nolint:gosmopolitan // Intentional multi-script for testing international name support
	chars := []rune(
		"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789" +
			" -_:.'\"&!?(),[]" +
			"àáâãäåæçèéêëñòóôõöøùúûüýÿ" +
			"ÀÁÂÃÄÅÆÇÈÉÊËÑÒÓÔÕÖØÙÚÛÜÝ" +
			"日本語中文ドラゴンクエスト" +
			"абвгдежзийклмнопрстуфхцч" +
			"αβγδεζηθικλμνξοπρστυφχψω",
	)
	return rapid.StringOfN(rapid.SampledFrom(chars), 0, 80, -1)
}

// TestPropertySlugifyDeterministic verifies same input always produces the
// same output.
func TestPropertySlugifyDeterministic(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		input := realisticNameGen().Draw(t, "input")

		result1 := Slugify(input)
		result2 := Slugify(input)

		if result1 != result2 {
			t.Fatalf("Slugify not deterministic: %q vs %q (input=%q)",
				result1, result2, input)
		}
	})
}

// TestPropertySlugifyIdempotent verifies slugifying a slug is a no-op.
func TestPropertySlugifyIdempotent(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		input := realisticNameGen().Draw(t, "input")

		once := Slugify(input)
		twice := Slugify(once)

		if once != twice {
			t.Fatalf("Slugify not idempotent: %q -> %q (input=%q)",
				once, twice, input)
		}
	})
}

// TestPropertySlugifyCharset verifies slugs only ever contain letters,
// digits, and single interior hyphens.
func TestPropertySlugifyCharset(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		input := realisticNameGen().Draw(t, "input")

		slug := Slugify(input)

		if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
			t.Fatalf("slug has edge hyphen: %q (input=%q)", slug, input)
		}
		if strings.Contains(slug, "--") {
			t.Fatalf("slug has hyphen run: %q (input=%q)", slug, input)
		}
		for _, r := range slug {
			if r == '-' {
				continue
			}
			if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
				t.Fatalf("slug rune %q not letter or digit: %q (input=%q)",
					r, slug, input)
			}
			if r >= 'A' && r <= 'Z' {
				t.Fatalf("slug has uppercase ASCII: %q (input=%q)", slug, input)
			}
		}
	})
}

// TestPropertySlugifyASCIICaseInsensitive verifies ASCII names slug the
// same regardless of letter case.
func TestPropertySlugifyASCIICaseInsensitive(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		chars := []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789 -_.")
		input := rapid.StringOfN(rapid.SampledFrom(chars), 0, 60, -1).Draw(t, "input")

		upper := Slugify(strings.ToUpper(input))
		lower := Slugify(strings.ToLower(input))

		if upper != lower {
			t.Fatalf("case changed slug: %q vs %q (input=%q)", upper, lower, input)
		}
	})
}
