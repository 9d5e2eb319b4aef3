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

import "strings"

// Strategy identifies one of the component scorers.
type Strategy string

const (
	StrategyHamming Strategy = "hamming"
	StrategyEdit    Strategy = "edit"
	StrategyJaccard Strategy = "jaccard"
	StrategyWindow  Strategy = "window"
)

// Component is one strategy's contribution to a fused score. Value is the
// raw metric result; Weighted is what entered fusion (identical to Value
// except for the token component, which is scaled by TokenWeight).
type Component struct {
	Strategy Strategy `json:"strategy"`
	Value    float64  `json:"value"`
	Weighted float64  `json:"weighted"`
}

// Detail is a fused score plus the per-strategy components that produced
// it, for explain output and debugging. Components appear in a fixed order.
type Detail struct {
	Components []Component `json:"components"`
	Score      float64     `json:"score"`
}

// Score computes the fused similarity of query and target in [0,1].
//
// Both inputs are normalized (NormalizeChars / NormalizeTokens), then the
// folded lengths lq and lt pick the strategies:
//
//   - identical folded views (including both empty): 1.0, no scoring
//   - exactly one side empty: 0.0
//   - lq == lt: edit distance, plus Hamming while lq <= HammingMaxLen
//   - lt > lq: the partial-ratio window, plus full edit distance while
//     lt <= PartialLengthRatio*lq so the score stays continuous as the
//     target grows
//   - lq > lt: full edit distance
//   - token overlap (Jaccard, scaled by TokenWeight) always participates
//
// The result is the maximum of the computed components: any one strategy
// finding strong evidence of similarity dominates, so a low-applicability
// signal (single-token Jaccard, say) cannot drag down a confident one.
//
// Score is pure and deterministic: same inputs, same float, no hidden
// state. It is safe to call concurrently.
//
// Example:
//
//	Score("ciao", "ciao")               → 1.0
//	Score("bella ciao", "ciao bella")   → 0.70 (full token overlap)
//	Score("granite", long paragraph containing "granite") ≈ 0.55
func Score(query, target string) float64 {
	q := NormalizeChars(query)
	t := NormalizeChars(target)
	if q == t {
		return 1.0
	}
	if q == "" || t == "" {
		return 0.0
	}

	c := computeComponents([]rune(q), []rune(t), strings.Fields(q), strings.Fields(t))
	return fuse(c)
}

// ScoreDetail is Score with the component breakdown attached.
func ScoreDetail(query, target string) Detail {
	q := NormalizeChars(query)
	t := NormalizeChars(target)
	if q == t {
		return Detail{Score: 1.0}
	}
	if q == "" || t == "" {
		return Detail{Score: 0.0}
	}

	c := computeComponents([]rune(q), []rune(t), strings.Fields(q), strings.Fields(t))

	parts := make([]Component, 0, 4)
	if c.hasHamming {
		parts = append(parts, Component{StrategyHamming, c.hamming, c.hamming})
	}
	if c.hasEdit {
		parts = append(parts, Component{StrategyEdit, c.edit, c.edit})
	}
	if c.hasWindow {
		parts = append(parts, Component{StrategyWindow, c.window, c.window})
	}
	parts = append(parts, Component{StrategyJaccard, c.token, TokenWeight * c.token})

	return Detail{Components: parts, Score: fuse(c)}
}

// components carries the raw strategy results for one pair. The token
// component always runs; the has flags record which others were selected.
type components struct {
	hamming float64
	edit    float64
	window  float64
	token   float64

	hasHamming bool
	hasEdit    bool
	hasWindow  bool
}

func computeComponents(q, t []rune, qTokens, tTokens []string) components {
	var c components
	lq, lt := len(q), len(t)

	switch {
	case lq == lt:
		c.edit, c.hasEdit = editScoreRunes(q, t), true
		if lq <= HammingMaxLen {
			c.hamming, c.hasHamming = hammingRunes(q, t), true
		}
	case lt > lq:
		c.window, c.hasWindow = partialWindowRunes(q, t), true
		if lt <= PartialLengthRatio*lq {
			c.edit, c.hasEdit = editScoreRunes(q, t), true
		}
	default: // lq > lt
		c.edit, c.hasEdit = editScoreRunes(q, t), true
	}

	c.token = JaccardTokens(qTokens, tTokens)
	return c
}

func fuse(c components) float64 {
	best := TokenWeight * c.token
	if c.hasHamming && c.hamming > best {
		best = c.hamming
	}
	if c.hasEdit && c.edit > best {
		best = c.edit
	}
	if c.hasWindow && c.window > best {
		best = c.window
	}
	return clamp01(best)
}
