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

package topk

import (
	"github.com/FuzzDexProject/fuzzdex-core/pkg/similarity"
)

const (
	// DefaultLimit is the result cap used when Options.Limit is unset.
	DefaultLimit = 10

	// DefaultMinScore is the score floor used when Options.MinScore is
	// unset. It drops candidates with effectively no signal while staying
	// well under every meaningful match band.
	DefaultMinScore = 0.10
)

// Scorer computes the similarity of a query to one candidate text in
// [0, 1]. It must be pure: Rank calls it once per candidate and
// RankParallel calls it from multiple goroutines.
type Scorer func(query, target string) float64

// Candidate is one scoreable item: Key is the text that gets matched,
// Value an opaque payload carried through to the Match.
type Candidate struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Options tunes Rank and RankParallel. The zero value selects the
// defaults: DefaultLimit results, DefaultMinScore floor, and the fused
// similarity.Score scorer.
type Options struct {
	// Scorer scores each candidate's Key against the query.
	// Nil selects similarity.Score.
	Scorer Scorer

	// Limit caps the number of results. Zero or negative selects
	// DefaultLimit.
	Limit int

	// MinScore drops candidates scoring below it before they reach the
	// selector. Zero selects DefaultMinScore; set a negative value to
	// keep every candidate.
	MinScore float64
}

func (o Options) withDefaults() Options {
	if o.Scorer == nil {
		o.Scorer = similarity.Score
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.MinScore == 0 {
		o.MinScore = DefaultMinScore
	}
	return o
}

// Rank scores every candidate's Key against query and returns at most
// opts.Limit results sorted by score descending, ties resolved toward the
// earlier candidate. Candidates scoring below opts.MinScore are dropped.
func Rank(query string, candidates []Candidate, opts Options) []Match {
	opts = opts.withDefaults()

	sel := New(opts.Limit)
	offerAll(sel, query, candidates, 0, len(candidates), opts)
	return sel.Drain()
}

// offerAll scores candidates[start:end] into sel, tagging each offer with
// its global candidate index.
func offerAll(sel *Selector, query string, candidates []Candidate, start, end int, opts Options) {
	for i := start; i < end; i++ {
		c := candidates[i]
		score := opts.Scorer(query, c.Key)
		if score < opts.MinScore {
			continue
		}
		sel.offer(entry{key: c.Key, value: c.Value, score: score, seq: uint64(i)})
	}
}
