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
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RankParallel is Rank fanned out over worker goroutines. Results are
// identical to Rank on the same inputs: every candidate keeps its stream
// position, so score ties resolve toward the earlier candidate no matter
// which worker scored it.
//
// Each worker scores a contiguous chunk into its own Selector; the
// per-worker survivors are then merged through one final Selector. workers
// below 1 selects GOMAXPROCS. Cancellation is checked between candidates
// and abandons the run with the context's error.
func RankParallel(ctx context.Context, query string, candidates []Candidate, workers int, opts Options) ([]Match, error) {
	opts = opts.withDefaults()

	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Rank(query, candidates, opts), nil
	}

	selectors := make([]*Selector, workers)
	chunk := (len(candidates) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		start := min(w*chunk, len(candidates))
		end := min(start+chunk, len(candidates))
		sel := New(opts.Limit)
		selectors[w] = sel

		g.Go(func() error {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				c := candidates[i]
				score := opts.Scorer(query, c.Key)
				if score < opts.MinScore {
					continue
				}
				sel.offer(entry{key: c.Key, value: c.Value, score: score, seq: uint64(i)})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Survivors carry their original sequences, so re-offering them is
	// order-insensitive and lands on the same final set as a single pass.
	merged := New(opts.Limit)
	for _, sel := range selectors {
		for _, e := range sel.heap {
			merged.offer(e)
		}
	}
	return merged.Drain(), nil
}
