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

package config

const (
	DefaultSearchLimit = 10
	DefaultMinScore    = 0.10

	// DefaultHistoryKeep caps how many search history rows survive the
	// periodic sweep.
	DefaultHistoryKeep = 1000

	ScorerFused       = "fused"
	ScorerJaroWinkler = "jaro_winkler"
	ScorerDamerau     = "damerau"
)

type Search struct {
	DefaultLimit *int     `toml:"default_limit,omitempty"`
	MinScore     *float64 `toml:"min_score,omitempty"`
	Workers      *int     `toml:"workers,omitempty"`
	History      *bool    `toml:"history,omitempty"`
	HistoryKeep  *int     `toml:"history_keep,omitempty"`
	Prefilter    *float64 `toml:"prefilter,omitempty"`
	Scorer       string   `toml:"scorer,omitempty"`
}

func (c *Instance) SearchLimit() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Search.DefaultLimit == nil {
		return DefaultSearchLimit
	}
	return *c.vals.Search.DefaultLimit
}

func (c *Instance) SetSearchLimit(limit int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Search.DefaultLimit = &limit
}

func (c *Instance) SearchMinScore() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Search.MinScore == nil {
		return DefaultMinScore
	}
	return *c.vals.Search.MinScore
}

func (c *Instance) SetSearchMinScore(minScore float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Search.MinScore = &minScore
}

// SearchWorkers returns the scoring worker count, 0 meaning one per CPU.
func (c *Instance) SearchWorkers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Search.Workers == nil {
		return 0
	}
	return *c.vals.Search.Workers
}

func (c *Instance) SetSearchWorkers(workers int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Search.Workers = &workers
}

// SearchScorer returns the configured scorer name, defaulting to
// ScorerFused. Unknown names are resolved (and warned about) at the point
// the scorer is constructed, not here.
func (c *Instance) SearchScorer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Search.Scorer == "" {
		return ScorerFused
	}
	return c.vals.Search.Scorer
}

func (c *Instance) SetSearchScorer(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Search.Scorer = name
}

func (c *Instance) SearchHistoryEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Search.History == nil {
		return true
	}
	return *c.vals.Search.History
}

func (c *Instance) SetSearchHistoryEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Search.History = &enabled
}

// SearchHistoryKeep returns how many history rows the periodic sweep
// retains. Zero or negative disables the sweep entirely.
func (c *Instance) SearchHistoryKeep() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Search.HistoryKeep == nil {
		return DefaultHistoryKeep
	}
	return *c.vals.Search.HistoryKeep
}

func (c *Instance) SetSearchHistoryKeep(keep int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Search.HistoryKeep = &keep
}

// SearchPrefilter returns the length-ratio candidate prefilter, 0 meaning
// disabled. When set to r > 1, searches only score entries whose folded
// length is within [len/r, len*r] of the folded query length. This trades
// recall for latency on large corpora: entries outside the window can still
// carry real token overlap, and they are skipped unscored. Values <= 1 are
// treated as disabled.
func (c *Instance) SearchPrefilter() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Search.Prefilter == nil {
		return 0
	}
	if *c.vals.Search.Prefilter <= 1 {
		return 0
	}
	return *c.vals.Search.Prefilter
}

func (c *Instance) SetSearchPrefilter(ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Search.Prefilter = &ratio
}
