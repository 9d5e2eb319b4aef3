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

// Package topk keeps the best K scored candidates out of a stream of any
// length while never holding more than K entries.
//
// A Selector accepts (key, value, score) offers and retains the K highest
// scores, resolving ties toward the earliest offer. Rank and RankParallel
// drive a Selector over candidate slices with a pluggable scorer.
package topk

import (
	"container/heap"
	"fmt"
)

// Match is one retained result: the candidate's key and payload plus the
// score that earned its place.
type Match struct {
	Key   string  `json:"key"`
	Value string  `json:"value"`
	Score float64 `json:"score"`
}

// entry is one retained candidate. seq is the candidate's position in the
// offer stream and breaks score ties: the earlier arrival wins.
type entry struct {
	key   string
	value string
	score float64
	seq   uint64
}

// entryHeap orders entries worst-first: lowest score at the root, and among
// equal scores the newest arrival, so the root is always the next entry to
// give up its slot.
type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	return h[i].seq > h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Selector retains the best K offers it has seen. The zero value is not
// usable; construct with New.
//
// A Selector is single-shot: offer any number of candidates, then Drain
// exactly once. Offering after Drain, or draining twice, is a programming
// error and panics. Selectors are not safe for concurrent use; RankParallel
// gives each worker its own and merges afterwards.
type Selector struct {
	heap    entryHeap
	k       int
	nextSeq uint64
	drained bool
}

// New returns a Selector retaining the best k offers. Panics if k < 1: a
// selector that can hold nothing is always a caller bug.
func New(k int) *Selector {
	if k < 1 {
		panic(fmt.Sprintf("topk: capacity must be at least 1, got %d", k))
	}
	return &Selector{k: k, heap: make(entryHeap, 0, k)}
}

// Offer submits one candidate and reports whether it was retained. Below
// capacity every offer is retained. At capacity the candidate must beat the
// weakest retained entry; on an exact score tie the incumbent stays.
func (s *Selector) Offer(key, value string, score float64) bool {
	seq := s.nextSeq
	s.nextSeq++
	return s.offer(entry{key: key, value: value, score: score, seq: seq})
}

// offer is Offer with an explicit stream sequence. Rank and RankParallel
// use candidate indices as sequences so that merged per-worker selectors
// resolve ties exactly as a single sequential pass would.
func (s *Selector) offer(e entry) bool {
	if s.drained {
		panic("topk: selector used after Drain")
	}
	if len(s.heap) < s.k {
		heap.Push(&s.heap, e)
		return true
	}
	root := s.heap[0]
	if e.score > root.score || (e.score == root.score && e.seq < root.seq) {
		s.heap[0] = e
		heap.Fix(&s.heap, 0)
		return true
	}
	return false
}

// Len reports how many entries are currently retained.
func (s *Selector) Len() int { return len(s.heap) }

// Cap reports the retention capacity K.
func (s *Selector) Cap() int { return s.k }

// Full reports whether the selector has reached capacity, meaning new
// offers must now displace a retained entry.
func (s *Selector) Full() bool { return len(s.heap) == s.k }

// Floor returns the weakest retained score, or 0 when nothing is retained.
// Once Full, an offer must exceed Floor (or tie it with an earlier
// sequence) to be retained.
func (s *Selector) Floor() float64 {
	if len(s.heap) == 0 {
		return 0
	}
	return s.heap[0].score
}

// Drain consumes the selector and returns the retained entries sorted by
// score descending, earliest offer first among equal scores. Panics if
// called twice.
func (s *Selector) Drain() []Match {
	if s.drained {
		panic("topk: selector drained twice")
	}
	s.drained = true

	out := make([]Match, len(s.heap))
	for i := len(out) - 1; i >= 0; i-- {
		e := heap.Pop(&s.heap).(entry)
		out[i] = Match{Key: e.key, Value: e.value, Score: e.score}
	}
	return out
}
