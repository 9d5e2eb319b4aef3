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

package models

// SearchParams drives the search method. Optional fields fall back to the
// configured defaults when nil.
type SearchParams struct {
	K        *int           `json:"k" validate:"omitempty,min=1,max=1000"`
	MinScore *float64       `json:"minScore" validate:"omitempty,scorerange"`
	Workers  *int           `json:"workers" validate:"omitempty,min=1,max=64"`
	Options  map[string]any `json:"options"`
	Corpus   string         `json:"corpus" validate:"required,corpusname"`
	Query    string         `json:"query" validate:"required"`
	Detail   bool           `json:"detail"`
}

// SearchOptions are the loosely-typed extras of SearchParams.Options,
// decoded via mapstructure so clients can send "prefilter": "2.5" and
// still get a float. Unknown keys are rejected.
type SearchOptions struct {
	Scorer    string  `mapstructure:"scorer" validate:"omitempty,oneof=fused jaro_winkler damerau"`
	Prefilter float64 `mapstructure:"prefilter" validate:"omitempty,gt=1"`
}

type SimilarityParams struct {
	Query  string `json:"query" validate:"required"`
	Target string `json:"target" validate:"required"`
}

type DeleteCorpusParams struct {
	Corpus string `json:"corpus" validate:"required,corpusname"`
}

type EntryParams struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

type AddEntriesParams struct {
	Corpus  string        `json:"corpus" validate:"required,corpusname"`
	Entries []EntryParams `json:"entries" validate:"required,min=1,dive"`
}

type DeleteEntriesParams struct {
	Corpus string   `json:"corpus" validate:"required,corpusname"`
	Keys   []string `json:"keys" validate:"required,min=1,dive,required"`
}

// HistoryParams pages through past searches. LastID 0 (or absent) returns
// the newest page.
type HistoryParams struct {
	LastID *int `json:"lastId" validate:"omitempty,min=0"`
}

// UpdateSettingsParams carries partial settings updates, nil meaning leave
// unchanged.
type UpdateSettingsParams struct {
	DebugLogging         *bool    `json:"debugLogging"`
	SearchLimit          *int     `json:"searchLimit" validate:"omitempty,min=1,max=1000"`
	SearchMinScore       *float64 `json:"searchMinScore" validate:"omitempty,scorerange"`
	SearchWorkers        *int     `json:"searchWorkers" validate:"omitempty,min=0,max=64"`
	SearchScorer         *string  `json:"searchScorer" validate:"omitempty,oneof=fused jaro_winkler damerau"`
	SearchPrefilter      *float64 `json:"searchPrefilter" validate:"omitempty,min=0"`
	SearchHistoryEnabled *bool    `json:"searchHistoryEnabled"`
}
