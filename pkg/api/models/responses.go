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

import (
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/similarity"
)

// SearchHit is one ranked result. Components is only populated when the
// request asked for detail.
type SearchHit struct {
	Components []similarity.Component `json:"components,omitempty"`
	Key        string                 `json:"key"`
	Value      string                 `json:"value"`
	Score      float64                `json:"score"`
}

type SearchResults struct {
	Hits   []SearchHit `json:"hits"`
	Query  string      `json:"query"`
	Corpus string      `json:"corpus"`
	Total  int         `json:"total"`
	TookMS int64       `json:"tookMs"`
}

type SimilarityResponse struct {
	Components []similarity.Component `json:"components"`
	Score      float64                `json:"score"`
}

type CorpusInfo struct {
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	Name    string    `json:"name"`
	Slug    string    `json:"slug"`
	Entries int       `json:"entries"`
}

type CorporaResponse struct {
	Corpora []CorpusInfo `json:"corpora"`
}

type HistoryResponseEntry struct {
	Time   time.Time `json:"time"`
	Query  string    `json:"query"`
	Corpus string    `json:"corpus"`
	Scorer string    `json:"scorer"`
	Hits   int       `json:"hits"`
	TookMS int64     `json:"tookMs"`
}

type HistoryResponse struct {
	Entries []HistoryResponseEntry `json:"entries"`
	LastID  int                    `json:"lastId"`
}

type SettingsResponse struct {
	SearchScorer         string  `json:"searchScorer"`
	SearchLimit          int     `json:"searchLimit"`
	SearchMinScore       float64 `json:"searchMinScore"`
	SearchWorkers        int     `json:"searchWorkers"`
	SearchPrefilter      float64 `json:"searchPrefilter"`
	DebugLogging         bool    `json:"debugLogging"`
	SearchHistoryEnabled bool    `json:"searchHistoryEnabled"`
}

type StatusResponse struct {
	StartedAt   time.Time `json:"startedAt"`
	Scorer      string    `json:"scorer"`
	UptimeSecs  int64     `json:"uptimeSecs"`
	Corpora     int       `json:"corpora"`
	Entries     int       `json:"entries"`
	MemoryRSS   uint64    `json:"memoryRss"`
	CPUPercent  float64   `json:"cpuPercent"`
	Connections int       `json:"connections"`
}

type VersionResponse struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
}

// ReloadResponse reports how many corpora a reload pass ingested.
type ReloadResponse struct {
	Corpora int `json:"corpora"`
}

// CorpusUpdatedParams rides the corpus.updated notification after an
// ingest, reload, or live entry change.
type CorpusUpdatedParams struct {
	Corpus  string `json:"corpus"`
	Entries int    `json:"entries"`
}

// IndexingStatusParams rides corpus.indexing so UIs can show reload
// progress. TotalFiles and CurrentFile are only set during seed scans.
type IndexingStatusParams struct {
	TotalFiles  *int    `json:"totalFiles,omitempty"`
	CurrentFile *string `json:"currentFile,omitempty"`
	Indexing    bool    `json:"indexing"`
}

// SearchCompletedParams rides search.completed, mirroring the history row
// the search recorded.
type SearchCompletedParams struct {
	Query  string `json:"query"`
	Corpus string `json:"corpus"`
	Hits   int    `json:"hits"`
	TookMS int64  `json:"tookMs"`
}
