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

package database

import (
	"database/sql"
	"time"
	"unicode/utf8"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/similarity"
)

/*
 * The non-concrete store interfaces live at this generic package level so
 * the API and service layers can depend on them without importing the
 * concrete implementation in corpusdb.
 */

// Database is the bundle of stores a running service depends on.
type Database struct {
	CorpusDB CorpusDBI
}

/*
 * Structs for SQL records
 */

type Corpus struct {
	Created time.Time
	Updated time.Time
	Name    string
	Slug    string
	DBID    int64
}

type Entry struct {
	Created    time.Time
	Updated    time.Time
	Key        string
	Value      string
	DBID       int64
	CorpusDBID int64
	FoldedLen  int
	TokenCount int
}

type SearchEvent struct {
	Time   time.Time
	Query  string
	Corpus string
	Scorer string
	DBID   int64
	TookMS int64
	Hits   int
}

// NewEntry builds an Entry from a raw key/value pair, filling in the folded
// metadata columns every loader must agree on.
func NewEntry(key, value string) Entry {
	folded := similarity.NormalizeChars(value)
	return Entry{
		Key:        key,
		Value:      value,
		FoldedLen:  utf8.RuneCountInString(folded),
		TokenCount: len(similarity.NormalizeTokens(value)),
	}
}

/*
 * Interfaces for external deps
 */

type GenericDBI interface {
	Open() error
	UnsafeGetSQLDb() *sql.DB
	Truncate() error
	Allocate() error
	MigrateUp() error
	Vacuum() error
	Close() error
	GetDBPath() string
}

type CorpusDBI interface {
	GenericDBI

	FindCorpus(row Corpus) (Corpus, error)
	InsertCorpus(row Corpus) (Corpus, error)
	FindOrInsertCorpus(row Corpus) (Corpus, error)
	GetCorpus(slug string) (Corpus, error)
	ListCorpora() ([]Corpus, error)
	DeleteCorpus(slug string) error

	// ReplaceCorpusEntries swaps the full entry set of a corpus in one
	// transaction, creating the corpus row if needed. Returns the number
	// of entries written.
	ReplaceCorpusEntries(corpus Corpus, entries []Entry) (int64, error)

	UpsertEntry(corpusSlug string, entry *Entry) error
	DeleteEntry(corpusSlug string, key string) error
	GetEntries(corpusSlug string) ([]Entry, error)
	GetEntriesInLengthRange(corpusSlug string, minLen int, maxLen int) ([]Entry, error)
	CountEntries(corpusSlug string) (int64, error)
	CountAllEntries() (int64, error)

	AddSearchEvent(event *SearchEvent) error
	GetSearchHistory(lastID int) ([]SearchEvent, error)
	CleanupSearchHistory(keep int) (int64, error)
}
