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

package corpusdb

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTempCorpusDB(t *testing.T) *CorpusDB {
	t.Helper()
	db, err := OpenCorpusDB(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCorpusDB_OpenClose_Integration(t *testing.T) {
	t.Parallel()
	db, err := OpenCorpusDB(context.Background(), t.TempDir())
	require.NoError(t, err)

	// A fresh database is migrated and empty
	count, err := db.CountAllEntries()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, db.Close())

	_, err = db.CountAllEntries()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is closed")
}

func TestCorpusDB_CorporaRoundtrip_Integration(t *testing.T) {
	t.Parallel()
	db := setupTempCorpusDB(t)

	corpus, err := db.FindOrInsertCorpus(database.Corpus{Name: "Cities", Slug: "cities"})
	require.NoError(t, err)
	assert.Positive(t, corpus.DBID)

	// Second call must find the existing row, not insert a duplicate
	again, err := db.FindOrInsertCorpus(database.Corpus{Name: "Cities", Slug: "cities"})
	require.NoError(t, err)
	assert.Equal(t, corpus.DBID, again.DBID)

	_, err = db.FindOrInsertCorpus(database.Corpus{Name: "Band Names", Slug: "band-names"})
	require.NoError(t, err)

	got, err := db.GetCorpus("cities")
	require.NoError(t, err)
	assert.Equal(t, "Cities", got.Name)

	list, err := db.ListCorpora()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Band Names", list[0].Name)
	assert.Equal(t, "Cities", list[1].Name)

	require.NoError(t, db.DeleteCorpus("cities"))
	_, err = db.GetCorpus("cities")
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCorpusDB_ReplaceEntries_Integration(t *testing.T) {
	t.Parallel()
	db := setupTempCorpusDB(t)

	entries := []database.Entry{
		{Key: "warsaw", Value: "Warsaw", FoldedLen: 6, TokenCount: 1},
		{Key: "krakow", Value: "Kraków", FoldedLen: 6, TokenCount: 1},
		{Key: "gdansk", Value: "Gdańsk", FoldedLen: 6, TokenCount: 1},
	}
	n, err := db.ReplaceCorpusEntries(database.Corpus{Name: "Cities", Slug: "cities"}, entries)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	got, err := db.GetEntries("cities")
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Entries come back ordered by key
	assert.Equal(t, "gdansk", got[0].Key)
	assert.Equal(t, "krakow", got[1].Key)
	assert.Equal(t, "warsaw", got[2].Key)

	// A reload swaps the full entry set
	n, err = db.ReplaceCorpusEntries(database.Corpus{Name: "Cities", Slug: "cities"},
		[]database.Entry{
			{Key: "lodz", Value: "Łódź", FoldedLen: 4, TokenCount: 1},
			{Key: "poznan", Value: "Poznań", FoldedLen: 6, TokenCount: 1},
		})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := db.CountEntries("cities")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err = db.GetEntries("cities")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "lodz", got[0].Key)

	// Still a single corpus row after both loads
	list, err := db.ListCorpora()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCorpusDB_UpsertEntry_Integration(t *testing.T) {
	t.Parallel()
	db := setupTempCorpusDB(t)

	_, err := db.FindOrInsertCorpus(database.Corpus{Name: "Cities", Slug: "cities"})
	require.NoError(t, err)

	err = db.UpsertEntry("cities", &database.Entry{
		Key: "warsaw", Value: "Warsaw", FoldedLen: 6, TokenCount: 1,
	})
	require.NoError(t, err)

	// Same key again updates in place
	err = db.UpsertEntry("cities", &database.Entry{
		Key: "warsaw", Value: "Warsaw, Poland", FoldedLen: 13, TokenCount: 2,
	})
	require.NoError(t, err)

	got, err := db.GetEntries("cities")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Warsaw, Poland", got[0].Value)
	assert.Equal(t, 13, got[0].FoldedLen)
	assert.Equal(t, 2, got[0].TokenCount)
}

func TestCorpusDB_DeleteEntry_Integration(t *testing.T) {
	t.Parallel()
	db := setupTempCorpusDB(t)

	_, err := db.ReplaceCorpusEntries(database.Corpus{Name: "Cities", Slug: "cities"},
		[]database.Entry{
			{Key: "warsaw", Value: "Warsaw", FoldedLen: 6, TokenCount: 1},
			{Key: "krakow", Value: "Kraków", FoldedLen: 6, TokenCount: 1},
		})
	require.NoError(t, err)

	require.NoError(t, db.DeleteEntry("cities", "warsaw"))

	got, err := db.GetEntries("cities")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "krakow", got[0].Key)

	// Deleting a missing key is a no-op
	require.NoError(t, db.DeleteEntry("cities", "warsaw"))
}

func TestCorpusDB_CascadeDelete_Integration(t *testing.T) {
	t.Parallel()
	db := setupTempCorpusDB(t)

	_, err := db.ReplaceCorpusEntries(database.Corpus{Name: "Cities", Slug: "cities"},
		[]database.Entry{
			{Key: "warsaw", Value: "Warsaw", FoldedLen: 6, TokenCount: 1},
			{Key: "krakow", Value: "Kraków", FoldedLen: 6, TokenCount: 1},
		})
	require.NoError(t, err)

	require.NoError(t, db.DeleteCorpus("cities"))

	// Entry rows go with the corpus
	count, err := db.CountAllEntries()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestCorpusDB_LengthRangeQuery_Integration(t *testing.T) {
	t.Parallel()
	db := setupTempCorpusDB(t)

	_, err := db.ReplaceCorpusEntries(database.Corpus{Name: "Cities", Slug: "cities"},
		[]database.Entry{
			{Key: "ely", Value: "Ely", FoldedLen: 3, TokenCount: 1},
			{Key: "warsaw", Value: "Warsaw", FoldedLen: 6, TokenCount: 1},
			{Key: "bydgoszcz", Value: "Bydgoszcz", FoldedLen: 9, TokenCount: 1},
			{Key: "san sebastian", Value: "San Sebastián", FoldedLen: 13, TokenCount: 2},
		})
	require.NoError(t, err)

	got, err := db.GetEntriesInLengthRange("cities", 4, 9)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bydgoszcz", got[0].Key)
	assert.Equal(t, "warsaw", got[1].Key)
}

func TestCorpusDB_SearchHistory_Integration(t *testing.T) {
	t.Parallel()
	db := setupTempCorpusDB(t)

	for i := range 30 {
		err := db.AddSearchEvent(&database.SearchEvent{
			Time:   time.Now(),
			Query:  fmt.Sprintf("query %02d", i),
			Corpus: "cities",
			Scorer: "fused",
			Hits:   i % 5,
			TookMS: int64(i),
		})
		require.NoError(t, err)
	}

	// First page holds the 25 newest events
	page, err := db.GetSearchHistory(0)
	require.NoError(t, err)
	require.Len(t, page, 25)
	assert.Equal(t, "query 29", page[0].Query)
	assert.Equal(t, "query 05", page[24].Query)

	// Second page picks up from the last DBID
	rest, err := db.GetSearchHistory(int(page[24].DBID))
	require.NoError(t, err)
	require.Len(t, rest, 5)
	assert.Equal(t, "query 04", rest[0].Query)
	assert.Equal(t, "query 00", rest[4].Query)

	// Cap to the 10 newest rows
	deleted, err := db.CleanupSearchHistory(10)
	require.NoError(t, err)
	assert.Equal(t, int64(20), deleted)

	page, err = db.GetSearchHistory(0)
	require.NoError(t, err)
	require.Len(t, page, 10)
	assert.Equal(t, "query 29", page[0].Query)
	assert.Equal(t, "query 20", page[9].Query)
}

func TestCorpusDB_Truncate_Integration(t *testing.T) {
	t.Parallel()
	db := setupTempCorpusDB(t)

	_, err := db.ReplaceCorpusEntries(database.Corpus{Name: "Cities", Slug: "cities"},
		[]database.Entry{
			{Key: "warsaw", Value: "Warsaw", FoldedLen: 6, TokenCount: 1},
		})
	require.NoError(t, err)
	err = db.AddSearchEvent(&database.SearchEvent{
		Time: time.Now(), Query: "warszawa", Corpus: "cities", Scorer: "fused", Hits: 1, TookMS: 2,
	})
	require.NoError(t, err)

	require.NoError(t, db.Truncate())

	list, err := db.ListCorpora()
	require.NoError(t, err)
	assert.Empty(t, list)

	count, err := db.CountAllEntries()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	history, err := db.GetSearchHistory(0)
	require.NoError(t, err)
	assert.Empty(t, history)
}
