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

// Package helpers provides testing utilities for database operations.
//
// This package includes a mock implementation of the corpus store interface
// and helper functions for setting up sqlmock expectations. It enables
// testing store consumers without requiring a real SQLite database.
//
// Example usage:
//
//	func TestStoreConsumer(t *testing.T) {
//		corpusDB := helpers.NewMockCorpusDBI()
//		corpusDB.On("AddSearchEvent", helpers.SearchEventMatcher()).Return(nil)
//
//		err := MyFunction(corpusDB)
//
//		require.NoError(t, err)
//		corpusDB.AssertExpectations(t)
//	}
package helpers

import (
	"database/sql"
	"fmt"
	"regexp"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/stretchr/testify/mock"
)

// MockCorpusDBI is a mock implementation of the CorpusDBI interface using
// testify/mock.
type MockCorpusDBI struct {
	mock.Mock
}

// GenericDBI methods
func (m *MockCorpusDBI) Open() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock CorpusDBI open failed: %w", err)
	}
	return nil
}

func (m *MockCorpusDBI) UnsafeGetSQLDb() *sql.DB {
	args := m.Called()
	if db, ok := args.Get(0).(*sql.DB); ok {
		return db
	}
	return nil
}

func (m *MockCorpusDBI) Truncate() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock CorpusDBI truncate failed: %w", err)
	}
	return nil
}

func (m *MockCorpusDBI) Allocate() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock CorpusDBI allocate failed: %w", err)
	}
	return nil
}

func (m *MockCorpusDBI) MigrateUp() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock CorpusDBI migrate up failed: %w", err)
	}
	return nil
}

func (m *MockCorpusDBI) Vacuum() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock CorpusDBI vacuum failed: %w", err)
	}
	return nil
}

func (m *MockCorpusDBI) Close() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock CorpusDBI close failed: %w", err)
	}
	return nil
}

func (m *MockCorpusDBI) GetDBPath() string {
	args := m.Called()
	return args.String(0)
}

// Corpus methods
func (m *MockCorpusDBI) FindCorpus(row database.Corpus) (database.Corpus, error) {
	args := m.Called(row)
	if corpus, ok := args.Get(0).(database.Corpus); ok {
		if err := args.Error(1); err != nil {
			return corpus, fmt.Errorf("mock CorpusDBI find corpus failed: %w", err)
		}
		return corpus, nil
	}
	if err := args.Error(1); err != nil {
		return database.Corpus{}, fmt.Errorf("mock CorpusDBI find corpus failed: %w", err)
	}
	return database.Corpus{}, nil
}

func (m *MockCorpusDBI) InsertCorpus(row database.Corpus) (database.Corpus, error) {
	args := m.Called(row)
	if corpus, ok := args.Get(0).(database.Corpus); ok {
		if err := args.Error(1); err != nil {
			return corpus, fmt.Errorf("mock CorpusDBI insert corpus failed: %w", err)
		}
		return corpus, nil
	}
	if err := args.Error(1); err != nil {
		return database.Corpus{}, fmt.Errorf("mock CorpusDBI insert corpus failed: %w", err)
	}
	return database.Corpus{}, nil
}

func (m *MockCorpusDBI) FindOrInsertCorpus(row database.Corpus) (database.Corpus, error) {
	args := m.Called(row)
	if corpus, ok := args.Get(0).(database.Corpus); ok {
		if err := args.Error(1); err != nil {
			return corpus, fmt.Errorf("mock CorpusDBI find or insert corpus failed: %w", err)
		}
		return corpus, nil
	}
	if err := args.Error(1); err != nil {
		return database.Corpus{}, fmt.Errorf("mock CorpusDBI find or insert corpus failed: %w", err)
	}
	return database.Corpus{}, nil
}

func (m *MockCorpusDBI) GetCorpus(slug string) (database.Corpus, error) {
	args := m.Called(slug)
	if corpus, ok := args.Get(0).(database.Corpus); ok {
		if err := args.Error(1); err != nil {
			return corpus, fmt.Errorf("mock CorpusDBI get corpus failed: %w", err)
		}
		return corpus, nil
	}
	if err := args.Error(1); err != nil {
		return database.Corpus{}, fmt.Errorf("mock CorpusDBI get corpus failed: %w", err)
	}
	return database.Corpus{}, nil
}

func (m *MockCorpusDBI) ListCorpora() ([]database.Corpus, error) {
	args := m.Called()
	if corpora, ok := args.Get(0).([]database.Corpus); ok {
		if err := args.Error(1); err != nil {
			return corpora, fmt.Errorf("mock CorpusDBI list corpora failed: %w", err)
		}
		return corpora, nil
	}
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock CorpusDBI list corpora failed: %w", err)
	}
	return nil, nil
}

func (m *MockCorpusDBI) DeleteCorpus(slug string) error {
	args := m.Called(slug)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock CorpusDBI delete corpus failed: %w", err)
	}
	return nil
}

func (m *MockCorpusDBI) ReplaceCorpusEntries(
	corpus database.Corpus,
	entries []database.Entry,
) (int64, error) {
	args := m.Called(corpus, entries)
	count, _ := args.Get(0).(int64)
	if err := args.Error(1); err != nil {
		return count, fmt.Errorf("mock CorpusDBI replace corpus entries failed: %w", err)
	}
	return count, nil
}

func (m *MockCorpusDBI) UpsertEntry(corpusSlug string, entry *database.Entry) error {
	args := m.Called(corpusSlug, entry)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock CorpusDBI upsert entry failed: %w", err)
	}
	return nil
}

func (m *MockCorpusDBI) DeleteEntry(corpusSlug, key string) error {
	args := m.Called(corpusSlug, key)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock CorpusDBI delete entry failed: %w", err)
	}
	return nil
}

func (m *MockCorpusDBI) GetEntries(corpusSlug string) ([]database.Entry, error) {
	args := m.Called(corpusSlug)
	if entries, ok := args.Get(0).([]database.Entry); ok {
		if err := args.Error(1); err != nil {
			return entries, fmt.Errorf("mock CorpusDBI get entries failed: %w", err)
		}
		return entries, nil
	}
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock CorpusDBI get entries failed: %w", err)
	}
	return nil, nil
}

func (m *MockCorpusDBI) GetEntriesInLengthRange(
	corpusSlug string,
	minLen, maxLen int,
) ([]database.Entry, error) {
	args := m.Called(corpusSlug, minLen, maxLen)
	if entries, ok := args.Get(0).([]database.Entry); ok {
		if err := args.Error(1); err != nil {
			return entries, fmt.Errorf("mock CorpusDBI get entries in length range failed: %w", err)
		}
		return entries, nil
	}
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock CorpusDBI get entries in length range failed: %w", err)
	}
	return nil, nil
}

func (m *MockCorpusDBI) CountEntries(corpusSlug string) (int64, error) {
	args := m.Called(corpusSlug)
	count, _ := args.Get(0).(int64)
	if err := args.Error(1); err != nil {
		return count, fmt.Errorf("mock CorpusDBI count entries failed: %w", err)
	}
	return count, nil
}

func (m *MockCorpusDBI) CountAllEntries() (int64, error) {
	args := m.Called()
	count, _ := args.Get(0).(int64)
	if err := args.Error(1); err != nil {
		return count, fmt.Errorf("mock CorpusDBI count all entries failed: %w", err)
	}
	return count, nil
}

func (m *MockCorpusDBI) AddSearchEvent(event *database.SearchEvent) error {
	args := m.Called(event)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock CorpusDBI add search event failed: %w", err)
	}
	return nil
}

func (m *MockCorpusDBI) GetSearchHistory(lastID int) ([]database.SearchEvent, error) {
	args := m.Called(lastID)
	if events, ok := args.Get(0).([]database.SearchEvent); ok {
		if err := args.Error(1); err != nil {
			return events, fmt.Errorf("mock CorpusDBI get search history failed: %w", err)
		}
		return events, nil
	}
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock CorpusDBI get search history failed: %w", err)
	}
	return nil, nil
}

func (m *MockCorpusDBI) CleanupSearchHistory(keep int) (int64, error) {
	args := m.Called(keep)
	count, _ := args.Get(0).(int64)
	if err := args.Error(1); err != nil {
		return count, fmt.Errorf("mock CorpusDBI cleanup search history failed: %w", err)
	}
	return count, nil
}

// Helper functions for common sqlmock expectations against the corpus
// schema. Raw *sql.DB mocks come from pkg/testing/sqlmock to avoid an
// import cycle with the database packages.

// ExpectSearchEventInsert sets up expectations for a search event insert.
func ExpectSearchEventInsert(mockDB sqlmock.Sqlmock, event *database.SearchEvent) {
	mockDB.ExpectPrepare(regexp.QuoteMeta("insert into SearchHistory")).
		ExpectExec().
		WithArgs(event.Time.Unix(), event.Query, event.Corpus, event.Scorer, event.Hits, event.TookMS).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

// ExpectEntriesQuery sets up expectations for an entry listing query.
func ExpectEntriesQuery(mockDB sqlmock.Sqlmock, entries []database.Entry) {
	rows := sqlmock.NewRows([]string{
		"DBID", "CorpusDBID", "Key", "Value", "FoldedLen", "TokenCount", "Created", "Updated",
	})
	for _, entry := range entries {
		rows.AddRow(entry.DBID, entry.CorpusDBID, entry.Key, entry.Value,
			entry.FoldedLen, entry.TokenCount, entry.Created.Unix(), entry.Updated.Unix())
	}

	mockDB.ExpectPrepare("select.*from Entries").
		ExpectQuery().
		WillReturnRows(rows)
}

// ExpectHistoryCleanup sets up expectations for a search history trim.
func ExpectHistoryCleanup(mockDB sqlmock.Sqlmock, keep int, rowsDeleted int64) {
	mockDB.ExpectPrepare(regexp.QuoteMeta("DELETE FROM SearchHistory")).
		ExpectExec().
		WithArgs(keep).
		WillReturnResult(sqlmock.NewResult(0, rowsDeleted))
}

// ExpectTransactionBegin sets up expectations for transaction begin
func ExpectTransactionBegin(mockDB sqlmock.Sqlmock) {
	mockDB.ExpectBegin()
}

// ExpectTransactionCommit sets up expectations for transaction commit
func ExpectTransactionCommit(mockDB sqlmock.Sqlmock) {
	mockDB.ExpectCommit()
}

// ExpectTransactionRollback sets up expectations for transaction rollback
func ExpectTransactionRollback(mockDB sqlmock.Sqlmock) {
	mockDB.ExpectRollback()
}

// NewMockCorpusDBI creates a new mock CorpusDBI interface for testing.
//
// Example usage:
//
//	func TestCorpusOperations(t *testing.T) {
//		corpusDB := helpers.NewMockCorpusDBI()
//		corpusDB.On("CountEntries", "cities").Return(int64(42), nil)
//
//		count, err := corpusDB.CountEntries("cities")
//		require.NoError(t, err)
//		assert.Equal(t, int64(42), count)
//		corpusDB.AssertExpectations(t)
//	}
func NewMockCorpusDBI() *MockCorpusDBI {
	return &MockCorpusDBI{}
}

// Matcher functions for common database types

// CorpusMatcher returns a testify matcher for database.Corpus.
//
// Example usage:
//
//	corpusDB.On("FindOrInsertCorpus", helpers.CorpusMatcher()).Return(database.Corpus{DBID: 1}, nil)
func CorpusMatcher() any {
	return mock.MatchedBy(func(c database.Corpus) bool {
		return c.Slug != ""
	})
}

// EntryMatcher returns a testify matcher for *database.Entry.
//
// Example usage:
//
//	corpusDB.On("UpsertEntry", "cities", helpers.EntryMatcher()).Return(nil)
func EntryMatcher() any {
	return mock.MatchedBy(func(e *database.Entry) bool {
		if e == nil {
			return false
		}
		return e.Key != "" && e.Value != ""
	})
}

// SearchEventMatcher returns a testify matcher for *database.SearchEvent.
// This matcher can be used to verify that AddSearchEvent is called with
// appropriate data.
//
// Example usage:
//
//	corpusDB.On("AddSearchEvent", helpers.SearchEventMatcher()).Return(nil)
func SearchEventMatcher() any {
	return mock.MatchedBy(func(se *database.SearchEvent) bool {
		if se == nil {
			return false
		}
		return !se.Time.IsZero() && se.Query != ""
	})
}

// TextMatcher returns a testify matcher for string text matching.
// Useful for matching corpus slugs, entry keys, etc.
//
// Example usage:
//
//	corpusDB.On("GetCorpus", helpers.TextMatcher()).Return(database.Corpus{}, nil)
func TextMatcher() any {
	return mock.MatchedBy(func(text string) bool {
		return text != ""
	})
}
