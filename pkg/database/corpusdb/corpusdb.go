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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNullSQL = errors.New("CorpusDB is not connected")

// Foreign keys are enforced so deleting a corpus row cascades to its
// entries.
const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000&_foreign_keys=on"

type CorpusDB struct {
	sql     *sql.DB
	ctx     context.Context
	dataDir string
}

func OpenCorpusDB(ctx context.Context, dataDir string) (*CorpusDB, error) {
	db := &CorpusDB{sql: nil, ctx: ctx, dataDir: dataDir}
	err := db.Open()
	return db, err
}

func (db *CorpusDB) Open() error {
	exists := true
	dbPath := db.GetDBPath()
	_, err := os.Stat(dbPath)
	if err != nil {
		exists = false
		mkdirErr := os.MkdirAll(filepath.Dir(dbPath), 0o750)
		if mkdirErr != nil {
			return fmt.Errorf("failed to create directory for database: %w", mkdirErr)
		}
	}
	sqlInstance, err := sql.Open("sqlite3", dbPath+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance
	if !exists {
		return db.Allocate()
	}
	return nil
}

func (db *CorpusDB) GetDBPath() string {
	return filepath.Join(db.dataDir, config.CorpusDBFile)
}

func (db *CorpusDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *CorpusDB) Truncate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlTruncate(db.ctx, db.sql)
}

func (db *CorpusDB) Allocate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAllocate(db.sql)
}

func (db *CorpusDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *CorpusDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *CorpusDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetSQLForTesting allows injection of a sql.DB instance for testing purposes.
// This method should only be used in tests to set up in-memory databases.
func (db *CorpusDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB, dataDir string) error {
	db.sql = sqlDB
	db.dataDir = dataDir
	db.ctx = ctx

	// Initialize the database schema
	return db.Allocate()
}

func (db *CorpusDB) FindCorpus(row database.Corpus) (database.Corpus, error) {
	return sqlFindCorpus(db.ctx, db.sql, row)
}

func (db *CorpusDB) InsertCorpus(row database.Corpus) (database.Corpus, error) {
	return sqlInsertCorpus(db.ctx, db.sql, row)
}

func (db *CorpusDB) FindOrInsertCorpus(row database.Corpus) (database.Corpus, error) {
	corpus, err := db.FindCorpus(row)
	if errors.Is(err, sql.ErrNoRows) {
		corpus, err = db.InsertCorpus(row)
	}
	return corpus, err
}

func (db *CorpusDB) GetCorpus(slug string) (database.Corpus, error) {
	return sqlGetCorpus(db.ctx, db.sql, slug)
}

func (db *CorpusDB) ListCorpora() ([]database.Corpus, error) {
	return sqlListCorpora(db.ctx, db.sql)
}

func (db *CorpusDB) DeleteCorpus(slug string) error {
	return sqlDeleteCorpus(db.ctx, db.sql, slug)
}

func (db *CorpusDB) ReplaceCorpusEntries(
	corpus database.Corpus, entries []database.Entry,
) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlReplaceCorpusEntries(db.ctx, db.sql, corpus, entries)
}

func (db *CorpusDB) UpsertEntry(corpusSlug string, entry *database.Entry) error {
	return sqlUpsertEntry(db.ctx, db.sql, corpusSlug, *entry)
}

func (db *CorpusDB) DeleteEntry(corpusSlug, key string) error {
	return sqlDeleteEntry(db.ctx, db.sql, corpusSlug, key)
}

func (db *CorpusDB) GetEntries(corpusSlug string) ([]database.Entry, error) {
	return sqlGetEntries(db.ctx, db.sql, corpusSlug)
}

func (db *CorpusDB) GetEntriesInLengthRange(
	corpusSlug string, minLen, maxLen int,
) ([]database.Entry, error) {
	return sqlGetEntriesInLengthRange(db.ctx, db.sql, corpusSlug, minLen, maxLen)
}

func (db *CorpusDB) CountEntries(corpusSlug string) (int64, error) {
	return sqlCountEntries(db.ctx, db.sql, corpusSlug)
}

func (db *CorpusDB) CountAllEntries() (int64, error) {
	return sqlCountAllEntries(db.ctx, db.sql)
}

func (db *CorpusDB) AddSearchEvent(event *database.SearchEvent) error {
	return sqlAddSearchEvent(db.ctx, db.sql, *event)
}

func (db *CorpusDB) GetSearchHistory(lastID int) ([]database.SearchEvent, error) {
	return sqlGetSearchHistory(db.ctx, db.sql, lastID)
}

func (db *CorpusDB) CleanupSearchHistory(keep int) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlCleanupSearchHistory(db.ctx, db.sql, keep)
}
