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

package helpers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database/corpusdb"
	_ "github.com/mattn/go-sqlite3"
)

func NewInMemoryCorpusDB(t *testing.T) (db *corpusdb.CorpusDB, cleanup func()) {
	t.Helper()

	// Create temporary directory for test database
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "corpusdb_test.db")

	// Open SQLite database using temp file with foreign keys enabled
	// This matches the production database configuration and ensures CASCADE deletes work
	sqlDB, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=ON")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Create CorpusDB instance and set the sql field directly
	db = &corpusdb.CorpusDB{}
	err = db.SetSQLForTesting(context.Background(), sqlDB, tempDir)
	if err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			t.Errorf("Failed to close SQL database after setup error: %v", closeErr)
		}
		t.Fatalf("Failed to set up CorpusDB for testing: %v", err)
	}

	cleanup = func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close CorpusDB: %v", err)
		}
	}

	return db, cleanup
}

// NewTestDatabase creates a corpus store for comprehensive testing.
// Returns a Database wrapper and cleanup function that should be deferred.
func NewTestDatabase(t *testing.T) (db *database.Database, cleanup func()) {
	t.Helper()

	corpusDB, corpusCleanup := NewInMemoryCorpusDB(t)

	db = &database.Database{
		CorpusDB: corpusDB,
	}

	cleanup = corpusCleanup

	return db, cleanup
}
