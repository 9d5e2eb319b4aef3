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

// Package boltmigration imports corpora from the legacy single-file bolt
// database into SQLite. The old format kept one bucket per corpus, with
// each bucket holding raw key/value pairs.
package boltmigration

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database/corpusdb"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database/slugs"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

type LegacyEntry struct {
	Key   string
	Value string
}

func dbFile(dataDir string) string {
	return filepath.Join(dataDir, config.LegacyDBFile)
}

func Exists(dataDir string) bool {
	_, err := os.Stat(dbFile(dataDir))
	return err == nil
}

type Database struct {
	bdb *bolt.DB
}

func Open(dataDir string) (*Database, error) {
	db, err := bolt.Open(dbFile(dataDir), 0o600, &bolt.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	return &Database{bdb: db}, nil
}

func (d *Database) Close() error {
	if err := d.bdb.Close(); err != nil {
		return fmt.Errorf("failed to close bolt database: %w", err)
	}
	return nil
}

func (d *Database) CorpusNames() ([]string, error) {
	names := make([]string, 0)

	err := d.bdb.View(func(txn *bolt.Tx) error {
		return txn.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	if err != nil {
		return names, fmt.Errorf("failed to view bolt database: %w", err)
	}

	return names, nil
}

func (d *Database) GetEntries(corpusName string) ([]LegacyEntry, error) {
	entries := make([]LegacyEntry, 0)

	err := d.bdb.View(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(corpusName))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", corpusName)
		}

		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			// Nested buckets come back with a nil value
			if v == nil {
				continue
			}
			entries = append(entries, LegacyEntry{Key: string(k), Value: string(v)})
		}

		return nil
	})
	if err != nil {
		return entries, fmt.Errorf("failed to view bolt database: %w", err)
	}

	return entries, nil
}

// MaybeMigrate imports the legacy bolt database if one is present and moves
// it out of the way, so the import runs at most once. A partial failure
// renames the file to .error instead of .migrated to keep the data around.
func MaybeMigrate(dataDir string, newDB *corpusdb.CorpusDB) error {
	if !Exists(dataDir) {
		return nil
	}

	oldDB, err := Open(dataDir)
	if err != nil {
		return err
	}
	defer func(oldDB *Database) {
		closeErr := oldDB.Close()
		if closeErr != nil {
			log.Warn().Msgf("error closing old DB: %s", closeErr)
		}
	}(oldDB)

	names, err := oldDB.CorpusNames()
	if err != nil {
		return err
	}

	var errors int
	for _, name := range names {
		slug := slugs.Slugify(name)
		if slug == "" {
			log.Warn().Msgf("skipping legacy corpus with unusable name: %q", name)
			errors++
			continue
		}

		legacyEntries, getErr := oldDB.GetEntries(name)
		if getErr != nil {
			log.Warn().Msgf("error reading legacy corpus %q: %s", name, getErr)
			errors++
			continue
		}

		entries := make([]database.Entry, 0, len(legacyEntries))
		for _, legacy := range legacyEntries {
			entries = append(entries, database.NewEntry(legacy.Key, legacy.Value))
		}

		_, repErr := newDB.ReplaceCorpusEntries(
			database.Corpus{Name: name, Slug: slug}, entries)
		if repErr != nil {
			log.Warn().Msgf("error migrating corpus %q: %s", name, repErr)
			errors++
			continue
		}

		log.Info().Msgf("migrated legacy corpus %q (%d entries)", name, len(entries))
	}

	err = oldDB.Close()
	if err != nil {
		log.Warn().Msgf("error closing old DB: %s", err)
	}

	oldDBPath := dbFile(dataDir)
	if errors > 0 {
		log.Warn().Msgf("%d errors migrating legacy corpora", errors)
		err := os.Rename(oldDBPath, oldDBPath+".error")
		if err != nil {
			return fmt.Errorf("failed to rename old database file to .error: %w", err)
		}
	} else {
		log.Info().Msg("successfully migrated legacy corpus database")
		err := os.Rename(oldDBPath, oldDBPath+".migrated")
		if err != nil {
			return fmt.Errorf("failed to rename old database file to .migrated: %w", err)
		}
	}

	return nil
}
