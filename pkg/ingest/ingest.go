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

// Package ingest loads corpora from seed files on disk and keeps them
// current, via a filesystem watcher and an optional MQTT bridge.
//
// Each seed file becomes one corpus named after its slugified base name:
// "Band Names.csv" loads into the corpus "band-names". Supported formats
// are .csv and .json and .yaml/.yml key/value rows, plus .txt with one
// key per line.
package ingest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/notifications"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database/slugs"
	"github.com/charlievieth/fastwalk"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Ingester loads seed files into the corpus database.
type Ingester struct {
	cfg   *config.Instance
	db    *database.Database
	fs    afero.Fs
	clock clockwork.Clock
	ns    chan<- models.Notification
}

// NewIngester creates an ingester. fsys and clock may be nil, which
// selects the real filesystem and clock; tests inject afero.NewMemMapFs
// and a fake clock.
func NewIngester(
	cfg *config.Instance,
	db *database.Database,
	ns chan<- models.Notification,
	fsys afero.Fs,
	clock clockwork.Clock,
) *Ingester {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Ingester{
		cfg:   cfg,
		db:    db,
		fs:    fsys,
		clock: clock,
		ns:    ns,
	}
}

// corpusForPath derives the corpus display name and slug from a seed file
// path: "seeds/Band Names.csv" becomes ("Band Names", "band-names").
func corpusForPath(path string) (name, slug string) {
	base := filepath.Base(path)
	name = strings.TrimSuffix(base, filepath.Ext(base))
	return name, slugs.Slugify(name)
}

// IngestFile loads one seed file, replacing the corpus named after it.
// The returned count is the number of entries now in the corpus.
func (in *Ingester) IngestFile(path string) (int64, error) {
	name, slug := corpusForPath(path)
	if slug == "" {
		return 0, fmt.Errorf("seed file %q does not produce a usable corpus name", path)
	}

	entries, err := LoadSeedFile(in.fs, path)
	if err != nil {
		return 0, err
	}

	n, err := in.db.CorpusDB.ReplaceCorpusEntries(
		database.Corpus{Name: name, Slug: slug},
		entries,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to replace corpus %s: %w", slug, err)
	}

	log.Info().Msgf("ingested corpus %s (%d entries) from %s", slug, n, path)
	notifications.CorpusUpdated(in.ns, models.CorpusUpdatedParams{
		Corpus:  slug,
		Entries: int(n),
	})
	return n, nil
}

// IngestDir walks one seed directory and ingests every seed file in it.
// A file that fails to parse is logged and skipped, it does not abort the
// scan. Returns the number of corpora loaded.
func (in *Ingester) IngestDir(dir string) (int, error) {
	exists, err := afero.DirExists(in.fs, dir)
	if err != nil {
		return 0, fmt.Errorf("failed to check seed dir: %w", err)
	}
	if !exists {
		log.Debug().Msgf("seed dir does not exist, skipping: %s", dir)
		return 0, nil
	}

	paths, err := in.discoverSeedFiles(dir)
	if err != nil {
		return 0, err
	}

	totalFiles := len(paths)
	notifications.CorpusIndexing(in.ns, models.IndexingStatusParams{
		Indexing:   true,
		TotalFiles: &totalFiles,
	})
	defer notifications.CorpusIndexing(in.ns, models.IndexingStatusParams{
		Indexing: false,
	})

	loaded := 0
	for _, path := range paths {
		current := filepath.Base(path)
		notifications.CorpusIndexing(in.ns, models.IndexingStatusParams{
			Indexing:    true,
			TotalFiles:  &totalFiles,
			CurrentFile: &current,
		})

		if _, err := in.IngestFile(path); err != nil {
			log.Error().Err(err).Msgf("failed to ingest seed file: %s", path)
			continue
		}
		loaded++
	}

	return loaded, nil
}

// IngestAll ingests every configured seed directory.
func (in *Ingester) IngestAll() (int, error) {
	loaded := 0
	for _, dir := range in.cfg.SeedDirs() {
		n, err := in.IngestDir(dir)
		if err != nil {
			return loaded, err
		}
		loaded += n
	}
	return loaded, nil
}

// discoverSeedFiles returns the seed files under dir, sorted for a stable
// ingest order. The real filesystem goes through fastwalk; anything else
// (MemMapFs in tests) falls back to afero's walker.
func (in *Ingester) discoverSeedFiles(dir string) ([]string, error) {
	var (
		mu    sync.Mutex
		paths []string
	)

	if _, ok := in.fs.(*afero.OsFs); ok {
		conf := fastwalk.Config{Follow: true}
		err := fastwalk.Walk(&conf, dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warn().Err(err).Msgf("walking seed dir: %s", path)
				return nil
			}
			if d.IsDir() || !IsSeedFile(path) {
				return nil
			}
			// fastwalk runs the callback from multiple goroutines
			mu.Lock()
			paths = append(paths, path)
			mu.Unlock()
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk seed dir %s: %w", dir, err)
		}
	} else {
		err := afero.Walk(in.fs, dir, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				log.Warn().Err(err).Msgf("walking seed dir: %s", path)
				return nil
			}
			if info.IsDir() || !IsSeedFile(path) {
				return nil
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk seed dir %s: %w", dir, err)
		}
	}

	sort.Strings(paths)
	return paths, nil
}
