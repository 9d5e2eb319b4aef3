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

package ingest

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Watcher re-ingests seed files as they change on disk. Filesystem events
// are debounced on the ingester's clock so a burst of writes to one file
// turns into a single reload.
type Watcher struct {
	ingester *Ingester
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewWatcher(ingester *Ingester) *Watcher {
	return &Watcher{
		ingester: ingester,
		stopChan: make(chan struct{}),
	}
}

// Start begins watching every configured seed directory that exists.
// Returns an error when no directory could be watched at all.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	w.watcher = watcher

	watching := 0
	for _, dir := range w.ingester.cfg.SeedDirs() {
		exists, err := afero.DirExists(w.ingester.fs, dir)
		if err != nil || !exists {
			log.Debug().Msgf("not watching missing seed dir: %s", dir)
			continue
		}
		if err := watcher.Add(dir); err != nil {
			log.Warn().Err(err).Msgf("failed to watch seed dir: %s", dir)
			continue
		}
		log.Info().Msgf("watching seed dir: %s", dir)
		watching++
	}

	if watching == 0 {
		closeErr := watcher.Close()
		if closeErr != nil {
			log.Warn().Err(closeErr).Msg("closing unused watcher")
		}
		w.watcher = nil
		return fmt.Errorf("no seed directories available to watch")
	}

	w.wg.Add(1)
	go w.watchLoop()
	return nil
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	debounce := w.ingester.cfg.IngestDebounce()
	debounceTimer := w.ingester.clock.NewTimer(0)
	if !debounceTimer.Stop() {
		<-debounceTimer.Chan()
	}

	pending := make(map[string]bool)

	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if isDir, _ := afero.IsDir(w.ingester.fs, event.Name); isDir {
				// Subdirectories created after startup get watched too,
				// so seed files dropped inside them are picked up.
				if event.Op&fsnotify.Create != 0 {
					if err := w.watcher.Add(event.Name); err != nil {
						log.Warn().Err(err).Msgf("failed to watch new dir: %s", event.Name)
					}
				}
				continue
			}
			if !IsSeedFile(event.Name) {
				continue
			}
			pending[event.Name] = true
			debounceTimer.Reset(debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("seed watcher error")

		case <-debounceTimer.Chan():
			for path := range pending {
				w.reingest(path)
			}
			pending = make(map[string]bool)
		}
	}
}

// reingest reloads one seed file after its debounce window. Files that
// disappeared since the event are skipped; deleting a corpus stays an
// explicit API operation.
func (w *Watcher) reingest(path string) {
	exists, err := afero.Exists(w.ingester.fs, path)
	if err != nil || !exists {
		log.Debug().Msgf("changed seed file no longer exists, skipping: %s", path)
		return
	}
	if _, err := w.ingester.IngestFile(path); err != nil {
		log.Error().Err(err).Msgf("failed to re-ingest seed file: %s", path)
	}
}

// Stop halts the watch loop and waits for it to exit. Safe to call more
// than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			log.Warn().Err(err).Msg("closing seed watcher")
		}
	}
	w.wg.Wait()
}
