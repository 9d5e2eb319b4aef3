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

// Package tui is the interactive terminal search for FuzzDex. It live-queries
// the daemon as the user types and prints the accepted hit to stdout, or
// degrades to a single stdin-driven search when no terminal is attached.
package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/client"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/helpers/syncutil"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

const PageSearch = "search"

// Selection records the hit the user accepted, if any.
type Selection struct {
	value string
	ok    bool
	mu    syncutil.RWMutex
}

func (s *Selection) set(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.ok = true
}

// Value returns the accepted hit value and whether one was accepted.
func (s *Selection) Value() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.ok
}

// BuildMain assembles the search application, styled per the loaded TUI
// config. The returned Selection is populated when the user accepts a hit,
// after which the app stops itself.
func BuildMain(svc SearchService, corpus string) (*tview.Application, *Selection) {
	app := tview.NewApplication()

	uiCfg := config.GetTUIConfig()
	if uiCfg.Theme != "plain" {
		SetTheme(&tview.Styles)
	}
	app.EnableMouse(uiCfg.Mouse)

	sel := &Selection{}
	pages := tview.NewPages()
	BuildSearchPage(app, pages, svc, corpus, func(value string) {
		sel.set(value)
		app.Stop()
	})

	centeredPages := CenterWidget(76, 20, pages)
	return app.SetRoot(centeredPages, true), sel
}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// runOneShot reads a single query from in and prints the ranked hits to out,
// one per line as score, key and value separated by tabs.
func runOneShot(svc SearchService, corpus string, in io.Reader, out io.Writer) error {
	if corpus == "" {
		return errors.New("corpus is required when no terminal is attached")
	}

	scanner := bufio.NewScanner(in)
	query := ""
	for scanner.Scan() {
		query = strings.TrimSpace(scanner.Text())
		if query != "" {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read query: %w", err)
	}
	if query == "" {
		return errors.New("no query on stdin")
	}

	ctx, cancel := tuiContext()
	defer cancel()

	results, err := svc.Search(ctx, models.SearchParams{
		Corpus: corpus,
		Query:  query,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for i := range results.Hits {
		hit := &results.Hits[i]
		if _, err := fmt.Fprintf(out, "%.4f\t%s\t%s\n", hit.Score, hit.Key, hit.Value); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
	}
	return nil
}

// Run starts the interactive search against the local daemon and prints the
// accepted value to stdout. When stdin or stdout is not a terminal it reads
// one query from stdin and prints the ranked hits instead.
func Run(cfg *config.Instance, corpus string) error {
	svc := NewSearchService(client.NewLocalAPIClient(cfg))

	if !interactive() {
		return runOneShot(svc, corpus, os.Stdin, os.Stdout)
	}

	if err := config.LoadTUIConfig(filepath.Dir(cfg.Path())); err != nil {
		log.Warn().Err(err).Msg("failed to load TUI config, using defaults")
	}

	app, sel := BuildMain(svc, corpus)
	if err := app.Run(); err != nil {
		return fmt.Errorf("error running UI: %w", err)
	}

	if value, ok := sel.Value(); ok {
		_, _ = fmt.Println(value)
	}
	return nil
}
