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

package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/FuzzDexProject/fuzzdex-core/internal/telemetry"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/client"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Flags struct {
	Search  *string
	Corpus  *string
	K       *int
	Min     *float64
	Add     *bool
	API     *string
	Version *bool
	Reload  *bool
	Status  *bool
	Config  *string
}

// SetupFlags defines all common CLI flags between entry points.
func SetupFlags() *Flags {
	return &Flags{
		Search: flag.String(
			"search",
			"",
			"query a corpus once and print ranked hits",
		),
		Corpus: flag.String(
			"corpus",
			"",
			"corpus slug for search and tui modes",
		),
		K: flag.Int(
			"k",
			config.DefaultSearchLimit,
			"maximum number of hits to print",
		),
		Min: flag.Float64(
			"min",
			config.DefaultMinScore,
			"minimum score for a hit to be printed",
		),
		Add: flag.Bool(
			"add",
			false,
			"add an entry: -add CORPUS KEY VALUE",
		),
		API: flag.String(
			"api",
			"",
			"send method and params to API and print response",
		),
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
		Reload: flag.Bool(
			"reload",
			false,
			"reload seed corpora from disk",
		),
		Status: flag.Bool(
			"status",
			false,
			"print running service status",
		),
		Config: flag.String(
			"config",
			"",
			"override the config directory",
		),
	}
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup. Add any custom flags before running this.
func (f *Flags) Pre() {
	flag.Parse()

	if *f.Version {
		_, _ = fmt.Printf("FuzzDex v%s (%s)\n", config.AppVersion, runtime.GOOS)
		os.Exit(0)
	}
}

// apiFlagParts splits an -api value into method and params. Everything
// after the first colon is params, so JSON payloads pass through intact.
func apiFlagParts(value string) (method, params string) {
	ps := strings.SplitN(value, ":", 2)
	method = ps[0]
	if len(ps) > 1 {
		params = ps[1]
	}
	return method, params
}

// searchParams assembles params for a one-shot search. The limit and score
// floor are only included when their flags were passed, so the daemon
// applies its configured defaults otherwise.
func (f *Flags) searchParams(kPassed, minPassed bool) models.SearchParams {
	params := models.SearchParams{
		Corpus: *f.Corpus,
		Query:  *f.Search,
	}
	if kPassed {
		params.K = f.K
	}
	if minPassed {
		params.MinScore = f.Min
	}
	return params
}

// writeHits prints hits one per line: score, key and value separated by
// tabs, the same shape the TUI emits when stdin is not a terminal.
func writeHits(w io.Writer, hits []models.SearchHit) {
	for _, hit := range hits {
		_, _ = fmt.Fprintf(w, "%.4f\t%s\t%s\n", hit.Score, hit.Key, hit.Value)
	}
}

func searchFlag(cfg *config.Instance, f *Flags) {
	params := f.searchParams(isFlagPassed("k"), isFlagPassed("min"))

	data, err := json.Marshal(&params)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error encoding params: %v\n", err)
		os.Exit(1)
	}

	resp, err := client.LocalClient(context.Background(), cfg, models.MethodSearch, string(data))
	if err != nil {
		log.Error().Err(err).Msg("error searching")
		_, _ = fmt.Fprintf(os.Stderr, "Error searching: %v\n", err)
		os.Exit(1)
	}

	var results models.SearchResults
	if err := json.Unmarshal([]byte(resp), &results); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error decoding results: %v\n", err)
		os.Exit(1)
	}

	writeHits(os.Stdout, results.Hits)
	os.Exit(0)
}

func addFlag(cfg *config.Instance, corpus, key, value string) {
	data, err := json.Marshal(&models.AddEntriesParams{
		Corpus: corpus,
		Entries: []models.EntryParams{
			{Key: key, Value: value},
		},
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error encoding params: %v\n", err)
		os.Exit(1)
	}

	_, err = client.LocalClient(context.Background(), cfg, models.MethodEntriesAdd, string(data))
	if err != nil {
		log.Error().Err(err).Msg("error adding entry")
		_, _ = fmt.Fprintf(os.Stderr, "Error adding entry: %v\n", err)
		os.Exit(1)
	}

	_, _ = fmt.Fprintf(os.Stderr, "Entry %s added to %s\n", key, corpus)
	os.Exit(0)
}

// Post actions all remaining common flags that require the environment to
// be set up. Logging is allowed.
func (f *Flags) Post(cfg *config.Instance) {
	switch {
	case isFlagPassed("search"):
		if *f.Search == "" {
			_, _ = fmt.Fprint(os.Stderr, "Error: search flag requires a query\n")
			os.Exit(1)
		}
		if *f.Corpus == "" {
			_, _ = fmt.Fprint(os.Stderr, "Error: search flag requires -corpus\n")
			os.Exit(1)
		}
		searchFlag(cfg, f)
	case *f.Add:
		args := flag.Args()
		if len(args) != 3 {
			_, _ = fmt.Fprint(os.Stderr, "Usage: -add CORPUS KEY VALUE\n")
			os.Exit(1)
		}
		addFlag(cfg, args[0], args[1], args[2])
	case isFlagPassed("api"):
		if *f.API == "" {
			_, _ = fmt.Fprint(os.Stderr, "Error: api flag requires a value\n")
			os.Exit(1)
		}

		method, params := apiFlagParts(*f.API)

		resp, err := client.LocalClient(context.Background(), cfg, method, params)
		if err != nil {
			log.Error().Err(err).Msg("error calling API")
			_, _ = fmt.Fprintf(os.Stderr, "Error calling API: %v\n", err)
			os.Exit(1)
		}

		_, _ = fmt.Println(resp)
		os.Exit(0)
	case *f.Reload:
		resp, err := client.LocalClient(context.Background(), cfg, models.MethodCorporaReload, "")
		if err != nil {
			log.Error().Err(err).Msg("error reloading corpora")
			_, _ = fmt.Fprintf(os.Stderr, "Error reloading: %v\n", err)
			os.Exit(1)
		}

		_, _ = fmt.Println(resp)
		os.Exit(0)
	case *f.Status:
		resp, err := client.LocalClient(context.Background(), cfg, models.MethodStatus, "")
		if err != nil {
			log.Error().Err(err).Msg("error fetching status")
			_, _ = fmt.Fprintf(os.Stderr, "Error fetching status: %v\n", err)
			os.Exit(1)
		}

		_, _ = fmt.Println(resp)
		os.Exit(0)
	}
}

// Setup initializes the user config and logging. Returns a user config
// object. An empty configDir falls back to the default location.
//
//nolint:gocritic // config struct copied for immutability
func Setup(configDir string, defaultConfig config.Values, writers []io.Writer) *config.Instance {
	// Ensure directories exist before logging initialization
	err := helpers.EnsureDirectories()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error creating directories: %v\n", err)
		os.Exit(1)
	}

	err = helpers.InitLogging(helpers.DataDir(), writers...)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	if configDir == "" {
		configDir = helpers.ConfigDir()
	}

	cfg, err := config.NewConfig(configDir, defaultConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Initialize error reporting (opt-in)
	if err := telemetry.Init(
		cfg.ErrorReporting(),
		cfg.DeviceID(),
		config.AppVersion,
	); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg
}
