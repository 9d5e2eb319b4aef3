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
	"bufio"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// seedRow is one key/value pair as it appears in a seed file.
type seedRow struct {
	Key   string `csv:"key"   json:"key"   yaml:"key"`
	Value string `csv:"value" json:"value" yaml:"value"`
}

// IsSeedFile reports whether path has one of the seed file extensions.
func IsSeedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".json", ".yaml", ".yml", ".txt":
		return true
	default:
		return false
	}
}

// LoadSeedFile parses a single seed file into entries. Duplicate keys keep
// the last value seen; rows with an empty key are skipped with a warning.
func LoadSeedFile(fs afero.Fs, path string) ([]database.Entry, error) {
	var (
		rows []seedRow
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = loadCSV(fs, path)
	case ".json":
		rows, err = loadJSON(fs, path)
	case ".yaml", ".yml":
		rows, err = loadYAML(fs, path)
	case ".txt":
		rows, err = loadText(fs, path)
	default:
		return nil, fmt.Errorf("unsupported seed file type: %s", path)
	}
	if err != nil {
		return nil, err
	}

	return dedupeRows(path, rows), nil
}

// dedupeRows converts raw rows into entries, keeping first-seen order while
// letting later duplicates overwrite earlier values.
func dedupeRows(path string, rows []seedRow) []database.Entry {
	entries := make([]database.Entry, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			log.Warn().Msgf("skipping entry with empty key in %s", path)
			continue
		}

		entry := database.NewEntry(key, row.Value)
		if i, ok := index[key]; ok {
			entries[i] = entry
			continue
		}
		index[key] = len(entries)
		entries = append(entries, entry)
	}

	return entries
}

func loadCSV(fs afero.Fs, path string) ([]seedRow, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msgf("closing seed file: %s", path)
		}
	}()

	var rows []seedRow
	if err := gocsv.Unmarshal(file, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse csv seed file %s: %w", path, err)
	}
	return rows, nil
}

func loadJSON(fs afero.Fs, path string) ([]seedRow, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var rows []seedRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse json seed file %s: %w", path, err)
	}
	return rows, nil
}

func loadYAML(fs afero.Fs, path string) ([]seedRow, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var rows []seedRow
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse yaml seed file %s: %w", path, err)
	}
	return rows, nil
}

// loadText reads one key per line, the key doubling as the value. Blank
// lines are skipped.
func loadText(fs afero.Fs, path string) ([]seedRow, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msgf("closing seed file: %s", path)
		}
	}()

	var rows []seedRow
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rows = append(rows, seedRow{Key: line, Value: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return rows, nil
}
