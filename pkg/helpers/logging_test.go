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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: InitLogging and SetLogLevel mutate global logger state.

func TestInitLogging(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	var buf bytes.Buffer
	err := InitLogging(logDir, &buf)
	require.NoError(t, err)

	require.NotNil(t, LogWriter(), "file writer should be installed after init")

	log.Info().Msg("logging smoke test")

	assert.Contains(t, buf.String(), "logging smoke test",
		"extra writer should receive log output")

	// lumberjack creates the file on first write
	_, statErr := os.Stat(filepath.Join(logDir, config.LogFile))
	assert.NoError(t, statErr, "rotating log file should exist after a write")
}

func TestInitLoggingCreatesDir(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "nested", "logs")

	err := InitLogging(logDir)
	require.NoError(t, err)

	info, statErr := os.Stat(logDir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{name: "debug", level: "debug", want: zerolog.DebugLevel},
		{name: "warn", level: "warn", want: zerolog.WarnLevel},
		{name: "error", level: "error", want: zerolog.ErrorLevel},
		{name: "unknown falls back to info", level: "shouty", want: zerolog.InfoLevel},
		{name: "empty falls back to info", level: "", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetLogLevel(tt.level)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}

	SetLogLevel("info")
}

func TestConsoleWriter(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, ConsoleWriter())
}
