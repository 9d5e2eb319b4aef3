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

// Package helpers holds small shared utilities that do not belong to any
// single subsystem: logging setup, process info and misc conversions.
package helpers

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// logFileWriter is kept so other writers (telemetry) can be layered on top
// of the file output after init.
var logFileWriter io.Writer

// InitLogging configures the global zerolog logger with a size-rotated log
// file under logDir plus any extra writers (typically a console writer when
// attached to a terminal). Error-level events carry marshaled stack traces.
func InitLogging(logDir string, extra ...io.Writer) error {
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return err
	}

	logFileWriter = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, config.LogFile),
		MaxSize:    1,
		MaxBackups: 2,
	}

	writers := append([]io.Writer{logFileWriter}, extra...)

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	log.Logger = log.Output(io.MultiWriter(writers...)).
		With().Timestamp().Caller().Logger()

	return nil
}

// LogWriter returns the rotating file writer installed by InitLogging, or
// nil if logging has not been initialized.
func LogWriter() io.Writer {
	return logFileWriter
}

// ConsoleWriter returns a human-readable writer for terminal output.
func ConsoleWriter() io.Writer {
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
}

// SetLogLevel applies a named zerolog level, defaulting to info on unknown
// values so a bad config line cannot silence the log entirely.
func SetLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
