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
	"os"
	"path/filepath"
	"sync"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/adrg/xdg"
)

var (
	userDirCache  string
	userDirExists bool
	userDirOnce   sync.Once
)

// HasUserDir checks for a "user" directory next to the fuzzdex binary and
// returns its absolute path. When present it holds config and data both,
// which makes an install portable. The result is cached after the first
// call and the check is safe for concurrent use.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		exePath := os.Getenv(config.AppEnv)
		if exePath == "" {
			var err error
			exePath, err = os.Executable()
			if err != nil {
				return
			}
		}

		userDir := filepath.Join(filepath.Dir(exePath), config.UserDir)
		info, err := os.Stat(userDir)
		if err != nil || !info.IsDir() {
			return
		}

		userDirCache = userDir
		userDirExists = true
	})

	return userDirCache, userDirExists
}

// ConfigDir returns the directory config.toml lives in.
func ConfigDir() string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

// DataDir returns the directory holding the corpus database, seed files
// and logs.
func DataDir() string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return filepath.Join(xdg.DataHome, config.AppName)
}

// TempDir returns the runtime directory used for the pid file.
func TempDir() string {
	return filepath.Join(os.TempDir(), config.AppName)
}

// SeedsDir returns the default seed file directory under the data dir.
func SeedsDir() string {
	return filepath.Join(DataDir(), config.SeedsDir)
}

// EnsureDirectories creates the config, data and seed directories if any
// are missing, so first run works without manual setup.
func EnsureDirectories() error {
	for _, dir := range []string{ConfigDir(), DataDir(), SeedsDir(), TempDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	return nil
}
