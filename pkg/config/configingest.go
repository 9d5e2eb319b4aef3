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

package config

import "time"

// DefaultDebounceMS is how long the seed watcher waits after the last
// filesystem event before reloading a corpus.
const DefaultDebounceMS = 500

type Ingest struct {
	SeedDirs   []string         `toml:"seed_dirs,omitempty,multiline"`
	MQTT       []MQTTSubscriber `toml:"mqtt,omitempty"`
	Watch      *bool            `toml:"watch,omitempty"`
	DebounceMS *int             `toml:"debounce_ms,omitempty"`
}

// MQTTSubscriber configures one broker subscription that feeds entries
// into a corpus.
type MQTTSubscriber struct {
	Enabled *bool  `toml:"enabled,omitempty"`
	Broker  string `toml:"broker"`
	Topic   string `toml:"topic"`
	Corpus  string `toml:"corpus,omitempty"`
}

func (c *Instance) SeedDirs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Ingest.SeedDirs
}

func (c *Instance) SetSeedDirs(dirs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Ingest.SeedDirs = dirs
}

func (c *Instance) WatchEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Ingest.Watch == nil {
		return true
	}
	return *c.vals.Ingest.Watch
}

func (c *Instance) SetWatchEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Ingest.Watch = &enabled
}

func (c *Instance) IngestDebounce() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Ingest.DebounceMS == nil {
		return DefaultDebounceMS * time.Millisecond
	}
	return time.Duration(*c.vals.Ingest.DebounceMS) * time.Millisecond
}

func (c *Instance) MQTTSubscribers() []MQTTSubscriber {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Ingest.MQTT
}
