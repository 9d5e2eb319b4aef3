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

package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/methods"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models/requests"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

// MethodHandler implements a single JSON-RPC method.
type MethodHandler func(requests.RequestEnv) (any, error)

// MethodMap is the registry of JSON-RPC methods served by the API. Lookups
// are case-insensitive.
type MethodMap struct {
	methods map[string]MethodHandler
	mu      syncutil.RWMutex
}

// NewMethodMap returns an empty method registry.
func NewMethodMap() *MethodMap {
	return &MethodMap{methods: make(map[string]MethodHandler)}
}

// AddMethod registers fn under name. Empty names, nil handlers and duplicate
// registrations are rejected.
func (m *MethodMap) AddMethod(name string, fn MethodHandler) error {
	if name == "" {
		return errors.New("method name is empty")
	}
	if fn == nil {
		return fmt.Errorf("method %s has no handler", name)
	}

	key := strings.ToLower(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.methods[key]; ok {
		return fmt.Errorf("method already registered: %s", name)
	}
	m.methods[key] = fn
	return nil
}

// GetMethod returns the handler registered under name.
func (m *MethodMap) GetMethod(name string) (MethodHandler, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.methods[strings.ToLower(name)]
	return fn, ok
}

// DefaultMethodMap builds the registry with every built-in method.
func DefaultMethodMap() *MethodMap {
	builtins := map[string]MethodHandler{
		// search
		models.MethodSearch:     methods.HandleSearch,
		models.MethodSimilarity: methods.HandleSimilarity,
		// corpora
		models.MethodCorpora:       methods.HandleCorpora,
		models.MethodCorporaReload: methods.HandleCorporaReload,
		models.MethodCorporaDelete: methods.HandleCorporaDelete,
		// entries
		models.MethodEntriesAdd:    methods.HandleAddEntries,
		models.MethodEntriesDelete: methods.HandleDeleteEntries,
		// history
		models.MethodHistory: methods.HandleHistory,
		// settings
		models.MethodSettings:       methods.HandleSettings,
		models.MethodSettingsUpdate: methods.HandleSettingsUpdate,
		models.MethodSettingsReload: methods.HandleSettingsReload,
		// utils
		models.MethodStatus:  methods.HandleStatus,
		models.MethodVersion: methods.HandleVersion,
	}

	m := NewMethodMap()
	for name, fn := range builtins {
		// Built-in names are unique constants, so this cannot fail.
		if err := m.AddMethod(name, fn); err != nil {
			log.Error().Err(err).Str("method", name).Msg("registering built-in method")
		}
	}
	return m
}
