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

import (
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

// Auth holds credentials loaded from auth.toml, keyed by the URL they apply
// to. The file lives next to config.toml and is never written by the
// service, only read.
type Auth struct {
	Creds map[string]CredentialEntry `toml:"creds,omitempty"`
}

// CredentialEntry holds authentication credentials for a URL.
type CredentialEntry struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	Bearer   string `toml:"bearer"`
}

var authCfg atomic.Value

// GetAuthCfg returns the currently loaded credentials. Returns an empty
// Auth when no auth file has been loaded.
func GetAuthCfg() Auth {
	val := authCfg.Load()
	if val == nil {
		return Auth{}
	}
	auth, ok := val.(Auth)
	if !ok {
		return Auth{}
	}
	return auth
}

// schemeAliases maps protocol variants to their canonical form.
// This allows credentials configured for one scheme to match equivalent schemes.
var schemeAliases = map[string]string{
	"tcp": "mqtt",  // MQTT over TCP
	"ssl": "mqtts", // MQTT over TLS
	"ws":  "http",  // WebSocket
	"wss": "https", // WebSocket Secure
}

// LoadAuthFromData parses auth.toml data in the [creds."url"] format.
func LoadAuthFromData(data []byte) map[string]CredentialEntry {
	var auth Auth
	if err := toml.Unmarshal(data, &auth); err != nil {
		log.Warn().Err(err).Msg("failed to parse auth file")
		return nil
	}
	return auth.Creds
}

// normalizeScheme converts scheme aliases to their canonical form.
// For example: tcp → mqtt, ssl → mqtts, ws → http, wss → https.
func normalizeScheme(scheme string) string {
	lower := strings.ToLower(scheme)
	if canonical, ok := schemeAliases[lower]; ok {
		return canonical
	}
	return lower
}

// isSchemelessKey returns true if the key does not contain a scheme (no "://").
func isSchemelessKey(key string) bool {
	return !strings.Contains(key, "://")
}

// LookupAuth finds credentials for a URL using fallback matching.
//
// The lookup tries 3 match types in order of decreasing specificity:
//  1. Exact scheme match - scheme, host, and path prefix must match exactly
//  2. Canonical scheme match - normalized schemes match (e.g., tcp://x matches mqtt://x config)
//  3. Schemeless host:port match - for entries like "broker:1883" that match any scheme
func LookupAuth(auth Auth, reqURL string) *CredentialEntry {
	if len(auth.Creds) == 0 {
		return nil
	}

	u, err := url.Parse(reqURL)
	if err != nil {
		log.Warn().Msgf("invalid auth request url: %s", reqURL)
		return nil
	}

	normalizedScheme := normalizeScheme(u.Scheme)
	hostPort := u.Host

	// Step 1: Exact scheme match (highest priority)
	for k, v := range auth.Creds {
		if isSchemelessKey(k) {
			continue
		}
		defURL, err := url.Parse(k)
		if err != nil {
			log.Error().Msgf("invalid auth config url: %s", k)
			continue
		}
		if strings.EqualFold(defURL.Scheme, u.Scheme) &&
			strings.EqualFold(defURL.Host, u.Host) &&
			strings.HasPrefix(u.Path, defURL.Path) {
			return &v
		}
	}

	// Step 2: Canonical scheme match (e.g., tcp://x matches mqtt://x config)
	for k, v := range auth.Creds {
		if isSchemelessKey(k) {
			continue
		}
		defURL, err := url.Parse(k)
		if err != nil {
			continue
		}
		if normalizeScheme(defURL.Scheme) == normalizedScheme &&
			strings.EqualFold(defURL.Host, u.Host) &&
			strings.HasPrefix(u.Path, defURL.Path) {
			return &v
		}
	}

	// Step 3: Schemeless host:port match (lowest priority, most flexible)
	for k, v := range auth.Creds {
		if !isSchemelessKey(k) {
			continue
		}
		if strings.EqualFold(k, hostPort) {
			return &v
		}
	}

	return nil
}

// SetAuthCfgForTesting sets the global auth config for testing purposes
func SetAuthCfgForTesting(auth Auth) {
	authCfg.Store(auth)
}

// ClearAuthCfgForTesting clears the global auth config for testing purposes
func ClearAuthCfgForTesting() {
	authCfg.Store(Auth{})
}
