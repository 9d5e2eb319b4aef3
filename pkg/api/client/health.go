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

package client

import (
	"context"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/rs/zerolog/log"
)

// IsServiceRunning reports whether a local daemon answers the version
// method on the configured API address.
func IsServiceRunning(cfg *config.Instance) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := LocalClient(ctx, cfg, models.MethodVersion, "")
	if err != nil {
		log.Debug().Err(err).Msg("error checking if service running")
		return false
	}
	return true
}

// WaitForAPI polls the local API until it responds or maxWait elapses.
// Returns true once the API answered.
func WaitForAPI(cfg *config.Instance, maxWait, checkInterval time.Duration) bool {
	deadline := time.Now().Add(maxWait)
	for {
		if IsServiceRunning(cfg) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(checkInterval)
	}
}
