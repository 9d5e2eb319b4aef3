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

package requests

import (
	"encoding/json"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/ingest"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/service/state"
	"github.com/google/uuid"
)

// RequestEnv carries the live service dependencies into a method handler,
// along with the raw params and ID of the request being served.
type RequestEnv struct {
	Config   *config.Instance
	State    *state.State
	Database *database.Database
	Ingester *ingest.Ingester
	Params   json.RawMessage
	ID       uuid.UUID
	IsLocal  bool
}
