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

// Package methods implements the JSON-RPC method handlers served by the API.
package methods

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database/slugs"
)

// NoContent is returned by handlers that succeed without a result payload.
type NoContent struct{}

// lookupCorpus resolves a user-facing corpus name to its stored row,
// translating the store's not-found sentinel into a client-readable error.
func lookupCorpus(db *database.Database, name string) (database.Corpus, error) {
	corpus, err := db.CorpusDB.GetCorpus(slugs.Slugify(name))
	if errors.Is(err, sql.ErrNoRows) {
		return database.Corpus{}, fmt.Errorf("corpus %q not found", name)
	} else if err != nil {
		return database.Corpus{}, fmt.Errorf("failed to look up corpus %q: %w", name, err)
	}
	return corpus, nil
}
