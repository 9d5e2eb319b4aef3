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

package methods

import (
	"errors"
	"fmt"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models/requests"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/validation"
	"github.com/rs/zerolog/log"
)

func HandleHistory(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received history request")

	// Params are optional, absent means the newest page.
	lastID := 0
	if len(env.Params) > 0 {
		var params models.HistoryParams
		if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
			log.Error().Err(err).Msg("invalid params")
			return nil, fmt.Errorf("invalid params: %w", err)
		}
		if params.LastID != nil {
			lastID = *params.LastID
		}
	}

	events, err := env.Database.CorpusDB.GetSearchHistory(lastID)
	if err != nil {
		log.Error().Err(err).Msg("error getting search history")
		return nil, errors.New("error getting search history")
	}

	entries := make([]models.HistoryResponseEntry, 0, len(events))
	for _, event := range events {
		entries = append(entries, models.HistoryResponseEntry{
			Time:   event.Time,
			Query:  event.Query,
			Corpus: event.Corpus,
			Scorer: event.Scorer,
			Hits:   event.Hits,
			TookMS: event.TookMS,
		})
	}

	resp := models.HistoryResponse{Entries: entries}
	if len(events) > 0 {
		// Rows come back newest first, so the last row carries the cursor
		// for the next (older) page.
		resp.LastID = int(events[len(events)-1].DBID)
	}
	return resp, nil
}
