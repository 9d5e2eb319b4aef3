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
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/notifications"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/validation"
	"github.com/rs/zerolog/log"
)

func HandleCorpora(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received corpora request")

	corpora, err := env.Database.CorpusDB.ListCorpora()
	if err != nil {
		log.Error().Err(err).Msg("error listing corpora")
		return nil, errors.New("error listing corpora")
	}

	resp := models.CorporaResponse{
		Corpora: make([]models.CorpusInfo, 0, len(corpora)),
	}

	for _, c := range corpora {
		count, countErr := env.Database.CorpusDB.CountEntries(c.Slug)
		if countErr != nil {
			log.Warn().Err(countErr).Str("corpus", c.Slug).Msg("counting entries")
			continue
		}
		resp.Corpora = append(resp.Corpora, models.CorpusInfo{
			Name:    c.Name,
			Slug:    c.Slug,
			Entries: int(count),
			Created: c.Created,
			Updated: c.Updated,
		})
	}

	return resp, nil
}

func HandleCorporaReload(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received corpora reload request")

	if env.Ingester == nil {
		return nil, errors.New("no seed ingester available")
	}

	loaded, err := env.Ingester.IngestAll()
	if err != nil {
		log.Error().Err(err).Msg("error reloading corpora")
		return nil, fmt.Errorf("failed to reload corpora: %w", err)
	}

	return models.ReloadResponse{Corpora: loaded}, nil
}

func HandleCorporaDelete(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received corpora delete request")

	var params models.DeleteCorpusParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		log.Error().Err(err).Msg("invalid params")
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	corpus, err := lookupCorpus(env.Database, params.Corpus)
	if err != nil {
		return nil, err
	}

	if err := env.Database.CorpusDB.DeleteCorpus(corpus.Slug); err != nil {
		return nil, fmt.Errorf("failed to delete corpus %q: %w", params.Corpus, err)
	}

	log.Info().Str("corpus", corpus.Slug).Msg("deleted corpus")
	notifications.CorpusUpdated(env.State.Notifications, models.CorpusUpdatedParams{
		Corpus:  corpus.Slug,
		Entries: 0,
	})

	return NoContent{}, nil
}
