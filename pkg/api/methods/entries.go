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
	"fmt"
	"strings"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models/requests"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/notifications"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/validation"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database/slugs"
	"github.com/rs/zerolog/log"
)

func HandleAddEntries(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received entries add request")

	var params models.AddEntriesParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		log.Error().Err(err).Msg("invalid params")
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	// Unlike search, adding entries may target a corpus that does not exist
	// yet. The display name comes from the request as written.
	corpus, err := env.Database.CorpusDB.FindOrInsertCorpus(database.Corpus{
		Name: params.Corpus,
		Slug: slugs.Slugify(params.Corpus),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve corpus %q: %w", params.Corpus, err)
	}

	added := 0
	for i := range params.Entries {
		key := strings.TrimSpace(params.Entries[i].Key)
		if key == "" {
			log.Warn().Msg("skipping entry with empty key")
			continue
		}
		value := params.Entries[i].Value
		if value == "" {
			value = key
		}
		entry := database.NewEntry(key, value)
		if upsertErr := env.Database.CorpusDB.UpsertEntry(corpus.Slug, &entry); upsertErr != nil {
			return nil, fmt.Errorf("failed to upsert entry %q: %w", key, upsertErr)
		}
		added++
	}

	count, err := env.Database.CorpusDB.CountEntries(corpus.Slug)
	if err != nil {
		log.Warn().Err(err).Str("corpus", corpus.Slug).Msg("counting entries after add")
	}

	log.Info().Int("added", added).Str("corpus", corpus.Slug).Msg("added entries")
	notifications.CorpusUpdated(env.State.Notifications, models.CorpusUpdatedParams{
		Corpus:  corpus.Slug,
		Entries: int(count),
	})

	return models.CorpusUpdatedParams{Corpus: corpus.Slug, Entries: int(count)}, nil
}

func HandleDeleteEntries(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received entries delete request")

	var params models.DeleteEntriesParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		log.Error().Err(err).Msg("invalid params")
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	corpus, err := lookupCorpus(env.Database, params.Corpus)
	if err != nil {
		return nil, err
	}

	for _, key := range params.Keys {
		if delErr := env.Database.CorpusDB.DeleteEntry(corpus.Slug, key); delErr != nil {
			return nil, fmt.Errorf("failed to delete entry %q: %w", key, delErr)
		}
	}

	count, err := env.Database.CorpusDB.CountEntries(corpus.Slug)
	if err != nil {
		log.Warn().Err(err).Str("corpus", corpus.Slug).Msg("counting entries after delete")
	}

	log.Info().Int("deleted", len(params.Keys)).Str("corpus", corpus.Slug).Msg("deleted entries")
	notifications.CorpusUpdated(env.State.Notifications, models.CorpusUpdatedParams{
		Corpus:  corpus.Slug,
		Entries: int(count),
	})

	return models.CorpusUpdatedParams{Corpus: corpus.Slug, Entries: int(count)}, nil
}
