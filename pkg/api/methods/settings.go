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

func HandleSettings(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received settings request")

	return models.SettingsResponse{
		SearchScorer:         env.Config.SearchScorer(),
		SearchLimit:          env.Config.SearchLimit(),
		SearchMinScore:       env.Config.SearchMinScore(),
		SearchWorkers:        env.Config.SearchWorkers(),
		SearchPrefilter:      env.Config.SearchPrefilter(),
		DebugLogging:         env.Config.DebugLogging(),
		SearchHistoryEnabled: env.Config.SearchHistoryEnabled(),
	}, nil
}

func HandleSettingsUpdate(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received settings update request")

	var params models.UpdateSettingsParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		log.Error().Err(err).Msg("invalid params")
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	if params.DebugLogging != nil {
		log.Info().Bool("debugLogging", *params.DebugLogging).Msg("update")
		env.Config.SetDebugLogging(*params.DebugLogging)
	}

	if params.SearchLimit != nil {
		log.Info().Int("searchLimit", *params.SearchLimit).Msg("update")
		env.Config.SetSearchLimit(*params.SearchLimit)
	}

	if params.SearchMinScore != nil {
		log.Info().Float64("searchMinScore", *params.SearchMinScore).Msg("update")
		env.Config.SetSearchMinScore(*params.SearchMinScore)
	}

	if params.SearchWorkers != nil {
		log.Info().Int("searchWorkers", *params.SearchWorkers).Msg("update")
		env.Config.SetSearchWorkers(*params.SearchWorkers)
	}

	if params.SearchScorer != nil {
		log.Info().Str("searchScorer", *params.SearchScorer).Msg("update")
		env.Config.SetSearchScorer(*params.SearchScorer)
	}

	if params.SearchPrefilter != nil {
		log.Info().Float64("searchPrefilter", *params.SearchPrefilter).Msg("update")
		env.Config.SetSearchPrefilter(*params.SearchPrefilter)
	}

	if params.SearchHistoryEnabled != nil {
		log.Info().Bool("searchHistoryEnabled", *params.SearchHistoryEnabled).Msg("update")
		env.Config.SetSearchHistoryEnabled(*params.SearchHistoryEnabled)
	}

	if err := env.Config.Save(); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	notifications.SettingsUpdated(env.State.Notifications)
	return NoContent{}, nil
}

func HandleSettingsReload(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received settings reload request")

	if err := env.Config.Load(); err != nil {
		log.Error().Err(err).Msg("error loading settings")
		return nil, errors.New("error loading settings")
	}

	notifications.SettingsUpdated(env.State.Notifications)
	return NoContent{}, nil
}
