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
	"os"
	"runtime"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models/requests"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

func HandleStatus(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received status request")

	corpora, err := env.Database.CorpusDB.ListCorpora()
	if err != nil {
		log.Warn().Err(err).Msg("listing corpora for status")
	}

	entries, err := env.Database.CorpusDB.CountAllEntries()
	if err != nil {
		log.Warn().Err(err).Msg("counting entries for status")
	}

	startedAt := env.State.StartedAt()
	resp := models.StatusResponse{
		StartedAt:   startedAt,
		UptimeSecs:  int64(time.Since(startedAt).Seconds()),
		Scorer:      env.Config.SearchScorer(),
		Corpora:     len(corpora),
		Entries:     int(entries),
		Connections: env.State.ConnectionCount(),
	}

	// Process stats are best effort, the rest of the status is still useful
	// without them.
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn().Err(err).Msg("reading own process for status")
		return resp, nil
	}
	if memInfo, memErr := proc.MemoryInfo(); memErr != nil {
		log.Warn().Err(memErr).Msg("reading process memory for status")
	} else {
		resp.MemoryRSS = memInfo.RSS
	}
	if cpuPercent, cpuErr := proc.CPUPercent(); cpuErr != nil {
		log.Warn().Err(cpuErr).Msg("reading process cpu for status")
	} else {
		resp.CPUPercent = cpuPercent
	}

	return resp, nil
}

func HandleVersion(_ requests.RequestEnv) (any, error) {
	log.Info().Msg("received version request")
	return models.VersionResponse{
		Version:  config.AppVersion,
		Platform: runtime.GOOS,
	}, nil
}
