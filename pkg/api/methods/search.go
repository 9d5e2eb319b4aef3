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
	"math"
	"time"
	"unicode/utf8"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models/requests"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/notifications"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/validation"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/similarity"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/topk"
	"github.com/rs/zerolog/log"
)

// ScorerFor maps a configured scorer name to its scoring function. Unknown
// names fall back to the fused scorer with a warning, matching the config
// semantics where names are only resolved at the point of use.
func ScorerFor(name string) topk.Scorer {
	switch name {
	case config.ScorerFused:
		return similarity.Score
	case config.ScorerJaroWinkler:
		return similarity.JaroWinklerScore
	case config.ScorerDamerau:
		return similarity.DamerauLevenshteinScore
	default:
		log.Warn().Str("scorer", name).Msg("unknown scorer, using fused")
		return similarity.Score
	}
}

// loadCandidates reads a corpus's entries, narrowed to a folded-length
// window around the query when a prefilter ratio is active.
func loadCandidates(
	db *database.Database, corpusSlug, query string, ratio float64,
) ([]database.Entry, error) {
	if ratio > 1 {
		qLen := utf8.RuneCountInString(similarity.NormalizeChars(query))
		if qLen > 0 {
			minLen := int(math.Floor(float64(qLen) / ratio))
			maxLen := int(math.Ceil(float64(qLen) * ratio))
			return db.CorpusDB.GetEntriesInLengthRange(corpusSlug, minLen, maxLen)
		}
	}
	return db.CorpusDB.GetEntries(corpusSlug)
}

func HandleSearch(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received search request")

	var params models.SearchParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		log.Error().Err(err).Msg("invalid search params")
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	var opts models.SearchOptions
	if err := validation.DecodeOptions(params.Options, &opts); err != nil {
		log.Error().Err(err).Msg("invalid search options")
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	corpus, err := lookupCorpus(env.Database, params.Corpus)
	if err != nil {
		return nil, err
	}

	// Per-request values override the configured defaults.
	k := env.Config.SearchLimit()
	if params.K != nil {
		k = *params.K
	}
	minScore := env.Config.SearchMinScore()
	if params.MinScore != nil {
		minScore = *params.MinScore
	}
	workers := env.Config.SearchWorkers()
	if params.Workers != nil {
		workers = *params.Workers
	}
	scorerName := env.Config.SearchScorer()
	if opts.Scorer != "" {
		scorerName = opts.Scorer
	}
	prefilter := env.Config.SearchPrefilter()
	if opts.Prefilter != 0 {
		prefilter = opts.Prefilter
	}

	entries, err := loadCandidates(env.Database, corpus.Slug, params.Query, prefilter)
	if err != nil {
		log.Error().Err(err).Str("corpus", corpus.Slug).Msg("loading candidates")
		return nil, fmt.Errorf("failed to load corpus %q: %w", params.Corpus, err)
	}

	candidates := make([]topk.Candidate, len(entries))
	for i, e := range entries {
		candidates[i] = topk.Candidate{Key: e.Key, Value: e.Value}
	}

	start := time.Now()
	matches, err := topk.RankParallel(env.State.GetContext(), params.Query, candidates, workers, topk.Options{
		Scorer:   ScorerFor(scorerName),
		Limit:    k,
		MinScore: minScore,
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	took := time.Since(start).Milliseconds()

	hits := make([]models.SearchHit, len(matches))
	for i, m := range matches {
		hits[i] = models.SearchHit{Key: m.Key, Value: m.Value, Score: m.Score}
		if params.Detail {
			// Components always describe the fused strategy breakdown,
			// whichever scorer ranked the hits.
			hits[i].Components = similarity.ScoreDetail(params.Query, m.Value).Components
		}
	}

	if env.Config.SearchHistoryEnabled() {
		event := database.SearchEvent{
			Time:   time.Now(),
			Query:  params.Query,
			Corpus: corpus.Slug,
			Scorer: scorerName,
			Hits:   len(matches),
			TookMS: took,
		}
		if histErr := env.Database.CorpusDB.AddSearchEvent(&event); histErr != nil {
			log.Warn().Err(histErr).Msg("recording search history")
		}
	}

	notifications.SearchCompleted(env.State.Notifications, models.SearchCompletedParams{
		Query:  params.Query,
		Corpus: corpus.Slug,
		Hits:   len(matches),
		TookMS: took,
	})

	return models.SearchResults{
		Hits:   hits,
		Query:  params.Query,
		Corpus: corpus.Slug,
		Total:  len(entries),
		TookMS: took,
	}, nil
}

func HandleSimilarity(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received similarity request")

	var params models.SimilarityParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		log.Error().Err(err).Msg("invalid similarity params")
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	detail := similarity.ScoreDetail(params.Query, params.Target)
	return models.SimilarityResponse{
		Components: detail.Components,
		Score:      detail.Score,
	}, nil
}
