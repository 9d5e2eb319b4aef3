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
	"testing"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSearchEvents(t *testing.T, te *testEnv, queries ...string) {
	t.Helper()

	for _, query := range queries {
		event := database.SearchEvent{
			Time:   time.Now(),
			Query:  query,
			Corpus: "cities",
			Scorer: "fused",
			Hits:   1,
			TookMS: 2,
		}
		require.NoError(t, te.db.CorpusDB.AddSearchEvent(&event))
	}
}

func TestHandleHistory_Empty(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)

	result, err := HandleHistory(te.env)
	require.NoError(t, err)

	resp, ok := result.(models.HistoryResponse)
	require.True(t, ok)
	assert.Empty(t, resp.Entries)
	assert.Equal(t, 0, resp.LastID)
}

func TestHandleHistory_NewestFirst(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	seedSearchEvents(t, te, "one", "two", "three")

	result, err := HandleHistory(te.env)
	require.NoError(t, err)

	resp, ok := result.(models.HistoryResponse)
	require.True(t, ok)
	require.Len(t, resp.Entries, 3)
	assert.Equal(t, "three", resp.Entries[0].Query)
	assert.Equal(t, "two", resp.Entries[1].Query)
	assert.Equal(t, "one", resp.Entries[2].Query)
	assert.Equal(t, "cities", resp.Entries[0].Corpus)

	// Cursor points at the oldest row returned.
	assert.Positive(t, resp.LastID)
}

func TestHandleHistory_Paginates(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	queries := make([]string, 30)
	for i := range queries {
		queries[i] = "query"
	}
	seedSearchEvents(t, te, queries...)

	result, err := HandleHistory(te.env)
	require.NoError(t, err)

	page, ok := result.(models.HistoryResponse)
	require.True(t, ok)
	require.Len(t, page.Entries, 25)

	result, err = HandleHistory(te.withParams(t, models.HistoryParams{
		LastID: &page.LastID,
	}))
	require.NoError(t, err)

	page, ok = result.(models.HistoryResponse)
	require.True(t, ok)
	assert.Len(t, page.Entries, 5)
}
