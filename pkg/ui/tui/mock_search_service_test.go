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

package tui

import (
	"context"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/stretchr/testify/mock"
)

// MockSearchService is a mock implementation of SearchService for testing.
type MockSearchService struct {
	mock.Mock
}

// NewMockSearchService creates a new mock search service.
func NewMockSearchService() *MockSearchService {
	return &MockSearchService{}
}

// Search mocks running a ranked query.
func (m *MockSearchService) Search(
	ctx context.Context,
	params models.SearchParams,
) (*models.SearchResults, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck // mock returns test-provided errors
	}
	results, ok := args.Get(0).(*models.SearchResults)
	if !ok {
		return nil, args.Error(1) //nolint:wrapcheck // mock returns test-provided errors
	}
	return results, args.Error(1) //nolint:wrapcheck // mock returns test-provided errors
}

// Corpora mocks fetching the corpus list.
func (m *MockSearchService) Corpora(ctx context.Context) ([]models.CorpusInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck // mock returns test-provided errors
	}
	corpora, ok := args.Get(0).([]models.CorpusInfo)
	if !ok {
		return nil, args.Error(1) //nolint:wrapcheck // mock returns test-provided errors
	}
	return corpora, args.Error(1) //nolint:wrapcheck // mock returns test-provided errors
}

// SetupCorpora configures the mock to return the given corpora.
func (m *MockSearchService) SetupCorpora(corpora []models.CorpusInfo) {
	m.On("Corpora", mock.Anything).Return(corpora, nil)
}

// SetupCorporaError configures the mock to fail the corpus list call.
func (m *MockSearchService) SetupCorporaError(err error) {
	m.On("Corpora", mock.Anything).Return(nil, err)
}

// SetupSearch configures the mock to return the given results for any query.
func (m *MockSearchService) SetupSearch(results *models.SearchResults) {
	m.On("Search", mock.Anything, mock.Anything).Return(results, nil)
}

// SetupSearchError configures the mock to fail searches.
func (m *MockSearchService) SetupSearchError(err error) {
	m.On("Search", mock.Anything, mock.Anything).Return(nil, err)
}
