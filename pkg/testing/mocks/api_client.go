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

package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/stretchr/testify/mock"
)

// MockAPIClient is a mock implementation of client.APIClient for testing.
type MockAPIClient struct {
	mock.Mock
}

// NewMockAPIClient creates a new mock API client.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Call mocks the API call method.
func (m *MockAPIClient) Call(ctx context.Context, method, params string) (string, error) {
	args := m.Called(ctx, method, params)
	return args.String(0), args.Error(1)
}

// WaitNotification mocks waiting for a notification.
func (m *MockAPIClient) WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	method string,
) (string, error) {
	args := m.Called(ctx, timeout, method)
	return args.String(0), args.Error(1)
}

// SetupSearchResponse configures the mock to return search results for any
// search call.
func (m *MockAPIClient) SetupSearchResponse(results *models.SearchResults) {
	data, _ := json.Marshal(results)
	m.On("Call", mock.Anything, models.MethodSearch, mock.Anything).Return(string(data), nil)
}

// SetupSearchError configures the mock to return an error for searches.
func (m *MockAPIClient) SetupSearchError(err error) {
	m.On("Call", mock.Anything, models.MethodSearch, mock.Anything).Return("", err)
}

// SetupCorporaResponse configures the mock to return a corpus list.
func (m *MockAPIClient) SetupCorporaResponse(corpora []models.CorpusInfo) {
	resp := models.CorporaResponse{Corpora: corpora}
	data, _ := json.Marshal(resp)
	m.On("Call", mock.Anything, models.MethodCorpora, "").Return(string(data), nil)
}

// SetupCorporaError configures the mock to return an error for the corpus list.
func (m *MockAPIClient) SetupCorporaError(err error) {
	m.On("Call", mock.Anything, models.MethodCorpora, "").Return("", err)
}

// SetupSettingsResponse configures the mock to return a settings response.
func (m *MockAPIClient) SetupSettingsResponse(settings *models.SettingsResponse) {
	data, _ := json.Marshal(settings)
	m.On("Call", mock.Anything, models.MethodSettings, "").Return(string(data), nil)
}

// SetupSettingsError configures the mock to return an error for settings.
func (m *MockAPIClient) SetupSettingsError(err error) {
	m.On("Call", mock.Anything, models.MethodSettings, "").Return("", err)
}

// SetupSearchCompletedNotification configures the mock to return a
// search.completed notification.
func (m *MockAPIClient) SetupSearchCompletedNotification(params *models.SearchCompletedParams) {
	data, _ := json.Marshal(params)
	m.On("WaitNotification", mock.Anything, mock.Anything, models.NotificationSearchCompleted).
		Return(string(data), nil)
}
