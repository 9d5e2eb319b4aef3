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

// Package helpers provides test fixtures shared across packages: in-memory
// corpus databases, WebSocket test servers and JSON-RPC assertion helpers.
package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/olahol/melody"
	"github.com/stretchr/testify/require"
)

// WebSocketTestServer serves a melody handler over httptest, standing in
// for the real API server in client tests.
type WebSocketTestServer struct {
	Server   *httptest.Server
	Melody   *melody.Melody
	t        *testing.T
	Messages []WebSocketMessage
	mu       sync.RWMutex
}

// WebSocketMessage captures a message seen by the test server.
type WebSocketMessage struct {
	Timestamp time.Time
	Error     error
	Type      string
	Data      []byte
}

// JSONRPCRequest is a loosely-typed request for driving the API in tests.
type JSONRPCRequest struct {
	Params any       `json:"params,omitempty"`
	Method string    `json:"method"`
	ID     uuid.UUID `json:"id"`
}

// JSONRPCResponse is a loosely-typed response for assertions in tests.
type JSONRPCResponse struct {
	Result any                 `json:"result,omitempty"`
	Error  *models.ErrorObject `json:"error,omitempty"`
	ID     uuid.UUID           `json:"id"`
}

// NewWebSocketTestServer starts a WebSocket server that feeds every message
// to handler. Callers own the response side, which makes it easy to script
// exact server behavior.
func NewWebSocketTestServer(t *testing.T, handler func(*melody.Session, []byte)) *WebSocketTestServer {
	t.Helper()

	m := melody.New()

	wsts := &WebSocketTestServer{
		Melody:   m,
		Messages: make([]WebSocketMessage, 0),
		t:        t,
	}

	if handler != nil {
		m.HandleMessage(func(session *melody.Session, msg []byte) {
			wsts.recordMessage("received", msg, nil)
			handler(session, msg)
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1", func(w http.ResponseWriter, r *http.Request) {
		if err := m.HandleRequest(w, r); err != nil {
			wsts.recordMessage("error", nil, err)
		}
	})

	wsts.Server = httptest.NewServer(mux)
	return wsts
}

func (wsts *WebSocketTestServer) recordMessage(msgType string, data []byte, err error) {
	wsts.mu.Lock()
	defer wsts.mu.Unlock()

	wsts.Messages = append(wsts.Messages, WebSocketMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now(),
		Error:     err,
	})
}

// Addr returns the host:port the test server is listening on.
func (wsts *WebSocketTestServer) Addr() string {
	u, err := url.Parse(wsts.Server.URL)
	require.NoError(wsts.t, err)
	return u.Host
}

// Close shuts down the test server.
func (wsts *WebSocketTestServer) Close() {
	wsts.Server.Close()
	_ = wsts.Melody.Close()
}

// GetMessages returns a copy of all recorded messages.
func (wsts *WebSocketTestServer) GetMessages() []WebSocketMessage {
	wsts.mu.RLock()
	defer wsts.mu.RUnlock()

	msgs := make([]WebSocketMessage, len(wsts.Messages))
	copy(msgs, wsts.Messages)
	return msgs
}

// CreateWebSocketClient dials the test server directly, for tests that need
// raw connection control instead of the client package.
func (wsts *WebSocketTestServer) CreateWebSocketClient() (*websocket.Conn, error) {
	u, err := url.Parse(wsts.Server.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server URL: %w", err)
	}

	u.Scheme = "ws"
	u.Path = "/api/v1"

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial WebSocket: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	return conn, nil
}

// SendJSONRPCRequest writes a request on conn and reads back one response.
func SendJSONRPCRequest(conn *websocket.Conn, method string, params any) (*JSONRPCResponse, error) {
	request := JSONRPCRequest{
		ID:     uuid.New(),
		Method: method,
		Params: params,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, requestData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	_, responseData, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var response JSONRPCResponse
	if err := json.Unmarshal(responseData, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &response, nil
}

// AssertJSONRPCSuccess verifies a JSON-RPC response carries a result.
func AssertJSONRPCSuccess(t *testing.T, response *JSONRPCResponse) {
	t.Helper()
	require.NotNil(t, response, "response should not be nil")
	require.Nil(t, response.Error, "response should not contain an error")
	require.NotNil(t, response.Result, "response should contain a result")
}

// AssertJSONRPCError verifies a JSON-RPC response carries the given error code.
func AssertJSONRPCError(t *testing.T, response *JSONRPCResponse, expectedCode int) {
	t.Helper()
	require.NotNil(t, response, "response should not be nil")
	require.NotNil(t, response.Error, "response should contain an error")
	require.Equal(t, expectedCode, response.Error.Code, "error code should match")
}
