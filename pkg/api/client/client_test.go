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

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/testing/helpers"
	"github.com/google/uuid"
	"github.com/olahol/melody"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig creates a minimal config pointed at the given API address.
func testConfig(t *testing.T, addr string) *config.Instance {
	t.Helper()
	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)
	cfg.SetAPIListen(addr)
	return cfg
}

// unusedPort returns a port with nothing listening on it. It binds port 0,
// reads the assigned port, then closes the listener. There is a small race
// window but it is reliable for tests.
func unusedPort(t *testing.T) int {
	t.Helper()
	var lc net.ListenConfig
	listener, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return port
}

func TestLocalClient_ValidRequest(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, func(session *melody.Session, msg []byte) {
		var request map[string]any
		if err := json.Unmarshal(msg, &request); err != nil {
			return
		}

		response := map[string]any{
			"jsonrpc": "2.0",
			"result":  map[string]any{"status": "ok"},
			"id":      request["id"],
		}

		responseData, _ := json.Marshal(response)
		_ = session.Write(responseData)
	})
	defer server.Close()

	cfg := testConfig(t, server.Addr())

	result, err := LocalClient(context.Background(), cfg, "test.method", `{"key":"value"}`)
	require.NoError(t, err)

	var parsed map[string]any
	err = json.Unmarshal([]byte(result), &parsed)
	require.NoError(t, err)
	assert.Equal(t, "ok", parsed["status"])
}

func TestLocalClient_EmptyParams(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, func(session *melody.Session, msg []byte) {
		var request map[string]any
		if err := json.Unmarshal(msg, &request); err != nil {
			return
		}

		// Empty params must be omitted from the wire request entirely.
		assert.Nil(t, request["params"])

		response := map[string]any{
			"jsonrpc": "2.0",
			"result":  "success",
			"id":      request["id"],
		}

		responseData, _ := json.Marshal(response)
		_ = session.Write(responseData)
	})
	defer server.Close()

	cfg := testConfig(t, server.Addr())

	result, err := LocalClient(context.Background(), cfg, "test.method", "")
	require.NoError(t, err)
	assert.Equal(t, `"success"`, result)
}

func TestLocalClient_InvalidParams(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, func(_ *melody.Session, _ []byte) {
		t.Error("server should not be called with invalid params")
	})
	defer server.Close()

	cfg := testConfig(t, server.Addr())

	_, err := LocalClient(context.Background(), cfg, "test.method", "not valid json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestLocalClient_ErrorResponse(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, func(session *melody.Session, msg []byte) {
		var request map[string]any
		if err := json.Unmarshal(msg, &request); err != nil {
			return
		}

		response := map[string]any{
			"jsonrpc": "2.0",
			"error": map[string]any{
				"code":    -32601,
				"message": "Method not found",
			},
			"id": request["id"],
		}

		responseData, _ := json.Marshal(response)
		_ = session.Write(responseData)
	})
	defer server.Close()

	cfg := testConfig(t, server.Addr())

	_, err := LocalClient(context.Background(), cfg, "bogus.method", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Method not found")
}

func TestLocalClient_ContextCancellation(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, func(_ *melody.Session, _ []byte) {
		// Never respond, let the context cancel.
	})
	defer server.Close()

	cfg := testConfig(t, server.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := LocalClient(ctx, cfg, "test.method", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestCancelled)
}

func TestLocalClient_Timeout(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, func(_ *melody.Session, _ []byte) {
		// Never respond, let the deadline hit.
	})
	defer server.Close()

	cfg := testConfig(t, server.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := LocalClient(ctx, cfg, "test.method", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestTimeout) || errors.Is(err, ErrRequestCancelled))
}

func TestLocalClient_IgnoresMismatchedIDs(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, func(session *melody.Session, msg []byte) {
		var request map[string]any
		if err := json.Unmarshal(msg, &request); err != nil {
			return
		}

		// A reply for someone else first, then the real one.
		wrong := map[string]any{
			"jsonrpc": "2.0",
			"result":  "wrong",
			"id":      uuid.New().String(),
		}
		wrongData, _ := json.Marshal(wrong)
		_ = session.Write(wrongData)

		right := map[string]any{
			"jsonrpc": "2.0",
			"result":  "right",
			"id":      request["id"],
		}
		rightData, _ := json.Marshal(right)
		_ = session.Write(rightData)
	})
	defer server.Close()

	cfg := testConfig(t, server.Addr())

	result, err := LocalClient(context.Background(), cfg, "test.method", "")
	require.NoError(t, err)
	assert.Equal(t, `"right"`, result)
}

func TestLocalClient_IgnoresInvalidJSONRPCVersion(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, func(session *melody.Session, msg []byte) {
		var request map[string]any
		if err := json.Unmarshal(msg, &request); err != nil {
			return
		}

		wrong := map[string]any{
			"jsonrpc": "1.0",
			"result":  "wrong",
			"id":      request["id"],
		}
		wrongData, _ := json.Marshal(wrong)
		_ = session.Write(wrongData)

		right := map[string]any{
			"jsonrpc": "2.0",
			"result":  "right",
			"id":      request["id"],
		}
		rightData, _ := json.Marshal(right)
		_ = session.Write(rightData)
	})
	defer server.Close()

	cfg := testConfig(t, server.Addr())

	result, err := LocalClient(context.Background(), cfg, "test.method", "")
	require.NoError(t, err)
	assert.Equal(t, `"right"`, result)
}

func TestLocalClient_ConnectionFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "127.0.0.1:"+strconv.Itoa(unusedPort(t)))

	_, err := LocalClient(context.Background(), cfg, "test.method", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")
}

func TestWaitNotification_ReceivesNotification(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, nil)
	defer server.Close()

	cfg := testConfig(t, server.Addr())

	go func() {
		time.Sleep(50 * time.Millisecond)

		notification := map[string]any{
			"jsonrpc": "2.0",
			"method":  "corpus.updated",
			"params":  map[string]any{"corpus": "bands", "entries": 3},
		}
		data, _ := json.Marshal(notification)
		_ = server.Melody.Broadcast(data)
	}()

	params, err := WaitNotification(context.Background(), time.Second, cfg, "corpus.updated")
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(params), &parsed))
	assert.Equal(t, "bands", parsed["corpus"])
}

func TestWaitNotification_IgnoresWrongMethod(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, nil)
	defer server.Close()

	cfg := testConfig(t, server.Addr())

	go func() {
		time.Sleep(50 * time.Millisecond)

		wrong := map[string]any{
			"jsonrpc": "2.0",
			"method":  "settings.updated",
			"params":  map[string]any{},
		}
		wrongData, _ := json.Marshal(wrong)
		_ = server.Melody.Broadcast(wrongData)

		right := map[string]any{
			"jsonrpc": "2.0",
			"method":  "corpus.updated",
			"params":  map[string]any{"corpus": "cities"},
		}
		rightData, _ := json.Marshal(right)
		_ = server.Melody.Broadcast(rightData)
	}()

	params, err := WaitNotification(context.Background(), time.Second, cfg, "corpus.updated")
	require.NoError(t, err)
	assert.Contains(t, params, "cities")
}

func TestWaitNotification_IgnoresRequestObjects(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, nil)
	defer server.Close()

	cfg := testConfig(t, server.Addr())

	go func() {
		time.Sleep(50 * time.Millisecond)

		// Same method but carrying an ID, so it is a request, not a
		// notification.
		request := map[string]any{
			"jsonrpc": "2.0",
			"method":  "corpus.updated",
			"params":  map[string]any{"corpus": "wrong"},
			"id":      uuid.New().String(),
		}
		requestData, _ := json.Marshal(request)
		_ = server.Melody.Broadcast(requestData)

		notification := map[string]any{
			"jsonrpc": "2.0",
			"method":  "corpus.updated",
			"params":  map[string]any{"corpus": "right"},
		}
		notificationData, _ := json.Marshal(notification)
		_ = server.Melody.Broadcast(notificationData)
	}()

	params, err := WaitNotification(context.Background(), time.Second, cfg, "corpus.updated")
	require.NoError(t, err)
	assert.Contains(t, params, "right")
}

func TestWaitNotifications_ReceivesAnyOfMultiple(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, nil)
	defer server.Close()

	cfg := testConfig(t, server.Addr())

	go func() {
		time.Sleep(50 * time.Millisecond)

		notification := map[string]any{
			"jsonrpc": "2.0",
			"method":  "settings.updated",
			"params":  map[string]any{"scorer": "damerau"},
		}
		data, _ := json.Marshal(notification)
		_ = server.Melody.Broadcast(data)
	}()

	method, params, err := WaitNotifications(
		context.Background(),
		time.Second,
		cfg,
		"corpus.updated",
		"settings.updated",
		"corpus.indexing",
	)
	require.NoError(t, err)
	assert.Equal(t, "settings.updated", method)
	assert.Contains(t, params, "damerau")
}

func TestWaitNotification_Timeout(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, nil)
	defer server.Close()

	cfg := testConfig(t, server.Addr())

	_, err := WaitNotification(context.Background(), 100*time.Millisecond, cfg, "corpus.updated")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestTimeout)
}

func TestWaitNotification_ContextCancellation(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, nil)
	defer server.Close()

	cfg := testConfig(t, server.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := WaitNotification(ctx, time.Minute, cfg, "corpus.updated")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestCancelled)
}

func TestLocalAPIClient_Call(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, func(session *melody.Session, msg []byte) {
		var request map[string]any
		if err := json.Unmarshal(msg, &request); err != nil {
			return
		}

		response := map[string]any{
			"jsonrpc": "2.0",
			"result":  map[string]any{"hits": []any{}},
			"id":      request["id"],
		}

		responseData, _ := json.Marshal(response)
		_ = session.Write(responseData)
	})
	defer server.Close()

	cfg := testConfig(t, server.Addr())
	apiClient := NewLocalAPIClient(cfg)

	result, err := apiClient.Call(context.Background(), "search", `{"corpus":"bands","query":"x"}`)
	require.NoError(t, err)
	assert.Contains(t, result, "hits")
}

func TestLocalAPIClient_CallError(t *testing.T) {
	t.Parallel()

	server := helpers.NewWebSocketTestServer(t, func(session *melody.Session, msg []byte) {
		var request map[string]any
		if err := json.Unmarshal(msg, &request); err != nil {
			return
		}

		response := map[string]any{
			"jsonrpc": "2.0",
			"error": map[string]any{
				"code":    -32000,
				"message": "corpus \"bands\" not found",
			},
			"id": request["id"],
		}

		responseData, _ := json.Marshal(response)
		_ = session.Write(responseData)
	})
	defer server.Close()

	cfg := testConfig(t, server.Addr())
	apiClient := NewLocalAPIClient(cfg)

	_, err := apiClient.Call(context.Background(), "search", `{"corpus":"bands","query":"x"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api call failed")
	assert.Contains(t, err.Error(), "not found")
}

func TestNewLocalAPIClient(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "127.0.0.1:7423")
	apiClient := NewLocalAPIClient(cfg)
	require.NotNil(t, apiClient)

	var _ APIClient = apiClient
}

func TestAPIPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/api/v1", APIPath)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "request timed out", ErrRequestTimeout.Error())
	assert.Equal(t, "invalid params", ErrInvalidParams.Error())
	assert.Equal(t, "request cancelled", ErrRequestCancelled.Error())
}
