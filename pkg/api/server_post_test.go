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

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models/requests"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/validation"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/service/state"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/testing/helpers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// createTestPostHandler builds a POST handler around a small method map and
// real service dependencies.
func createTestPostHandler(t *testing.T) (http.HandlerFunc, *MethodMap) {
	t.Helper()

	methodMap := NewMethodMap()

	err := methodMap.AddMethod("test.echo", func(_ requests.RequestEnv) (any, error) {
		return map[string]string{"echo": "success"}, nil
	})
	require.NoError(t, err)

	err = methodMap.AddMethod("test.error", func(_ requests.RequestEnv) (any, error) {
		return nil, errors.New("test error")
	})
	require.NoError(t, err)

	err = methodMap.AddMethod("test.badparams", func(_ requests.RequestEnv) (any, error) {
		return nil, fmt.Errorf("invalid params: %w", validation.ErrMissingParams)
	})
	require.NoError(t, err)

	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)

	db, cleanup := helpers.NewTestDatabase(t)
	t.Cleanup(cleanup)

	st, _ := state.NewState()
	t.Cleanup(st.StopService)

	handler := handlePostRequest(methodMap, cfg, st, db, nil)
	return handler, methodMap
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestHandlePostRequest_ValidRequest(t *testing.T) {
	t.Parallel()

	handler, _ := createTestPostHandler(t)

	id := uuid.New()
	rr := postJSON(t, handler, `{"jsonrpc":"2.0","id":"`+id.String()+`","method":"test.echo"}`)

	require.Equal(t, http.StatusOK, rr.Code, "successful request should return HTTP 200")

	var resp models.ResponseObject
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.Equal(t, "2.0", resp.JSONRPC)
	require.Equal(t, id, resp.ID, "response should carry the request ID")
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "success", result["echo"])
}

func TestHandlePostRequest_InvalidJSON(t *testing.T) {
	t.Parallel()

	handler, _ := createTestPostHandler(t)

	rr := postJSON(t, handler, `{invalid json`)

	require.Equal(t, http.StatusOK, rr.Code, "parse errors still return HTTP 200")

	var resp models.ResponseErrorObject
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	require.Equal(t, JSONRPCErrorParseError.Code, resp.Error.Code)
}

func TestHandlePostRequest_UnknownMethod(t *testing.T) {
	t.Parallel()

	handler, _ := createTestPostHandler(t)

	rr := postJSON(t, handler, `{"jsonrpc":"2.0","id":"`+uuid.New().String()+`","method":"no.such.method"}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.ResponseErrorObject
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	require.Equal(t, JSONRPCErrorMethodNotFound.Code, resp.Error.Code)
	require.Equal(t, "Method not found", resp.Error.Message)
}

func TestHandlePostRequest_WrongContentType(t *testing.T) {
	t.Parallel()

	handler, _ := createTestPostHandler(t)

	reqBody := `{"jsonrpc":"2.0","id":"` + uuid.New().String() + `","method":"test.echo"}`
	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "text/plain")

	rr := httptest.NewRecorder()
	handler(rr, req)

	require.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestHandlePostRequest_ContentTypeWithCharset(t *testing.T) {
	t.Parallel()

	handler, _ := createTestPostHandler(t)

	reqBody := `{"jsonrpc":"2.0","id":"` + uuid.New().String() + `","method":"test.echo"}`
	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	rr := httptest.NewRecorder()
	handler(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, "charset parameter should be accepted")
}

func TestHandlePostRequest_Notification(t *testing.T) {
	t.Parallel()

	handler, _ := createTestPostHandler(t)

	// No ID field makes the request a notification.
	rr := postJSON(t, handler, `{"jsonrpc":"2.0","method":"test.echo"}`)

	require.Equal(t, http.StatusNoContent, rr.Code, "notification should return HTTP 204 No Content")
	require.Empty(t, rr.Body.Bytes(), "notification should have an empty response body")
}

func TestHandlePostRequest_NotificationRunsMethod(t *testing.T) {
	t.Parallel()

	handler, methodMap := createTestPostHandler(t)

	ran := make(chan struct{}, 1)
	err := methodMap.AddMethod("test.mark", func(_ requests.RequestEnv) (any, error) {
		ran <- struct{}{}
		return nil, nil
	})
	require.NoError(t, err)

	rr := postJSON(t, handler, `{"jsonrpc":"2.0","method":"test.mark"}`)

	// The server must not reply, but the method still runs.
	require.Equal(t, http.StatusNoContent, rr.Code)
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("notification method did not run")
	}
}

func TestHandlePostRequest_MethodError(t *testing.T) {
	t.Parallel()

	handler, _ := createTestPostHandler(t)

	rr := postJSON(t, handler, `{"jsonrpc":"2.0","id":"`+uuid.New().String()+`","method":"test.error"}`)

	require.Equal(t, http.StatusOK, rr.Code, "method error should still return HTTP 200")

	var resp models.ResponseErrorObject
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	require.Equal(t, JSONRPCErrorServerError.Code, resp.Error.Code)
	require.Contains(t, resp.Error.Message, "test error")
}

func TestHandlePostRequest_ValidationErrorCode(t *testing.T) {
	t.Parallel()

	handler, _ := createTestPostHandler(t)

	rr := postJSON(t, handler, `{"jsonrpc":"2.0","id":"`+uuid.New().String()+`","method":"test.badparams"}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.ResponseErrorObject
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	require.Equal(t, JSONRPCErrorInvalidParams.Code, resp.Error.Code)
	require.Contains(t, resp.Error.Message, "invalid params")
}

func TestHandlePostRequest_OversizedBody(t *testing.T) {
	t.Parallel()

	handler, _ := createTestPostHandler(t)

	largeBody := strings.Repeat("x", 2<<20) // 2MB
	rr := postJSON(t, handler, largeBody)

	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code, "oversized body should return HTTP 413")
	require.Contains(t, rr.Body.String(), "Request body too large")
}

func TestHandlePostRequest_EmptyBody(t *testing.T) {
	t.Parallel()

	handler, _ := createTestPostHandler(t)

	rr := postJSON(t, handler, "")

	require.Equal(t, http.StatusOK, rr.Code, "empty body should return HTTP 200 with JSON-RPC error")

	var resp models.ResponseErrorObject
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	require.Equal(t, JSONRPCErrorParseError.Code, resp.Error.Code)
}

func TestHandlePostRequest_InvalidJSONRPCVersion(t *testing.T) {
	t.Parallel()

	handler, _ := createTestPostHandler(t)

	rr := postJSON(t, handler, `{"jsonrpc":"1.0","id":"`+uuid.New().String()+`","method":"test.echo"}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.ResponseErrorObject
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	require.Equal(t, JSONRPCErrorInvalidRequest.Code, resp.Error.Code)
}

func TestHandlePostRequest_UUIDStringID(t *testing.T) {
	t.Parallel()

	handler, _ := createTestPostHandler(t)

	testUUID := uuid.New().String()
	rr := postJSON(t, handler, `{"jsonrpc":"2.0","id":"`+testUUID+`","method":"test.echo"}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.Equal(t, testUUID, resp["id"], "UUID ID should be echoed back unchanged")
}

// Request IDs are UUIDs on the wire. Anything else fails to parse into the
// request object and is answered with a parse error.
func TestHandlePostRequest_NonUUIDIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{
			name: "plain string ID",
			body: `{"jsonrpc":"2.0","id":"my-custom-string-id","method":"test.echo"}`,
		},
		{
			name: "number ID",
			body: `{"jsonrpc":"2.0","id":12345,"method":"test.echo"}`,
		},
		{
			name: "object ID",
			body: `{"jsonrpc":"2.0","id":{"nested":"object"},"method":"test.echo"}`,
		},
		{
			name: "array ID",
			body: `{"jsonrpc":"2.0","id":[1,2,3],"method":"test.echo"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler, _ := createTestPostHandler(t)
			rr := postJSON(t, handler, tt.body)

			require.Equal(t, http.StatusOK, rr.Code)

			var resp models.ResponseErrorObject
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			require.NoError(t, err)
			require.NotNil(t, resp.Error)
			require.Equal(t, JSONRPCErrorParseError.Code, resp.Error.Code)
		})
	}
}

func TestHandlePostRequest_NullID(t *testing.T) {
	t.Parallel()

	handler, _ := createTestPostHandler(t)

	// A null ID unmarshals the same as an absent one, so the request is
	// treated as a notification.
	rr := postJSON(t, handler, `{"jsonrpc":"2.0","id":null,"method":"test.echo"}`)

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Empty(t, rr.Body.Bytes())
}
