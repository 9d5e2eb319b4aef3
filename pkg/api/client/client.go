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

// Package client is a minimal WebSocket client for the local FuzzDex API,
// used by the CLI and the TUI.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestTimeout   = errors.New("request timed out")
	ErrInvalidParams    = errors.New("invalid params")
	ErrRequestCancelled = errors.New("request cancelled")
)

const APIPath = "/api/v1"

// localAPIHost resolves the host:port of the local API from config. A bare
// port or a wildcard bind address dials loopback.
func localAPIHost(cfg *config.Instance) string {
	host, port, err := net.SplitHostPort(cfg.APIListen())
	if err != nil {
		return "localhost:" + strconv.Itoa(cfg.APIPort())
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}

func localWebSocketURL(cfg *config.Instance) url.URL {
	return url.URL{
		Scheme: "ws",
		Host:   localAPIHost(cfg),
		Path:   APIPath,
	}
}

func closeQuietly(c *websocket.Conn) {
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing websocket")
	}
}

// LocalClient sends a single method with params to the local running API
// service, waits for a response until timeout then disconnects. The result
// is returned as raw JSON.
func LocalClient(
	ctx context.Context,
	cfg *config.Instance,
	method string,
	params string,
) (string, error) {
	wsURL := localWebSocketURL(cfg)

	id, err := uuid.NewUUID()
	if err != nil {
		return "", fmt.Errorf("failed to generate request id: %w", err)
	}

	req := models.RequestObject{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  method,
	}

	switch {
	case len(params) == 0:
		req.Params = nil
	case json.Valid([]byte(params)):
		req.Params = []byte(params)
	default:
		return "", ErrInvalidParams
	}

	c, dialResp, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to connect to API at %s: %w", wsURL.Host, err)
	}
	if dialResp != nil && dialResp.Body != nil {
		_ = dialResp.Body.Close()
	}
	defer closeQuietly(c)

	done := make(chan struct{})
	var resp *models.ResponseObject

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				return
			}

			var m models.ResponseObject
			if err := json.Unmarshal(message, &m); err != nil {
				continue
			}
			if m.JSONRPC != "2.0" {
				continue
			}
			if m.ID != id {
				// Notification or a reply to another caller.
				continue
			}

			resp = &m
			return
		}
	}()

	if err := c.WriteJSON(req); err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	timer := time.NewTimer(config.APIRequestTimeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		closeQuietly(c)
		return "", ErrRequestTimeout
	case <-ctx.Done():
		closeQuietly(c)
		return "", ErrRequestCancelled
	}

	if resp == nil {
		return "", ErrRequestTimeout
	}
	if resp.Error != nil {
		return "", errors.New(resp.Error.Message)
	}

	b, err := json.Marshal(resp.Result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(b), nil
}

// WaitNotification blocks until the service emits a notification with the
// given method, returning its params as raw JSON.
func WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	cfg *config.Instance,
	method string,
) (string, error) {
	_, params, err := WaitNotifications(ctx, timeout, cfg, method)
	return params, err
}

// WaitNotifications blocks until the service emits a notification matching
// any of methods, returning the method that matched and its params. A zero
// timeout falls back to the API request timeout, a negative one waits until
// the context is done.
func WaitNotifications(
	ctx context.Context,
	timeout time.Duration,
	cfg *config.Instance,
	methods ...string,
) (matched string, params string, err error) {
	wsURL := localWebSocketURL(cfg)

	c, dialResp, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to connect to API at %s: %w", wsURL.Host, err)
	}
	if dialResp != nil && dialResp.Body != nil {
		_ = dialResp.Body.Close()
	}
	defer closeQuietly(c)

	done := make(chan struct{})
	var notif *models.RequestObject

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				return
			}

			var m models.RequestObject
			if err := json.Unmarshal(message, &m); err != nil {
				continue
			}
			if m.JSONRPC != "2.0" {
				continue
			}
			if m.ID != nil {
				// Requests and responses carry IDs, notifications never do.
				continue
			}
			if !slices.Contains(methods, m.Method) {
				continue
			}

			notif = &m
			return
		}
	}()

	var timerChan <-chan time.Time
	switch {
	case timeout == 0:
		timer := time.NewTimer(config.APIRequestTimeout)
		defer timer.Stop()
		timerChan = timer.C
	case timeout > 0:
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timerChan = timer.C
	}
	// A negative timeout leaves the channel nil, which never fires.

	select {
	case <-done:
	case <-timerChan:
		closeQuietly(c)
		return "", "", ErrRequestTimeout
	case <-ctx.Done():
		closeQuietly(c)
		return "", "", ErrRequestCancelled
	}

	if notif == nil {
		return "", "", ErrRequestTimeout
	}

	b, err := json.Marshal(notif.Params)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal params: %w", err)
	}
	return notif.Method, string(b), nil
}
