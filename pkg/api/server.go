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

// Package api serves the FuzzDex JSON-RPC API over WebSocket and HTTP POST.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/middleware"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models/requests"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/validation"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/ingest"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/service/state"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

// maxRequestBody caps a single JSON-RPC request at 1MB. Bulk entry loads
// beyond that belong in seed files, not API calls.
const maxRequestBody = 1 << 20

var JSONRPCErrorParseError = models.ErrorObject{
	Code:    -32700,
	Message: "Parse error",
}
var JSONRPCErrorInvalidRequest = models.ErrorObject{
	Code:    -32600,
	Message: "Invalid Request",
}
var JSONRPCErrorMethodNotFound = models.ErrorObject{
	Code:    -32601,
	Message: "Method not found",
}
var JSONRPCErrorInvalidParams = models.ErrorObject{
	Code:    -32602,
	Message: "Invalid params",
}
var JSONRPCErrorInternalError = models.ErrorObject{
	Code:    -32603,
	Message: "Internal error",
}
var JSONRPCErrorServerError = models.ErrorObject{
	Code:    -32000,
	Message: "Server error",
}

// ErrMethodNotFound is returned by handleRequest for methods missing from
// the method map.
var ErrMethodNotFound = errors.New("method not found")

func maybeUUID(req models.RequestObject) uuid.UUID {
	if req.ID == nil {
		return uuid.Nil
	}
	return *req.ID
}

// classifyError maps a handler error to the JSON-RPC error object sent to
// the client. Validation failures keep their message so the client can see
// which field was rejected.
func classifyError(err error) models.ErrorObject {
	var valErr *validation.Error
	switch {
	case errors.Is(err, ErrMethodNotFound):
		return JSONRPCErrorMethodNotFound
	case errors.Is(err, validation.ErrMissingParams),
		errors.Is(err, validation.ErrInvalidParams),
		errors.As(err, &valErr):
		return models.ErrorObject{
			Code:    JSONRPCErrorInvalidParams.Code,
			Message: err.Error(),
		}
	default:
		return models.ErrorObject{
			Code:    JSONRPCErrorServerError.Code,
			Message: err.Error(),
		}
	}
}

func handleRequest(methodMap *MethodMap, env requests.RequestEnv, req models.RequestObject) (any, error) {
	log.Debug().Str("method", req.Method).Msg("received request")

	fn, ok := methodMap.GetMethod(req.Method)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, req.Method)
	}

	env.Params = req.Params
	if req.ID != nil {
		env.ID = *req.ID
	}

	return fn(env)
}

func sendResponse(s *melody.Session, id uuid.UUID, result any) error {
	resp := models.ResponseObject{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	if err := s.Write(data); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func sendError(s *melody.Session, id uuid.UUID, errObj models.ErrorObject) error {
	resp := models.ResponseErrorObject{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &errObj,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal error response: %w", err)
	}
	if err := s.Write(data); err != nil {
		return fmt.Errorf("failed to write error response: %w", err)
	}
	return nil
}

func handleWSMessage(
	methodMap *MethodMap,
	cfg *config.Instance,
	st *state.State,
	db *database.Database,
	ingester *ingest.Ingester,
) func(session *melody.Session, msg []byte) {
	return func(session *melody.Session, msg []byte) {
		// ping command for heartbeat operation
		if bytes.Equal(msg, []byte("ping")) {
			if err := session.Write([]byte("pong")); err != nil {
				log.Error().Err(err).Msg("sending pong")
			}
			return
		}

		if !json.Valid(msg) {
			log.Error().Msg("message is not valid json")
			if err := sendError(session, uuid.Nil, JSONRPCErrorParseError); err != nil {
				log.Error().Err(err).Msg("sending error response")
			}
			return
		}

		var req models.RequestObject
		if err := json.Unmarshal(msg, &req); err != nil {
			// Valid JSON that does not fit the request shape, usually an
			// ID that is not a UUID.
			log.Error().Err(err).Msg("invalid request object")
			if err := sendError(session, uuid.Nil, JSONRPCErrorParseError); err != nil {
				log.Error().Err(err).Msg("sending error response")
			}
			return
		}

		if req.JSONRPC != "2.0" {
			log.Error().Str("jsonrpc", req.JSONRPC).Msg("unsupported payload version")
			if err := sendError(session, maybeUUID(req), JSONRPCErrorInvalidRequest); err != nil {
				log.Error().Err(err).Msg("sending error response")
			}
			return
		}

		if req.Method == "" {
			log.Error().Msg("message has no method")
			if err := sendError(session, maybeUUID(req), JSONRPCErrorInvalidRequest); err != nil {
				log.Error().Err(err).Msg("sending error response")
			}
			return
		}

		env := requests.RequestEnv{
			Config:   cfg,
			State:    st,
			Database: db,
			Ingester: ingester,
			IsLocal:  middleware.IsLoopbackAddr(session.Request.RemoteAddr),
		}

		if req.ID == nil {
			// Notification. Run the method but never reply.
			if _, err := handleRequest(methodMap, env, req); err != nil {
				log.Error().Err(err).Str("method", req.Method).Msg("notification method failed")
			}
			return
		}

		resp, err := handleRequest(methodMap, env, req)
		if err != nil {
			log.Error().Err(err).Str("method", req.Method).Msg("request failed")
			if err := sendError(session, *req.ID, classifyError(err)); err != nil {
				log.Error().Err(err).Msg("sending error response")
			}
			return
		}

		if err := sendResponse(session, *req.ID, resp); err != nil {
			log.Error().Err(err).Msg("sending response")
		}
	}
}

// handlePostRequest serves single-shot JSON-RPC over HTTP POST, for clients
// that do not want to hold a WebSocket open.
func handlePostRequest(
	methodMap *MethodMap,
	cfg *config.Instance,
	st *state.State,
	db *database.Database,
	ingester *ingest.Ingester,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contentType := strings.TrimSpace(strings.SplitN(r.Header.Get("Content-Type"), ";", 2)[0])
		if contentType != "application/json" {
			http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}

		writeError := func(id uuid.UUID, errObj models.ErrorObject) {
			resp := models.ResponseErrorObject{
				JSONRPC: "2.0",
				ID:      id,
				Error:   &errObj,
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if err := json.NewEncoder(w).Encode(resp); err != nil {
				log.Error().Err(err).Msg("encoding error response")
			}
		}

		var req models.RequestObject
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(uuid.Nil, JSONRPCErrorParseError)
			return
		}

		if req.JSONRPC != "2.0" {
			writeError(maybeUUID(req), JSONRPCErrorInvalidRequest)
			return
		}

		if req.Method == "" {
			writeError(maybeUUID(req), JSONRPCErrorInvalidRequest)
			return
		}

		env := requests.RequestEnv{
			Config:   cfg,
			State:    st,
			Database: db,
			Ingester: ingester,
			IsLocal:  middleware.IsLoopbackAddr(r.RemoteAddr),
		}

		resp, err := handleRequest(methodMap, env, req)

		if req.ID == nil {
			// Notification. The method still runs but the server must not
			// reply, only acknowledge.
			if err != nil {
				log.Error().Err(err).Str("method", req.Method).Msg("notification method failed")
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if err != nil {
			log.Error().Err(err).Str("method", req.Method).Msg("request failed")
			writeError(*req.ID, classifyError(err))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		out := models.ResponseObject{
			JSONRPC: "2.0",
			ID:      *req.ID,
			Result:  resp,
		}
		if err := json.NewEncoder(w).Encode(out); err != nil {
			log.Error().Err(err).Msg("encoding response")
		}
	}
}

// broadcastNotifications fans service notifications out to every connected
// WebSocket session. Broadcasts run async so a slow session cannot back up
// the notification channel and stall emitters.
func broadcastNotifications(st *state.State, m *melody.Melody, ns <-chan models.Notification) {
	for {
		select {
		case <-st.GetContext().Done():
			log.Debug().Msg("stopping notification broadcaster")
			return
		case notif, ok := <-ns:
			if !ok {
				return
			}

			req := models.RequestObject{
				JSONRPC: "2.0",
				Method:  notif.Method,
				Params:  notif.Params,
			}
			data, err := json.Marshal(req)
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification")
				continue
			}

			go func() {
				if err := m.Broadcast(data); err != nil {
					log.Error().Err(err).Msg("broadcasting notification")
				}
			}()
		}
	}
}

// Start runs the API server on the configured listen address and returns a
// function that shuts it down. The listener is bound before Start returns,
// so callers can connect the moment it comes back.
func Start(
	cfg *config.Instance,
	st *state.State,
	db *database.Database,
	ingester *ingest.Ingester,
	ns <-chan models.Notification,
) (func() error, error) {
	methodMap := DefaultMethodMap()

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.NoCache)
	r.Use(chimiddleware.Timeout(config.APIRequestTimeout))

	r.Use(middleware.HTTPIPFilterMiddleware(middleware.NewIPFilter(cfg.AllowedIPs())))

	rateLimiter := middleware.NewIPRateLimiter()
	rateLimiter.StartCleanup(st.GetContext())
	r.Use(middleware.HTTPRateLimitMiddleware(rateLimiter))

	allowedOrigins := cfg.AllowedOrigins()
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"https://*", "http://*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))

	m := melody.New()
	// Origin checks happen in the CORS middleware before the upgrade.
	m.Upgrader.CheckOrigin = func(_ *http.Request) bool { return true }
	m.HandleMessage(middleware.WebSocketRateLimitHandler(
		rateLimiter,
		handleWSMessage(methodMap, cfg, st, db, ingester),
	))
	st.SetConnectionCounter(m.Len)

	go broadcastNotifications(st, m, ns)

	wsHandler := func(w http.ResponseWriter, r *http.Request) {
		if err := m.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	}
	postHandler := handlePostRequest(methodMap, cfg, st, db, ingester)

	r.Get("/api", wsHandler)
	r.Post("/api", postHandler)
	r.Get("/api/v1", wsHandler)
	r.Post("/api/v1", postHandler)

	listener, err := net.Listen("tcp", cfg.APIListen())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.APIListen(), err)
	}
	st.SetAPIAddr(listener.Addr().String())
	log.Info().Str("addr", listener.Addr().String()).Msg("API server listening")

	srv := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("API server stopped")
		}
	}()

	stop := func() error {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("closing websocket sessions")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down API server: %w", err)
		}
		return nil
	}
	return stop, nil
}
