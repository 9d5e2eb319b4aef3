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

// Package models holds the JSON-RPC wire types shared by the API server,
// the Go client, and everything that emits notifications.
package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	NotificationCorpusIndexing  = "corpus.indexing"
	NotificationCorpusUpdated   = "corpus.updated"
	NotificationSettingsUpdated = "settings.updated"
	NotificationSearchCompleted = "search.completed"
)

const (
	MethodSearch         = "search"
	MethodSimilarity     = "similarity"
	MethodCorpora        = "corpora"
	MethodCorporaReload  = "corpora.reload"
	MethodCorporaDelete  = "corpora.delete"
	MethodEntriesAdd     = "entries.add"
	MethodEntriesDelete  = "entries.delete"
	MethodHistory        = "history"
	MethodSettings       = "settings"
	MethodSettingsUpdate = "settings.update"
	MethodSettingsReload = "settings.reload"
	MethodStatus         = "status"
	MethodVersion        = "version"
)

// Notification is a server-push event fanned out to every connected
// session. Params is pre-marshalled so emitters pay the encoding cost
// once, not per session.
type Notification struct {
	Method string
	Params json.RawMessage
}

type RequestObject struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uuid.UUID      `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ResponseObject struct {
	JSONRPC string       `json:"jsonrpc"`
	ID      uuid.UUID    `json:"id"`
	Result  any          `json:"result"`
	Error   *ErrorObject `json:"error,omitempty"`
}

// ResponseErrorObject exists for sending errors, so we can omit result from
// the response, but so nil responses are still returned when using the main
// ResponseObject.
type ResponseErrorObject struct {
	JSONRPC string       `json:"jsonrpc"`
	ID      uuid.UUID    `json:"id"`
	Error   *ErrorObject `json:"error"`
}
