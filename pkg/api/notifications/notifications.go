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

// Package notifications publishes server events onto the shared
// notification channel. Sends never block: when the channel is full the
// event is dropped, loudly for critical methods and quietly for the
// high-volume ones.
package notifications

import (
	"encoding/json"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/rs/zerolog/log"
)

// criticalNotifications lists methods a client cannot afford to miss.
// Progress-style events (corpus.indexing, search.completed) arrive often
// enough that losing one is harmless.
var criticalNotifications = map[string]bool{
	models.NotificationCorpusUpdated:   true,
	models.NotificationSettingsUpdated: true,
}

func sendNotification(ns chan<- models.Notification, method string, payload any) {
	var params json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Msgf("marshalling %s notification params", method)
			return
		}
		params = data
	}

	select {
	case ns <- models.Notification{Method: method, Params: params}:
	default:
		if criticalNotifications[method] {
			log.Error().Msgf("dropped critical notification %s: channel full", method)
		} else {
			log.Debug().Msgf("dropped notification %s: channel full", method)
		}
	}
}

func CorpusIndexing(ns chan<- models.Notification, payload models.IndexingStatusParams) {
	sendNotification(ns, models.NotificationCorpusIndexing, payload)
}

func CorpusUpdated(ns chan<- models.Notification, payload models.CorpusUpdatedParams) {
	sendNotification(ns, models.NotificationCorpusUpdated, payload)
}

func SettingsUpdated(ns chan<- models.Notification) {
	sendNotification(ns, models.NotificationSettingsUpdated, nil)
}

func SearchCompleted(ns chan<- models.Notification, payload models.SearchCompletedParams) {
	sendNotification(ns, models.NotificationSearchCompleted, payload)
}
