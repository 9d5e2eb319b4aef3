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

package publishers

import (
	"testing"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/stretchr/testify/assert"
)

func TestNewMQTTPublisher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		broker string
		topic  string
		filter []string
	}{
		{
			name:   "with filter",
			broker: "localhost:1883",
			topic:  "fuzzdex/events",
			filter: []string{models.NotificationCorpusUpdated, models.NotificationSearchCompleted},
		},
		{
			name:   "without filter",
			broker: "broker.example.com:8883",
			topic:  "notifications",
			filter: nil,
		},
		{
			name:   "empty filter",
			broker: "test:1883",
			topic:  "test/topic",
			filter: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			publisher := NewMQTTPublisher(tt.broker, tt.topic, tt.filter)

			assert.NotNil(t, publisher)
			assert.Equal(t, tt.broker, publisher.broker)
			assert.Equal(t, tt.topic, publisher.topic)
			assert.Equal(t, tt.filter, publisher.filter)
			assert.NotNil(t, publisher.stopCh)
		})
	}
}

func TestMatchesFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		method  string
		wantMsg string
		filter  []string
		want    bool
	}{
		{
			name:    "empty filter matches all",
			filter:  []string{},
			method:  models.NotificationCorpusUpdated,
			want:    true,
			wantMsg: "empty filter should match all notifications",
		},
		{
			name:    "nil filter matches all",
			filter:  nil,
			method:  models.NotificationSearchCompleted,
			want:    true,
			wantMsg: "nil filter should match all notifications",
		},
		{
			name:    "method in filter",
			filter:  []string{models.NotificationCorpusUpdated, models.NotificationCorpusIndexing},
			method:  models.NotificationCorpusUpdated,
			want:    true,
			wantMsg: "should match when method is in filter",
		},
		{
			name:    "method not in filter",
			filter:  []string{models.NotificationCorpusUpdated, models.NotificationCorpusIndexing},
			method:  models.NotificationSettingsUpdated,
			want:    false,
			wantMsg: "should not match when method not in filter",
		},
		{
			name:    "single item filter match",
			filter:  []string{models.NotificationSearchCompleted},
			method:  models.NotificationSearchCompleted,
			want:    true,
			wantMsg: "should match single item in filter",
		},
		{
			name:    "case sensitive",
			filter:  []string{models.NotificationCorpusUpdated},
			method:  "Corpus.Updated",
			want:    false,
			wantMsg: "filter matching should be case-sensitive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			publisher := &MQTTPublisher{filter: tt.filter}
			assert.Equal(t, tt.want, publisher.matchesFilter(tt.method), tt.wantMsg)
		})
	}
}

func TestStop(t *testing.T) {
	t.Parallel()

	publisher := NewMQTTPublisher("localhost:1883", "test", nil)
	publisher.Stop()

	_, ok := <-publisher.stopCh
	assert.False(t, ok, "stopCh should be closed after Stop()")
}

func TestPublishNotifications_Forwards(t *testing.T) {
	t.Parallel()

	mockClient := newMockMQTTClient()
	mockClient.connected = true

	publisher := NewMQTTPublisher("localhost:1883", "fuzzdex/events", nil)
	publisher.client = mockClient

	notifChan := make(chan models.Notification, 10)

	publisher.wg.Add(1)
	go publisher.publishNotifications(notifChan)

	notifChan <- models.Notification{
		Method: models.NotificationCorpusUpdated,
		Params: []byte(`{"corpus": "bands", "entries": 42}`),
	}

	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, mockClient.getPublishedCount())

	publisher.Stop()
}

func TestPublishNotifications_FilteredOut(t *testing.T) {
	t.Parallel()

	mockClient := newMockMQTTClient()
	mockClient.connected = true

	publisher := NewMQTTPublisher("localhost:1883", "fuzzdex/events",
		[]string{models.NotificationSearchCompleted})
	publisher.client = mockClient

	notifChan := make(chan models.Notification, 10)

	publisher.wg.Add(1)
	go publisher.publishNotifications(notifChan)

	notifChan <- models.Notification{
		Method: models.NotificationCorpusUpdated,
		Params: []byte(`{"corpus": "bands"}`),
	}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, mockClient.getPublishedCount())

	notifChan <- models.Notification{
		Method: models.NotificationSearchCompleted,
		Params: []byte(`{"corpus": "bands", "query": "nirvana"}`),
	}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, mockClient.getPublishedCount())

	publisher.Stop()
}

func TestPublishNotifications_PublishError(t *testing.T) {
	t.Parallel()

	mockClient := newMockMQTTClient()
	mockClient.publishError = assert.AnError
	mockClient.connected = true

	publisher := NewMQTTPublisher("localhost:1883", "fuzzdex/events", nil)
	publisher.client = mockClient

	notifChan := make(chan models.Notification, 10)

	publisher.wg.Add(1)
	go publisher.publishNotifications(notifChan)

	notifChan <- models.Notification{
		Method: models.NotificationCorpusUpdated,
		Params: []byte(`{}`),
	}

	// The error is logged and the loop keeps going.
	time.Sleep(50 * time.Millisecond)

	publisher.Stop()
}

func TestPublishNotifications_ChannelClosed(t *testing.T) {
	t.Parallel()

	mockClient := newMockMQTTClient()
	mockClient.connected = true

	publisher := NewMQTTPublisher("localhost:1883", "fuzzdex/events", nil)
	publisher.client = mockClient

	notifChan := make(chan models.Notification, 10)

	publisher.wg.Add(1)
	go publisher.publishNotifications(notifChan)

	close(notifChan)

	// The goroutine must exit on its own when the source closes.
	publisher.wg.Wait()
}

func TestStop_WithConnectedClient(t *testing.T) {
	t.Parallel()

	mockClient := newMockMQTTClient()
	mockClient.connected = true

	publisher := NewMQTTPublisher("localhost:1883", "test", nil)
	publisher.client = mockClient

	publisher.Stop()

	assert.Equal(t, 1, mockClient.disconnectCall)
	assert.False(t, mockClient.IsConnected())

	_, ok := <-publisher.stopCh
	assert.False(t, ok, "stopCh should be closed after Stop()")
}
