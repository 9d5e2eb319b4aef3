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

package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/notifications"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database/slugs"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/shared/mqttclient"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// entryMessage is the JSON payload the MQTT bridge accepts on subscribed
// topics: an entry upsert, or a delete when Delete is set.
type entryMessage struct {
	Corpus string `json:"corpus"`
	Key    string `json:"key"`
	Value  string `json:"value"`
	Delete bool   `json:"delete"`
}

// Bridge subscribes to configured MQTT topics and applies entry updates
// live, without a full corpus reload.
type Bridge struct {
	cfg           *config.Instance
	db            *database.Database
	ns            chan<- models.Notification
	clientFactory mqttclient.ClientFactory
	clients       []mqtt.Client
}

func NewBridge(cfg *config.Instance, db *database.Database, ns chan<- models.Notification) *Bridge {
	return &Bridge{
		cfg:           cfg,
		db:            db,
		ns:            ns,
		clientFactory: mqttclient.DefaultClientFactory,
	}
}

// Start connects every enabled subscriber. An unreachable broker is
// logged and skipped so one bad endpoint does not hold up the service.
func (b *Bridge) Start() error {
	for _, sub := range b.cfg.MQTTSubscribers() {
		if sub.Enabled != nil && !*sub.Enabled {
			continue
		}
		client, err := b.connect(sub)
		if err != nil {
			log.Error().Err(err).Msgf("mqtt bridge: skipping subscriber %s", sub.Broker)
			continue
		}
		b.clients = append(b.clients, client)
	}
	return nil
}

func (b *Bridge) connect(sub config.MQTTSubscriber) (mqtt.Client, error) {
	broker := sub.Broker
	topic := sub.Topic
	if topic == "" {
		// Combined "broker:port/topic" form in the broker field
		var err error
		broker, topic, err = mqttclient.ParsePath(sub.Broker)
		if err != nil {
			return nil, fmt.Errorf("invalid mqtt subscriber path: %w", err)
		}
	}

	opts := mqttclient.NewClientOptions(broker, "fuzzdex-ingest-")
	opts.OnConnect = func(client mqtt.Client) {
		token := client.Subscribe(topic, 1, b.messageHandler(sub.Corpus))
		if token.Wait() && token.Error() != nil {
			log.Error().Err(token.Error()).Msgf("mqtt bridge: failed to subscribe to %s", topic)
			return
		}
		log.Info().Msgf("mqtt bridge: subscribed to %s on %s", topic, broker)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msgf("mqtt bridge: connection lost to %s", broker)
	}

	client := b.clientFactory(opts)
	token := client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		client.Disconnect(0)
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", broker)
	}
	if token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", broker, token.Error())
	}
	return client, nil
}

// messageHandler builds the handler for one subscription. defaultCorpus
// applies when a message does not name its own.
func (b *Bridge) messageHandler(defaultCorpus string) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		payload := msg.Payload()
		if len(payload) == 0 {
			return
		}

		var em entryMessage
		if err := json.Unmarshal(payload, &em); err != nil {
			log.Error().Err(err).Msgf("mqtt bridge: invalid message on %s", msg.Topic())
			return
		}

		if err := b.apply(em, defaultCorpus); err != nil {
			log.Error().Err(err).Msgf("mqtt bridge: failed to apply message on %s", msg.Topic())
		}
	}
}

func (b *Bridge) apply(em entryMessage, defaultCorpus string) error {
	name := em.Corpus
	if name == "" {
		name = defaultCorpus
	}
	slug := slugs.Slugify(name)
	if slug == "" {
		return fmt.Errorf("message has no usable corpus name: %q", name)
	}

	key := strings.TrimSpace(em.Key)
	if key == "" {
		return fmt.Errorf("message has no key")
	}

	if em.Delete {
		if err := b.db.CorpusDB.DeleteEntry(slug, key); err != nil {
			return fmt.Errorf("failed to delete entry %s/%s: %w", slug, key, err)
		}
		log.Debug().Msgf("mqtt bridge: deleted entry %s/%s", slug, key)
	} else {
		if _, err := b.db.CorpusDB.FindOrInsertCorpus(database.Corpus{Name: name, Slug: slug}); err != nil {
			return fmt.Errorf("failed to resolve corpus %s: %w", slug, err)
		}

		value := em.Value
		if value == "" {
			value = key
		}
		entry := database.NewEntry(key, value)
		if err := b.db.CorpusDB.UpsertEntry(slug, &entry); err != nil {
			return fmt.Errorf("failed to upsert entry %s/%s: %w", slug, key, err)
		}
		log.Debug().Msgf("mqtt bridge: upserted entry %s/%s", slug, key)
	}

	count, err := b.db.CorpusDB.CountEntries(slug)
	if err != nil {
		log.Warn().Err(err).Msgf("failed to count entries for %s", slug)
	}
	notifications.CorpusUpdated(b.ns, models.CorpusUpdatedParams{
		Corpus:  slug,
		Entries: int(count),
	})
	return nil
}

// Stop disconnects every broker connection.
func (b *Bridge) Stop() {
	for _, client := range b.clients {
		if client.IsConnected() {
			client.Disconnect(250)
		}
	}
	b.clients = nil
}
