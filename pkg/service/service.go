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

// Package service wires together the long-running pieces of the FuzzDex
// daemon: the corpus database, the seed ingester and watcher, the MQTT
// bridge and publishers, mDNS discovery and the API server.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database/corpusdb"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/database/corpusdb/boltmigration"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/helpers"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/ingest"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/service/broker"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/service/discovery"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/service/publishers"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/service/state"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// historySweepInterval is how often the search history table is trimmed
// back to the configured keep count while the service runs.
const historySweepInterval = 1 * time.Hour

func setupEnvironment() error {
	if _, ok := helpers.HasUserDir(); ok {
		log.Info().Msg("using 'user' directory for storage")
	}

	log.Info().Msg("creating data directories")
	if err := helpers.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create data directories: %w", err)
	}

	return nil
}

func makeDatabase(ctx context.Context) (*database.Database, error) {
	db := &database.Database{
		CorpusDB: nil,
	}

	log.Debug().Msg("opening corpus database")
	corpusDB, err := corpusdb.OpenCorpusDB(ctx, helpers.DataDir())
	if err != nil {
		return db, fmt.Errorf("failed to open corpus database: %w", err)
	}

	log.Debug().Msg("running corpus database migrations")
	err = corpusDB.MigrateUp()
	if err != nil {
		return db, fmt.Errorf("error migrating corpusdb: %w", err)
	}

	db.CorpusDB = corpusDB

	// migrate old boltdb corpora if required
	log.Debug().Msg("checking for boltdb migration")
	err = boltmigration.MaybeMigrate(helpers.DataDir(), corpusDB)
	if err != nil {
		log.Error().Err(err).Msg("error migrating old boltdb corpora")
	}

	return db, nil
}

// cleanupHistoryOnStartup trims the search history table once at service
// startup, before the periodic sweep takes over.
func cleanupHistoryOnStartup(cfg *config.Instance, db *database.Database) {
	keep := cfg.SearchHistoryKeep()
	if keep <= 0 {
		log.Debug().Msg("search history trimming disabled (keep set to 0)")
		return
	}

	log.Info().Msgf("trimming search history to %d entries", keep)
	rowsDeleted, cleanupErr := db.CorpusDB.CleanupSearchHistory(keep)
	switch {
	case cleanupErr != nil:
		log.Error().Err(cleanupErr).Msg("error trimming search history")
	case rowsDeleted > 0:
		log.Info().Msgf("deleted %d old search history entries", rowsDeleted)
	default:
		log.Debug().Msg("no old search history entries to trim")
	}
}

// sweepSearchHistory trims the search history table on a fixed cadence so
// it cannot grow without bound between restarts. The keep count is re-read
// on every tick, so settings.update takes effect without a restart.
func sweepSearchHistory(
	ctx context.Context,
	cfg *config.Instance,
	db *database.Database,
	clock clockwork.Clock,
) {
	ticker := clock.NewTicker(historySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			keep := cfg.SearchHistoryKeep()
			if keep <= 0 {
				continue
			}
			rowsDeleted, err := db.CorpusDB.CleanupSearchHistory(keep)
			switch {
			case err != nil:
				log.Error().Err(err).Msg("error trimming search history")
			case rowsDeleted > 0:
				log.Debug().Msgf("trimmed %d search history entries", rowsDeleted)
			}
		}
	}
}

// startPublishers initializes and starts all configured publishers. Each
// publisher consumes its own broker subscription, so one stalled broker
// connection cannot hold back the others or the API broadcaster.
func startPublishers(
	cfg *config.Instance,
	notifBroker *broker.Broker,
) []*publishers.MQTTPublisher {
	activePublishers := make([]*publishers.MQTTPublisher, 0)

	for _, mqttCfg := range cfg.GetMQTTPublishers() {
		// Skip if explicitly disabled (nil = enabled by default)
		if mqttCfg.Enabled != nil && !*mqttCfg.Enabled {
			continue
		}
		if mqttCfg.Broker == "" || mqttCfg.Topic == "" {
			log.Warn().Msg("skipping MQTT publisher with empty broker or topic")
			continue
		}

		log.Info().Msgf("starting MQTT publisher: %s (topic: %s)", mqttCfg.Broker, mqttCfg.Topic)

		publisher := publishers.NewMQTTPublisher(mqttCfg.Broker, mqttCfg.Topic, mqttCfg.Filter)
		notifCh, subID := notifBroker.Subscribe(100)
		if err := publisher.Start(notifCh); err != nil {
			log.Error().Err(err).Msgf("failed to start MQTT publisher for %s", mqttCfg.Broker)
			notifBroker.Unsubscribe(subID)
			continue
		}

		activePublishers = append(activePublishers, publisher)
	}

	if len(activePublishers) > 0 {
		log.Info().Msgf("started %d MQTT publisher(s)", len(activePublishers))
	}

	return activePublishers
}

// Start brings up the full FuzzDex service and returns a stop function
// that shuts it down cleanly, plus a done channel that closes once
// shutdown has finished.
func Start(cfg *config.Instance) (stop func() error, done <-chan struct{}, err error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	st, ns := state.NewState() // global state, notification queue (source)

	// Fan notifications out to the API broadcaster and any publishers.
	notifBroker := broker.NewBroker(st.GetContext(), ns)
	notifBroker.Start()

	err = setupEnvironment()
	if err != nil {
		log.Error().Err(err).Msg("error setting up environment")
		return nil, nil, err
	}

	log.Info().Msg("opening corpus database")
	db, err := makeDatabase(st.GetContext())
	if err != nil {
		log.Error().Err(err).Msgf("error opening corpus database")
		return nil, nil, err
	}

	cleanupHistoryOnStartup(cfg, db)
	go sweepSearchHistory(st.GetContext(), cfg, db, clockwork.NewRealClock())

	ingester := ingest.NewIngester(cfg, db, st.Notifications, nil, nil)

	// The initial ingest can take a while on large seed sets, so it runs
	// in the background and the API comes up immediately.
	log.Info().Msg("ingesting seed directories")
	go func() {
		loaded, ingestErr := ingester.IngestAll()
		if ingestErr != nil {
			log.Error().Err(ingestErr).Msg("error ingesting seed directories")
			return
		}
		log.Info().Msgf("startup ingest loaded %d corpora", loaded)
	}()

	var watcher *ingest.Watcher
	if cfg.WatchEnabled() {
		log.Info().Msg("starting seed directory watcher")
		watcher = ingest.NewWatcher(ingester)
		if watchErr := watcher.Start(); watchErr != nil {
			log.Error().Err(watchErr).Msg("seed watcher failed to start (continuing without watch)")
			watcher = nil
		}
	}

	var bridge *ingest.Bridge
	if len(cfg.MQTTSubscribers()) > 0 {
		log.Info().Msg("starting MQTT ingest bridge")
		bridge = ingest.NewBridge(cfg, db, st.Notifications)
		if bridgeErr := bridge.Start(); bridgeErr != nil {
			log.Error().Err(bridgeErr).Msg("MQTT ingest bridge failed to start (continuing without bridge)")
			bridge = nil
		}
	}

	log.Info().Msg("starting mDNS discovery service")
	discoveryService := discovery.New(cfg)
	if discoveryErr := discoveryService.Start(); discoveryErr != nil {
		log.Error().Err(discoveryErr).Msg("mDNS discovery failed to start (continuing without discovery)")
	}

	log.Info().Msg("starting API service")
	apiNotifications, _ := notifBroker.Subscribe(100)
	apiStop, err := api.Start(cfg, st, db, ingester, apiNotifications)
	if err != nil {
		log.Error().Err(err).Msg("error starting API service")
		return nil, nil, err
	}

	log.Info().Msg("starting publishers")
	activePublishers := startPublishers(cfg, notifBroker)

	log.Info().Msg("service fully initialized")

	doneCh := make(chan struct{})
	go func() {
		<-st.GetContext().Done()
		log.Info().Msg("service context cancelled, running cleanup")

		discoveryService.Stop()
		if watcher != nil {
			watcher.Stop()
		}
		if bridge != nil {
			bridge.Stop()
		}
		for _, publisher := range activePublishers {
			publisher.Stop()
		}
		if apiErr := apiStop(); apiErr != nil {
			log.Warn().Msgf("error stopping API service: %s", apiErr)
		}
		notifBroker.Stop()

		if closeErr := db.CorpusDB.Close(); closeErr != nil {
			log.Warn().Msgf("error closing corpus database: %s", closeErr)
		}

		log.Info().Msg("service cleanup completed")
		close(doneCh)
	}()

	stop = func() error {
		st.StopService()
		<-doneCh
		return nil
	}
	done = doneCh
	return stop, done, nil
}
