//go:build linux || darwin

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

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/client"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/service"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/service/daemon"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/ui/tui"
	"github.com/rs/zerolog/log"
)

// RunApp runs the main application in either daemon or TUI mode. It
// handles signal handling, service lifecycle, and graceful shutdown. In
// TUI mode a daemon subprocess is spawned first unless a service is
// already listening.
func RunApp(cfg *config.Instance, daemonMode bool, corpus string) (returnErr error) {
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %v\n", r)
			log.Error().Msgf("panic recovered: %v", r)
			returnErr = fmt.Errorf("panic: %v", r)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	exit := make(chan bool, 1)
	var svcDone <-chan struct{}

	switch {
	case daemonMode:
		if client.IsServiceRunning(cfg) {
			log.Info().
				Int("port", cfg.APIPort()).
				Msg("service already running, exiting")
			return nil
		}

		log.Info().Msg("starting service in daemon mode")
		stopSvc, done, err := service.Start(cfg)
		if err != nil {
			log.Error().Msgf("error starting service: %s", err)
			return fmt.Errorf("error starting service: %w", err)
		}
		svcDone = done
		defer func() {
			if err := stopSvc(); err != nil {
				log.Error().Msgf("error stopping service: %s", err)
			}
		}()
		log.Info().Msg("started in daemon mode")

	default:
		stopDaemon, err := daemon.SpawnDaemon(cfg)
		if err != nil {
			return fmt.Errorf("error spawning daemon: %w", err)
		}
		defer stopDaemon()

		if err := tui.Run(cfg, corpus); err != nil {
			log.Error().Err(err).Msg("error running UI")
			return fmt.Errorf("error running UI: %w", err)
		}

		exit <- true
	}

	select {
	case <-sigs:
	case <-exit:
	case <-svcDone:
		log.Info().Msg("service shut down internally")
	}

	return nil
}
