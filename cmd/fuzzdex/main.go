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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/cli"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/service"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/service/daemon"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags()

	daemonMode := flag.Bool(
		"daemon",
		false,
		"run service in foreground with no UI",
	)
	tuiMode := flag.Bool(
		"tui",
		false,
		"show the interactive search UI (default mode)",
	)
	serviceFlag := flag.String(
		"service",
		"",
		"manage the fuzzdex service (start|stop|restart|status)",
	)

	flags.Pre()

	if os.Geteuid() == 0 {
		return errors.New("fuzzdex cannot be run as root")
	}
	if *tuiMode && *daemonMode {
		return errors.New("cannot combine -tui and -daemon")
	}

	var logWriters []io.Writer
	if *daemonMode {
		logWriters = []io.Writer{os.Stderr}
	}

	cfg := cli.Setup(*flags.Config, config.BaseDefaults, logWriters)

	svc, err := daemon.NewService(daemon.ServiceArgs{
		Entry: func() (func() error, <-chan struct{}, error) {
			return service.Start(cfg)
		},
	})
	if err != nil {
		return fmt.Errorf("error creating service: %w", err)
	}
	if err := svc.ServiceHandler(serviceFlag); err != nil {
		return err
	}

	flags.Post(cfg)

	return cli.RunApp(cfg, *daemonMode, *flags.Corpus)
}
