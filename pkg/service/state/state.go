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

package state

import (
	"context"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/models"
	"github.com/FuzzDexProject/fuzzdex-core/pkg/helpers/syncutil"
)

// State holds the runtime state of the FuzzDex service.
//
// LOCKING RULES: mu protects all mutable fields. Never send to the
// Notifications channel while holding the lock: lock, copy what you need,
// unlock, then send.
type State struct {
	ctx           context.Context
	ctxCancelFunc context.CancelFunc
	connectionsFn func() int
	Notifications chan<- models.Notification
	apiAddr       string
	startedAt     time.Time
	mu            syncutil.RWMutex
	stopService   bool
}

// NewState creates the service runtime state and returns the receive side
// of the notification channel for the API server to consume.
func NewState() (state *State, notificationCh <-chan models.Notification) {
	// Buffer of 100 gives headroom for corpus.indexing bursts during a full
	// reingest without dropping corpus.updated or settings.updated events.
	ns := make(chan models.Notification, 100)
	ctx, ctxCancelFunc := context.WithCancel(context.Background())
	return &State{
		Notifications: ns,
		ctx:           ctx,
		ctxCancelFunc: ctxCancelFunc,
		startedAt:     time.Now(),
	}, ns
}

func (s *State) StartedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startedAt
}

// StopService cancels the service context, which stops the API server and
// every worker supervising on it.
func (s *State) StopService() {
	s.mu.Lock()
	s.stopService = true
	s.mu.Unlock()
	s.ctxCancelFunc()
}

func (s *State) ShouldStopService() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopService
}

// SetAPIAddr records the address the API listener actually bound, which
// only differs from config when listening on port 0.
func (s *State) SetAPIAddr(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiAddr = addr
}

// APIAddr returns the bound API listen address, empty before the server
// has started.
func (s *State) APIAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiAddr
}

// SetConnectionCounter installs the API server's live session counter, read
// back by the status method.
func (s *State) SetConnectionCounter(fn func() int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectionsFn = fn
}

// ConnectionCount reports open WebSocket sessions, 0 when no server has
// attached a counter yet.
func (s *State) ConnectionCount() int {
	s.mu.RLock()
	fn := s.connectionsFn
	s.mu.RUnlock()
	if fn == nil {
		return 0
	}
	return fn()
}

func (s *State) GetContext() context.Context {
	return s.ctx
}
