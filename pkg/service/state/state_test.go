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
	"testing"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/api/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	t.Parallel()

	st, ns := NewState()
	defer st.StopService()

	assert.False(t, st.ShouldStopService())
	assert.WithinDuration(t, time.Now(), st.StartedAt(), time.Second)
	require.NotNil(t, st.Notifications)
	require.NotNil(t, ns)

	// The channel pair is connected: a send on the state side arrives on
	// the consumer side.
	notifications.SettingsUpdated(st.Notifications)
	select {
	case notif := <-ns:
		assert.Equal(t, "settings.updated", notif.Method)
	case <-time.After(time.Second):
		t.Fatal("notification did not arrive on consumer side")
	}
}

func TestStopServiceCancelsContext(t *testing.T) {
	t.Parallel()

	st, _ := NewState()

	ctx := st.GetContext()
	select {
	case <-ctx.Done():
		t.Fatal("context cancelled before StopService")
	default:
	}

	st.StopService()

	assert.True(t, st.ShouldStopService())
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled after StopService")
	}
}

func TestConnectionCount(t *testing.T) {
	t.Parallel()

	st, _ := NewState()
	defer st.StopService()

	assert.Equal(t, 0, st.ConnectionCount())

	st.SetConnectionCounter(func() int { return 3 })
	assert.Equal(t, 3, st.ConnectionCount())
}
