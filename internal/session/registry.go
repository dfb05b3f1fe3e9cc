// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"
	"time"

	"github.com/MKhiriev/go-session-keeper/internal/steam"
	"github.com/MKhiriev/go-session-keeper/models"
)

// Handle is the owning reference to one live connection. At most one exists
// per account name at any time; the registry enforces nothing itself — the
// manager's connect path tears down the previous handle before a new one is
// inserted.
type Handle struct {
	// ID is the process-local ULID assigned to this connection.
	ID string

	// Account is the snapshot the session was started from.
	Account models.Account

	// Conn is the live remote connection.
	Conn steam.Conn

	// ConnectedAt is when the session reached the active state.
	ConnectedAt time.Time

	// Blocked reports whether activity is suppressed because the owner is
	// using the account through another client. Mutated by the event pump
	// under the manager's lock.
	Blocked bool

	// cancel stops the handle's event pump. Calling it is how observers are
	// "detached": the pump exits and no further events reach the manager.
	cancel context.CancelFunc
}

// registry is the in-memory map from account name to live handle. Pure
// associative store, no I/O, no lock of its own: all mutation happens under
// the manager's mutex (single-writer discipline).
type registry struct {
	handles map[string]*Handle
}

func newRegistry() *registry {
	return &registry{handles: make(map[string]*Handle)}
}

func (r *registry) insert(name string, h *Handle) {
	r.handles[name] = h
}

func (r *registry) remove(name string) {
	delete(r.handles, name)
}

func (r *registry) get(name string) (*Handle, bool) {
	h, ok := r.handles[name]
	return h, ok
}

func (r *registry) listActive() []string {
	names := make([]string, 0, len(r.handles))
	for name := range r.handles {
		names = append(names, name)
	}
	return names
}
