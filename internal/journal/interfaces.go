// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package journal records session lifecycle transitions in a local sqlite
// database. Writes are best-effort from the manager's point of view: a
// journaling failure is logged and never fails the session operation that
// triggered it.
package journal

import (
	"context"

	"github.com/MKhiriev/go-session-keeper/models"
)

// Journal is the session-event log consumed by the manager and read by the
// admin API.
type Journal interface {
	// Record appends one lifecycle event for the account.
	Record(ctx context.Context, account, event, detail string) error

	// RecentEvents returns up to limit most recent events for the account,
	// newest first.
	RecentEvents(ctx context.Context, account string, limit uint64) ([]models.SessionEvent, error)

	// Close releases the underlying database handle.
	Close() error
}

// Event names written by the session manager.
const (
	EventConnected          = "connected"
	EventConnectFailed      = "connect_failed"
	EventDisconnected       = "disconnected"
	EventReconnectScheduled = "reconnect_scheduled"
	EventReconnectSkipped   = "reconnect_skipped"
	EventTokenSaved         = "token_saved"
	EventTokenRejected      = "token_rejected"
	EventGuardFailed        = "guard_failed"
	EventActivityBlocked    = "activity_blocked"
	EventActivityResumed    = "activity_resumed"
	EventLoggedOff          = "logged_off"
)
