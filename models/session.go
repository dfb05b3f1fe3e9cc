// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SessionInfo is the read-only view of one live session exposed by the
// admin API.
type SessionInfo struct {
	// HandleID is the process-local ULID assigned to the live connection.
	HandleID string `json:"handle_id"`

	// Account is the account handle the session belongs to.
	Account string `json:"account"`

	// ConnectedAt is when the session reached the active state.
	ConnectedAt time.Time `json:"connected_at"`

	// Blocked reports whether activity is currently suppressed because the
	// owner is using the account through another client.
	Blocked bool `json:"blocked"`
}

// SessionEvent is one journaled lifecycle transition for an account.
type SessionEvent struct {
	ID        int64     `json:"id"`
	Account   string    `json:"account"`
	Event     string    `json:"event"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
