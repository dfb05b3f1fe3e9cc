// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault persists per-account secret material — refresh tokens and
// the managed account collection — encrypted at rest with a key derived
// from the process-wide passphrase.
//
// The vault is deliberately fail-safe: while no passphrase is configured
// every write is a silent no-op and every read reports absent; a record
// that cannot be decrypted or parsed is deleted and reported absent, never
// surfaced as an error.
package vault

import "github.com/MKhiriev/go-session-keeper/models"

// Vault is the encrypted credential store consumed by the session manager.
type Vault interface {
	// SaveToken persists the account's long-lived credential, overwriting
	// any previous one. No-op without a passphrase.
	SaveToken(name string, token string) error

	// LoadToken returns the account's saved credential, or ok=false when no
	// usable record exists. A corrupted record is deleted on the way out.
	LoadToken(name string) (token string, ok bool)

	// HasToken reports whether a usable credential is stored for name.
	HasToken(name string) bool

	// DeleteToken removes the account's credential. Idempotent.
	DeleteToken(name string)

	// SaveAccounts persists the full managed account collection.
	SaveAccounts(accounts []models.Account) error

	// LoadAccounts returns the persisted collection, or ok=false when none
	// exists or the record is unusable.
	LoadAccounts() (accounts []models.Account, ok bool)
}
