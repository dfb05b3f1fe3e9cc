// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// GuardMode describes how a Steam account expects its second factor to be
// supplied during logon.
type GuardMode string

const (
	// GuardNone means the account has Steam Guard disabled; a password alone
	// is sufficient and the account is always eligible for unattended
	// reconnection.
	GuardNone GuardMode = "none"

	// GuardMobile means codes are delivered to the owner's mobile
	// authenticator and must be collected interactively.
	GuardMobile GuardMode = "mobile"

	// GuardEmail means codes are delivered to the owner's email address and
	// must be collected interactively.
	GuardEmail GuardMode = "email"

	// GuardSecret means the account carries a shared secret from which codes
	// are computed locally, enabling fully unattended logons.
	GuardSecret GuardMode = "secret"
)

// PersonaState is the presence state a session advertises once logged on.
// Values mirror the remote service's persona enumeration.
type PersonaState int

const (
	PersonaOffline PersonaState = iota
	PersonaOnline
	PersonaBusy
	PersonaAway
	PersonaSnooze
	PersonaLookingToTrade
	PersonaLookingToPlay
	PersonaInvisible
)

// ActivitySelector describes one thing a session presents itself as doing.
// Exactly one of AppID and Label is meaningful: AppID selects a concrete
// application by its numeric identifier, Label is an opaque display string
// shown as a non-game activity.
type ActivitySelector struct {
	// AppID is the numeric application identifier. Zero when Label is set.
	AppID uint32 `json:"app_id,omitempty"`

	// Label is a free-form display string. Empty when AppID is set. At most
	// one label per account is honored; the first one wins.
	Label string `json:"label,omitempty"`
}

// IsLabel reports whether the selector is a display label rather than a
// numeric application identifier.
func (s ActivitySelector) IsLabel() bool {
	return s.Label != ""
}

// Account is one managed remote-service account.
//
// Records are created by the front end, persisted as an encrypted collection
// by the vault, and snapshotted into pending reconnects so a retry never has
// to re-query storage.
type Account struct {
	// Name is the unique, user-chosen account handle. It keys the registry,
	// the scheduler, and the vault.
	Name string `json:"name"`

	// Password is the account's logon credential. Used only when no saved
	// token is available. Never written to disk outside the vault envelope.
	Password string `json:"password"`

	// SharedSecret is the optional Steam Guard shared secret. When present,
	// time-based codes are computed locally and logons are fully unattended.
	SharedSecret string `json:"shared_secret,omitempty"`

	// GuardMode describes the account's second-factor delivery channel.
	GuardMode GuardMode `json:"guard_mode"`

	// Activities is the ordered list of activity selectors submitted once the
	// session is logged on.
	Activities []ActivitySelector `json:"activities,omitempty"`

	// Persona is the presence state requested after logon.
	Persona PersonaState `json:"persona"`

	// OwnerID identifies the principal that receives notifications about
	// this account (disconnects, scheduled reconnects, failures).
	OwnerID int64 `json:"owner_id"`
}

// Unattended reports whether the account can log on without a human in the
// loop, assuming no saved token: either Guard is off entirely or a shared
// secret allows local code generation.
func (a Account) Unattended() bool {
	return a.GuardMode == GuardNone || a.SharedSecret != ""
}
