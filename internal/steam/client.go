// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package steam defines the contract between the session keeper and the
// remote connection capability. The keeper is a pure consumer of this
// surface: the real transport lives in an external collaborator, tests
// inject a fake event source.
package steam

import (
	"context"

	"github.com/MKhiriev/go-session-keeper/models"
)

// LogOnOptions carries the credentials for one logon attempt.
//
// Exactly one authentication path is populated: either RefreshToken alone,
// or Password (optionally with GuardCode). Setting both a token and a
// password is invalid and ambiguous.
type LogOnOptions struct {
	AccountName  string
	Password     string
	GuardCode    string
	RefreshToken string
}

// Activity is one entry of the activity set a logged-on session presents.
// AppID selects a concrete application; a zero AppID with a non-empty Name
// is a synthetic non-game activity shown verbatim.
type Activity struct {
	AppID uint32
	Name  string
}

// Event is a message emitted by a [Conn]. The set is closed: the lifecycle
// controller reacts to exactly these six.
type Event interface {
	event()
}

// LoggedOnEvent signals successful authentication.
type LoggedOnEvent struct{}

// LogOnErrorEvent signals a rejected or failed logon. Result is the remote
// service's result name (e.g. "InvalidPassword", "RateLimitExceeded").
type LogOnErrorEvent struct {
	Result string
}

// DisconnectedEvent signals an involuntary loss of an established session.
type DisconnectedEvent struct {
	Code    int
	Message string
}

// RefreshTokenEvent delivers a newly issued long-lived credential. It may
// arrive before or after LoggedOnEvent and does not resolve the attempt.
type RefreshTokenEvent struct {
	Token string
}

// GuardChallengeEvent signals that the remote service wants an out-of-band
// verification code. Submit delivers the collected code back to the
// in-flight handshake.
type GuardChallengeEvent struct {
	Domain string
	Submit func(code string)
}

// PlayingStateEvent reports whether activity is blocked because the account
// is in use through another client, and which application holds it.
type PlayingStateEvent struct {
	Blocked bool
	AppID   uint32
}

func (LoggedOnEvent) event() {}

func (LogOnErrorEvent) event() {}

func (DisconnectedEvent) event() {}

func (RefreshTokenEvent) event() {}

func (GuardChallengeEvent) event() {}

func (PlayingStateEvent) event() {}

// Conn is one live connection to the remote service.
//
// Events returns the connection's event stream; the channel is owned by the
// connection and closed when the connection is torn down. All command
// methods are asynchronous fire-and-forget, mirroring the remote protocol.
type Conn interface {
	LogOn(opts LogOnOptions)
	SetPersonaState(state models.PersonaState)
	SetActivities(list []Activity)
	LogOff()
	Events() <-chan Event
}

// Dialer creates connections. One Dial per logon attempt; a Conn is never
// reused across attempts.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}
