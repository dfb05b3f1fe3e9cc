// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectTimeout is returned when a logon attempt does not resolve
	// within the configured bound. Deliberately not auto-retried: an
	// account that never answers would otherwise loop unattended forever.
	ErrConnectTimeout = errors.New("logon attempt timed out")

	// ErrGuardUnavailable is returned when the remote service requests a
	// verification code but the connect call supplied no verifier.
	ErrGuardUnavailable = errors.New("verification required but unavailable")

	// ErrGuardNotProvided is returned when the verifier yielded no code
	// before its timeout or was cancelled.
	ErrGuardNotProvided = errors.New("verification code not provided")

	// ErrConnectionClosed is returned when the event stream ends before the
	// logon attempt resolves.
	ErrConnectionClosed = errors.New("connection closed during logon")

	// ErrUnknownAccount is returned for operations addressing an account
	// the manager does not hold.
	ErrUnknownAccount = errors.New("unknown account")
)

// Class buckets a connect failure for retry policy and reporting.
type Class string

const (
	// ClassTransient covers conditions expected to clear on their own:
	// rate limits, the session being replaced, the account being in use
	// elsewhere. Transient failures are auto-retried by the scheduler.
	ClassTransient Class = "transient"

	// ClassCredential covers rejected passwords and invalid or expired
	// tokens. The stored token is deleted and no retry is scheduled.
	ClassCredential Class = "credential"

	// ClassGuard covers missing or unprovided verification codes. Requires
	// human attention; no retry is scheduled.
	ClassGuard Class = "guard"

	// ClassTimeout covers handshake timeouts. No retry is scheduled.
	ClassTimeout Class = "timeout"

	// ClassUnknown covers everything else. No retry is scheduled.
	ClassUnknown Class = "unknown"
)

// transientResults are remote result names that indicate the account is
// temporarily unavailable rather than misconfigured.
var transientResults = map[string]struct{}{
	"RateLimitExceeded":        {},
	"LoggedInElsewhere":        {},
	"AlreadyLoggedInElsewhere": {},
	"LogonSessionReplaced":     {},
	"TryAnotherCM":             {},
	"ServiceUnavailable":       {},
}

// credentialResults are remote result names that indicate the stored
// credential is no longer usable.
var credentialResults = map[string]struct{}{
	"InvalidPassword":  {},
	"AccessDenied":     {},
	"Expired":          {},
	"Revoked":          {},
	"InvalidSignature": {},
}

// ClassifyResult maps a remote result name onto a failure [Class].
func ClassifyResult(result string) Class {
	if _, ok := transientResults[result]; ok {
		return ClassTransient
	}
	if _, ok := credentialResults[result]; ok {
		return ClassCredential
	}
	return ClassUnknown
}

// LogonError is a classified logon rejection from the remote service.
type LogonError struct {
	Result string
	Class  Class
}

func (e *LogonError) Error() string {
	return fmt.Sprintf("logon failed: %s (%s)", e.Result, e.Class)
}

// ClassOf buckets any error returned by [Manager.Connect].
func ClassOf(err error) Class {
	var logonErr *LogonError
	if errors.As(err, &logonErr) {
		return logonErr.Class
	}

	switch {
	case errors.Is(err, ErrConnectTimeout):
		return ClassTimeout
	case errors.Is(err, ErrGuardUnavailable), errors.Is(err, ErrGuardNotProvided):
		return ClassGuard
	default:
		return ClassUnknown
	}
}
