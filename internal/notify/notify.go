// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package notify defines the bridge between the session manager and the
// account owner: fire-and-forget status notices and the interactive
// verification-code channel.
package notify

import (
	"context"

	"github.com/MKhiriev/go-session-keeper/internal/logger"
	"github.com/MKhiriev/go-session-keeper/models"
)

// Notifier delivers status notices to an owning principal. Delivery is
// best-effort: implementations must swallow their own failures, the manager
// never checks one.
type Notifier interface {
	Notify(ownerID int64, text string)
}

// Verifier collects an out-of-band verification code for an account. It is
// supplied per connect call; unattended attempts pass nil.
//
// RequestCode blocks until a code is available, the verifier's own timeout
// expires, or ctx is cancelled. ok=false means no code was provided.
type Verifier interface {
	RequestCode(ctx context.Context, account string, mode models.GuardMode) (code string, ok bool)
}

// VerifierFunc adapts a plain function to the [Verifier] interface.
type VerifierFunc func(ctx context.Context, account string, mode models.GuardMode) (string, bool)

func (f VerifierFunc) RequestCode(ctx context.Context, account string, mode models.GuardMode) (string, bool) {
	return f(ctx, account, mode)
}

// logNotifier is the fallback [Notifier] used when no front end is wired:
// notices land in the log instead of a chat.
type logNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier constructs a [Notifier] that writes every notice to log.
func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{logger: log}
}

func (n *logNotifier) Notify(ownerID int64, text string) {
	n.logger.Info().Int64("owner", ownerID).Msg(text)
}
