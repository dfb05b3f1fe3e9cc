// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-session-keeper/internal/logger"
	"github.com/MKhiriev/go-session-keeper/internal/metrics"
	"github.com/MKhiriev/go-session-keeper/internal/vault"
	"github.com/MKhiriev/go-session-keeper/models"
)

// pendingReconnect associates an account with its armed retry timer. The
// account snapshot travels with the timer so the retry never re-queries
// storage.
type pendingReconnect struct {
	account models.Account
	timer   *time.Timer
}

// Scheduler arms per-account deferred-retry timers for unattended
// reconnection. At most one pending reconnect exists per account name;
// Schedule is idempotent and Cancel may be called at any time.
//
// The delay is deliberately long (design default one hour): an involuntary
// disconnect usually means a human just started using the account
// interactively, and the keeper must not fight them for it.
type Scheduler struct {
	mu      sync.Mutex
	pending map[string]*pendingReconnect

	delay   time.Duration
	vault   vault.Vault
	logger  *logger.Logger
	metrics *metrics.Metrics

	// onFire receives the account snapshot when its timer expires, after
	// the pending record has been cleared. Runs on the timer goroutine.
	onFire func(account models.Account)
}

// NewScheduler constructs a Scheduler firing into onFire after delay.
func NewScheduler(delay time.Duration, vlt vault.Vault, mtr *metrics.Metrics, log *logger.Logger, onFire func(models.Account)) *Scheduler {
	return &Scheduler{
		pending: make(map[string]*pendingReconnect),
		delay:   delay,
		vault:   vlt,
		logger:  log,
		metrics: mtr,
		onFire:  onFire,
	}
}

// Schedule arms an unattended reconnect for the account. Returns true if a
// timer was armed, false if one was already pending or the account is not
// eligible for unattended reconnection.
//
// Eligibility: a saved token, a shared secret, or Guard disabled entirely.
// Anything else needs a human for the next logon, so no timer is created
// and the operator must restart manually.
func (s *Scheduler) Schedule(account models.Account) bool {
	name := account.Name

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pending[name]; exists {
		// Idempotent: a second disconnect notice must not create a second
		// timer.
		return false
	}

	if !s.eligible(account) {
		s.logger.Warn().Str("account", name).Msg("not eligible for unattended reconnect, manual restart required")
		return false
	}

	s.pending[name] = &pendingReconnect{
		account: account,
		timer:   time.AfterFunc(s.delay, func() { s.fire(name) }),
	}
	s.metrics.ReconnectsPending.Inc()
	s.logger.Info().Str("account", name).Dur("delay", s.delay).Msg("reconnect scheduled")

	return true
}

// Cancel clears the account's timer and pending record. Idempotent; called
// before every fresh connect attempt and before account deletion.
func (s *Scheduler) Cancel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[name]
	if !ok {
		return
	}

	p.timer.Stop()
	delete(s.pending, name)
	s.metrics.ReconnectsPending.Dec()
}

// Pending lists account names with an armed reconnect timer.
func (s *Scheduler) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.pending))
	for name := range s.pending {
		names = append(names, name)
	}
	return names
}

// fire runs on the timer goroutine. It clears the pending record first so a
// re-schedule from the retry attempt itself starts from a clean slate.
func (s *Scheduler) fire(name string) {
	s.mu.Lock()
	p, ok := s.pending[name]
	if ok {
		delete(s.pending, name)
	}
	s.mu.Unlock()

	if !ok {
		// Cancelled between expiry and execution.
		return
	}

	s.metrics.ReconnectsPending.Dec()
	s.onFire(p.account)
}

func (s *Scheduler) eligible(account models.Account) bool {
	return s.vault.HasToken(account.Name) || account.Unattended()
}
