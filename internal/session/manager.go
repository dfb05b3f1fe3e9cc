// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/MKhiriev/go-session-keeper/internal/config"
	"github.com/MKhiriev/go-session-keeper/internal/guard"
	"github.com/MKhiriev/go-session-keeper/internal/journal"
	"github.com/MKhiriev/go-session-keeper/internal/logger"
	"github.com/MKhiriev/go-session-keeper/internal/metadata"
	"github.com/MKhiriev/go-session-keeper/internal/metrics"
	"github.com/MKhiriev/go-session-keeper/internal/notify"
	"github.com/MKhiriev/go-session-keeper/internal/steam"
	"github.com/MKhiriev/go-session-keeper/internal/utils"
	"github.com/MKhiriev/go-session-keeper/internal/validators"
	"github.com/MKhiriev/go-session-keeper/internal/vault"
	"github.com/MKhiriev/go-session-keeper/models"
)

// Manager drives the lifecycle of every managed account session: logon,
// interactive verification, steady-state activity, teardown, and unattended
// reconnection.
//
// One mutex guards all in-memory state (registry, account book); connect
// flows run on the caller's goroutine and suspend cooperatively — waiting
// for the handshake, a verification code, or the timeout race — without
// holding the lock, so concurrent connects for different accounts never
// block each other. Per-account serialization comes from tearing down any
// previous handle before a new attempt starts.
type Manager struct {
	mu       sync.Mutex
	registry *registry
	accounts map[string]models.Account

	scheduler *Scheduler
	vault     vault.Vault
	dialer    steam.Dialer
	notifier  notify.Notifier
	resolver  metadata.Resolver
	journal   journal.Journal
	validator validators.Validator
	metrics   *metrics.Metrics
	logger    *logger.Logger
	cfg       config.Session
}

// NewManager wires a Manager from its collaborators. Passing journal.Nop()
// disables event journaling; metrics built with a nil registerer disable
// exposition.
func NewManager(
	cfg config.Session,
	vlt vault.Vault,
	dialer steam.Dialer,
	notifier notify.Notifier,
	resolver metadata.Resolver,
	jrn journal.Journal,
	mtr *metrics.Metrics,
	log *logger.Logger,
) *Manager {
	m := &Manager{
		registry:  newRegistry(),
		accounts:  make(map[string]models.Account),
		vault:     vlt,
		dialer:    dialer,
		notifier:  notifier,
		resolver:  resolver,
		journal:   jrn,
		validator: validators.NewAccountValidator(),
		metrics:   mtr,
		logger:    log,
		cfg:       cfg,
	}
	m.scheduler = NewScheduler(cfg.ReconnectDelay, vlt, mtr, log, m.reconnectFired)

	return m
}

// Connect establishes a session for the account. verifier supplies
// out-of-band verification codes when the remote service asks for one; nil
// means the attempt is unattended and any verification request fails it.
//
// A fresh attempt supersedes a scheduled one, and at most one live handle
// exists per account: any previous handle is torn down before the new logon
// starts. A nil return means the session is active and registered.
func (m *Manager) Connect(ctx context.Context, account models.Account, verifier notify.Verifier) error {
	name := account.Name
	log := m.logger.WithAccount(name)

	if err := m.validator.Validate(account); err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}

	m.scheduler.Cancel(name)
	m.teardown(name)

	opts := m.buildLogOnOptions(account, log)

	conn, err := m.dialer.Dial(ctx)
	if err != nil {
		m.finishAttempt(ctx, name, string(ClassUnknown), err.Error())
		return fmt.Errorf("dial: %w", err)
	}

	conn.LogOn(opts)
	log.Info().Bool("token", opts.RefreshToken != "").Msg("logon initiated")

	return m.awaitLogon(ctx, account, conn, opts, verifier, log)
}

// awaitLogon consumes connection events until the attempt resolves. The
// bounded wait restarts after a verification code is submitted; the
// verification wait itself has an independent budget.
func (m *Manager) awaitLogon(ctx context.Context, account models.Account, conn steam.Conn, opts steam.LogOnOptions, verifier notify.Verifier, log *logger.Logger) error {
	name := account.Name
	timeout := time.NewTimer(m.cfg.ConnectTimeout)
	defer timeout.Stop()

	events := conn.Events()

	for {
		select {
		case <-ctx.Done():
			conn.LogOff()
			m.finishAttempt(ctx, name, string(ClassUnknown), "attempt cancelled")
			return ctx.Err()

		case <-timeout.C:
			// Abandon the attempt: log off detaches us from the handshake,
			// nothing else observes this connection afterwards.
			conn.LogOff()
			m.finishAttempt(ctx, name, string(ClassTimeout), "handshake exceeded bound")
			return fmt.Errorf("%s: %w", name, ErrConnectTimeout)

		case ev, ok := <-events:
			if !ok {
				m.finishAttempt(ctx, name, string(ClassUnknown), "event stream closed")
				return fmt.Errorf("%s: %w", name, ErrConnectionClosed)
			}

			switch e := ev.(type) {
			case steam.RefreshTokenEvent:
				// Does not resolve the attempt; the session may still be
				// pending other events.
				m.saveToken(ctx, name, e.Token, log)

			case steam.GuardChallengeEvent:
				if verifier == nil {
					conn.LogOff()
					m.record(ctx, name, journal.EventGuardFailed, "no verifier supplied")
					m.finishAttempt(ctx, name, string(ClassGuard), "")
					return fmt.Errorf("%s: %w", name, ErrGuardUnavailable)
				}

				// The verification wait has its own budget, independent of
				// the connect timeout; pause the latter while a human digs
				// out a code. Drain the channel if the timer already fired,
				// or the stale value would outlive Reset and resolve the
				// attempt as a timeout on the next iteration.
				if !timeout.Stop() {
					select {
					case <-timeout.C:
					default:
					}
				}
				code, provided := m.requestCode(ctx, name, account.GuardMode, verifier)
				if !provided {
					conn.LogOff()
					m.record(ctx, name, journal.EventGuardFailed, "code not provided")
					m.finishAttempt(ctx, name, string(ClassGuard), "")
					return fmt.Errorf("%s: %w", name, ErrGuardNotProvided)
				}
				e.Submit(code)
				timeout.Reset(m.cfg.ConnectTimeout)

			case steam.LoggedOnEvent:
				m.activate(ctx, account, conn, log)
				m.metrics.ConnectAttempts.WithLabelValues("success").Inc()
				return nil

			case steam.LogOnErrorEvent:
				return m.failLogon(ctx, account, conn, opts, e.Result, log)

			case steam.DisconnectedEvent:
				// Lost the wire before the handshake resolved; the code's
				// message names the reason when the service sent one.
				return m.failLogon(ctx, account, conn, opts, e.Message, log)

			case steam.PlayingStateEvent:
				// Pre-logon playing state carries nothing actionable.
			}
		}
	}
}

// failLogon applies the error taxonomy to a rejected attempt: a credential
// class deletes the stored token so the next attempt falls back to the
// password; a transient class schedules an unattended retry and tells the
// owner.
func (m *Manager) failLogon(ctx context.Context, account models.Account, conn steam.Conn, opts steam.LogOnOptions, result string, log *logger.Logger) error {
	name := account.Name
	class := ClassifyResult(result)

	conn.LogOff()
	m.mu.Lock()
	m.registry.remove(name)
	m.mu.Unlock()

	switch class {
	case ClassCredential:
		if opts.RefreshToken != "" {
			m.vault.DeleteToken(name)
			m.record(ctx, name, journal.EventTokenRejected, result)
			log.Warn().Str("result", result).Msg("stored token rejected and removed")
		}
	case ClassTransient:
		scheduled := m.scheduler.Schedule(account)
		if scheduled {
			m.record(ctx, name, journal.EventReconnectScheduled, result)
		}

		text := fmt.Sprintf("%s: logon deferred (%s)", name, result)
		if scheduled {
			text += ", will retry automatically"
		} else {
			// Ineligible for unattended reconnection; promising a retry here
			// would leave the operator waiting for one that never comes.
			text += ", manual restart required"
		}
		m.notifier.Notify(account.OwnerID, text)
	}

	m.finishAttempt(ctx, name, string(class), result)
	log.Warn().Str("result", result).Str("class", string(class)).Msg("logon failed")

	return &LogonError{Result: result, Class: class}
}

// activate registers the handle, applies the requested presence state,
// submits the configured activities, and starts the steady-state event
// pump.
func (m *Manager) activate(ctx context.Context, account models.Account, conn steam.Conn, log *logger.Logger) {
	name := account.Name
	pumpCtx, cancel := context.WithCancel(context.Background())

	h := &Handle{
		ID:          ulid.Make().String(),
		Account:     account,
		Conn:        conn,
		ConnectedAt: time.Now(),
		cancel:      cancel,
	}

	m.mu.Lock()
	if prev, ok := m.registry.get(name); ok {
		// A concurrent connect won the race; its handle dies, ours stays.
		prev.cancel()
		prev.Conn.LogOff()
	}
	m.registry.insert(name, h)
	m.mu.Unlock()

	conn.SetPersonaState(account.Persona)
	m.submitActivities(ctx, h)

	m.metrics.SessionsActive.Inc()
	m.record(ctx, name, journal.EventConnected, h.ID)
	log.Info().Str("handle", h.ID).Msg("session active")

	go m.pump(pumpCtx, h)
}

// pump consumes events from an active session until the handle is torn
// down or the connection ends.
func (m *Manager) pump(ctx context.Context, h *Handle) {
	name := h.Account.Name
	log := m.logger.WithAccount(name)
	events := h.Conn.Events()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				m.sessionLost(name, h, "connection closed")
				return
			}

			switch e := ev.(type) {
			case steam.DisconnectedEvent:
				m.sessionLost(name, h, e.Message)
				return

			case steam.LogOnErrorEvent:
				// Post-logon errors (e.g. LoggedInElsewhere) end the
				// session the same way a disconnect does.
				m.sessionLost(name, h, e.Result)
				return

			case steam.RefreshTokenEvent:
				m.saveToken(ctx, name, e.Token, log)

			case steam.PlayingStateEvent:
				m.playingState(ctx, h, e, log)
			}
		}
	}
}

// sessionLost handles an involuntary disconnect of an active session: the
// handle leaves the registry, the owner is told, and an unattended
// reconnect is scheduled. This is the normal path for "owner started
// playing elsewhere."
func (m *Manager) sessionLost(name string, h *Handle, reason string) {
	m.mu.Lock()
	current, ok := m.registry.get(name)
	if !ok || current != h {
		// A newer handle owns the account; this pump is stale.
		m.mu.Unlock()
		return
	}
	m.registry.remove(name)
	m.mu.Unlock()

	h.cancel()
	m.metrics.SessionsActive.Dec()

	ctx := context.Background()
	m.record(ctx, name, journal.EventDisconnected, reason)
	m.logger.WithAccount(name).Info().Str("reason", reason).Msg("session lost")

	scheduled := m.scheduler.Schedule(h.Account)
	if scheduled {
		m.record(ctx, name, journal.EventReconnectScheduled, reason)
	}

	text := fmt.Sprintf("%s: session lost (%s)", name, reason)
	if scheduled {
		text += ", unattended reconnect scheduled"
	}
	m.notifier.Notify(h.Account.OwnerID, text)
}

// playingState reacts to "activity blocked" notices. While the owner uses
// the account through another client the session stays connected but idle;
// the unblock notice resubmits the activity set.
func (m *Manager) playingState(ctx context.Context, h *Handle, e steam.PlayingStateEvent, log *logger.Logger) {
	name := h.Account.Name

	m.mu.Lock()
	changed := h.Blocked != e.Blocked
	h.Blocked = e.Blocked
	m.mu.Unlock()

	if !changed {
		return
	}

	if e.Blocked {
		m.record(ctx, name, journal.EventActivityBlocked, "")
		log.Info().Uint32("app_id", e.AppID).Msg("activity blocked by another client, idling")
		return
	}

	m.record(ctx, name, journal.EventActivityResumed, "")
	log.Info().Msg("activity unblocked, resubmitting")
	m.submitActivities(ctx, h)
}

// reconnectFired is the scheduler's timer callback. A manual restart in the
// meantime wins: if the account is already connected the retry is skipped
// silently. The unattended attempt passes no verifier; a transient failure
// re-schedules from within Connect's own error path.
func (m *Manager) reconnectFired(account models.Account) {
	name := account.Name

	m.mu.Lock()
	_, connected := m.registry.get(name)
	m.mu.Unlock()

	ctx := context.Background()
	if connected {
		m.record(ctx, name, journal.EventReconnectSkipped, "already connected")
		return
	}

	if err := m.Connect(ctx, account, nil); err != nil {
		m.logger.WithAccount(name).Warn().Err(err).Msg("unattended reconnect failed")
	}
}

// Disconnect cancels any pending reconnect and tears down the live handle.
// Returns whether a live session existed. Idempotent.
func (m *Manager) Disconnect(name string) bool {
	m.scheduler.Cancel(name)
	wasActive := m.teardown(name)
	if wasActive {
		m.record(context.Background(), name, journal.EventLoggedOff, "")
	}
	return wasActive
}

// DeleteAccount removes the account entirely: live session, pending
// reconnect, stored token, and its entry in the persisted collection.
func (m *Manager) DeleteAccount(name string) error {
	m.Disconnect(name)
	m.vault.DeleteToken(name)

	m.mu.Lock()
	if _, ok := m.accounts[name]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%s: %w", name, ErrUnknownAccount)
	}
	delete(m.accounts, name)
	remaining := m.accountList()
	m.mu.Unlock()

	return m.vault.SaveAccounts(remaining)
}

// UpsertAccount stores or replaces an account record and persists the
// collection. A live session keeps running on its old snapshot until the
// next connect.
func (m *Manager) UpsertAccount(account models.Account) error {
	if err := m.validator.Validate(account); err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}

	m.mu.Lock()
	m.accounts[account.Name] = account
	all := m.accountList()
	m.mu.Unlock()

	return m.vault.SaveAccounts(all)
}

// AccountByName returns the stored account record.
func (m *Manager) AccountByName(name string) (models.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[name]
	return account, ok
}

// Restore loads the persisted account collection and starts an unattended
// session for every account eligible for one. Called once at boot.
func (m *Manager) Restore(ctx context.Context) {
	accounts, ok := m.vault.LoadAccounts()
	if !ok {
		return
	}

	m.mu.Lock()
	for _, account := range accounts {
		m.accounts[account.Name] = account
	}
	m.mu.Unlock()

	for _, account := range accounts {
		if !m.vault.HasToken(account.Name) && !account.Unattended() {
			m.logger.WithAccount(account.Name).Info().Msg("needs interactive verification, not auto-started")
			continue
		}
		if err := m.Connect(ctx, account, nil); err != nil {
			m.logger.WithAccount(account.Name).Warn().Err(err).Msg("restore connect failed")
		}
	}
}

// Sessions lists the live sessions.
func (m *Manager) Sessions() []models.SessionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos := make([]models.SessionInfo, 0, len(m.registry.handles))
	for name, h := range m.registry.handles {
		infos = append(infos, models.SessionInfo{
			HandleID:    h.ID,
			Account:     name,
			ConnectedAt: h.ConnectedAt,
			Blocked:     h.Blocked,
		})
	}
	return infos
}

// PendingReconnects lists account names with an armed reconnect timer.
func (m *Manager) PendingReconnects() []string {
	return m.scheduler.Pending()
}

// RecentEvents returns the account's journaled lifecycle events.
func (m *Manager) RecentEvents(ctx context.Context, name string, limit uint64) ([]models.SessionEvent, error) {
	return m.journal.RecentEvents(ctx, name, limit)
}

// Shutdown tears down every live session and cancels every pending
// reconnect. Called once at process exit.
func (m *Manager) Shutdown() {
	for _, name := range m.scheduler.Pending() {
		m.scheduler.Cancel(name)
	}

	m.mu.Lock()
	names := m.registry.listActive()
	m.mu.Unlock()

	for _, name := range names {
		m.teardown(name)
	}
}

// teardown detaches the handle's observers, issues a logoff, and removes it
// from the registry. Returns whether a handle existed.
func (m *Manager) teardown(name string) bool {
	m.mu.Lock()
	h, ok := m.registry.get(name)
	if ok {
		m.registry.remove(name)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}

	// Cancel first: the pump must be deaf before the logoff ripples back as
	// a disconnected event, or it would schedule a reconnect for a
	// deliberate stop.
	h.cancel()
	h.Conn.LogOff()
	m.metrics.SessionsActive.Dec()
	m.logger.WithAccount(name).Info().Str("handle", h.ID).Msg("session torn down")

	return true
}

// buildLogOnOptions prefers the vault's saved token; password and guard
// fields are then omitted, using both is invalid. Without a usable token it
// falls back to the password, attaching a locally computed code when the
// account carries a shared secret. A token expiring within the configured
// slack is deleted and treated as absent.
func (m *Manager) buildLogOnOptions(account models.Account, log *logger.Logger) steam.LogOnOptions {
	opts := steam.LogOnOptions{AccountName: account.Name}

	if token, ok := m.vault.LoadToken(account.Name); ok {
		expiry, err := utils.TokenExpiry(token)
		if err != nil || time.Until(expiry) > m.cfg.TokenExpirySlack {
			// Opaque tokens (no parseable expiry) are presented as-is; the
			// service is the judge of their validity.
			opts.RefreshToken = token
			return opts
		}

		m.vault.DeleteToken(account.Name)
		log.Info().Time("expiry", expiry).Msg("stored token near expiry, falling back to password")
	}

	opts.Password = account.Password
	if account.SharedSecret != "" {
		code, err := guard.GenerateCode(account.SharedSecret)
		if err != nil {
			log.Warn().Err(err).Msg("error computing guard code")
		} else {
			opts.GuardCode = code
		}
	}

	return opts
}

// requestCode runs the verifier with its own budget, independent of the
// connect timeout.
func (m *Manager) requestCode(ctx context.Context, name string, mode models.GuardMode, verifier notify.Verifier) (string, bool) {
	vctx, cancel := context.WithTimeout(ctx, m.cfg.VerifyWait)
	defer cancel()

	return verifier.RequestCode(vctx, name, mode)
}

// saveToken persists a freshly issued long-lived credential.
func (m *Manager) saveToken(ctx context.Context, name string, token string, log *logger.Logger) {
	if err := m.vault.SaveToken(name, token); err != nil {
		log.Warn().Err(err).Msg("error saving token")
		return
	}
	m.metrics.TokensSaved.Inc()
	m.record(ctx, name, journal.EventTokenSaved, "")
	log.Info().Msg("refresh token saved")
}

// finishAttempt counts a failed attempt and journals it.
func (m *Manager) finishAttempt(ctx context.Context, name, outcome, detail string) {
	m.metrics.ConnectAttempts.WithLabelValues(outcome).Inc()
	m.record(ctx, name, journal.EventConnectFailed, detail)
}

// record journals best-effort; a journaling failure never fails the session
// operation that triggered it.
func (m *Manager) record(ctx context.Context, name, event, detail string) {
	if err := m.journal.Record(ctx, name, event, detail); err != nil {
		m.logger.Warn().Err(err).Str("account", name).Str("event", event).Msg("error journaling event")
	}
}

// accountList snapshots the account book. Caller holds m.mu.
func (m *Manager) accountList() []models.Account {
	list := make([]models.Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		list = append(list, account)
	}
	return list
}
