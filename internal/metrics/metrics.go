// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics holds the keeper's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates every collector the keeper exports.
type Metrics struct {
	// SessionsActive is the number of live session handles in the registry.
	SessionsActive prometheus.Gauge

	// ReconnectsPending is the number of armed reconnect timers.
	ReconnectsPending prometheus.Gauge

	// ConnectAttempts counts finished logon attempts by outcome: "success",
	// or the failure class ("transient", "credential", "guard", "timeout",
	// "unknown").
	ConnectAttempts *prometheus.CounterVec

	// TokensSaved counts refresh tokens persisted to the vault.
	TokensSaved prometheus.Counter
}

// New constructs the collector set and registers it with reg. Passing a nil
// registerer yields working but unregistered collectors, which is what
// tests want.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "keeper_sessions_active",
			Help: "Number of live account sessions.",
		}),
		ReconnectsPending: factory.NewGauge(prometheus.GaugeOpts{
			Name: "keeper_reconnects_pending",
			Help: "Number of armed unattended reconnect timers.",
		}),
		ConnectAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keeper_connect_attempts_total",
			Help: "Finished logon attempts by outcome.",
		}, []string{"outcome"}),
		TokensSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "keeper_tokens_saved_total",
			Help: "Refresh tokens persisted to the vault.",
		}),
	}
}
