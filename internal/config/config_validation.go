// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Defaults applied by [StructuredConfig.applyDefaults] when no source
// supplies a value. The timing defaults are the documented design defaults
// of the lifecycle controller and scheduler.
const (
	DefaultKeyIterations    = 500_000
	DefaultConnectTimeout   = 30 * time.Second
	DefaultReconnectDelay   = time.Hour
	DefaultVerifyWait       = 2 * time.Minute
	DefaultTokenExpirySlack = time.Hour
	DefaultCacheRetention   = 30 * 24 * time.Hour
	DefaultSweepInterval    = time.Hour
	DefaultRequestTimeout   = 30 * time.Second
)

// MinKeyIterations is the lowest acceptable PBKDF2 cost for vault keys.
const MinKeyIterations = 100_000

// MinPassphraseLength is the shortest acceptable vault passphrase.
const MinPassphraseLength = 16

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Vault.KeyIterations == 0 {
		cfg.Vault.KeyIterations = DefaultKeyIterations
	}
	if cfg.Vault.CacheRetention == 0 {
		cfg.Vault.CacheRetention = DefaultCacheRetention
	}
	if cfg.Vault.SweepInterval == 0 {
		cfg.Vault.SweepInterval = DefaultSweepInterval
	}
	if cfg.Session.ConnectTimeout == 0 {
		cfg.Session.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.Session.ReconnectDelay == 0 {
		cfg.Session.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.Session.VerifyWait == 0 {
		cfg.Session.VerifyWait = DefaultVerifyWait
	}
	if cfg.Session.TokenExpirySlack == 0 {
		cfg.Session.TokenExpirySlack = DefaultTokenExpirySlack
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Metadata.RequestTimeout == 0 {
		cfg.Metadata.RequestTimeout = 5 * time.Second
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// An empty passphrase is legal (the vault stays a no-op), a short one is
// not: it indicates an operator mistake rather than a deliberate opt-out.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Vault.Passphrase != "" && len(cfg.Vault.Passphrase) < MinPassphraseLength {
		return ErrInvalidVaultConfigs
	}

	if cfg.Vault.KeyIterations < MinKeyIterations {
		return ErrInvalidVaultConfigs
	}

	if cfg.Vault.Passphrase != "" && cfg.Vault.Dir == "" {
		return ErrInvalidVaultConfigs
	}

	if cfg.Session.ConnectTimeout <= 0 || cfg.Session.ReconnectDelay <= 0 || cfg.Session.VerifyWait <= 0 {
		return ErrInvalidSessionConfigs
	}

	if cfg.Server.TokenSignKey != "" && cfg.Server.TokenIssuer == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
