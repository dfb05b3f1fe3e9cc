// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// session keeper. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Vault holds the encrypted credential store settings: the process-wide
	// passphrase, key-derivation cost, and on-disk locations.
	Vault Vault `envPrefix:"VAULT_"`

	// Session holds the timing knobs of the lifecycle controller and the
	// reconnect scheduler.
	Session Session `envPrefix:"SESSION_"`

	// Server holds network address and auth settings for the admin HTTP API.
	Server Server `envPrefix:"SERVER_"`

	// Journal holds settings for the local session-event journal.
	Journal Journal `envPrefix:"JOURNAL_"`

	// Metadata holds settings for the best-effort application metadata
	// lookup used to label numeric activities.
	Metadata Metadata `envPrefix:"METADATA_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG" json:"-"`
}

// Vault holds the encrypted credential store configuration.
type Vault struct {
	// Passphrase is the process-wide secret from which every record's
	// encryption key is derived. While empty the vault is a silent no-op:
	// nothing is persisted and every load reports absent. When set it must
	// be at least 16 characters.
	// Env: VAULT_PASSPHRASE
	Passphrase string `env:"PASSPHRASE" json:"passphrase"`

	// KeyIterations is the PBKDF2 iteration count used to derive record
	// keys. Values below 100000 are rejected at validation time.
	// Env: VAULT_KEY_ITERATIONS
	KeyIterations int `env:"KEY_ITERATIONS" json:"key_iterations"`

	// Dir is the directory holding the encrypted record files.
	// Env: VAULT_DIR
	Dir string `env:"DIR" json:"dir"`

	// CacheDir is the network client library's cache directory swept by the
	// housekeeping worker. Empty disables the sweep.
	// Env: VAULT_CACHE_DIR
	CacheDir string `env:"CACHE_DIR" json:"cache_dir"`

	// CacheRetention is how old a stray cache artifact must be before the
	// sweeper removes it (e.g. "720h").
	// Env: VAULT_CACHE_RETENTION
	CacheRetention time.Duration `env:"CACHE_RETENTION" json:"cache_retention"`

	// SweepInterval is how often the cache sweeper runs.
	// Env: VAULT_SWEEP_INTERVAL
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" json:"sweep_interval"`
}

// Session holds timing configuration for the lifecycle controller and the
// reconnect scheduler.
type Session struct {
	// ConnectTimeout bounds one logon attempt from initiation to resolution
	// (e.g. "30s"). Exceeding it abandons the attempt as a timeout failure.
	// Env: SESSION_CONNECT_TIMEOUT
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" json:"connect_timeout"`

	// ReconnectDelay is the fixed delay before an unattended reconnect
	// attempt (e.g. "1h"). Deliberately long so the keeper never fights a
	// human who just started using the account interactively.
	// Env: SESSION_RECONNECT_DELAY
	ReconnectDelay time.Duration `env:"RECONNECT_DELAY" json:"reconnect_delay"`

	// VerifyWait bounds how long a connect attempt waits for an out-of-band
	// verification code from the owner (e.g. "2m").
	// Env: SESSION_VERIFY_WAIT
	VerifyWait time.Duration `env:"VERIFY_WAIT" json:"verify_wait"`

	// TokenExpirySlack treats a saved token expiring within this window as
	// absent, forcing password fallback instead of a guaranteed rejection.
	// Env: SESSION_TOKEN_EXPIRY_SLACK
	TokenExpirySlack time.Duration `env:"TOKEN_EXPIRY_SLACK" json:"token_expiry_slack"`
}

// Server holds network and auth settings for the admin HTTP API.
type Server struct {
	// HTTPAddress is the TCP address on which the admin HTTP server listens,
	// in "host:port" format (e.g. "127.0.0.1:8080"). Empty disables the
	// server entirely.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS" json:"address"`

	// TokenSignKey is the secret key used to sign and verify admin API
	// bearer tokens. While empty the API accepts unauthenticated requests,
	// which is only appropriate on a loopback address.
	// Env: SERVER_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY" json:"token_sign_key"`

	// TokenIssuer is the "iss" claim required on admin bearer tokens.
	// Env: SERVER_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER" json:"token_issuer"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`
}

// Journal holds settings for the sqlite session-event journal.
type Journal struct {
	// Path is the sqlite database file. Empty disables journaling.
	// Env: JOURNAL_PATH
	Path string `env:"PATH" json:"path"`
}

// Metadata holds settings for the application metadata lookup.
type Metadata struct {
	// BaseURL is the metadata endpoint queried for human-readable
	// application names. Empty disables enrichment.
	// Env: METADATA_BASE_URL
	BaseURL string `env:"BASE_URL" json:"base_url"`

	// RequestTimeout bounds one lookup request (e.g. "5s").
	// Env: METADATA_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
