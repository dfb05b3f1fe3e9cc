package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidVaultConfigs indicates invalid vault settings (for example,
	// a passphrase shorter than 16 characters, a key-derivation cost below
	// the allowed minimum, or a passphrase without a record directory).
	ErrInvalidVaultConfigs = errors.New("invalid vault configuration")
	// ErrInvalidSessionConfigs indicates invalid lifecycle timing settings
	// (for example, a zero or negative connect timeout).
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidServerConfigs indicates invalid admin server settings
	// (for example, a sign key configured without an issuer).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
