// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-session-keeper/internal/crypto"
	"github.com/MKhiriev/go-session-keeper/internal/logger"
	"github.com/MKhiriev/go-session-keeper/models"
)

// RecordSuffix is the file name suffix of every vault record. The cache
// sweeper treats it as the protected naming convention and never deletes a
// file carrying it.
const RecordSuffix = ".vault"

// accountsRecord is the file name of the managed account collection.
const accountsRecord = "accounts" + RecordSuffix

// tokenPayload is the serialized form of one token record.
type tokenPayload struct {
	Token string `json:"token"`
}

// fileVault is the file-backed implementation of [Vault]. One record per
// account, each an independently sealed envelope, so a corrupted file can
// never take neighbouring records with it.
type fileVault struct {
	dir        string
	passphrase string
	envelope   crypto.EnvelopeService
	logger     *logger.Logger
}

// NewFileVault constructs a [Vault] storing records under dir. passphrase
// is the process-wide encryption secret; when empty the vault is a silent
// no-op. The directory is created on first use.
func NewFileVault(dir string, passphrase string, envelope crypto.EnvelopeService, log *logger.Logger) Vault {
	return &fileVault{
		dir:        dir,
		passphrase: passphrase,
		envelope:   envelope,
		logger:     log,
	}
}

// SaveToken implements [Vault].
func (v *fileVault) SaveToken(name string, token string) error {
	return v.seal(v.tokenPath(name), tokenPayload{Token: token})
}

// LoadToken implements [Vault].
func (v *fileVault) LoadToken(name string) (string, bool) {
	var payload tokenPayload
	if !v.open(v.tokenPath(name), &payload) {
		return "", false
	}
	if payload.Token == "" {
		// Decrypted fine but holds nothing usable; same treatment as a
		// corrupted record.
		v.remove(v.tokenPath(name))
		return "", false
	}
	return payload.Token, true
}

// HasToken implements [Vault].
func (v *fileVault) HasToken(name string) bool {
	_, ok := v.LoadToken(name)
	return ok
}

// DeleteToken implements [Vault].
func (v *fileVault) DeleteToken(name string) {
	v.remove(v.tokenPath(name))
}

// SaveAccounts implements [Vault].
func (v *fileVault) SaveAccounts(accounts []models.Account) error {
	return v.seal(filepath.Join(v.dir, accountsRecord), accounts)
}

// LoadAccounts implements [Vault].
func (v *fileVault) LoadAccounts() ([]models.Account, bool) {
	var accounts []models.Account
	if !v.open(filepath.Join(v.dir, accountsRecord), &accounts) {
		return nil, false
	}
	return accounts, true
}

func (v *fileVault) tokenPath(name string) string {
	return filepath.Join(v.dir, name+RecordSuffix)
}

// seal encrypts payload and writes it to path. Silent no-op without a
// passphrase.
func (v *fileVault) seal(path string, payload any) error {
	if v.passphrase == "" {
		return nil
	}

	encoded, err := v.envelope.Seal(v.passphrase, payload)
	if err != nil {
		return fmt.Errorf("seal vault record: %w", err)
	}

	if err := os.MkdirAll(v.dir, 0o700); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		return fmt.Errorf("write vault record: %w", err)
	}

	return nil
}

// open reads and decrypts the record at path into target. Any failure —
// missing file, wrong passphrase, flipped bit, bad JSON — reports absent;
// failures other than a missing file also delete the record so the next
// call does not retry a dead blob.
func (v *fileVault) open(path string, target any) bool {
	if v.passphrase == "" {
		return false
	}

	encoded, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			v.logger.Warn().Err(err).Str("record", filepath.Base(path)).Msg("unreadable vault record")
		}
		return false
	}

	if err := v.envelope.Open(string(encoded), v.passphrase, target); err != nil {
		v.logger.Warn().Err(err).Str("record", filepath.Base(path)).Msg("corrupted vault record removed")
		v.remove(path)
		return false
	}

	return true
}

func (v *fileVault) remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		v.logger.Warn().Err(err).Str("record", filepath.Base(path)).Msg("error removing vault record")
	}
}
