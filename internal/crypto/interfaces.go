// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the envelope encryption used by the credential
// vault: a passphrase-derived key sealing JSON payloads with authenticated
// encryption.
package crypto

// EnvelopeService seals and opens vault records.
//
// Every Seal call derives a fresh key from the passphrase via PBKDF2 with a
// fresh random salt, encrypts with AES-256-GCM under a fresh random IV, and
// encodes the artifact as base64(salt ‖ iv ‖ tag ‖ ciphertext). Open
// recomputes the key from the embedded salt and verifies the tag before any
// plaintext is returned; a tag mismatch is a hard decryption failure.
type EnvelopeService interface {
	// Seal serializes data to JSON and encrypts it under passphrase.
	Seal(passphrase string, data any) (string, error)

	// Open decodes and decrypts encoded under passphrase and unmarshals the
	// plaintext JSON into target, which must be a non-nil pointer.
	Open(encoded string, passphrase string, target any) error
}
