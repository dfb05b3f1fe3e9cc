// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Envelope geometry. The on-disk artifact is
// salt (64 bytes) ‖ iv (16 bytes) ‖ tag (16 bytes) ‖ ciphertext,
// base64-encoded. The oversized salt and IV match the record format of the
// vault's storage layout; GCM is constructed with a 16-byte nonce to fit.
const (
	saltSize = 64
	ivSize   = 16
	tagSize  = 16
	keyLen   = 32 // 256 bits
)

// envelopeService is the private implementation of [EnvelopeService].
type envelopeService struct {
	// iterations is the PBKDF2-SHA256 cost. Stored in the struct so it can
	// be tuned per deployment target; must be at least 100000.
	iterations int
}

// NewEnvelopeService constructs an [EnvelopeService] with the given PBKDF2
// iteration count. Counts below 100000 are raised to 100000.
func NewEnvelopeService(iterations int) EnvelopeService {
	if iterations < 100_000 {
		iterations = 100_000
	}
	return &envelopeService{iterations: iterations}
}

// Seal implements [EnvelopeService]. It marshals data to JSON, derives a
// record key from passphrase and a fresh 64-byte salt, and encrypts with
// AES-256-GCM under a fresh 16-byte IV. Returns an error if marshalling,
// cipher construction, or a random read fails.
func (e *envelopeService) Seal(passphrase string, data any) (string, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal data: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	gcm, err := e.buildCipher(passphrase, salt)
	if err != nil {
		return "", err
	}

	// Seal appends the auth tag after the ciphertext; the stored layout
	// wants it in front, so split and reorder.
	sealed := gcm.Seal(nil, iv, plaintext, nil)
	ciphertext, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	blob := make([]byte, 0, saltSize+ivSize+tagSize+len(ciphertext))
	blob = append(blob, salt...)
	blob = append(blob, iv...)
	blob = append(blob, tag...)
	blob = append(blob, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Open implements [EnvelopeService]. It base64-decodes encoded, splits the
// blob into salt, IV, tag, and ciphertext, re-derives the record key from
// the embedded salt and passphrase, and decrypts. The auth tag is verified
// before any plaintext is unmarshalled into target; a wrong passphrase or a
// flipped ciphertext bit both surface as a decryption error.
func (e *envelopeService) Open(encoded string, passphrase string, target any) error {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode base64: %w", err)
	}

	if len(blob) < saltSize+ivSize+tagSize {
		return fmt.Errorf("ciphertext too short")
	}

	salt := blob[:saltSize]
	iv := blob[saltSize : saltSize+ivSize]
	tag := blob[saltSize+ivSize : saltSize+ivSize+tagSize]
	ciphertext := blob[saltSize+ivSize+tagSize:]

	gcm, err := e.buildCipher(passphrase, salt)
	if err != nil {
		return err
	}

	// Reassemble ciphertext ‖ tag, the order gcm.Open expects.
	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return fmt.Errorf("decrypt data: %w", err)
	}

	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}

	return nil
}

func (e *envelopeService) buildCipher(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, e.iterations, keyLen, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}
