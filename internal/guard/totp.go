// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package guard computes time-based Steam Guard codes from an account's
// shared secret, enabling fully unattended logons for accounts that carry
// one.
package guard

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"
)

// codeChars is the alphabet Steam Guard codes are drawn from. It omits
// visually ambiguous symbols (0/O, 1/I, ...), which is why a generic RFC
// 6238 implementation producing decimal digits cannot be used here.
const codeChars = "23456789BCDFGHJKMNPQRTVWXY"

// codeLength is the number of symbols in one code.
const codeLength = 5

// period is the code rotation interval.
const period = 30 * time.Second

// GenerateCode computes the Steam Guard code for the current wall-clock
// time. sharedSecret is the account's base64-encoded shared secret.
func GenerateCode(sharedSecret string) (string, error) {
	return GenerateCodeAt(sharedSecret, time.Now())
}

// GenerateCodeAt computes the Steam Guard code valid at t.
//
// The construction is RFC 6238 over HMAC-SHA1 with a 30-second step, except
// that the 31-bit dynamic truncation output is mapped onto the Steam
// alphabet by repeated division instead of being reduced modulo 10^d.
func GenerateCodeAt(sharedSecret string, t time.Time) (string, error) {
	secret, err := base64.StdEncoding.DecodeString(sharedSecret)
	if err != nil {
		return "", fmt.Errorf("decode shared secret: %w", err)
	}

	var counter [8]byte
	binary.BigEndian.PutUint64(counter[:], uint64(t.Unix())/uint64(period.Seconds()))

	mac := hmac.New(sha1.New, secret)
	mac.Write(counter[:])
	digest := mac.Sum(nil)

	// Dynamic truncation per RFC 4226 §5.3.
	offset := digest[len(digest)-1] & 0x0f
	code := binary.BigEndian.Uint32(digest[offset:offset+4]) & 0x7fffffff

	out := make([]byte, codeLength)
	for i := range out {
		out[i] = codeChars[code%uint32(len(codeChars))]
		code /= uint32(len(codeChars))
	}

	return string(out), nil
}
