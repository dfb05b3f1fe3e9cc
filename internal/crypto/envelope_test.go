package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Low iteration counts get raised to the floor, so tests pay the minimum
// PBKDF2 cost exactly once per Seal/Open.
func newTestEnvelope() EnvelopeService {
	return NewEnvelopeService(0)
}

type testPayload struct {
	Token string `json:"token"`
}

func TestEnvelope_RoundTrip(t *testing.T) {
	svc := newTestEnvelope()

	sealed, err := svc.Seal("correct-horse-battery-staple", testPayload{Token: "secret-token"})
	require.NoError(t, err)

	var out testPayload
	require.NoError(t, svc.Open(sealed, "correct-horse-battery-staple", &out))
	assert.Equal(t, "secret-token", out.Token)
}

func TestEnvelope_FreshSaltAndIVPerWrite(t *testing.T) {
	svc := newTestEnvelope()

	first, err := svc.Seal("correct-horse-battery-staple", testPayload{Token: "same"})
	require.NoError(t, err)
	second, err := svc.Seal("correct-horse-battery-staple", testPayload{Token: "same"})
	require.NoError(t, err)

	// Identical plaintext must never produce identical artifacts.
	assert.NotEqual(t, first, second)
}

func TestEnvelope_WrongPassphraseFails(t *testing.T) {
	svc := newTestEnvelope()

	sealed, err := svc.Seal("correct-horse-battery-staple", testPayload{Token: "secret"})
	require.NoError(t, err)

	var out testPayload
	err = svc.Open(sealed, "wrong-passphrase-entirely", &out)
	require.Error(t, err)
	assert.Empty(t, out.Token)
}

func TestEnvelope_TamperedCiphertextFails(t *testing.T) {
	svc := newTestEnvelope()

	sealed, err := svc.Seal("correct-horse-battery-staple", testPayload{Token: "secret"})
	require.NoError(t, err)

	blob, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)

	// Flip one bit in the ciphertext region; the auth tag must catch it.
	blob[len(blob)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(blob)

	var out testPayload
	assert.Error(t, svc.Open(tampered, "correct-horse-battery-staple", &out))
}

func TestEnvelope_TamperedTagFails(t *testing.T) {
	svc := newTestEnvelope()

	sealed, err := svc.Seal("correct-horse-battery-staple", testPayload{Token: "secret"})
	require.NoError(t, err)

	blob, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)

	blob[saltSize+ivSize] ^= 0x01 // first tag byte
	tampered := base64.StdEncoding.EncodeToString(blob)

	var out testPayload
	assert.Error(t, svc.Open(tampered, "correct-horse-battery-staple", &out))
}

func TestEnvelope_TruncatedBlobFails(t *testing.T) {
	svc := newTestEnvelope()

	short := base64.StdEncoding.EncodeToString(make([]byte, saltSize+ivSize))

	var out testPayload
	assert.Error(t, svc.Open(short, "correct-horse-battery-staple", &out))
}

func TestEnvelope_NotBase64Fails(t *testing.T) {
	svc := newTestEnvelope()

	var out testPayload
	assert.Error(t, svc.Open("%%% not base64 %%%", "correct-horse-battery-staple", &out))
}
