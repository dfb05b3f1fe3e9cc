package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-session-keeper/internal/crypto"
	"github.com/MKhiriev/go-session-keeper/internal/logger"
	"github.com/MKhiriev/go-session-keeper/models"
)

const testPassphrase = "unit-test-vault-passphrase"

// newTestVault — хелпер для создания файлового хранилища во временной
// директории.
func newTestVault(t *testing.T) (Vault, string) {
	t.Helper()

	dir := t.TempDir()
	v := NewFileVault(dir, testPassphrase, crypto.NewEnvelopeService(0), logger.Nop())
	return v, dir
}

func TestFileVault_TokenRoundTrip(t *testing.T) {
	v, _ := newTestVault(t)

	require.NoError(t, v.SaveToken("alice", "refresh-token-value"))

	token, ok := v.LoadToken("alice")
	require.True(t, ok)
	assert.Equal(t, "refresh-token-value", token)
	assert.True(t, v.HasToken("alice"))
}

func TestFileVault_MissingToken(t *testing.T) {
	v, _ := newTestVault(t)

	_, ok := v.LoadToken("nobody")
	assert.False(t, ok)
	assert.False(t, v.HasToken("nobody"))
}

func TestFileVault_RecordEncryptedOnDisk(t *testing.T) {
	v, dir := newTestVault(t)

	require.NoError(t, v.SaveToken("alice", "refresh-token-value"))

	raw, err := os.ReadFile(filepath.Join(dir, "alice"+RecordSuffix))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "refresh-token-value")
}

func TestFileVault_WrongPassphraseRemovesRecord(t *testing.T) {
	dir := t.TempDir()
	envelope := crypto.NewEnvelopeService(0)

	writer := NewFileVault(dir, testPassphrase, envelope, logger.Nop())
	require.NoError(t, writer.SaveToken("alice", "refresh-token-value"))

	reader := NewFileVault(dir, "a-different-passphrase", envelope, logger.Nop())
	_, ok := reader.LoadToken("alice")
	assert.False(t, ok)

	// Запись удалена — повторное чтение правильной парольной фразой тоже
	// ничего не находит.
	_, ok = writer.LoadToken("alice")
	assert.False(t, ok)
	assert.NoFileExists(t, filepath.Join(dir, "alice"+RecordSuffix))
}

func TestFileVault_CorruptedRecordRemoved(t *testing.T) {
	v, dir := newTestVault(t)

	require.NoError(t, v.SaveToken("alice", "refresh-token-value"))

	path := filepath.Join(dir, "alice"+RecordSuffix)
	require.NoError(t, os.WriteFile(path, []byte("garbage, not an envelope"), 0o600))

	_, ok := v.LoadToken("alice")
	assert.False(t, ok)
	assert.NoFileExists(t, path)
}

func TestFileVault_DeleteToken(t *testing.T) {
	v, _ := newTestVault(t)

	require.NoError(t, v.SaveToken("alice", "refresh-token-value"))
	v.DeleteToken("alice")

	assert.False(t, v.HasToken("alice"))

	// Deleting a missing record is not an error.
	v.DeleteToken("alice")
}

func TestFileVault_EmptyPassphraseIsNoOp(t *testing.T) {
	dir := t.TempDir()
	v := NewFileVault(dir, "", crypto.NewEnvelopeService(0), logger.Nop())

	require.NoError(t, v.SaveToken("alice", "refresh-token-value"))

	_, ok := v.LoadToken("alice")
	assert.False(t, ok)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileVault_AccountsRoundTrip(t *testing.T) {
	v, _ := newTestVault(t)

	accounts := []models.Account{
		{Name: "alice", Password: "pw1", GuardMode: models.GuardMobile, SharedSecret: "c2VjcmV0"},
		{Name: "bob", Password: "pw2", GuardMode: models.GuardNone, Persona: models.PersonaOnline},
	}
	require.NoError(t, v.SaveAccounts(accounts))

	loaded, ok := v.LoadAccounts()
	require.True(t, ok)
	assert.Equal(t, accounts, loaded)
}

func TestFileVault_AccountsAbsentInitially(t *testing.T) {
	v, _ := newTestVault(t)

	_, ok := v.LoadAccounts()
	assert.False(t, ok)
}
