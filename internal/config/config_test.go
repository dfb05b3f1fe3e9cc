package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("VAULT_PASSPHRASE", "a-long-enough-passphrase")
	t.Setenv("VAULT_DIR", "/var/lib/keeper/vault")
	t.Setenv("SESSION_CONNECT_TIMEOUT", "45s")
	t.Setenv("SESSION_RECONNECT_DELAY", "2h")
	t.Setenv("SERVER_ADDRESS", "127.0.0.1:9090")
	t.Setenv("JOURNAL_PATH", "/var/lib/keeper/journal.db")
	t.Setenv("METADATA_BASE_URL", "https://meta.example.com")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "a-long-enough-passphrase", cfg.Vault.Passphrase)
	assert.Equal(t, "/var/lib/keeper/vault", cfg.Vault.Dir)
	assert.Equal(t, 45*time.Second, cfg.Session.ConnectTimeout)
	assert.Equal(t, 2*time.Hour, cfg.Session.ReconnectDelay)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.HTTPAddress)
	assert.Equal(t, "/var/lib/keeper/journal.db", cfg.Journal.Path)
	assert.Equal(t, "https://meta.example.com", cfg.Metadata.BaseURL)
}

func TestParseEnv_BadDuration(t *testing.T) {
	t.Setenv("SESSION_CONNECT_TIMEOUT", "not-a-duration")

	cfg := &StructuredConfig{}
	assert.Error(t, parseEnv(cfg))
}

func TestParseJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"vault": {
			"passphrase": "a-long-enough-passphrase",
			"dir": "/vault",
			"cache_retention": "720h"
		},
		"session": {
			"connect_timeout": "45s",
			"reconnect_delay": "90m"
		},
		"server": {
			"address": "127.0.0.1:9090",
			"token_sign_key": "sign-key",
			"token_issuer": "keeper"
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "a-long-enough-passphrase", cfg.Vault.Passphrase)
	assert.Equal(t, "/vault", cfg.Vault.Dir)
	assert.Equal(t, 720*time.Hour, cfg.Vault.CacheRetention)
	assert.Equal(t, 45*time.Second, cfg.Session.ConnectTimeout)
	assert.Equal(t, 90*time.Minute, cfg.Session.ReconnectDelay)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.HTTPAddress)
	assert.Equal(t, "keeper", cfg.Server.TokenIssuer)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestParseJSON_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := parseJSON(path)
	assert.Error(t, err)
}

func TestDurationUnmarshal(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1h30m"`)))
	assert.Equal(t, 90*time.Minute, time.Duration(d))

	// Числовое значение трактуется как наносекунды.
	require.NoError(t, d.UnmarshalJSON([]byte(`1000000000`)))
	assert.Equal(t, time.Second, time.Duration(d))

	assert.Error(t, d.UnmarshalJSON([]byte(`"eternity"`)))
}

func TestApplyDefaults(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.applyDefaults()

	assert.Equal(t, DefaultKeyIterations, cfg.Vault.KeyIterations)
	assert.Equal(t, DefaultCacheRetention, cfg.Vault.CacheRetention)
	assert.Equal(t, DefaultSweepInterval, cfg.Vault.SweepInterval)
	assert.Equal(t, DefaultConnectTimeout, cfg.Session.ConnectTimeout)
	assert.Equal(t, DefaultReconnectDelay, cfg.Session.ReconnectDelay)
	assert.Equal(t, DefaultVerifyWait, cfg.Session.VerifyWait)
	assert.Equal(t, DefaultTokenExpirySlack, cfg.Session.TokenExpirySlack)
	assert.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.Session.ReconnectDelay = 15 * time.Minute
	cfg.applyDefaults()

	assert.Equal(t, 15*time.Minute, cfg.Session.ReconnectDelay)
}

func TestValidate(t *testing.T) {
	valid := func() *StructuredConfig {
		cfg := &StructuredConfig{}
		cfg.Vault.Passphrase = "a-long-enough-passphrase"
		cfg.Vault.Dir = "/vault"
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{
			name:   "valid config",
			mutate: func(cfg *StructuredConfig) {},
		},
		{
			name:   "empty passphrase is a deliberate opt-out",
			mutate: func(cfg *StructuredConfig) { cfg.Vault.Passphrase = "" },
		},
		{
			name:    "short passphrase",
			mutate:  func(cfg *StructuredConfig) { cfg.Vault.Passphrase = "short" },
			wantErr: ErrInvalidVaultConfigs,
		},
		{
			name:    "weak key iterations",
			mutate:  func(cfg *StructuredConfig) { cfg.Vault.KeyIterations = 1000 },
			wantErr: ErrInvalidVaultConfigs,
		},
		{
			name:    "passphrase without vault dir",
			mutate:  func(cfg *StructuredConfig) { cfg.Vault.Dir = "" },
			wantErr: ErrInvalidVaultConfigs,
		},
		{
			name:    "non-positive connect timeout",
			mutate:  func(cfg *StructuredConfig) { cfg.Session.ConnectTimeout = -time.Second },
			wantErr: ErrInvalidSessionConfigs,
		},
		{
			name:    "sign key without issuer",
			mutate:  func(cfg *StructuredConfig) { cfg.Server.TokenSignKey = "sign-key" },
			wantErr: ErrInvalidServerConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuilder_JSONOverridesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"session": {"reconnect_delay": "2h"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	envCfg := &StructuredConfig{}
	envCfg.Session.ReconnectDelay = 30 * time.Minute
	envCfg.JSONFilePath = path

	b := newConfigBuilder()
	b.configs = append(b.configs, envCfg)
	cfg, err := b.withJSON().build()
	require.NoError(t, err)

	// Последний источник побеждает для ненулевых полей.
	assert.Equal(t, 2*time.Hour, cfg.Session.ReconnectDelay)
}

func TestBuilder_ValidationFailureSurfaces(t *testing.T) {
	bad := &StructuredConfig{}
	bad.Vault.Passphrase = "short"
	bad.Vault.Dir = "/vault"

	b := newConfigBuilder()
	b.configs = append(b.configs, bad)

	_, err := b.build()
	assert.ErrorIs(t, err, ErrInvalidVaultConfigs)
}
