package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Vault struct {
		Passphrase     string   `json:"passphrase"`
		KeyIterations  int      `json:"key_iterations"`
		Dir            string   `json:"dir"`
		CacheDir       string   `json:"cache_dir"`
		CacheRetention Duration `json:"cache_retention"`
		SweepInterval  Duration `json:"sweep_interval"`
	} `json:"vault,omitempty"`

	Session struct {
		ConnectTimeout   Duration `json:"connect_timeout"`
		ReconnectDelay   Duration `json:"reconnect_delay"`
		VerifyWait       Duration `json:"verify_wait"`
		TokenExpirySlack Duration `json:"token_expiry_slack"`
	} `json:"session,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"address"`
		TokenSignKey   string   `json:"token_sign_key"`
		TokenIssuer    string   `json:"token_issuer"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Journal struct {
		Path string `json:"path"`
	} `json:"journal,omitempty"`

	Metadata struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"metadata,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Vault: Vault{
			Passphrase:     jsonCfg.Vault.Passphrase,
			KeyIterations:  jsonCfg.Vault.KeyIterations,
			Dir:            jsonCfg.Vault.Dir,
			CacheDir:       jsonCfg.Vault.CacheDir,
			CacheRetention: time.Duration(jsonCfg.Vault.CacheRetention),
			SweepInterval:  time.Duration(jsonCfg.Vault.SweepInterval),
		},
		Session: Session{
			ConnectTimeout:   time.Duration(jsonCfg.Session.ConnectTimeout),
			ReconnectDelay:   time.Duration(jsonCfg.Session.ReconnectDelay),
			VerifyWait:       time.Duration(jsonCfg.Session.VerifyWait),
			TokenExpirySlack: time.Duration(jsonCfg.Session.TokenExpirySlack),
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			TokenSignKey:   jsonCfg.Server.TokenSignKey,
			TokenIssuer:    jsonCfg.Server.TokenIssuer,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Journal: Journal{
			Path: jsonCfg.Journal.Path,
		},
		Metadata: Metadata{
			BaseURL:        jsonCfg.Metadata.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Metadata.RequestTimeout),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
