package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a admin server address in format [host]:[port]
//	-vault-dir encrypted record directory
//	-cache-dir network client cache directory to sweep
//	-journal sqlite journal file path
//	-c/-config json file path with configs
//	-passphrase vault passphrase
//	-key-iterations PBKDF2 iteration count
//	-connect-timeout logon attempt bound (e.g., "30s")
//	-reconnect-delay unattended retry delay (e.g., "1h")
//	-verify-wait verification code wait (e.g., "2m")
//	-token-sign-key admin token signing key
//	-token-issuer admin token issuer name
//	-metadata-url application metadata endpoint
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var vaultDir string
	var cacheDir string
	var journalPath string
	var jsonConfigPath string
	var passphrase string
	var keyIterations int
	var connectTimeout time.Duration
	var reconnectDelay time.Duration
	var verifyWait time.Duration
	var tokenSignKey string
	var tokenIssuer string
	var metadataURL string

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&vaultDir, "vault-dir", "", "Encrypted record directory")
	flag.StringVar(&cacheDir, "cache-dir", "", "Client cache directory to sweep")
	flag.StringVar(&journalPath, "journal", "", "Session journal sqlite path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&passphrase, "passphrase", "", "Vault passphrase")
	flag.IntVar(&keyIterations, "key-iterations", 0, "PBKDF2 iteration count")
	flag.DurationVar(&connectTimeout, "connect-timeout", 0, "Logon attempt bound (e.g., 30s)")
	flag.DurationVar(&reconnectDelay, "reconnect-delay", 0, "Unattended retry delay (e.g., 1h)")
	flag.DurationVar(&verifyWait, "verify-wait", 0, "Verification code wait (e.g., 2m)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Admin token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Admin token issuer")
	flag.StringVar(&metadataURL, "metadata-url", "", "Application metadata endpoint")

	flag.Parse()

	return &StructuredConfig{
		Vault: Vault{
			Passphrase:    passphrase,
			KeyIterations: keyIterations,
			Dir:           vaultDir,
			CacheDir:      cacheDir,
		},
		Session: Session{
			ConnectTimeout: connectTimeout,
			ReconnectDelay: reconnectDelay,
			VerifyWait:     verifyWait,
		},
		Server: Server{
			HTTPAddress:  serverAddress.String(),
			TokenSignKey: tokenSignKey,
			TokenIssuer:  tokenIssuer,
		},
		Journal: Journal{
			Path: journalPath,
		},
		Metadata: Metadata{
			BaseURL: metadataURL,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
