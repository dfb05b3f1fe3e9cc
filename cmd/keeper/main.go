package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/go-session-keeper/internal/config"
	"github.com/MKhiriev/go-session-keeper/internal/crypto"
	httphandler "github.com/MKhiriev/go-session-keeper/internal/handler/http"
	"github.com/MKhiriev/go-session-keeper/internal/journal"
	"github.com/MKhiriev/go-session-keeper/internal/logger"
	"github.com/MKhiriev/go-session-keeper/internal/metadata"
	"github.com/MKhiriev/go-session-keeper/internal/metrics"
	"github.com/MKhiriev/go-session-keeper/internal/notify"
	"github.com/MKhiriev/go-session-keeper/internal/server"
	"github.com/MKhiriev/go-session-keeper/internal/session"
	"github.com/MKhiriev/go-session-keeper/internal/steam"
	"github.com/MKhiriev/go-session-keeper/internal/vault"
	"github.com/MKhiriev/go-session-keeper/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// Missing .env is fine; real deployments configure via the environment.
	_ = godotenv.Load()

	log := logger.NewLogger("keeper")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("session", cfg.Session).Str("vault_dir", cfg.Vault.Dir).Msg("received configs")

	envelope := crypto.NewEnvelopeService(cfg.Vault.KeyIterations)
	vlt := vault.NewFileVault(cfg.Vault.Dir, cfg.Vault.Passphrase, envelope, log)

	jrn := journal.Nop()
	if cfg.Journal.Path != "" {
		jrn, err = journal.NewSQLiteJournal(cfg.Journal.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("error opening journal")
		}
	}

	mtr := metrics.New(prometheus.DefaultRegisterer)
	resolver := metadata.NewHTTPResolver(cfg.Metadata.BaseURL, cfg.Metadata.RequestTimeout, log)
	notifier := notify.NewLogNotifier(log)

	manager := session.NewManager(
		cfg.Session,
		vlt,
		newDialer(),
		notifier,
		resolver,
		jrn,
		mtr,
		log,
	)

	sweeper := vault.NewSweeper(cfg.Vault.CacheDir, cfg.Vault.CacheRetention, cfg.Vault.SweepInterval, logger.NewLogger("sweeper"))
	workers.NewWorkers(sweeper).Run()

	manager.Restore(context.Background())

	var router http.Handler
	if cfg.Server.HTTPAddress != "" {
		router = httphandler.NewHandler(manager, cfg.Server, log).Init()
	}

	srv := server.NewServer(router, cfg.Server, log,
		manager.Shutdown,
		sweeper.Stop,
		func() { _ = jrn.Close() },
	)
	srv.RunServer()
}

// newDialer returns the remote connection capability. The transport itself
// is an external collaborator and is linked in by the embedding deployment;
// this build ships without one, so every dial reports that plainly instead
// of crashing the control process.
func newDialer() steam.Dialer {
	return dialerFunc(func(ctx context.Context) (steam.Conn, error) {
		return nil, fmt.Errorf("no connection transport linked into this build")
	})
}

type dialerFunc func(ctx context.Context) (steam.Conn, error)

func (f dialerFunc) Dial(ctx context.Context) (steam.Conn, error) {
	return f(ctx)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
