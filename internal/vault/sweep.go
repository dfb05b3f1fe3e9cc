// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/go-session-keeper/internal/logger"
)

// Sweeper periodically removes stray artifacts the network client library
// leaves in its cache directory (server lists, sentry files, temp blobs).
// This is housekeeping, not part of the security contract: files carrying
// [RecordSuffix] are never touched, so the sweep cannot race destructively
// with the vault's save/load.
type Sweeper struct {
	cacheDir  string
	retention time.Duration
	interval  time.Duration
	logger    *logger.Logger

	cancel context.CancelFunc
}

// NewSweeper constructs a Sweeper over cacheDir. Artifacts older than
// retention are removed every interval. A Sweeper with an empty cacheDir
// does nothing.
func NewSweeper(cacheDir string, retention, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		cacheDir:  cacheDir,
		retention: retention,
		interval:  interval,
		logger:    log,
	}
}

// Run implements the workers.Worker contract. It launches the periodic
// sweep in a background goroutine and returns immediately.
func (s *Sweeper) Run() {
	if s.cacheDir == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		t := time.NewTicker(s.interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.sweepOnce(time.Now())
			}
		}
	}()
}

// Stop terminates the background sweep. Safe to call when Run was never
// called.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// sweepOnce removes every regular file in the cache directory that does not
// carry the vault record suffix and is older than the retention window, or
// that is an abandoned temp file. Subdirectories are left alone.
func (s *Sweeper) sweepOnce(now time.Time) {
	entries, err := os.ReadDir(s.cacheDir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Msg("error reading cache dir")
		}
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), RecordSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		stale := now.Sub(info.ModTime()) > s.retention
		if !stale && !strings.HasSuffix(entry.Name(), ".tmp") {
			continue
		}

		path := filepath.Join(s.cacheDir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("error removing cache artifact")
			continue
		}
		s.logger.Debug().Str("file", entry.Name()).Msg("removed stray cache artifact")
	}
}
