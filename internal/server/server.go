// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the admin HTTP server and owns its graceful shutdown
// on process signals.
package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-session-keeper/internal/config"
	"github.com/MKhiriev/go-session-keeper/internal/logger"
)

// Server is the runnable admin surface.
type Server interface {
	// RunServer blocks until a termination signal arrives, then shuts the
	// server down and invokes every registered shutdown hook.
	RunServer()
}

type server struct {
	httpServer *http.Server
	logger     *logger.Logger

	// onShutdown hooks run after the HTTP listener has stopped, in order.
	onShutdown []func()
}

// NewServer builds the admin server from a ready router. handler may be nil
// when the admin address is unconfigured; the server then only waits for
// signals and runs shutdown hooks, keeping process lifetime handling in one
// place.
func NewServer(handler http.Handler, cfg config.Server, log *logger.Logger, onShutdown ...func()) Server {
	s := &server{
		logger:     log,
		onShutdown: onShutdown,
	}

	if cfg.HTTPAddress != "" && handler != nil {
		s.httpServer = &http.Server{
			Addr:        cfg.HTTPAddress,
			Handler:     handler,
			ReadTimeout: cfg.RequestTimeout,
		}
	}

	return s
}

func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if s.httpServer != nil {
		go func() {
			s.logger.Info().Str("address", s.httpServer.Addr).Msg("admin server listening")
			if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.logger.Error().Err(err).Msg("admin server stopped")
			}
		}()
	}

	<-ctx.Done()
	s.shutdown()
}

func (s *server) shutdown() {
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("error shutting down admin server")
		}
	}

	for _, hook := range s.onShutdown {
		hook()
	}

	s.logger.Info().Msg("shutdown complete")
}
