// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metadata resolves numeric application identifiers to
// human-readable names. The lookup is purely for observability: a failed
// resolution never blocks or fails the caller, it just leaves the activity
// unlabelled.
package metadata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-session-keeper/internal/logger"
)

// Resolver looks up display names for application identifiers.
type Resolver interface {
	// AppName returns the application's display name, or ok=false when the
	// name is unknown or the lookup failed.
	AppName(ctx context.Context, appID uint32) (name string, ok bool)
}

type appResponse struct {
	Name string `json:"name"`
}

// httpResolver queries a metadata endpoint over HTTP and caches results in
// memory for the process lifetime; application names do not change often
// enough to warrant expiry.
type httpResolver struct {
	client *resty.Client
	logger *logger.Logger

	mu    sync.RWMutex
	cache map[uint32]string
}

// NewHTTPResolver constructs a [Resolver] over the metadata endpoint at
// baseURL. An empty baseURL yields a resolver that always reports unknown.
func NewHTTPResolver(baseURL string, timeout time.Duration, log *logger.Logger) Resolver {
	var client *resty.Client
	if baseURL != "" {
		client = resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout)
	}

	return &httpResolver{
		client: client,
		logger: log,
		cache:  make(map[uint32]string),
	}
}

// AppName implements [Resolver].
func (r *httpResolver) AppName(ctx context.Context, appID uint32) (string, bool) {
	if r.client == nil {
		return "", false
	}

	r.mu.RLock()
	name, hit := r.cache[appID]
	r.mu.RUnlock()
	if hit {
		return name, name != ""
	}

	var app appResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&app).
		Get(fmt.Sprintf("/apps/%d", appID))
	if err != nil || resp.IsError() || app.Name == "" {
		r.logger.Debug().Uint32("app_id", appID).Msg("app name lookup failed")
		// Negative result is cached too: a missing app stays missing and
		// re-querying it on every resubmission is wasted traffic.
		r.store(appID, "")
		return "", false
	}

	r.store(appID, app.Name)
	return app.Name, true
}

func (r *httpResolver) store(appID uint32, name string) {
	r.mu.Lock()
	r.cache[appID] = name
	r.mu.Unlock()
}
