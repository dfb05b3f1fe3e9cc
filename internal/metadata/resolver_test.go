package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-session-keeper/internal/logger"
)

func TestHTTPResolver_LookupAndCache(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, "/apps/730", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"Counter-Strike 2"}`)
	}))
	defer srv.Close()

	r := NewHTTPResolver(srv.URL, time.Second, logger.Nop())

	name, ok := r.AppName(context.Background(), 730)
	require.True(t, ok)
	assert.Equal(t, "Counter-Strike 2", name)

	// Повторный запрос идёт из кэша, без обращения к серверу.
	name, ok = r.AppName(context.Background(), 730)
	require.True(t, ok)
	assert.Equal(t, "Counter-Strike 2", name)
	assert.Equal(t, int64(1), calls.Load())
}

func TestHTTPResolver_NegativeResultCached(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	r := NewHTTPResolver(srv.URL, time.Second, logger.Nop())

	_, ok := r.AppName(context.Background(), 999999)
	assert.False(t, ok)

	_, ok = r.AppName(context.Background(), 999999)
	assert.False(t, ok)
	assert.Equal(t, int64(1), calls.Load())
}

func TestHTTPResolver_EmptyNameIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":""}`)
	}))
	defer srv.Close()

	r := NewHTTPResolver(srv.URL, time.Second, logger.Nop())

	_, ok := r.AppName(context.Background(), 440)
	assert.False(t, ok)
}

func TestHTTPResolver_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from now on

	r := NewHTTPResolver(srv.URL, time.Second, logger.Nop())

	_, ok := r.AppName(context.Background(), 730)
	assert.False(t, ok)
}

func TestHTTPResolver_DisabledWithoutBaseURL(t *testing.T) {
	r := NewHTTPResolver("", time.Second, logger.Nop())

	_, ok := r.AppName(context.Background(), 730)
	assert.False(t, ok)
}
