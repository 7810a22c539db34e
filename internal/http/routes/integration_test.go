package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sspmdev/lessonproxy/cache"
	"github.com/sspmdev/lessonproxy/internal/github"
	"github.com/sspmdev/lessonproxy/internal/lessons"
)

const quarterListing = `[
	{"name":"01","path":"src/en/2024-q1/01","sha":"a1","size":0,"url":"u","html_url":"h","git_url":"g","download_url":null,"type":"dir","_links":{"self":"s","git":"g","html":"h"}},
	{"name":"02","path":"src/en/2024-q1/02","sha":"a2","size":0,"url":"u","html_url":"h","git_url":"g","download_url":null,"type":"dir","_links":{"self":"s","git":"g","html":"h"}}
]`

// Full stack minus Redis: chi router, real resolver, memory store, and an
// httptest origin with a call counter.
func TestLessonsEndToEnd(t *testing.T) {
	var originCalls int64
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&originCalls, 1)
		require.Equal(t, "/en/2024-q1", r.URL.Path)
		require.Equal(t, "Bearer e2e-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(quarterListing))
	}))
	defer origin.Close()

	client, err := github.NewClient("e2e-token", github.WithBaseURL(origin.URL))
	require.NoError(t, err)

	store := cache.NewMemory()
	resolver := lessons.NewResolver(client, store, time.Hour, zerolog.Nop())
	s := New(ServerOptions{Resolver: resolver, Logger: zerolog.Nop()})

	// Cold cache: the proxy fetches from the origin and returns its JSON.
	first := doGet(s, "/api/lessons/en/2024-q1")
	require.Equal(t, http.StatusOK, first.Code)
	require.JSONEq(t, quarterListing, first.Body.String())
	require.EqualValues(t, 1, atomic.LoadInt64(&originCalls))

	// The listing was cached under the canonical key.
	_, ok, err := store.Get(context.Background(), "github:/en/2024-q1")
	require.NoError(t, err)
	require.True(t, ok)

	// Warm cache: identical body, origin not contacted again.
	second := doGet(s, "/api/lessons/en/2024-q1")
	require.Equal(t, http.StatusOK, second.Code)
	require.JSONEq(t, first.Body.String(), second.Body.String())
	require.EqualValues(t, 1, atomic.LoadInt64(&originCalls))
}

func TestLessonsEndToEndUpstream404(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer origin.Close()

	client, err := github.NewClient("e2e-token", github.WithBaseURL(origin.URL))
	require.NoError(t, err)

	resolver := lessons.NewResolver(client, cache.NewMemory(), time.Hour, zerolog.Nop())
	s := New(ServerOptions{Resolver: resolver, Logger: zerolog.Nop()})

	rec := doGet(s, "/api/lessons/xx/0000-q0")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	msg := decodeMessage(t, rec)
	require.Contains(t, msg, "Error fetching data: ")
	require.Contains(t, msg, "404")
}

func TestLessonsEndToEndEmptyListing(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer origin.Close()

	client, err := github.NewClient("e2e-token", github.WithBaseURL(origin.URL))
	require.NoError(t, err)

	resolver := lessons.NewResolver(client, cache.NewMemory(), time.Hour, zerolog.Nop())
	s := New(ServerOptions{Resolver: resolver, Logger: zerolog.Nop()})

	rec := doGet(s, "/api/lessons/en/2099-q9")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, decodeMessage(t, rec), "no content found")
}
