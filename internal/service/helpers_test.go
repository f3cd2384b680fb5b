package service_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/api"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/config"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/modal"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/models"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/service"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/session"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/storage"
)

// fixture assembles the client-side object graph against a fake backend.
type fixture struct {
	mu   sync.Mutex
	hits map[string]int

	mux      *http.ServeMux
	client   *api.Client
	storage  *storage.SessionStore
	sessions *session.Store
	modals   *modal.Controller
	auth     *service.AuthFlow
	gate     *session.Gate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		hits: make(map[string]int),
		mux:  http.NewServeMux(),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.Method+" "+r.URL.Path]++
		f.mu.Unlock()
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	f.client = api.NewClient(config.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, zerolog.Nop())

	sessionStorage, err := storage.Open(config.StorageConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessionStorage.Close() })
	f.storage = sessionStorage

	f.sessions = session.NewStore(f.client, sessionStorage, zerolog.Nop())
	f.client.SetCredentialSource(f.sessions)

	f.modals = modal.NewController(10*time.Millisecond, modal.Hooks{}, zerolog.Nop())
	t.Cleanup(f.modals.Stop)

	f.auth = service.NewAuthFlow(f.sessions, f.client, f.modals, zerolog.Nop())
	f.gate = session.NewGate(f.sessions, f.auth, zerolog.Nop())
	return f
}

// authenticate seeds the session without going through the login endpoint.
func (f *fixture) authenticate(t *testing.T, user models.User) {
	t.Helper()
	require.NoError(t, f.storage.Save("tok-test", user))
	require.NoError(t, f.sessions.Restore())
}

func (f *fixture) requests(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fixture) totalRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int
	for _, c := range f.hits {
		n += c
	}
	return n
}

// brokenClient points at a server that is already gone, so every call fails
// with a connection error.
func brokenClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return api.NewClient(config.APIConfig{BaseURL: srv.URL, Timeout: time.Second}, zerolog.Nop())
}

func waitPhase(t *testing.T, modals *modal.Controller, want modal.Phase) {
	t.Helper()
	require.Eventually(t, func() bool {
		return modals.Phase() == want
	}, time.Second, time.Millisecond)
}
