package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/api"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/models"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/session"
)

// promptRecorder stands in for the auth dialog and records every opening.
type promptRecorder struct {
	calls []bool
}

func (p *promptRecorder) OpenDialog(showRequiredMessage bool) {
	p.calls = append(p.calls, showRequiredMessage)
}

func newGateEnv(t *testing.T) (*env, *promptRecorder, *session.Gate) {
	t.Helper()
	e := newEnv(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.LoginResponse{
			Token: "tok-1",
			User:  models.User{ID: 1, Username: "ivan"},
		})
	})
	prompt := &promptRecorder{}
	gate := session.NewGate(e.store, prompt, zerolog.Nop())
	return e, prompt, gate
}

func TestGuardBlocksAnonymousAndRequestsAuth(t *testing.T) {
	_, prompt, gate := newGateEnv(t)

	var ran bool
	gate.Guard(func() { ran = true })

	assert.False(t, ran, "protected action must not run for an anonymous user")
	assert.Equal(t, []bool{true}, prompt.calls, "the dialog opens with the required notice")
}

func TestGuardDoesNotResumeActionAfterLogin(t *testing.T) {
	e, _, gate := newGateEnv(t)

	var ran int
	gate.Guard(func() { ran++ })
	require.Zero(t, ran)

	_, err := e.store.Login(context.Background(), "ivan", "Secret1!")
	require.NoError(t, err)

	assert.Zero(t, ran, "the blocked action is forgotten, not queued")

	gate.Guard(func() { ran++ })
	assert.Equal(t, 1, ran)
}

func TestGuardRunsActionWhenAuthenticated(t *testing.T) {
	e, prompt, gate := newGateEnv(t)

	_, err := e.store.Login(context.Background(), "ivan", "Secret1!")
	require.NoError(t, err)

	var ran bool
	gate.Guard(func() { ran = true })

	assert.True(t, ran)
	assert.Empty(t, prompt.calls, "no dialog for an authenticated user")
}

func TestCanManage(t *testing.T) {
	e := newEnv(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.LoginResponse{
			Token: "tok-1",
			User:  models.User{ID: 2, Username: "boss", IsSuperuser: true},
		})
	})
	gate := session.NewGate(e.store, &promptRecorder{}, zerolog.Nop())

	assert.False(t, gate.CanManage())

	_, err := e.store.Login(context.Background(), "boss", "Secret1!")
	require.NoError(t, err)

	assert.True(t, gate.CanManage())
}
