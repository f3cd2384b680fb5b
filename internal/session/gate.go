package session

import (
	"github.com/rs/zerolog"
)

// AuthPrompt presents the sign-in dialog when a protected action is blocked.
type AuthPrompt interface {
	OpenDialog(showRequiredMessage bool)
}

// Gate decides whether a protected action may run. Unauthenticated requests
// open the auth dialog with the required-message notice instead; the action
// is NOT remembered; after logging in the user re-invokes it themselves.
type Gate struct {
	sessions *Store
	prompt   AuthPrompt
	log      zerolog.Logger
}

func NewGate(sessions *Store, prompt AuthPrompt, log zerolog.Logger) *Gate {
	return &Gate{
		sessions: sessions,
		prompt:   prompt,
		log:      log,
	}
}

func (g *Gate) Guard(action func()) {
	if g.sessions.IsAuthenticated() {
		action()
		return
	}

	g.log.Debug().Msg("protected action blocked, requesting auth")
	g.prompt.OpenDialog(true)
}

// CanManage reports whether the manager navigation should be exposed. Pure
// read, never mutates the session.
func (g *Gate) CanManage() bool {
	return g.sessions.IsPrivileged()
}
