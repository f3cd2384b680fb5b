// Package session holds the authoritative client session and the access
// gate in front of protected actions. The Store is the single writer of the
// session record; every other component reads through it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/api"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/models"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/storage"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Store struct {
	mu      sync.RWMutex
	session models.Session
	subs    []func(models.Session)

	api     *api.Client
	storage *storage.SessionStore
	log     zerolog.Logger
}

func NewStore(client *api.Client, store *storage.SessionStore, log zerolog.Logger) *Store {
	return &Store{
		api:     client,
		storage: store,
		log:     log,
	}
}

// Restore reads durable storage once at startup. A malformed record is
// treated as no session at all and wiped, never restored partially.
func (s *Store) Restore() error {
	token, user, err := s.storage.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if errors.Is(err, storage.ErrCorrupted) {
			s.log.Warn().Msg("stored session corrupted, clearing")
			if clearErr := s.storage.Clear(); clearErr != nil {
				s.log.Error().Err(clearErr).Msg("clear corrupted session failed")
			}
			return nil
		}
		return fmt.Errorf("restore session: %w", err)
	}

	s.set(models.Session{Token: token, User: &user})
	s.log.Info().Str("user", user.Email).Msg("session restored")
	return nil
}

// Login exchanges credentials for a token and identity, persisting both
// durably and in memory before returning.
func (s *Store) Login(ctx context.Context, email, password string) (models.User, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Kind != api.KindConnection {
			return models.User{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, apiErr)
		}
		return models.User{}, err
	}

	if err := s.storage.Save(resp.Token, resp.User); err != nil {
		return models.User{}, fmt.Errorf("persist session: %w", err)
	}

	user := resp.User
	s.set(models.Session{Token: resp.Token, User: &user})
	s.log.Info().Str("user", user.Email).Msg("logged in")
	return user, nil
}

// Logout notifies the server best-effort and then unconditionally clears
// both the in-memory and the durable session; a dangling local session must
// never survive a failed network call.
func (s *Store) Logout(ctx context.Context) {
	if s.IsAuthenticated() {
		if err := s.api.Logout(ctx); err != nil {
			s.log.Warn().Err(err).Msg("server logout failed")
		}
	}

	if err := s.storage.Clear(); err != nil {
		s.log.Error().Err(err).Msg("clear stored session failed")
	}

	s.set(models.Session{})
	s.log.Info().Msg("logged out")
}

func (s *Store) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated()
}

func (s *Store) IsPrivileged() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Privileged()
}

// Token implements api.CredentialSource.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token, s.session.Token != ""
}

// Subscribe registers a listener called after every session change.
func (s *Store) Subscribe(fn func(models.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) set(session models.Session) {
	s.mu.Lock()
	s.session = session
	subs := make([]func(models.Session), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(session)
	}
}
