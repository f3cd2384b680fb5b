// Package storage persists the session credential and identity on disk,
// the client-side analog of the browser's localStorage. Both records are
// written and removed inside a single transaction so the credential can
// never exist without the identity or vice versa.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/config"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/models"
)

var (
	ErrNotFound  = errors.New("no stored session")
	ErrCorrupted = errors.New("stored session corrupted")
)

var (
	keyToken = []byte("session:token")
	keyUser  = []byte("session:user")
)

type SessionStore struct {
	db *badger.DB
}

func Open(cfg config.StorageConfig) (*SessionStore, error) {
	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}
	return &SessionStore{db: db}, nil
}

func (s *SessionStore) Save(token string, user models.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(keyToken, []byte(token)); err != nil {
			return err
		}
		return txn.Set(keyUser, encoded)
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Load returns ErrNotFound when nothing was stored and ErrCorrupted when the
// record is unusable, including a partial record where only one of the two
// keys survived, so the caller wipes the orphan. A partial session is never
// returned.
func (s *SessionStore) Load() (string, models.User, error) {
	var (
		token    string
		user     models.User
		hasToken bool
		hasUser  bool
		parsed   = true
	)

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyToken)
		switch {
		case err == nil:
			hasToken = true
			if err := item.Value(func(val []byte) error {
				token = string(val)
				return nil
			}); err != nil {
				return err
			}
		case errors.Is(err, badger.ErrKeyNotFound):
		default:
			return err
		}

		item, err = txn.Get(keyUser)
		switch {
		case err == nil:
			hasUser = true
			if err := item.Value(func(val []byte) error {
				if json.Unmarshal(val, &user) != nil {
					parsed = false
				}
				return nil
			}); err != nil {
				return err
			}
		case errors.Is(err, badger.ErrKeyNotFound):
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return "", models.User{}, fmt.Errorf("load session: %w", err)
	}

	switch {
	case !hasToken && !hasUser:
		return "", models.User{}, ErrNotFound
	case !hasToken || !hasUser || !parsed || token == "":
		return "", models.User{}, ErrCorrupted
	}
	return token, user, nil
}

func (s *SessionStore) Clear() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(keyToken); err != nil {
			return err
		}
		return txn.Delete(keyUser)
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionStore) Close() error {
	return s.db.Close()
}
