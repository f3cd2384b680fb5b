package storage

import (
	"testing"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/config"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/models"
)

func openStore(t *testing.T) *SessionStore {
	t.Helper()
	store, err := Open(config.StorageConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openStore(t)
	user := models.User{ID: 7, Username: "ivan", Email: "ivan@example.com", IsStaff: true}

	require.NoError(t, store.Save("tok-1", user))

	token, loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, user, loaded)
}

func TestLoadEmptyStore(t *testing.T) {
	store := openStore(t)

	_, _, err := store.Load()

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearRemovesBothRecords(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Save("tok-1", models.User{ID: 1}))

	require.NoError(t, store.Clear())

	_, _, err := store.Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearIsIdempotent(t *testing.T) {
	store := openStore(t)

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Clear())
}

func TestLoadCorruptedIdentity(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Save("tok-1", models.User{ID: 1}))

	err := store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyUser, []byte("{not json"))
	})
	require.NoError(t, err)

	_, _, loadErr := store.Load()
	assert.ErrorIs(t, loadErr, ErrCorrupted)
}

func TestLoadTokenWithoutIdentity(t *testing.T) {
	store := openStore(t)

	err := store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyToken, []byte("orphan"))
	})
	require.NoError(t, err)

	_, _, loadErr := store.Load()
	assert.ErrorIs(t, loadErr, ErrCorrupted, "an orphaned token must be reported for wiping")
}

func TestLoadIdentityWithoutToken(t *testing.T) {
	store := openStore(t)

	err := store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyUser, []byte(`{"id":1,"username":"ivan"}`))
	})
	require.NoError(t, err)

	_, _, loadErr := store.Load()
	assert.ErrorIs(t, loadErr, ErrCorrupted, "an orphaned identity must be reported for wiping")
}

func TestLoadEmptyToken(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Save("", models.User{ID: 1}))

	_, _, err := store.Load()
	assert.ErrorIs(t, err, ErrCorrupted)
}
