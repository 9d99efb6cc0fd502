package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasknest/internal/service"
	"tasknest/internal/storage"
	"tasknest/internal/testutil"
)

func TestGate_LoginPersistsToken(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "s3cret")
	svc.Token = "tok-123"

	g, err := Open(store, nil)
	require.NoError(t, err)
	assert.Equal(t, LoggedOut, g.State())

	require.NoError(t, g.Login(context.Background(), svc, "alice", "s3cret"))
	assert.Equal(t, LoggedIn, g.State())
	assert.Equal(t, "tok-123", g.AccessToken())

	// A fresh gate over the same store restores the session.
	g2, err := Open(store, nil)
	require.NoError(t, err)
	assert.Equal(t, LoggedIn, g2.State())
	assert.Equal(t, "tok-123", g2.AccessToken())
	assert.Equal(t, "Bearer", g2.Token().Type())
}

func TestGate_WrongPasswordLeavesStateUnchanged(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "s3cret")

	g, err := Open(store, nil)
	require.NoError(t, err)

	err = g.Login(context.Background(), svc, "alice", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Equal(t, LoggedOut, g.State())

	_, ok, err := store.Get(storage.KeyToken)
	require.NoError(t, err)
	assert.False(t, ok, "no token should be stored")
}

func TestGate_MissingCredentials(t *testing.T) {
	svc := testutil.NewFakeService()
	g, err := Open(storage.NewMemoryStore(), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, g.Login(context.Background(), svc, " ", "pw"), ErrMissingCredentials)
	assert.ErrorIs(t, g.Login(context.Background(), svc, "bob", ""), ErrMissingCredentials)
	assert.Equal(t, 0, svc.Calls["Login"])
}

func TestGate_LogoutAndInvalidate(t *testing.T) {
	for name, end := range map[string]func(*Gate) error{
		"logout":     (*Gate).Logout,
		"invalidate": (*Gate).Invalidate,
	} {
		t.Run(name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			svc := testutil.NewFakeService()
			svc.AddUser("alice", "pw")

			g, err := Open(store, nil)
			require.NoError(t, err)
			require.NoError(t, g.Login(context.Background(), svc, "alice", "pw"))

			require.NoError(t, end(g))
			assert.Equal(t, LoggedOut, g.State())
			assert.Equal(t, "", g.AccessToken())
			_, ok, _ := store.Get(storage.KeyToken)
			assert.False(t, ok)

			// Ending twice is harmless.
			assert.NoError(t, end(g))
		})
	}
}

func TestOpen_DiscardsCorruptToken(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyToken, "not-json"))

	g, err := Open(store, nil)
	require.NoError(t, err)
	assert.Equal(t, LoggedOut, g.State())
	_, ok, _ := store.Get(storage.KeyToken)
	assert.False(t, ok)
}

func TestGate_BackendErrorPassesThrough(t *testing.T) {
	svc := testutil.NewFakeService()
	boom := errors.New("dial tcp: connection refused")
	svc.LoginErr = boom

	g, err := Open(storage.NewMemoryStore(), nil)
	require.NoError(t, err)
	assert.ErrorIs(t, g.Login(context.Background(), svc, "a", "b"), boom)
	assert.Equal(t, LoggedOut, g.State())
}
