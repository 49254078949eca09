package credstore_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zordon-wallet/zordon/internal/infrastructure/credstore"
)

type staticUnlocker struct {
	password string
	err      error
}

func (u staticUnlocker) Password(_ context.Context) (string, error) {
	return u.password, u.err
}

func TestCredentialStore(t *testing.T) {
	ctx := context.Background()

	t.Run("load of a missing credential returns nil without error", func(t *testing.T) {
		store, err := credstore.New("", nil, nil)
		require.NoError(t, err)

		secret, err := store.Load(ctx, "primary")
		require.NoError(t, err)
		require.Nil(t, secret)
	})

	t.Run("plain roundtrip", func(t *testing.T) {
		store, err := credstore.New("", nil, nil)
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, []byte("my seed"), "primary", false))
		secret, err := store.Load(ctx, "primary")
		require.NoError(t, err)
		require.Equal(t, []byte("my seed"), secret)
	})

	t.Run("local-presence roundtrip is encrypted at rest", func(t *testing.T) {
		store, err := credstore.New("", nil, staticUnlocker{password: "pass"})
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, []byte("my seed"), "primary", true))
		secret, err := store.Load(ctx, "primary")
		require.NoError(t, err)
		require.Equal(t, []byte("my seed"), secret)
	})

	t.Run("local-presence save without unlocker fails", func(t *testing.T) {
		store, err := credstore.New("", nil, nil)
		require.NoError(t, err)

		err = store.Save(ctx, []byte("my seed"), "primary", true)
		require.Error(t, err)
	})

	t.Run("unlocker failure blocks the save", func(t *testing.T) {
		store, err := credstore.New("", nil, staticUnlocker{err: fmt.Errorf("denied")})
		require.NoError(t, err)

		err = store.Save(ctx, []byte("my seed"), "primary", true)
		require.Error(t, err)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store, err := credstore.New("", nil, nil)
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, []byte("my seed"), "primary", false))
		require.NoError(t, store.Delete(ctx, "primary"))
		require.NoError(t, store.Delete(ctx, "primary"))

		secret, err := store.Load(ctx, "primary")
		require.NoError(t, err)
		require.Nil(t, secret)
	})

	t.Run("missing inputs are rejected", func(t *testing.T) {
		store, err := credstore.New("", nil, nil)
		require.NoError(t, err)

		require.Error(t, store.Save(ctx, nil, "primary", false))
		require.Error(t, store.Save(ctx, []byte("my seed"), "", false))
	})
}
