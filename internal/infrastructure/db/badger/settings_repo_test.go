package badgerdb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zordon-wallet/zordon/internal/core/domain"
	badgerdb "github.com/zordon-wallet/zordon/internal/infrastructure/db/badger"
)

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()

	repo, err := badgerdb.NewSettingsRepository("", nil)
	require.NoError(t, err)
	defer repo.Close()

	t.Run("get before upsert returns nil", func(t *testing.T) {
		settings, err := repo.Get(ctx)
		require.NoError(t, err)
		require.Nil(t, settings)
	})

	t.Run("upsert then get roundtrips", func(t *testing.T) {
		stored := domain.NewSettings(domain.NetworkMainnet, true)
		require.NoError(t, repo.Upsert(ctx, *stored))

		settings, err := repo.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, settings)
		require.Equal(t, domain.NetworkMainnet, settings.Network)
		require.True(t, settings.WalletPrepared)
	})

	t.Run("upsert overwrites", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, *domain.NewSettings(domain.NetworkTestnet, false)))

		settings, err := repo.Get(ctx)
		require.NoError(t, err)
		require.Equal(t, domain.NetworkTestnet, settings.Network)
		require.False(t, settings.WalletPrepared)
	})

	t.Run("clear removes the settings and is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Clear(ctx))
		require.NoError(t, repo.Clear(ctx))

		settings, err := repo.Get(ctx)
		require.NoError(t, err)
		require.Nil(t, settings)
	})
}
