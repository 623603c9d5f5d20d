package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
	"github.com/curvex-network/curvex-daemon/internal/core/ports"
	"github.com/curvex-network/curvex-daemon/internal/infrastructure/registry"
	dbbadger "github.com/curvex-network/curvex-daemon/internal/infrastructure/storage/db/badger"
)

func TestOwnershipRegistry(t *testing.T) {
	ctx := context.Background()
	id := domain.StrategyID{PairID: 1, Index: 1}

	reg := registry.NewOwnershipRegistry()

	_, err := reg.OwnerOf(ctx, id)
	require.ErrorIs(t, err, ports.ErrOwnershipNotFound)

	require.NoError(t, reg.Mint(ctx, id, "maker"))
	require.ErrorIs(t, reg.Mint(ctx, id, "other"), registry.ErrAlreadyMinted)

	owner, err := reg.OwnerOf(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "maker", owner)

	require.ErrorIs(t, reg.Transfer(ctx, id, "other", "taker"), registry.ErrNotOwner)
	require.NoError(t, reg.Transfer(ctx, id, "maker", "taker"))

	require.NoError(t, reg.Burn(ctx, id))
	_, err = reg.OwnerOf(ctx, id)
	require.ErrorIs(t, err, ports.ErrOwnershipNotFound)
	require.ErrorIs(t, reg.Burn(ctx, id), ports.ErrOwnershipNotFound)
}

func TestBadgerOwnershipRegistryPersistence(t *testing.T) {
	ctx := context.Background()
	id := domain.StrategyID{PairID: 1, Index: 1}
	dbDir := t.TempDir()

	repoManager, err := dbbadger.NewRepoManager(dbDir, nil)
	require.NoError(t, err)

	reg := registry.NewBadgerOwnershipRegistry(repoManager.Store())
	require.NoError(t, reg.Mint(ctx, id, "maker"))
	repoManager.Close()

	// records must survive to the next process opening the same data dir
	repoManager, err = dbbadger.NewRepoManager(dbDir, nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)

	reg = registry.NewBadgerOwnershipRegistry(repoManager.Store())
	owner, err := reg.OwnerOf(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "maker", owner)

	require.ErrorIs(t, reg.Mint(ctx, id, "other"), registry.ErrAlreadyMinted)
	require.NoError(t, reg.Burn(ctx, id))
	_, err = reg.OwnerOf(ctx, id)
	require.ErrorIs(t, err, ports.ErrOwnershipNotFound)
}
