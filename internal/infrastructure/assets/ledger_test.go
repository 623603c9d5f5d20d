package assets_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curvex-network/curvex-daemon/internal/infrastructure/assets"
	dbbadger "github.com/curvex-network/curvex-daemon/internal/infrastructure/storage/db/badger"
)

var testAsset = strings.Repeat("aa", 32)

func TestLedger(t *testing.T) {
	ctx := context.Background()
	ledger := assets.NewLedger()

	ledger.Fund(testAsset, "maker", 1000)

	received, err := ledger.TransferIn(ctx, testAsset, "maker", 400)
	require.NoError(t, err)
	require.Equal(t, uint64(400), received)
	require.Equal(t, uint64(600), ledger.BalanceOf(testAsset, "maker"))
	require.Equal(t, uint64(400), ledger.BalanceOf(testAsset, assets.EngineAccount))

	_, err = ledger.TransferIn(ctx, testAsset, "maker", 601)
	require.ErrorIs(t, err, assets.ErrInsufficientBalance)

	require.NoError(t, ledger.TransferOut(ctx, testAsset, "maker", 400))
	require.Equal(t, uint64(1000), ledger.BalanceOf(testAsset, "maker"))
}

func TestLedgerTransferFee(t *testing.T) {
	ctx := context.Background()
	ledger := assets.NewLedger()

	ledger.Fund(testAsset, "maker", 1000)
	ledger.SetTransferFee(testAsset, 10000)

	received, err := ledger.TransferIn(ctx, testAsset, "maker", 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(990), received)
	require.Equal(t, uint64(990), ledger.BalanceOf(testAsset, assets.EngineAccount))
}

func TestBadgerLedgerPersistence(t *testing.T) {
	ctx := context.Background()
	dbDir := t.TempDir()

	repoManager, err := dbbadger.NewRepoManager(dbDir, nil)
	require.NoError(t, err)

	ledger := assets.NewBadgerLedger(repoManager.Store())
	require.NoError(t, ledger.Fund(testAsset, "maker", 1000))
	repoManager.Close()

	// a credit must survive to the next process opening the same data dir
	repoManager, err = dbbadger.NewRepoManager(dbDir, nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)

	ledger = assets.NewBadgerLedger(repoManager.Store())
	balance, err := ledger.BalanceOf(testAsset, "maker")
	require.NoError(t, err)
	require.Equal(t, uint64(1000), balance)

	received, err := ledger.TransferIn(ctx, testAsset, "maker", 400)
	require.NoError(t, err)
	require.Equal(t, uint64(400), received)

	balance, err = ledger.BalanceOf(testAsset, assets.EngineAccount)
	require.NoError(t, err)
	require.Equal(t, uint64(400), balance)

	_, err = ledger.TransferIn(ctx, testAsset, "maker", 601)
	require.ErrorIs(t, err, assets.ErrInsufficientBalance)
}
