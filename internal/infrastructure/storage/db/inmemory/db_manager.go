package inmemory

import (
	"context"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
	"github.com/curvex-network/curvex-daemon/internal/core/ports"
)

// RepoManager is a volatile, map-backed implementation of ports.RepoManager.
// Transactions are implemented by snapshotting the whole store: it is meant
// for tests and for running the daemon in ephemeral mode.
type RepoManager struct {
	store              *store
	pairRepository     domain.PairRepository
	strategyRepository domain.StrategyRepository
	feeRepository      domain.FeeRepository
}

// NewRepoManager returns a new empty in-memory RepoManager.
func NewRepoManager() ports.RepoManager {
	store := newStore()

	return &RepoManager{
		store:              store,
		pairRepository:     newPairRepositoryImpl(store),
		strategyRepository: newStrategyRepositoryImpl(store),
		feeRepository:      newFeeRepositoryImpl(store),
	}
}

func (d *RepoManager) PairRepository() domain.PairRepository {
	return d.pairRepository
}

func (d *RepoManager) StrategyRepository() domain.StrategyRepository {
	return d.strategyRepository
}

func (d *RepoManager) FeeRepository() domain.FeeRepository {
	return d.feeRepository
}

// RunTransaction holds the store exclusively for the whole handler and
// restores the pre-transaction snapshot if the handler fails.
func (d *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	d.store.lock.Lock()
	defer d.store.lock.Unlock()

	var snapshot *storeData
	if !readOnly {
		snapshot = d.store.data.clone()
	}

	res, err := handler(context.WithValue(ctx, txKey, struct{}{}))
	if err != nil {
		if !readOnly {
			d.store.data = snapshot
		}
		return nil, err
	}
	return res, nil
}

func (d *RepoManager) Close() {}
