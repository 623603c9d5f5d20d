package inmemory

import (
	"context"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
)

type strategyRepositoryImpl struct {
	store *store
}

func newStrategyRepositoryImpl(store *store) domain.StrategyRepository {
	return &strategyRepositoryImpl{store: store}
}

func (r *strategyRepositoryImpl) AddStrategy(
	ctx context.Context, pair *domain.Pair, orders [2]domain.Order,
) (*domain.Strategy, error) {
	unlock := r.store.writeLock(ctx)
	defer unlock()

	data := r.store.data
	data.strategyCounters[pair.ID]++
	id := domain.StrategyID{PairID: pair.ID, Index: data.strategyCounters[pair.ID]}

	strategy, err := domain.NewStrategy(id, pair, orders)
	if err != nil {
		return nil, err
	}

	data.strategies[id] = *strategy
	data.strategyIDs[pair.ID] = append(data.strategyIDs[pair.ID], id)

	return strategy, nil
}

func (r *strategyRepositoryImpl) GetStrategy(
	ctx context.Context, id domain.StrategyID,
) (*domain.Strategy, error) {
	unlock := r.store.readLock(ctx)
	defer unlock()

	strategy, ok := r.store.data.strategies[id]
	if !ok {
		return nil, domain.ErrStrategyDoesNotExist
	}
	return &strategy, nil
}

func (r *strategyRepositoryImpl) UpdateStrategy(
	ctx context.Context, id domain.StrategyID,
	updateFn func(*domain.Strategy) (*domain.Strategy, error),
) error {
	unlock := r.store.writeLock(ctx)
	defer unlock()

	current, ok := r.store.data.strategies[id]
	if !ok {
		return domain.ErrStrategyDoesNotExist
	}

	updated, err := updateFn(&current)
	if err != nil {
		return err
	}

	r.store.data.strategies[id] = *updated
	return nil
}

func (r *strategyRepositoryImpl) DeleteStrategy(
	ctx context.Context, id domain.StrategyID,
) error {
	unlock := r.store.writeLock(ctx)
	defer unlock()

	data := r.store.data
	if _, ok := data.strategies[id]; !ok {
		return domain.ErrStrategyDoesNotExist
	}

	delete(data.strategies, id)
	ids := data.strategyIDs[id.PairID]
	for i, v := range ids {
		if v == id {
			data.strategyIDs[id.PairID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (r *strategyRepositoryImpl) GetStrategiesForPair(
	ctx context.Context, pairID uint64,
) ([]domain.Strategy, error) {
	unlock := r.store.readLock(ctx)
	defer unlock()

	ids := r.store.data.strategyIDs[pairID]
	strategies := make([]domain.Strategy, 0, len(ids))
	for _, id := range ids {
		strategies = append(strategies, r.store.data.strategies[id])
	}
	return strategies, nil
}

func (r *strategyRepositoryImpl) CountStrategiesForPair(
	ctx context.Context, pairID uint64,
) (uint64, error) {
	unlock := r.store.readLock(ctx)
	defer unlock()

	return uint64(len(r.store.data.strategyIDs[pairID])), nil
}
