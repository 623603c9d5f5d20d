package inmemory

import (
	"context"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
)

type pairRepositoryImpl struct {
	store *store
}

func newPairRepositoryImpl(store *store) domain.PairRepository {
	return &pairRepositoryImpl{store: store}
}

func pairKey(token0, token1 string) string {
	return token0 + "/" + token1
}

func (r *pairRepositoryImpl) AddPair(
	ctx context.Context, token0, token1 string,
) (*domain.Pair, error) {
	unlock := r.store.writeLock(ctx)
	defer unlock()

	data := r.store.data
	if _, ok := data.pairIDsByTokens[pairKey(token0, token1)]; ok {
		return nil, domain.ErrPairAlreadyExists
	}

	data.pairCounter++
	pair := domain.Pair{ID: data.pairCounter, Token0: token0, Token1: token1}
	data.pairs[pair.ID] = pair
	data.pairIDsByTokens[pairKey(token0, token1)] = pair.ID

	return &pair, nil
}

func (r *pairRepositoryImpl) GetPair(
	ctx context.Context, tokenA, tokenB string,
) (*domain.Pair, error) {
	unlock := r.store.readLock(ctx)
	defer unlock()

	token0, token1 := domain.SortTokens(tokenA, tokenB)
	id, ok := r.store.data.pairIDsByTokens[pairKey(token0, token1)]
	if !ok {
		return nil, domain.ErrPairDoesNotExist
	}
	pair := r.store.data.pairs[id]
	return &pair, nil
}

func (r *pairRepositoryImpl) GetPairByID(
	ctx context.Context, id uint64,
) (*domain.Pair, error) {
	unlock := r.store.readLock(ctx)
	defer unlock()

	pair, ok := r.store.data.pairs[id]
	if !ok {
		return nil, domain.ErrPairDoesNotExist
	}
	return &pair, nil
}

func (r *pairRepositoryImpl) GetAllPairs(
	ctx context.Context,
) ([]domain.Pair, error) {
	unlock := r.store.readLock(ctx)
	defer unlock()

	pairs := make([]domain.Pair, 0, len(r.store.data.pairs))
	for id := uint64(1); id <= r.store.data.pairCounter; id++ {
		if pair, ok := r.store.data.pairs[id]; ok {
			pairs = append(pairs, pair)
		}
	}
	return pairs, nil
}
