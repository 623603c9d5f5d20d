package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
)

const pairCounterKey = "pair-id"

type pairRepositoryImpl struct {
	db *RepoManager
}

func newPairRepositoryImpl(db *RepoManager) domain.PairRepository {
	return &pairRepositoryImpl{db: db}
}

func (r *pairRepositoryImpl) AddPair(
	ctx context.Context, token0, token1 string,
) (*domain.Pair, error) {
	query := badgerhold.Where("Token0").Eq(token0).And("Token1").Eq(token1)
	pairs, err := r.findPairs(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(pairs) > 0 {
		return nil, domain.ErrPairAlreadyExists
	}

	id, err := r.db.nextID(ctx, pairCounterKey)
	if err != nil {
		return nil, err
	}

	pair := domain.Pair{ID: id, Token0: token0, Token1: token1}
	if err := r.db.insert(ctx, id, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (r *pairRepositoryImpl) GetPair(
	ctx context.Context, tokenA, tokenB string,
) (*domain.Pair, error) {
	token0, token1 := domain.SortTokens(tokenA, tokenB)
	query := badgerhold.Where("Token0").Eq(token0).And("Token1").Eq(token1)
	pairs, err := r.findPairs(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, domain.ErrPairDoesNotExist
	}
	return &pairs[0], nil
}

func (r *pairRepositoryImpl) GetPairByID(
	ctx context.Context, id uint64,
) (*domain.Pair, error) {
	var pair domain.Pair
	if err := r.db.get(ctx, id, &pair); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrPairDoesNotExist
		}
		return nil, err
	}
	return &pair, nil
}

func (r *pairRepositoryImpl) GetAllPairs(
	ctx context.Context,
) ([]domain.Pair, error) {
	return r.findPairs(ctx, badgerhold.Where("ID").Ge(uint64(0)).SortBy("ID"))
}

func (r *pairRepositoryImpl) findPairs(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Pair, error) {
	var pairs []domain.Pair
	if err := r.db.find(ctx, &pairs, query); err != nil {
		return nil, err
	}
	return pairs, nil
}
