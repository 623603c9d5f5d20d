package dbbadger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
)

// strategyRecord is the badger-specific copy of domain.Strategy, flattened so
// the pair id and index are directly queryable.
type strategyRecord struct {
	Key    string `badgerhold:"key"`
	PairID uint64 `badgerholdIndex:"PairID"`
	Index  uint64
	Token0 string
	Token1 string
	Orders [2]domain.Order
}

func (s strategyRecord) toStrategy() domain.Strategy {
	return domain.Strategy{
		ID:     domain.StrategyID{PairID: s.PairID, Index: s.Index},
		Token0: s.Token0,
		Token1: s.Token1,
		Orders: s.Orders,
	}
}

func recordFromStrategy(s domain.Strategy) strategyRecord {
	return strategyRecord{
		Key:    s.ID.String(),
		PairID: s.ID.PairID,
		Index:  s.ID.Index,
		Token0: s.Token0,
		Token1: s.Token1,
		Orders: s.Orders,
	}
}

func strategyCounterKey(pairID uint64) string {
	return fmt.Sprintf("strategy-index-%d", pairID)
}

type strategyRepositoryImpl struct {
	db *RepoManager
}

func newStrategyRepositoryImpl(db *RepoManager) domain.StrategyRepository {
	return &strategyRepositoryImpl{db: db}
}

func (r *strategyRepositoryImpl) AddStrategy(
	ctx context.Context, pair *domain.Pair, orders [2]domain.Order,
) (*domain.Strategy, error) {
	index, err := r.db.nextID(ctx, strategyCounterKey(pair.ID))
	if err != nil {
		return nil, err
	}

	id := domain.StrategyID{PairID: pair.ID, Index: index}
	strategy, err := domain.NewStrategy(id, pair, orders)
	if err != nil {
		return nil, err
	}

	record := recordFromStrategy(*strategy)
	if err := r.db.insert(ctx, record.Key, &record); err != nil {
		return nil, err
	}
	return strategy, nil
}

func (r *strategyRepositoryImpl) GetStrategy(
	ctx context.Context, id domain.StrategyID,
) (*domain.Strategy, error) {
	record, err := r.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	strategy := record.toStrategy()
	return &strategy, nil
}

func (r *strategyRepositoryImpl) UpdateStrategy(
	ctx context.Context, id domain.StrategyID,
	updateFn func(*domain.Strategy) (*domain.Strategy, error),
) error {
	record, err := r.getRecord(ctx, id)
	if err != nil {
		return err
	}

	current := record.toStrategy()
	updated, err := updateFn(&current)
	if err != nil {
		return err
	}

	newRecord := recordFromStrategy(*updated)
	return r.db.upsert(ctx, newRecord.Key, &newRecord)
}

func (r *strategyRepositoryImpl) DeleteStrategy(
	ctx context.Context, id domain.StrategyID,
) error {
	if _, err := r.getRecord(ctx, id); err != nil {
		return err
	}
	return r.db.delete(ctx, id.String(), strategyRecord{})
}

func (r *strategyRepositoryImpl) GetStrategiesForPair(
	ctx context.Context, pairID uint64,
) ([]domain.Strategy, error) {
	var records []strategyRecord
	query := badgerhold.Where("PairID").Eq(pairID).Index("PairID").SortBy("Index")
	if err := r.db.find(ctx, &records, query); err != nil {
		return nil, err
	}

	strategies := make([]domain.Strategy, 0, len(records))
	for _, record := range records {
		strategies = append(strategies, record.toStrategy())
	}
	return strategies, nil
}

func (r *strategyRepositoryImpl) CountStrategiesForPair(
	ctx context.Context, pairID uint64,
) (uint64, error) {
	strategies, err := r.GetStrategiesForPair(ctx, pairID)
	if err != nil {
		return 0, err
	}
	return uint64(len(strategies)), nil
}

func (r *strategyRepositoryImpl) getRecord(
	ctx context.Context, id domain.StrategyID,
) (*strategyRecord, error) {
	var record strategyRecord
	if err := r.db.get(ctx, id.String(), &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrStrategyDoesNotExist
		}
		return nil, err
	}
	return &record, nil
}
