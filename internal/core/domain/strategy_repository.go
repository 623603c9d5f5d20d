package domain

import "context"

// StrategyRepository is the persistence boundary of the strategy store.
type StrategyRepository interface {
	// AddStrategy stores a new strategy for the given pair with the given
	// orders, assigning the pair's next 1-based index. Indexes are never
	// reused, even after deletion.
	AddStrategy(ctx context.Context, pair *Pair, orders [2]Order) (*Strategy, error)
	// GetStrategy returns the strategy with the given id,
	// ErrStrategyDoesNotExist if absent.
	GetStrategy(ctx context.Context, id StrategyID) (*Strategy, error)
	// UpdateStrategy applies updateFn to the stored strategy and persists the
	// result.
	UpdateStrategy(
		ctx context.Context, id StrategyID,
		updateFn func(*Strategy) (*Strategy, error),
	) error
	// DeleteStrategy removes the strategy from the store and from the pair's
	// enumeration.
	DeleteStrategy(ctx context.Context, id StrategyID) error
	// GetStrategiesForPair returns all strategies of the pair ordered by
	// ascending index.
	GetStrategiesForPair(ctx context.Context, pairID uint64) ([]Strategy, error)
	// CountStrategiesForPair returns the number of live strategies of the pair.
	CountStrategiesForPair(ctx context.Context, pairID uint64) (uint64, error)
}
