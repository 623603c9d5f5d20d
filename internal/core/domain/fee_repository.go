package domain

import "context"

// FeeRepository is the persistence boundary of the fee state: the global
// trade fee, the per-pair overrides and the per-asset accumulated fee
// counters.
type FeeRepository interface {
	// GetTradeFeePPM returns the global trade fee in parts per million.
	GetTradeFeePPM(ctx context.Context) (uint32, error)
	// UpdateTradeFeePPM replaces the global trade fee.
	UpdateTradeFeePPM(ctx context.Context, feePPM uint32) error
	// GetPairFeePPM returns the fee override of the given pair and whether
	// one is set.
	GetPairFeePPM(ctx context.Context, pairID uint64) (uint32, bool, error)
	// UpdatePairFeePPM sets the fee override of the given pair. A zero rate
	// clears the override.
	UpdatePairFeePPM(ctx context.Context, pairID uint64, feePPM uint32) error
	// GetAccumulatedFees returns the accumulated fee counter of the given
	// asset.
	GetAccumulatedFees(ctx context.Context, asset string) (uint64, error)
	// GetAllAccumulatedFees returns all non-zero accumulated fee counters
	// indexed by asset.
	GetAllAccumulatedFees(ctx context.Context) (map[string]uint64, error)
	// UpdateAccumulatedFees applies updateFn to the accumulated fee counter
	// of the given asset and persists the result.
	UpdateAccumulatedFees(
		ctx context.Context, asset string,
		updateFn func(uint64) (uint64, error),
	) error
}
