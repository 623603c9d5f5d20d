package domain

import "context"

// PairRepository is the persistence boundary of the pair registry.
type PairRepository interface {
	// AddPair stores a new pair for the given canonically sorted tokens,
	// assigning the next pair id. It returns ErrPairAlreadyExists if the
	// unordered asset set is already registered.
	AddPair(ctx context.Context, token0, token1 string) (*Pair, error)
	// GetPair returns the pair trading the given assets, in either order.
	// It returns ErrPairDoesNotExist if absent.
	GetPair(ctx context.Context, tokenA, tokenB string) (*Pair, error)
	// GetPairByID returns the pair with the given id, ErrPairDoesNotExist if
	// absent. 0 is never a valid id.
	GetPairByID(ctx context.Context, id uint64) (*Pair, error)
	// GetAllPairs returns all registered pairs in insertion order.
	GetAllPairs(ctx context.Context) ([]Pair, error)
}
