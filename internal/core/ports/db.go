package ports

import (
	"context"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
)

// RepoManager gives access to the repositories of the engine and lets run
// multiple read/write operations as a single all-or-nothing transaction.
type RepoManager interface {
	PairRepository() domain.PairRepository
	StrategyRepository() domain.StrategyRepository
	FeeRepository() domain.FeeRepository

	// RunTransaction runs the given handler within a storage transaction:
	// either every mutation made by the handler is persisted or, if it
	// returns an error, none is.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}

// Transaction defines the methods to commit or discard a pending storage
// transaction.
type Transaction interface {
	Commit() error
	Discard()
}
