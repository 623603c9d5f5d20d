package ports

import (
	"context"
	"errors"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
)

// ErrOwnershipNotFound is thrown when resolving the owner of an unknown
// strategy id.
var ErrOwnershipNotFound = errors.New("no owner found for strategy id")

// OwnershipRegistry is the external component tracking strategy ownership as
// transferable tokens. Only the restricted mint/burn/transfer/ownerOf surface
// is consumed by the engine.
type OwnershipRegistry interface {
	// Mint registers the given account as owner of a newly created strategy.
	Mint(ctx context.Context, id domain.StrategyID, owner string) error
	// Burn removes any ownership record for the given strategy.
	Burn(ctx context.Context, id domain.StrategyID) error
	// Transfer moves ownership of the strategy between accounts.
	Transfer(ctx context.Context, id domain.StrategyID, from, to string) error
	// OwnerOf returns the current owner of the strategy,
	// ErrOwnershipNotFound if the id was never minted or was burned.
	OwnerOf(ctx context.Context, id domain.StrategyID) (string, error)
}
