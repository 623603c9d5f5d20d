// Package registry provides the default, in-process implementation of the
// ownership registry the engine delegates strategy ownership to.
package registry

import (
	"context"
	"errors"
	"sync"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
	"github.com/curvex-network/curvex-daemon/internal/core/ports"
)

var (
	// ErrAlreadyMinted is thrown when minting an id that already has an owner
	ErrAlreadyMinted = errors.New("strategy id already minted")
	// ErrNotOwner is thrown when transferring an id from an account that does
	// not own it
	ErrNotOwner = errors.New("account does not own the strategy id")
)

type ownershipRegistry struct {
	owners map[domain.StrategyID]string
	lock   sync.RWMutex
}

// NewOwnershipRegistry returns an empty in-memory ownership registry.
func NewOwnershipRegistry() ports.OwnershipRegistry {
	return &ownershipRegistry{owners: map[domain.StrategyID]string{}}
}

func (r *ownershipRegistry) Mint(
	_ context.Context, id domain.StrategyID, owner string,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.owners[id]; ok {
		return ErrAlreadyMinted
	}
	r.owners[id] = owner
	return nil
}

func (r *ownershipRegistry) Burn(_ context.Context, id domain.StrategyID) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.owners[id]; !ok {
		return ports.ErrOwnershipNotFound
	}
	delete(r.owners, id)
	return nil
}

func (r *ownershipRegistry) Transfer(
	_ context.Context, id domain.StrategyID, from, to string,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	owner, ok := r.owners[id]
	if !ok {
		return ports.ErrOwnershipNotFound
	}
	if owner != from {
		return ErrNotOwner
	}
	r.owners[id] = to
	return nil
}

func (r *ownershipRegistry) OwnerOf(
	_ context.Context, id domain.StrategyID,
) (string, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	owner, ok := r.owners[id]
	if !ok {
		return "", ports.ErrOwnershipNotFound
	}
	return owner, nil
}
