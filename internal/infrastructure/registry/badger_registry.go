package registry

import (
	"context"

	"github.com/timshannon/badgerhold/v4"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
	"github.com/curvex-network/curvex-daemon/internal/core/ports"
)

// ownershipRecord is the stored form of an ownership entry, keyed by the
// strategy id in its pairId:index string form.
type ownershipRecord struct {
	ID    string `badgerhold:"key"`
	Owner string
}

type badgerOwnershipRegistry struct {
	store *badgerhold.Store
}

// NewBadgerOwnershipRegistry returns an ownership registry persisting its
// records to the given badger store, so ownership survives across processes
// sharing the same data dir.
func NewBadgerOwnershipRegistry(store *badgerhold.Store) ports.OwnershipRegistry {
	return &badgerOwnershipRegistry{store: store}
}

func (r *badgerOwnershipRegistry) Mint(
	_ context.Context, id domain.StrategyID, owner string,
) error {
	err := r.store.Insert(id.String(), &ownershipRecord{
		ID:    id.String(),
		Owner: owner,
	})
	if err == badgerhold.ErrKeyExists {
		return ErrAlreadyMinted
	}
	return err
}

func (r *badgerOwnershipRegistry) Burn(
	_ context.Context, id domain.StrategyID,
) error {
	err := r.store.Delete(id.String(), &ownershipRecord{})
	if err == badgerhold.ErrNotFound {
		return ports.ErrOwnershipNotFound
	}
	return err
}

func (r *badgerOwnershipRegistry) Transfer(
	_ context.Context, id domain.StrategyID, from, to string,
) error {
	var record ownershipRecord
	if err := r.store.Get(id.String(), &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return ports.ErrOwnershipNotFound
		}
		return err
	}
	if record.Owner != from {
		return ErrNotOwner
	}
	record.Owner = to
	return r.store.Update(id.String(), &record)
}

func (r *badgerOwnershipRegistry) OwnerOf(
	_ context.Context, id domain.StrategyID,
) (string, error) {
	var record ownershipRecord
	if err := r.store.Get(id.String(), &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return "", ports.ErrOwnershipNotFound
		}
		return "", err
	}
	return record.Owner, nil
}
