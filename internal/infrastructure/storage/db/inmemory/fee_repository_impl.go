package inmemory

import (
	"context"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
)

type feeRepositoryImpl struct {
	store *store
}

func newFeeRepositoryImpl(store *store) domain.FeeRepository {
	return &feeRepositoryImpl{store: store}
}

func (r *feeRepositoryImpl) GetTradeFeePPM(ctx context.Context) (uint32, error) {
	unlock := r.store.readLock(ctx)
	defer unlock()

	return r.store.data.tradeFeePPM, nil
}

func (r *feeRepositoryImpl) UpdateTradeFeePPM(
	ctx context.Context, feePPM uint32,
) error {
	unlock := r.store.writeLock(ctx)
	defer unlock()

	r.store.data.tradeFeePPM = feePPM
	return nil
}

func (r *feeRepositoryImpl) GetPairFeePPM(
	ctx context.Context, pairID uint64,
) (uint32, bool, error) {
	unlock := r.store.readLock(ctx)
	defer unlock()

	feePPM, ok := r.store.data.pairFees[pairID]
	return feePPM, ok, nil
}

func (r *feeRepositoryImpl) UpdatePairFeePPM(
	ctx context.Context, pairID uint64, feePPM uint32,
) error {
	unlock := r.store.writeLock(ctx)
	defer unlock()

	if feePPM == 0 {
		delete(r.store.data.pairFees, pairID)
		return nil
	}
	r.store.data.pairFees[pairID] = feePPM
	return nil
}

func (r *feeRepositoryImpl) GetAccumulatedFees(
	ctx context.Context, asset string,
) (uint64, error) {
	unlock := r.store.readLock(ctx)
	defer unlock()

	return r.store.data.assetFees[asset], nil
}

func (r *feeRepositoryImpl) GetAllAccumulatedFees(
	ctx context.Context,
) (map[string]uint64, error) {
	unlock := r.store.readLock(ctx)
	defer unlock()

	fees := make(map[string]uint64, len(r.store.data.assetFees))
	for asset, amount := range r.store.data.assetFees {
		if amount > 0 {
			fees[asset] = amount
		}
	}
	return fees, nil
}

func (r *feeRepositoryImpl) UpdateAccumulatedFees(
	ctx context.Context, asset string,
	updateFn func(uint64) (uint64, error),
) error {
	unlock := r.store.writeLock(ctx)
	defer unlock()

	updated, err := updateFn(r.store.data.assetFees[asset])
	if err != nil {
		return err
	}
	if updated == 0 {
		delete(r.store.data.assetFees, asset)
		return nil
	}
	r.store.data.assetFees[asset] = updated
	return nil
}
