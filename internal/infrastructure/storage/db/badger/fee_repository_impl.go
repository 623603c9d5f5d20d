package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
)

const tradeFeeKey = "trade-fee"

type tradeFeeRecord struct {
	PPM uint32
}

type pairFeeRecord struct {
	PairID uint64 `badgerhold:"key"`
	PPM    uint32
}

type assetFeeRecord struct {
	Asset  string `badgerhold:"key"`
	Amount uint64
}

type feeRepositoryImpl struct {
	db *RepoManager
}

func newFeeRepositoryImpl(db *RepoManager) domain.FeeRepository {
	return &feeRepositoryImpl{db: db}
}

func (r *feeRepositoryImpl) GetTradeFeePPM(ctx context.Context) (uint32, error) {
	var record tradeFeeRecord
	if err := r.db.get(ctx, tradeFeeKey, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return record.PPM, nil
}

func (r *feeRepositoryImpl) UpdateTradeFeePPM(
	ctx context.Context, feePPM uint32,
) error {
	return r.db.upsert(ctx, tradeFeeKey, &tradeFeeRecord{PPM: feePPM})
}

func (r *feeRepositoryImpl) GetPairFeePPM(
	ctx context.Context, pairID uint64,
) (uint32, bool, error) {
	var record pairFeeRecord
	if err := r.db.get(ctx, pairID, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}
	return record.PPM, true, nil
}

func (r *feeRepositoryImpl) UpdatePairFeePPM(
	ctx context.Context, pairID uint64, feePPM uint32,
) error {
	if feePPM == 0 {
		err := r.db.delete(ctx, pairID, pairFeeRecord{})
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return err
	}
	return r.db.upsert(ctx, pairID, &pairFeeRecord{PairID: pairID, PPM: feePPM})
}

func (r *feeRepositoryImpl) GetAccumulatedFees(
	ctx context.Context, asset string,
) (uint64, error) {
	var record assetFeeRecord
	if err := r.db.get(ctx, asset, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return record.Amount, nil
}

func (r *feeRepositoryImpl) GetAllAccumulatedFees(
	ctx context.Context,
) (map[string]uint64, error) {
	var records []assetFeeRecord
	query := badgerhold.Where("Amount").Gt(uint64(0))
	if err := r.db.find(ctx, &records, query); err != nil {
		return nil, err
	}

	fees := make(map[string]uint64, len(records))
	for _, record := range records {
		fees[record.Asset] = record.Amount
	}
	return fees, nil
}

func (r *feeRepositoryImpl) UpdateAccumulatedFees(
	ctx context.Context, asset string,
	updateFn func(uint64) (uint64, error),
) error {
	current, err := r.GetAccumulatedFees(ctx, asset)
	if err != nil {
		return err
	}

	updated, err := updateFn(current)
	if err != nil {
		return err
	}

	if updated == 0 {
		err := r.db.delete(ctx, asset, assetFeeRecord{})
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return err
	}
	return r.db.upsert(ctx, asset, &assetFeeRecord{Asset: asset, Amount: updated})
}
