package inmemory

import (
	"context"
	"sync"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
)

type contextKey int

// txKey marks a context bound to an in-flight transaction, telling the
// repositories to skip locking because the store is already held exclusively.
const txKey contextKey = 0

type storeData struct {
	pairs            map[uint64]domain.Pair
	pairIDsByTokens  map[string]uint64
	pairCounter      uint64
	strategies       map[domain.StrategyID]domain.Strategy
	strategyIDs      map[uint64][]domain.StrategyID
	strategyCounters map[uint64]uint64
	tradeFeePPM      uint32
	pairFees         map[uint64]uint32
	assetFees        map[string]uint64
}

func newStoreData() *storeData {
	return &storeData{
		pairs:            map[uint64]domain.Pair{},
		pairIDsByTokens:  map[string]uint64{},
		strategies:       map[domain.StrategyID]domain.Strategy{},
		strategyIDs:      map[uint64][]domain.StrategyID{},
		strategyCounters: map[uint64]uint64{},
		pairFees:         map[uint64]uint32{},
		assetFees:        map[string]uint64{},
	}
}

func (d *storeData) clone() *storeData {
	c := newStoreData()
	c.pairCounter = d.pairCounter
	c.tradeFeePPM = d.tradeFeePPM
	for k, v := range d.pairs {
		c.pairs[k] = v
	}
	for k, v := range d.pairIDsByTokens {
		c.pairIDsByTokens[k] = v
	}
	for k, v := range d.strategies {
		c.strategies[k] = v
	}
	for k, v := range d.strategyIDs {
		ids := make([]domain.StrategyID, len(v))
		copy(ids, v)
		c.strategyIDs[k] = ids
	}
	for k, v := range d.strategyCounters {
		c.strategyCounters[k] = v
	}
	for k, v := range d.pairFees {
		c.pairFees[k] = v
	}
	for k, v := range d.assetFees {
		c.assetFees[k] = v
	}
	return c
}

type store struct {
	data *storeData
	lock sync.RWMutex
}

func newStore() *store {
	return &store{data: newStoreData()}
}

func inTx(ctx context.Context) bool {
	return ctx.Value(txKey) != nil
}

func (s *store) readLock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.lock.RLock()
	return s.lock.RUnlock
}

func (s *store) writeLock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.lock.Lock()
	return s.lock.Unlock
}
