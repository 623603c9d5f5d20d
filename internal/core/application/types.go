package application

import (
	"sync/atomic"
	"time"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
)

// PairInfo is the external view of a registered pair.
type PairInfo struct {
	ID     uint64
	Token0 string
	Token1 string
}

// StrategyInfo is the external view of a strategy, including its current
// owner as reported by the ownership registry.
type StrategyInfo struct {
	ID     domain.StrategyID
	Owner  string
	Token0 string
	Token1 string
	Orders [2]domain.Order
}

// CreateStrategyRequest carries the parameters of a strategy creation.
// Orders[i] refers to Token held by the order for the i-th token argument,
// in the order the caller passed them, not in canonical pair order.
type CreateStrategyRequest struct {
	Owner       string
	TokenA      string
	TokenB      string
	Orders      [2]domain.Order
	NativeValue uint64
}

// UpdateStrategyRequest carries the parameters of a strategy update.
// CurrentOrders must match the stored orders bit for bit, in canonical
// token0/token1 order, otherwise the update fails with ErrOutDated.
type UpdateStrategyRequest struct {
	Caller        string
	ID            domain.StrategyID
	CurrentOrders [2]domain.Order
	NewOrders     [2]domain.Order
	NativeValue   uint64
}

// TradeRequest carries the parameters shared by both trade entry points.
type TradeRequest struct {
	Trader      string
	SourceAsset string
	TargetAsset string
	Actions     []domain.TradeAction
	Deadline    time.Time
	NativeValue uint64
}

// TradeResult reports the settled amounts of an executed trade.
// SourceAmount is the total paid by the trader, fee included when the fee
// is taken on the source side. TargetAmount is the total the trader
// received, net of any fee taken on the target side.
type TradeResult struct {
	ID           string
	SourceAsset  string
	TargetAsset  string
	SourceAmount uint64
	TargetAmount uint64
	FeeAmount    uint64
	FeeAsset     string
}

// FeeWithdrawal is one entry of a batched fee withdrawal.
type FeeWithdrawal struct {
	Asset  string
	Amount uint64
}

// ReentrancyGuard serializes the mutating operations of the engine.
// Overlapping calls are rejected with ErrServiceUnavailable rather than
// queued, so a collaborator that calls back into the engine during an
// in-flight operation cannot observe half-applied state.
type ReentrancyGuard struct {
	busy int32
}

func NewReentrancyGuard() *ReentrancyGuard {
	return &ReentrancyGuard{}
}

func (g *ReentrancyGuard) Enter() error {
	if !atomic.CompareAndSwapInt32(&g.busy, 0, 1) {
		return ErrServiceUnavailable
	}
	return nil
}

func (g *ReentrancyGuard) Leave() {
	atomic.StoreInt32(&g.busy, 0)
}
