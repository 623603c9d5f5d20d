package application

import "github.com/curvex-network/curvex-daemon/internal/core/domain"

// PairCreatedEvent is published on ports.TopicPairCreated.
type PairCreatedEvent struct {
	PairID uint64 `json:"pair_id"`
	Token0 string `json:"token0"`
	Token1 string `json:"token1"`
}

// StrategyEvent is published on the strategy topics. Reason distinguishes
// owner edits from trade fills on the updated topic.
type StrategyEvent struct {
	StrategyID string          `json:"strategy_id"`
	Owner      string          `json:"owner,omitempty"`
	Token0     string          `json:"token0"`
	Token1     string          `json:"token1"`
	Orders     [2]domain.Order `json:"orders"`
	Reason     string          `json:"reason,omitempty"`
}

// TradeExecutedEvent is published on ports.TopicTradeExecuted once per
// settled trade, after the per-strategy update events.
type TradeExecutedEvent struct {
	TradeID      string `json:"trade_id"`
	Trader       string `json:"trader"`
	SourceAsset  string `json:"source_asset"`
	TargetAsset  string `json:"target_asset"`
	SourceAmount uint64 `json:"source_amount"`
	TargetAmount uint64 `json:"target_amount"`
	FeeAmount    uint64 `json:"fee_amount"`
	FeeAsset     string `json:"fee_asset"`
}

// FeeUpdatedEvent is published on ports.TopicFeeUpdated. A zero PairID
// means the default trade fee changed, otherwise the override of that pair.
type FeeUpdatedEvent struct {
	PairID uint64 `json:"pair_id,omitempty"`
	FeePPM uint32 `json:"fee_ppm"`
}
