package domain

import "github.com/curvex-network/curvex-daemon/pkg/mathutil"

// TradeAction is a single fill instruction against one strategy. Amount is
// denominated in the target asset when trading by target amount and in the
// source asset when trading by source amount.
type TradeAction struct {
	StrategyID StrategyID
	Amount     uint64
}

// Reasons tagging strategy update notifications.
const (
	StrategyUpdateReasonEdit  = "EDIT"
	StrategyUpdateReasonTrade = "TRADE"
)

// ValidateFeePPM returns whether the given ppm fee rate is usable.
func ValidateFeePPM(feePPM uint32) error {
	if uint64(feePPM) >= mathutil.OneMillion {
		return ErrInvalidFee
	}
	return nil
}
