package domain

import (
	"math"

	"github.com/curvex-network/curvex-daemon/pkg/curvemaking"
)

// ReservedRate is the sentinel value a curve parameter must never take: it
// marks a rate that cannot be represented.
const ReservedRate = uint64(math.MaxUint64)

// Order is one side of a strategy: an amount of liquidity for sale plus the
// rate curve it is sold against. An order with all fields set to zero is a
// valid, permanently disabled order.
type Order struct {
	// Liquidity is the amount currently available to be sold (y).
	Liquidity uint64
	// Capacity is the maximum liquidity the order can ever hold (z).
	Capacity uint64
	// CurveLow is the sqrt-rate quoted at full depletion.
	CurveLow uint64
	// CurveHigh is the sqrt-rate quoted at full capacity.
	CurveHigh uint64
}

// Validate returns whether the order respects the curve and capacity
// invariants.
func (o Order) Validate() error {
	if o.CurveLow == ReservedRate || o.CurveHigh == ReservedRate {
		return ErrInvalidRate
	}
	if o.Capacity < o.Liquidity {
		return ErrInsufficientCapacity
	}
	return nil
}

// IsDisabled returns whether the order quotes no curve at all and therefore
// cannot be traded against.
func (o Order) IsDisabled() bool {
	return o.CurveLow == 0 && o.CurveHigh == 0
}

// IsZero returns whether all order fields are zero.
func (o Order) IsZero() bool {
	return o == Order{}
}

// Curve returns the order's rate curve.
func (o Order) Curve() curvemaking.Curve {
	return curvemaking.Curve{
		Liquidity: o.Liquidity,
		Capacity:  o.Capacity,
		LowRate:   o.CurveLow,
		HighRate:  o.CurveHigh,
	}
}
