// Package curvemaking implements the rate-curve market making formula: every
// order quotes a marginal exchange rate that moves monotonically between a
// rate at full depletion and a rate at full capacity as its liquidity is
// consumed. Trading against an order integrates the curve over the consumed
// liquidity slice at full precision.
package curvemaking

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/curvex-network/curvex-daemon/pkg/mathutil"
)

// RateResolution is the fixed-point scale of the curve rate parameters: a
// rate parameter r encodes the square root of the marginal exchange rate as
// r / RateResolution.
const RateResolution = uint64(1) << 48

var (
	// ErrInsufficientLiquidity is thrown when a trade consumes more than the
	// order's available liquidity
	ErrInsufficientLiquidity = errors.New("insufficient liquidity to fill the requested amount")
	// ErrZeroRate is thrown when evaluating a curve that quotes a null rate
	ErrZeroRate = errors.New("curve quotes a zero rate")
)

// Curve describes one side of a strategy: the liquidity currently available
// for sale, the maximum liquidity the order can hold and the two rate
// parameters bounding the marginal rate, LowRate applying at full depletion
// and HighRate at full capacity.
type Curve struct {
	Liquidity uint64
	Capacity  uint64
	LowRate   uint64
	HighRate  uint64
}

var one = new(big.Int).SetUint64(RateResolution)

// scaledRate returns z * s(y) where s(y) = low + (high-low) * y / z is the
// marginal sqrt-rate at the curve's current liquidity. Working on the
// z-scaled value keeps the computation integral.
func (c Curve) scaledRate() *big.Int {
	y := mathutil.BigUint(c.Liquidity)
	z := mathutil.BigUint(c.Capacity)
	delta := new(big.Int).Sub(
		mathutil.BigUint(c.HighRate), mathutil.BigUint(c.LowRate),
	)

	n := new(big.Int).Mul(delta, y)
	return n.Add(n, new(big.Int).Mul(mathutil.BigUint(c.LowRate), z))
}

// TargetAmount returns the amount of the order's asset obtained by spending
// the given amount of the counter asset. The result is rounded down: the
// taker never receives more than the curve yields.
func (c Curve) TargetAmount(sourceAmount uint64) (uint64, error) {
	if sourceAmount == 0 {
		return 0, nil
	}
	if c.Liquidity == 0 {
		return 0, ErrInsufficientLiquidity
	}

	x := mathutil.BigUint(sourceAmount)
	n := c.scaledRate()
	if n.Sign() == 0 {
		return 0, ErrZeroRate
	}
	delta := new(big.Int).Sub(
		mathutil.BigUint(c.HighRate), mathutil.BigUint(c.LowRate),
	)
	zOne := new(big.Int).Mul(mathutil.BigUint(c.Capacity), one)

	// target = x * n^2 / (delta * x * n + (z * ONE)^2), floored.
	denom := new(big.Int).Mul(delta, x)
	denom.Mul(denom, n)
	denom.Add(denom, new(big.Int).Mul(zOne, zOne))
	if denom.Sign() <= 0 {
		// past the curve's vertical asymptote: the source amount exceeds
		// what the order's liquidity can absorb
		return 0, ErrInsufficientLiquidity
	}

	target, err := mathutil.MulDivFloor(new(big.Int).Mul(x, n), n, denom)
	if err != nil {
		return 0, err
	}
	if target.Cmp(mathutil.BigUint(c.Liquidity)) > 0 {
		return 0, ErrInsufficientLiquidity
	}
	return target.Uint64(), nil
}

// SourceAmount returns the amount of the counter asset required to obtain
// the given amount of the order's asset. The result is rounded up: the taker
// never pays less than the curve requires.
func (c Curve) SourceAmount(targetAmount uint64) (uint64, error) {
	if targetAmount == 0 {
		return 0, nil
	}
	if targetAmount > c.Liquidity {
		return 0, ErrInsufficientLiquidity
	}

	x := mathutil.BigUint(targetAmount)
	n := c.scaledRate()
	if n.Sign() == 0 {
		return 0, ErrZeroRate
	}
	delta := new(big.Int).Sub(
		mathutil.BigUint(c.HighRate), mathutil.BigUint(c.LowRate),
	)
	zOne := new(big.Int).Mul(mathutil.BigUint(c.Capacity), one)

	// source = x * (z * ONE)^2 / (n * (n - delta * x)), ceiled.
	denom := new(big.Int).Mul(delta, x)
	denom.Sub(n, denom)
	denom.Mul(denom, n)
	if denom.Sign() <= 0 {
		return 0, ErrZeroRate
	}

	source, err := mathutil.MulDivCeil(new(big.Int).Mul(zOne, zOne), x, denom)
	if err != nil {
		return 0, err
	}
	return mathutil.Uint64(source)
}

// MarginalRate returns the marginal exchange rate quoted at the curve's
// current liquidity, expressed in target asset per unit of source asset.
func (c Curve) MarginalRate() decimal.Decimal {
	if c.Capacity == 0 {
		return decimal.Zero
	}
	s := decimal.NewFromBigInt(c.scaledRate(), 0).
		Div(mathutil.DecimalFromUint64(c.Capacity)).
		Div(decimal.NewFromBigInt(one, 0))
	return s.Mul(s)
}
