package mathutil

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	// ErrDivisionByZero is thrown when the divisor of a mul-div is zero
	ErrDivisionByZero = errors.New("division by zero")
	// ErrAmountTooLarge is thrown when a computed amount does not fit into 64 bits
	ErrAmountTooLarge = errors.New("amount too large")
)

// BigUint returns the given uint64 as a big integer.
func BigUint(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

// MulDivFloor computes x * y / z at full precision, rounding the result
// towards zero.
func MulDivFloor(x, y, z *big.Int) (*big.Int, error) {
	if z.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	n := new(big.Int).Mul(x, y)
	return n.Quo(n, z), nil
}

// MulDivCeil computes x * y / z at full precision, rounding the result away
// from zero.
func MulDivCeil(x, y, z *big.Int) (*big.Int, error) {
	if z.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	n := new(big.Int).Mul(x, y)
	q, r := new(big.Int).QuoRem(n, z, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q, nil
}

// Uint64 converts a non-negative big integer to uint64, failing if the value
// does not fit.
func Uint64(v *big.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, ErrAmountTooLarge
	}
	return v.Uint64(), nil
}

// AddUint64 sums two uint64 amounts, failing on overflow.
func AddUint64(x, y uint64) (uint64, error) {
	z := x + y
	if z < x {
		return 0, ErrAmountTooLarge
	}
	return z, nil
}

// DecimalFromUint64 returns the given amount as decimal.Decimal.
func DecimalFromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(BigUint(v), 0)
}

// RatioDecimal returns x / y as decimal.Decimal.
func RatioDecimal(x, y uint64) decimal.Decimal {
	if y == 0 {
		return decimal.Zero
	}
	return DecimalFromUint64(x).Div(DecimalFromUint64(y))
}
