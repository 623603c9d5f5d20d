package domain

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/curvex-network/curvex-daemon/pkg/mathutil"
)

// StrategyID is the composite identifier of a strategy: the id of the pair it
// belongs to and a 1-based index private to that pair, incremented on every
// strategy created for the pair and never reused.
type StrategyID struct {
	PairID uint64
	Index  uint64
}

// String returns the id in its pairId:index form.
func (id StrategyID) String() string {
	return fmt.Sprintf("%d:%d", id.PairID, id.Index)
}

// BigInt returns the id as the single 256-bit integer (pairId << 128) | index.
func (id StrategyID) BigInt() *big.Int {
	v := new(big.Int).Lsh(mathutil.BigUint(id.PairID), 128)
	return v.Or(v, mathutil.BigUint(id.Index))
}

// IsZero returns whether the id is unset. 0 is never a valid pair id nor a
// valid index.
func (id StrategyID) IsZero() bool {
	return id.PairID == 0 || id.Index == 0
}

// ParseStrategyID parses an id in its pairId:index form.
func ParseStrategyID(s string) (StrategyID, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return StrategyID{}, fmt.Errorf("invalid strategy id format: %s", s)
	}
	pairID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return StrategyID{}, fmt.Errorf("invalid strategy id format: %s", s)
	}
	index, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return StrategyID{}, fmt.Errorf("invalid strategy id format: %s", s)
	}
	return StrategyID{PairID: pairID, Index: index}, nil
}

// Strategy is a maker's two-sided position on a pair: one order per pair
// token, Orders[0] holding Token0 liquidity and Orders[1] holding Token1
// liquidity. Ownership is tracked by the external ownership registry, not
// here.
type Strategy struct {
	ID     StrategyID
	Token0 string
	Token1 string
	Orders [2]Order
}

// NewStrategy returns a new strategy for the given pair after validating both
// orders.
func NewStrategy(id StrategyID, pair *Pair, orders [2]Order) (*Strategy, error) {
	for _, order := range orders {
		if err := order.Validate(); err != nil {
			return nil, err
		}
	}
	return &Strategy{
		ID:     id,
		Token0: pair.Token0,
		Token1: pair.Token1,
		Orders: orders,
	}, nil
}

// OrderIndexOf returns the position of the order holding the given asset's
// liquidity, -1 if the asset does not belong to the strategy's pair.
func (s *Strategy) OrderIndexOf(asset string) int {
	switch asset {
	case s.Token0:
		return 0
	case s.Token1:
		return 1
	default:
		return -1
	}
}

// OrdersEqual returns whether the given orders are bit-for-bit equal to the
// strategy's current ones.
func (s *Strategy) OrdersEqual(orders [2]Order) bool {
	return s.Orders == orders
}

// FillBySourceAmount trades the given source amount against the order at
// targetIndex and returns the target amount it yields, rounded down. The
// filled order's liquidity is decreased by the target amount, the counter
// order's liquidity is increased by the source amount.
func (s *Strategy) FillBySourceAmount(
	targetIndex int, sourceAmount uint64,
) (uint64, error) {
	order := s.Orders[targetIndex]
	if order.IsDisabled() {
		return 0, ErrOrderDisabled
	}

	targetAmount, err := order.Curve().TargetAmount(sourceAmount)
	if err != nil {
		return 0, err
	}

	s.Orders[targetIndex].Liquidity -= targetAmount
	if err := s.creditOrder(1-targetIndex, sourceAmount); err != nil {
		return 0, err
	}
	return targetAmount, nil
}

// FillByTargetAmount trades the given target amount out of the order at
// targetIndex and returns the source amount it requires, rounded up. The
// filled order's liquidity is decreased by the target amount, the counter
// order's liquidity is increased by the source amount.
func (s *Strategy) FillByTargetAmount(
	targetIndex int, targetAmount uint64,
) (uint64, error) {
	order := s.Orders[targetIndex]
	if order.IsDisabled() {
		return 0, ErrOrderDisabled
	}

	sourceAmount, err := order.Curve().SourceAmount(targetAmount)
	if err != nil {
		return 0, err
	}

	s.Orders[targetIndex].Liquidity -= targetAmount
	if err := s.creditOrder(1-targetIndex, sourceAmount); err != nil {
		return 0, err
	}
	return sourceAmount, nil
}

// creditOrder adds the given amount to an order's liquidity, growing its
// capacity when the new liquidity exceeds it.
func (s *Strategy) creditOrder(index int, amount uint64) error {
	liquidity, err := mathutil.AddUint64(s.Orders[index].Liquidity, amount)
	if err != nil {
		return err
	}
	s.Orders[index].Liquidity = liquidity
	if s.Orders[index].Capacity < liquidity {
		s.Orders[index].Capacity = liquidity
	}
	return nil
}
