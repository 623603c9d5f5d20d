package application

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
	"github.com/curvex-network/curvex-daemon/internal/core/ports"
)

// StrategyService exposes the lifecycle of strategies: creation, update and
// deletion by their owner, plus lookups and per-pair enumeration.
type StrategyService struct {
	repoManager ports.RepoManager
	registry    ports.OwnershipRegistry
	transferor  ports.AssetTransferor
	policy      ports.AccessPolicy
	publisher   ports.Publisher
	guard       *ReentrancyGuard
	nativeAsset string
}

func NewStrategyService(
	repoManager ports.RepoManager,
	registry ports.OwnershipRegistry,
	transferor ports.AssetTransferor,
	policy ports.AccessPolicy,
	publisher ports.Publisher,
	guard *ReentrancyGuard,
	nativeAsset string,
) (*StrategyService, error) {
	if repoManager == nil {
		return nil, errors.New("missing repo manager")
	}
	if registry == nil {
		return nil, errors.New("missing ownership registry")
	}
	if transferor == nil {
		return nil, errors.New("missing asset transferor")
	}
	if policy == nil {
		return nil, errors.New("missing access policy")
	}
	if publisher == nil {
		return nil, errors.New("missing publisher")
	}
	if guard == nil {
		return nil, errors.New("missing reentrancy guard")
	}
	if err := domain.ValidateAsset(nativeAsset); err != nil {
		return nil, errors.New("invalid native asset")
	}
	return &StrategyService{
		repoManager: repoManager,
		registry:    registry,
		transferor:  transferor,
		policy:      policy,
		publisher:   publisher,
		guard:       guard,
		nativeAsset: nativeAsset,
	}, nil
}

// CreateStrategy stores a new strategy funded with the orders' liquidity,
// minting its ownership to the request owner. The pair is registered on the
// fly if this is the first strategy trading its assets.
func (s *StrategyService) CreateStrategy(
	ctx context.Context, req CreateStrategyRequest,
) (*StrategyInfo, error) {
	if err := s.guard.Enter(); err != nil {
		return nil, err
	}
	defer s.guard.Leave()

	if s.policy.IsPaused(ctx) {
		return nil, ErrEnginePaused
	}
	if req.Owner == "" {
		return nil, ErrInvalidAccount
	}
	token0, token1, err := canonicalTokens(req.TokenA, req.TokenB)
	if err != nil {
		return nil, err
	}
	orders := req.Orders
	if token0 != req.TokenA {
		orders[0], orders[1] = orders[1], orders[0]
	}
	for i := range orders {
		if err := orders[i].Validate(); err != nil {
			return nil, err
		}
	}

	coll := newFundsCollector(s.transferor, s.nativeAsset, req.Owner, req.NativeValue)
	var pairCreated *domain.Pair

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			pair, err := s.repoManager.PairRepository().GetPair(ctx, token0, token1)
			if errors.Is(err, domain.ErrPairDoesNotExist) {
				if pair, err = s.repoManager.PairRepository().AddPair(
					ctx, token0, token1,
				); err != nil {
					return nil, err
				}
				pairCreated = pair
			} else if err != nil {
				return nil, err
			}

			strategy, err := s.repoManager.StrategyRepository().AddStrategy(
				ctx, pair, orders,
			)
			if err != nil {
				return nil, err
			}

			tokens := [2]string{pair.Token0, pair.Token1}
			for i := range orders {
				if err := coll.deposit(
					ctx, tokens[i], orders[i].Liquidity, true,
				); err != nil {
					return nil, err
				}
			}
			if err := coll.settleNative(ctx); err != nil {
				return nil, err
			}

			// minted last so an aborted transaction never leaves a dangling
			// ownership record behind
			if err := s.registry.Mint(ctx, strategy.ID, req.Owner); err != nil {
				return nil, err
			}
			return strategy, nil
		},
	)
	if err != nil {
		coll.refund(ctx)
		return nil, err
	}
	strategy := res.(*domain.Strategy)

	if pairCreated != nil {
		s.publisher.Publish(ports.TopicPairCreated, PairCreatedEvent{
			PairID: pairCreated.ID,
			Token0: pairCreated.Token0,
			Token1: pairCreated.Token1,
		})
	}
	s.publisher.Publish(ports.TopicStrategyCreated, StrategyEvent{
		StrategyID: strategy.ID.String(),
		Owner:      req.Owner,
		Token0:     strategy.Token0,
		Token1:     strategy.Token1,
		Orders:     strategy.Orders,
	})
	log.Infof("created strategy %s", strategy.ID)

	return &StrategyInfo{
		ID:     strategy.ID,
		Owner:  req.Owner,
		Token0: strategy.Token0,
		Token1: strategy.Token1,
		Orders: strategy.Orders,
	}, nil
}

// UpdateStrategy replaces the strategy's orders with the requested ones,
// settling the liquidity deltas with the owner: raised liquidity is pulled
// in, lowered liquidity is paid back. The request's view of the current
// orders must match the stored ones, otherwise the update fails with
// ErrOutDated and no state changes.
func (s *StrategyService) UpdateStrategy(
	ctx context.Context, req UpdateStrategyRequest,
) (*StrategyInfo, error) {
	if err := s.guard.Enter(); err != nil {
		return nil, err
	}
	defer s.guard.Leave()

	if s.policy.IsPaused(ctx) {
		return nil, ErrEnginePaused
	}
	if req.Caller == "" {
		return nil, ErrInvalidAccount
	}
	if err := s.checkOwner(ctx, req.ID, req.Caller); err != nil {
		return nil, err
	}
	for i := range req.NewOrders {
		if err := req.NewOrders[i].Validate(); err != nil {
			return nil, err
		}
	}

	coll := newFundsCollector(s.transferor, s.nativeAsset, req.Caller, req.NativeValue)
	var payouts []movedFunds

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			strategy, err := s.repoManager.StrategyRepository().GetStrategy(ctx, req.ID)
			if err != nil {
				return nil, err
			}
			if !strategy.OrdersEqual(req.CurrentOrders) {
				return nil, domain.ErrOutDated
			}

			tokens := [2]string{strategy.Token0, strategy.Token1}
			for i := range req.NewOrders {
				oldLiquidity := strategy.Orders[i].Liquidity
				newLiquidity := req.NewOrders[i].Liquidity
				switch {
				case newLiquidity > oldLiquidity:
					if err := coll.deposit(
						ctx, tokens[i], newLiquidity-oldLiquidity, true,
					); err != nil {
						return nil, err
					}
				case newLiquidity < oldLiquidity:
					payouts = append(payouts, movedFunds{
						asset:  tokens[i],
						amount: oldLiquidity - newLiquidity,
					})
				default:
					if tokens[i] == s.nativeAsset {
						// zero delta still marks the native leg so attached
						// excess gets refunded instead of rejected
						if err := coll.deposit(ctx, tokens[i], 0, true); err != nil {
							return nil, err
						}
					}
				}
			}

			if err := s.repoManager.StrategyRepository().UpdateStrategy(
				ctx, req.ID, func(stored *domain.Strategy) (*domain.Strategy, error) {
					if !stored.OrdersEqual(req.CurrentOrders) {
						return nil, domain.ErrOutDated
					}
					stored.Orders = req.NewOrders
					return stored, nil
				},
			); err != nil {
				return nil, err
			}
			if err := coll.settleNative(ctx); err != nil {
				return nil, err
			}

			strategy.Orders = req.NewOrders
			return strategy, nil
		},
	)
	if err != nil {
		coll.refund(ctx)
		return nil, err
	}
	strategy := res.(*domain.Strategy)

	for _, p := range payouts {
		payOut(ctx, s.transferor, p.asset, req.Caller, p.amount)
	}

	s.publisher.Publish(ports.TopicStrategyUpdated, StrategyEvent{
		StrategyID: strategy.ID.String(),
		Owner:      req.Caller,
		Token0:     strategy.Token0,
		Token1:     strategy.Token1,
		Orders:     strategy.Orders,
		Reason:     domain.StrategyUpdateReasonEdit,
	})
	log.Infof("updated strategy %s", strategy.ID)

	return &StrategyInfo{
		ID:     strategy.ID,
		Owner:  req.Caller,
		Token0: strategy.Token0,
		Token1: strategy.Token1,
		Orders: strategy.Orders,
	}, nil
}

// DeleteStrategy removes the strategy, burns its ownership record and pays
// both orders' remaining liquidity back to the owner.
func (s *StrategyService) DeleteStrategy(
	ctx context.Context, caller string, id domain.StrategyID,
) error {
	if err := s.guard.Enter(); err != nil {
		return err
	}
	defer s.guard.Leave()

	if s.policy.IsPaused(ctx) {
		return ErrEnginePaused
	}
	if caller == "" {
		return ErrInvalidAccount
	}
	if err := s.checkOwner(ctx, id, caller); err != nil {
		return err
	}

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			strategy, err := s.repoManager.StrategyRepository().GetStrategy(ctx, id)
			if err != nil {
				return nil, err
			}
			if err := s.repoManager.StrategyRepository().DeleteStrategy(
				ctx, id,
			); err != nil {
				return nil, err
			}
			if err := s.registry.Burn(ctx, id); err != nil {
				return nil, err
			}
			return strategy, nil
		},
	)
	if err != nil {
		return err
	}
	strategy := res.(*domain.Strategy)

	tokens := [2]string{strategy.Token0, strategy.Token1}
	for i := range strategy.Orders {
		payOut(ctx, s.transferor, tokens[i], caller, strategy.Orders[i].Liquidity)
	}

	s.publisher.Publish(ports.TopicStrategyDeleted, StrategyEvent{
		StrategyID: strategy.ID.String(),
		Owner:      caller,
		Token0:     strategy.Token0,
		Token1:     strategy.Token1,
		Orders:     strategy.Orders,
	})
	log.Infof("deleted strategy %s", strategy.ID)

	return nil
}

// Strategy returns the strategy with the given id along with its current
// owner.
func (s *StrategyService) Strategy(
	ctx context.Context, id domain.StrategyID,
) (*StrategyInfo, error) {
	strategy, err := s.repoManager.StrategyRepository().GetStrategy(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.registry.OwnerOf(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StrategyInfo{
		ID:     strategy.ID,
		Owner:  owner,
		Token0: strategy.Token0,
		Token1: strategy.Token1,
		Orders: strategy.Orders,
	}, nil
}

// StrategiesByPair returns the [start, end) slice of the pair's strategies
// ordered by ascending index. A zero end, or one beyond the number of
// strategies, is clamped to it.
func (s *StrategyService) StrategiesByPair(
	ctx context.Context, tokenA, tokenB string, start, end uint64,
) ([]StrategyInfo, error) {
	token0, token1, err := canonicalTokens(tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	pair, err := s.repoManager.PairRepository().GetPair(ctx, token0, token1)
	if err != nil {
		return nil, err
	}
	strategies, err := s.repoManager.StrategyRepository().GetStrategiesForPair(
		ctx, pair.ID,
	)
	if err != nil {
		return nil, err
	}

	count := uint64(len(strategies))
	if end == 0 || end > count {
		end = count
	}
	if start > end {
		return nil, domain.ErrInvalidIndices
	}

	list := make([]StrategyInfo, 0, end-start)
	for _, strategy := range strategies[start:end] {
		owner, err := s.registry.OwnerOf(ctx, strategy.ID)
		if err != nil {
			return nil, err
		}
		list = append(list, StrategyInfo{
			ID:     strategy.ID,
			Owner:  owner,
			Token0: strategy.Token0,
			Token1: strategy.Token1,
			Orders: strategy.Orders,
		})
	}
	return list, nil
}

// StrategiesByPairCount returns the number of live strategies of the pair.
func (s *StrategyService) StrategiesByPairCount(
	ctx context.Context, tokenA, tokenB string,
) (uint64, error) {
	token0, token1, err := canonicalTokens(tokenA, tokenB)
	if err != nil {
		return 0, err
	}
	pair, err := s.repoManager.PairRepository().GetPair(ctx, token0, token1)
	if err != nil {
		return 0, err
	}
	return s.repoManager.StrategyRepository().CountStrategiesForPair(ctx, pair.ID)
}

func (s *StrategyService) checkOwner(
	ctx context.Context, id domain.StrategyID, caller string,
) error {
	owner, err := s.registry.OwnerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != caller {
		return domain.ErrAccessDenied
	}
	return nil
}
