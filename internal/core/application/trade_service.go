package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
	"github.com/curvex-network/curvex-daemon/internal/core/ports"
	"github.com/curvex-network/curvex-daemon/pkg/mathutil"
)

// TradeService executes trades against the strategies of a pair and quotes
// them without mutating state. Every trade call settles against a single
// pair: the source and target assets are shared by all its actions.
type TradeService struct {
	repoManager ports.RepoManager
	transferor  ports.AssetTransferor
	policy      ports.AccessPolicy
	publisher   ports.Publisher
	guard       *ReentrancyGuard
	nativeAsset string
}

func NewTradeService(
	repoManager ports.RepoManager,
	transferor ports.AssetTransferor,
	policy ports.AccessPolicy,
	publisher ports.Publisher,
	guard *ReentrancyGuard,
	nativeAsset string,
) (*TradeService, error) {
	if repoManager == nil {
		return nil, errors.New("missing repo manager")
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
	return &TradeService{
		repoManager: repoManager,
		transferor:  transferor,
		policy:      policy,
		publisher:   publisher,
		guard:       guard,
		nativeAsset: nativeAsset,
	}, nil
}

// TradeBySourceAmount executes a trade whose action amounts are denominated
// in the source asset. The fee is taken on the target side: the trader fails
// with ErrLowerThanMinReturn if the net target amount falls below minReturn.
func (s *TradeService) TradeBySourceAmount(
	ctx context.Context, req TradeRequest, minReturn uint64,
) (*TradeResult, error) {
	return s.executeTrade(ctx, req, false, minReturn)
}

// TradeByTargetAmount executes a trade whose action amounts are denominated
// in the target asset. The fee is taken on the source side: the trade fails
// with ErrGreaterThanMaxInput if the gross source amount exceeds maxInput.
func (s *TradeService) TradeByTargetAmount(
	ctx context.Context, req TradeRequest, maxInput uint64,
) (*TradeResult, error) {
	return s.executeTrade(ctx, req, true, maxInput)
}

// CalculateTradeTargetAmount quotes the net target amount a source-denominated
// trade would deliver, fee deducted, without mutating any state.
func (s *TradeService) CalculateTradeTargetAmount(
	ctx context.Context, sourceAsset, targetAsset string,
	actions []domain.TradeAction,
) (uint64, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			comp, err := s.computeTrade(ctx, sourceAsset, targetAsset, actions, false)
			if err != nil {
				return nil, err
			}
			netTarget, _, err := mathutil.LessFee(comp.totalTarget, comp.feePPM)
			if err != nil {
				return nil, err
			}
			return netTarget, nil
		},
	)
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}

// CalculateTradeSourceAmount quotes the gross source amount a
// target-denominated trade would require, fee included, without mutating any
// state.
func (s *TradeService) CalculateTradeSourceAmount(
	ctx context.Context, sourceAsset, targetAsset string,
	actions []domain.TradeAction,
) (uint64, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			comp, err := s.computeTrade(ctx, sourceAsset, targetAsset, actions, true)
			if err != nil {
				return nil, err
			}
			grossSource, _, err := mathutil.PlusFee(comp.totalSource, comp.feePPM)
			if err != nil {
				return nil, err
			}
			return grossSource, nil
		},
	)
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}

// tradeComputation is the outcome of walking a trade's actions against the
// strategies of the pair, before any fee is applied.
type tradeComputation struct {
	pair        *domain.Pair
	strategies  []*domain.Strategy
	totalSource uint64
	totalTarget uint64
	feePPM      uint32
}

// computeTrade validates the trade parameters and applies every action to a
// local view of its strategy, so repeated actions against the same strategy
// compound. Nothing is persisted: the mutated strategies are returned for
// the execution path to store.
func (s *TradeService) computeTrade(
	ctx context.Context, sourceAsset, targetAsset string,
	actions []domain.TradeAction, byTarget bool,
) (*tradeComputation, error) {
	token0, token1, err := canonicalTokens(sourceAsset, targetAsset)
	if err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, domain.ErrInvalidActionsLength
	}

	pair, err := s.repoManager.PairRepository().GetPair(ctx, token0, token1)
	if err != nil {
		return nil, err
	}
	feePPM, err := s.tradeFeeFor(ctx, pair.ID)
	if err != nil {
		return nil, err
	}
	targetIndex := pair.IndexOf(targetAsset)

	comp := &tradeComputation{pair: pair, feePPM: feePPM}
	cache := make(map[domain.StrategyID]*domain.Strategy)

	for _, action := range actions {
		if action.Amount == 0 {
			return nil, domain.ErrZeroValue
		}
		if action.StrategyID.IsZero() || action.StrategyID.PairID != pair.ID {
			return nil, domain.ErrInvalidTradeActionStrategyId
		}

		strategy, ok := cache[action.StrategyID]
		if !ok {
			strategy, err = s.repoManager.StrategyRepository().GetStrategy(
				ctx, action.StrategyID,
			)
			if errors.Is(err, domain.ErrStrategyDoesNotExist) {
				return nil, domain.ErrInvalidTradeActionStrategyId
			}
			if err != nil {
				return nil, err
			}
			cache[action.StrategyID] = strategy
			comp.strategies = append(comp.strategies, strategy)
		}

		var sourceAmount, targetAmount uint64
		if byTarget {
			targetAmount = action.Amount
			if sourceAmount, err = strategy.FillByTargetAmount(
				targetIndex, targetAmount,
			); err != nil {
				return nil, err
			}
		} else {
			sourceAmount = action.Amount
			if targetAmount, err = strategy.FillBySourceAmount(
				targetIndex, sourceAmount,
			); err != nil {
				return nil, err
			}
		}

		if comp.totalSource, err = mathutil.AddUint64(
			comp.totalSource, sourceAmount,
		); err != nil {
			return nil, err
		}
		if comp.totalTarget, err = mathutil.AddUint64(
			comp.totalTarget, targetAmount,
		); err != nil {
			return nil, err
		}
	}
	return comp, nil
}

func (s *TradeService) executeTrade(
	ctx context.Context, req TradeRequest, byTarget bool, limit uint64,
) (*TradeResult, error) {
	if err := s.guard.Enter(); err != nil {
		return nil, err
	}
	defer s.guard.Leave()

	if s.policy.IsPaused(ctx) {
		return nil, ErrEnginePaused
	}
	if req.Trader == "" {
		return nil, ErrInvalidAccount
	}
	if time.Now().After(req.Deadline) {
		return nil, domain.ErrDeadlineExpired
	}

	coll := newFundsCollector(s.transferor, s.nativeAsset, req.Trader, req.NativeValue)
	result := &TradeResult{
		ID:          uuid.New().String(),
		SourceAsset: req.SourceAsset,
		TargetAsset: req.TargetAsset,
	}
	var strategies []*domain.Strategy

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			comp, err := s.computeTrade(
				ctx, req.SourceAsset, req.TargetAsset, req.Actions, byTarget,
			)
			if err != nil {
				return nil, err
			}
			strategies = comp.strategies

			if byTarget {
				grossSource, fee, err := mathutil.PlusFee(comp.totalSource, comp.feePPM)
				if err != nil {
					return nil, err
				}
				if grossSource > limit {
					return nil, domain.ErrGreaterThanMaxInput
				}
				result.SourceAmount = grossSource
				result.TargetAmount = comp.totalTarget
				result.FeeAmount = fee
				result.FeeAsset = req.SourceAsset
			} else {
				netTarget, fee, err := mathutil.LessFee(comp.totalTarget, comp.feePPM)
				if err != nil {
					return nil, err
				}
				if netTarget < limit {
					return nil, domain.ErrLowerThanMinReturn
				}
				result.SourceAmount = comp.totalSource
				result.TargetAmount = netTarget
				result.FeeAmount = fee
				result.FeeAsset = req.TargetAsset
			}

			for _, strategy := range comp.strategies {
				orders := strategy.Orders
				if err := s.repoManager.StrategyRepository().UpdateStrategy(
					ctx, strategy.ID,
					func(stored *domain.Strategy) (*domain.Strategy, error) {
						stored.Orders = orders
						return stored, nil
					},
				); err != nil {
					return nil, err
				}
			}

			if result.FeeAmount > 0 {
				if err := s.repoManager.FeeRepository().UpdateAccumulatedFees(
					ctx, result.FeeAsset, func(amount uint64) (uint64, error) {
						return mathutil.AddUint64(amount, result.FeeAmount)
					},
				); err != nil {
					return nil, err
				}
			}

			if err := coll.deposit(
				ctx, req.SourceAsset, result.SourceAmount, false,
			); err != nil {
				return nil, err
			}
			return nil, coll.settleNative(ctx)
		},
	); err != nil {
		coll.refund(ctx)
		return nil, err
	}

	payOut(ctx, s.transferor, req.TargetAsset, req.Trader, result.TargetAmount)

	for _, strategy := range strategies {
		s.publisher.Publish(ports.TopicStrategyUpdated, StrategyEvent{
			StrategyID: strategy.ID.String(),
			Token0:     strategy.Token0,
			Token1:     strategy.Token1,
			Orders:     strategy.Orders,
			Reason:     domain.StrategyUpdateReasonTrade,
		})
	}
	s.publisher.Publish(ports.TopicTradeExecuted, TradeExecutedEvent{
		TradeID:      result.ID,
		Trader:       req.Trader,
		SourceAsset:  result.SourceAsset,
		TargetAsset:  result.TargetAsset,
		SourceAmount: result.SourceAmount,
		TargetAmount: result.TargetAmount,
		FeeAmount:    result.FeeAmount,
		FeeAsset:     result.FeeAsset,
	})
	log.Infof("trade %s completed", result.ID)

	return result, nil
}

// tradeFeeFor returns the fee rate applying to the pair: its override when
// one is set, the default trade fee otherwise.
func (s *TradeService) tradeFeeFor(
	ctx context.Context, pairID uint64,
) (uint32, error) {
	feePPM, ok, err := s.repoManager.FeeRepository().GetPairFeePPM(ctx, pairID)
	if err != nil {
		return 0, err
	}
	if ok {
		return feePPM, nil
	}
	return s.repoManager.FeeRepository().GetTradeFeePPM(ctx)
}
