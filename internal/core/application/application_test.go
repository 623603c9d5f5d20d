package application_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/curvex-network/curvex-daemon/internal/core/application"
	"github.com/curvex-network/curvex-daemon/internal/core/domain"
	"github.com/curvex-network/curvex-daemon/internal/core/ports"
	"github.com/curvex-network/curvex-daemon/internal/infrastructure/assets"
	"github.com/curvex-network/curvex-daemon/internal/infrastructure/policy"
	"github.com/curvex-network/curvex-daemon/internal/infrastructure/pubsub"
	"github.com/curvex-network/curvex-daemon/internal/infrastructure/registry"
	dbinmemory "github.com/curvex-network/curvex-daemon/internal/infrastructure/storage/db/inmemory"
)

var (
	assetA      = strings.Repeat("aa", 32)
	assetB      = strings.Repeat("bb", 32)
	assetC      = strings.Repeat("cc", 32)
	nativeAsset = strings.Repeat("ee", 32)

	ctx = context.Background()
)

const (
	admin  = "admin"
	maker  = "maker"
	trader = "trader"

	// sqrt(1) scaled by 2^48, ie. a flat curve trading 1:1
	unitRate = uint64(1) << 48
)

type testEngine struct {
	ledger     *assets.Ledger
	policy     *policy.AccessPolicy
	pubsub     *pubsub.Service
	pairs      *application.PairService
	strategies *application.StrategyService
	trades     *application.TradeService
	fees       *application.FeeService
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	repoManager := dbinmemory.NewRepoManager()
	ledger := assets.NewLedger()
	ownership := registry.NewOwnershipRegistry()
	accessPolicy := policy.NewAccessPolicy(admin)
	pubsubSvc := pubsub.NewService()
	guard := application.NewReentrancyGuard()

	pairService, err := application.NewPairService(
		repoManager, accessPolicy, pubsubSvc,
	)
	require.NoError(t, err)
	strategyService, err := application.NewStrategyService(
		repoManager, ownership, ledger, accessPolicy, pubsubSvc, guard, nativeAsset,
	)
	require.NoError(t, err)
	tradeService, err := application.NewTradeService(
		repoManager, ledger, accessPolicy, pubsubSvc, guard, nativeAsset,
	)
	require.NoError(t, err)
	feeService, err := application.NewFeeService(
		repoManager, ledger, accessPolicy, pubsubSvc, guard,
	)
	require.NoError(t, err)

	return &testEngine{
		ledger:     ledger,
		policy:     accessPolicy,
		pubsub:     pubsubSvc,
		pairs:      pairService,
		strategies: strategyService,
		trades:     tradeService,
		fees:       feeService,
	}
}

func flatOrder(liquidity uint64) domain.Order {
	return domain.Order{
		Liquidity: liquidity,
		Capacity:  liquidity,
		CurveLow:  unitRate,
		CurveHigh: unitRate,
	}
}

func (e *testEngine) createFundedStrategy(
	t *testing.T, orders [2]domain.Order,
) *application.StrategyInfo {
	t.Helper()
	e.ledger.Fund(assetA, maker, orders[0].Liquidity)
	e.ledger.Fund(assetB, maker, orders[1].Liquidity)
	info, err := e.strategies.CreateStrategy(ctx, application.CreateStrategyRequest{
		Owner:  maker,
		TokenA: assetA,
		TokenB: assetB,
		Orders: orders,
	})
	require.NoError(t, err)
	return info
}

func deadline() time.Time {
	return time.Now().Add(time.Minute)
}

func TestCreatePair(t *testing.T) {
	engine := newTestEngine(t)

	events := engine.pubsub.Subscribe(ports.TopicPairCreated)

	pair, err := engine.pairs.CreatePair(ctx, assetB, assetA)
	require.NoError(t, err)
	require.Equal(t, uint64(1), pair.ID)
	require.Equal(t, assetA, pair.Token0)
	require.Equal(t, assetB, pair.Token1)

	select {
	case event := <-events:
		require.Equal(t, ports.TopicPairCreated, event.Topic)
	default:
		t.Fatal("expected pair created notification")
	}

	_, err = engine.pairs.CreatePair(ctx, assetA, assetB)
	require.EqualError(t, err, domain.ErrPairAlreadyExists.Error())

	_, err = engine.pairs.CreatePair(ctx, assetA, assetA)
	require.EqualError(t, err, domain.ErrIdenticalAssets.Error())

	_, err = engine.pairs.CreatePair(ctx, assetA, "not an asset")
	require.EqualError(t, err, domain.ErrInvalidAsset.Error())

	found, err := engine.pairs.Pair(ctx, assetB, assetA)
	require.NoError(t, err)
	require.Equal(t, pair.ID, found.ID)

	found, err = engine.pairs.PairByID(ctx, pair.ID)
	require.NoError(t, err)
	require.Equal(t, assetA, found.Token0)

	_, err = engine.pairs.PairByID(ctx, 0)
	require.EqualError(t, err, domain.ErrPairDoesNotExist.Error())

	all, err := engine.pairs.Pairs(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestCreateStrategy(t *testing.T) {
	engine := newTestEngine(t)

	orders := [2]domain.Order{flatOrder(1000), flatOrder(2000)}
	info := engine.createFundedStrategy(t, orders)

	require.Equal(t, domain.StrategyID{PairID: 1, Index: 1}, info.ID)
	require.Equal(t, maker, info.Owner)
	require.Equal(t, orders, info.Orders)

	// deposits moved to the engine
	require.Zero(t, engine.ledger.BalanceOf(assetA, maker))
	require.Zero(t, engine.ledger.BalanceOf(assetB, maker))
	require.Equal(t, uint64(1000), engine.ledger.BalanceOf(assetA, assets.EngineAccount))
	require.Equal(t, uint64(2000), engine.ledger.BalanceOf(assetB, assets.EngineAccount))

	// the pair got registered on the fly
	pair, err := engine.pairs.Pair(ctx, assetA, assetB)
	require.NoError(t, err)
	require.Equal(t, uint64(1), pair.ID)

	found, err := engine.strategies.Strategy(ctx, info.ID)
	require.NoError(t, err)
	require.Equal(t, maker, found.Owner)

	count, err := engine.strategies.StrategiesByPairCount(ctx, assetA, assetB)
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}

func TestCreateStrategyTokenOrderCanonicalized(t *testing.T) {
	engine := newTestEngine(t)

	// tokens passed in reverse order, orders follow the arguments
	engine.ledger.Fund(assetA, maker, 500)
	engine.ledger.Fund(assetB, maker, 900)
	info, err := engine.strategies.CreateStrategy(ctx, application.CreateStrategyRequest{
		Owner:  maker,
		TokenA: assetB,
		TokenB: assetA,
		Orders: [2]domain.Order{flatOrder(900), flatOrder(500)},
	})
	require.NoError(t, err)

	require.Equal(t, assetA, info.Token0)
	require.Equal(t, uint64(500), info.Orders[0].Liquidity)
	require.Equal(t, uint64(900), info.Orders[1].Liquidity)
}

func TestCreateStrategyValidation(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name        string
		orders      [2]domain.Order
		expectedErr error
	}{
		{
			name: "reserved rate",
			orders: [2]domain.Order{
				{Liquidity: 10, Capacity: 10, CurveLow: domain.ReservedRate},
				flatOrder(10),
			},
			expectedErr: domain.ErrInvalidRate,
		},
		{
			name: "capacity below liquidity",
			orders: [2]domain.Order{
				{Liquidity: 10, Capacity: 5, CurveLow: unitRate, CurveHigh: unitRate},
				flatOrder(10),
			},
			expectedErr: domain.ErrInsufficientCapacity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.strategies.CreateStrategy(ctx, application.CreateStrategyRequest{
				Owner:  maker,
				TokenA: assetA,
				TokenB: assetB,
				Orders: tt.orders,
			})
			require.EqualError(t, err, tt.expectedErr.Error())
		})
	}

	// all-zero orders are valid, just disabled
	_, err := engine.strategies.CreateStrategy(ctx, application.CreateStrategyRequest{
		Owner:  maker,
		TokenA: assetA,
		TokenB: assetB,
		Orders: [2]domain.Order{{}, {}},
	})
	require.NoError(t, err)
}

func TestCreateStrategyBalanceMismatch(t *testing.T) {
	engine := newTestEngine(t)

	// fee-on-transfer asset credits less than declared
	engine.ledger.SetTransferFee(assetA, 10000)
	engine.ledger.Fund(assetA, maker, 1000)
	engine.ledger.Fund(assetB, maker, 1000)

	_, err := engine.strategies.CreateStrategy(ctx, application.CreateStrategyRequest{
		Owner:  maker,
		TokenA: assetA,
		TokenB: assetB,
		Orders: [2]domain.Order{flatOrder(1000), flatOrder(1000)},
	})
	require.EqualError(t, err, domain.ErrBalanceMismatch.Error())

	// the pulled amount was returned, shaved again by the transfer fee, and
	// nothing persisted
	require.Equal(t, uint64(980), engine.ledger.BalanceOf(assetA, maker))
	_, err = engine.pairs.Pair(ctx, assetA, assetB)
	require.EqualError(t, err, domain.ErrPairDoesNotExist.Error())
}

func TestCreateStrategyNativeValue(t *testing.T) {
	t.Run("unnecessary native value", func(t *testing.T) {
		engine := newTestEngine(t)
		engine.ledger.Fund(assetA, maker, 100)
		engine.ledger.Fund(assetB, maker, 100)
		engine.ledger.Fund(nativeAsset, maker, 50)

		_, err := engine.strategies.CreateStrategy(ctx, application.CreateStrategyRequest{
			Owner:       maker,
			TokenA:      assetA,
			TokenB:      assetB,
			Orders:      [2]domain.Order{flatOrder(100), flatOrder(100)},
			NativeValue: 50,
		})
		require.EqualError(t, err, domain.ErrUnnecessaryNativeAssetReceived.Error())
	})

	t.Run("insufficient native value", func(t *testing.T) {
		engine := newTestEngine(t)
		engine.ledger.Fund(assetA, maker, 100)
		engine.ledger.Fund(nativeAsset, maker, 100)

		_, err := engine.strategies.CreateStrategy(ctx, application.CreateStrategyRequest{
			Owner:       maker,
			TokenA:      assetA,
			TokenB:      nativeAsset,
			Orders:      [2]domain.Order{flatOrder(100), flatOrder(100)},
			NativeValue: 60,
		})
		require.EqualError(t, err, domain.ErrInsufficientNativeAssetReceived.Error())
	})

	t.Run("excess native value refunded", func(t *testing.T) {
		engine := newTestEngine(t)
		engine.ledger.Fund(assetA, maker, 100)
		engine.ledger.Fund(nativeAsset, maker, 500)

		_, err := engine.strategies.CreateStrategy(ctx, application.CreateStrategyRequest{
			Owner:       maker,
			TokenA:      assetA,
			TokenB:      nativeAsset,
			Orders:      [2]domain.Order{flatOrder(100), flatOrder(100)},
			NativeValue: 500,
		})
		require.NoError(t, err)
		require.Equal(t, uint64(400), engine.ledger.BalanceOf(nativeAsset, maker))
		require.Equal(t, uint64(100), engine.ledger.BalanceOf(nativeAsset, assets.EngineAccount))
	})
}

func TestUpdateStrategy(t *testing.T) {
	engine := newTestEngine(t)
	info := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(2000)})

	engine.ledger.Fund(assetA, maker, 500)
	newOrders := [2]domain.Order{flatOrder(1500), flatOrder(800)}

	updated, err := engine.strategies.UpdateStrategy(ctx, application.UpdateStrategyRequest{
		Caller:        maker,
		ID:            info.ID,
		CurrentOrders: info.Orders,
		NewOrders:     newOrders,
	})
	require.NoError(t, err)
	require.Equal(t, newOrders, updated.Orders)

	// raised token0 liquidity pulled in, lowered token1 liquidity paid back
	require.Zero(t, engine.ledger.BalanceOf(assetA, maker))
	require.Equal(t, uint64(1200), engine.ledger.BalanceOf(assetB, maker))
	require.Equal(t, uint64(1500), engine.ledger.BalanceOf(assetA, assets.EngineAccount))
	require.Equal(t, uint64(800), engine.ledger.BalanceOf(assetB, assets.EngineAccount))
}

func TestUpdateStrategyOutDated(t *testing.T) {
	engine := newTestEngine(t)
	info := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(2000)})

	staleOrders := info.Orders
	staleOrders[0].Liquidity = 999

	_, err := engine.strategies.UpdateStrategy(ctx, application.UpdateStrategyRequest{
		Caller:        maker,
		ID:            info.ID,
		CurrentOrders: staleOrders,
		NewOrders:     [2]domain.Order{flatOrder(10), flatOrder(10)},
	})
	require.EqualError(t, err, domain.ErrOutDated.Error())

	// nothing changed
	found, err := engine.strategies.Strategy(ctx, info.ID)
	require.NoError(t, err)
	require.Equal(t, info.Orders, found.Orders)
}

func TestUpdateStrategyAccessDenied(t *testing.T) {
	engine := newTestEngine(t)
	info := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(2000)})

	_, err := engine.strategies.UpdateStrategy(ctx, application.UpdateStrategyRequest{
		Caller:        "intruder",
		ID:            info.ID,
		CurrentOrders: info.Orders,
		NewOrders:     info.Orders,
	})
	require.EqualError(t, err, domain.ErrAccessDenied.Error())

	_, err = engine.strategies.UpdateStrategy(ctx, application.UpdateStrategyRequest{
		Caller:        maker,
		ID:            domain.StrategyID{PairID: 1, Index: 42},
		CurrentOrders: info.Orders,
		NewOrders:     info.Orders,
	})
	require.EqualError(t, err, ports.ErrOwnershipNotFound.Error())
}

func TestDeleteStrategy(t *testing.T) {
	engine := newTestEngine(t)
	info := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(2000)})

	err := engine.strategies.DeleteStrategy(ctx, "intruder", info.ID)
	require.EqualError(t, err, domain.ErrAccessDenied.Error())

	err = engine.strategies.DeleteStrategy(ctx, maker, info.ID)
	require.NoError(t, err)

	// both liquidities refunded
	require.Equal(t, uint64(1000), engine.ledger.BalanceOf(assetA, maker))
	require.Equal(t, uint64(2000), engine.ledger.BalanceOf(assetB, maker))

	_, err = engine.strategies.Strategy(ctx, info.ID)
	require.EqualError(t, err, domain.ErrStrategyDoesNotExist.Error())

	// deleted indexes are never reused
	next := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(10), flatOrder(10)})
	require.Equal(t, domain.StrategyID{PairID: 1, Index: 2}, next.ID)
}

func TestStrategiesByPairPagination(t *testing.T) {
	engine := newTestEngine(t)
	for i := 0; i < 4; i++ {
		engine.createFundedStrategy(t, [2]domain.Order{flatOrder(10), flatOrder(10)})
	}

	all, err := engine.strategies.StrategiesByPair(ctx, assetA, assetB, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, uint64(1), all[0].ID.Index)
	require.Equal(t, uint64(4), all[3].ID.Index)

	page, err := engine.strategies.StrategiesByPair(ctx, assetA, assetB, 1, 3)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, uint64(2), page[0].ID.Index)

	// end beyond the count is clamped
	clamped, err := engine.strategies.StrategiesByPair(ctx, assetA, assetB, 2, 100)
	require.NoError(t, err)
	require.Len(t, clamped, 2)

	_, err = engine.strategies.StrategiesByPair(ctx, assetA, assetB, 3, 2)
	require.EqualError(t, err, domain.ErrInvalidIndices.Error())

	_, err = engine.strategies.StrategiesByPair(ctx, assetA, assetC, 0, 0)
	require.EqualError(t, err, domain.ErrPairDoesNotExist.Error())
}

func TestTradeBySourceAmount(t *testing.T) {
	engine := newTestEngine(t)
	info := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(2000)})

	events := engine.pubsub.Subscribe(ports.TopicTradeExecuted)

	engine.ledger.Fund(assetA, trader, 400)
	res, err := engine.trades.TradeBySourceAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: assetA,
		TargetAsset: assetB,
		Actions: []domain.TradeAction{
			{StrategyID: info.ID, Amount: 400},
		},
		Deadline: deadline(),
	}, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(400), res.SourceAmount)
	require.Equal(t, uint64(400), res.TargetAmount)
	require.Zero(t, res.FeeAmount)

	require.Zero(t, engine.ledger.BalanceOf(assetA, trader))
	require.Equal(t, uint64(400), engine.ledger.BalanceOf(assetB, trader))

	// target order drained, counter order credited with the source amount
	found, err := engine.strategies.Strategy(ctx, info.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(1600), found.Orders[1].Liquidity)
	require.Equal(t, uint64(1400), found.Orders[0].Liquidity)
	require.Equal(t, uint64(1400), found.Orders[0].Capacity)

	select {
	case event := <-events:
		require.Equal(t, ports.TopicTradeExecuted, event.Topic)
	default:
		t.Fatal("expected trade executed notification")
	}
}

func TestTradeByTargetAmount(t *testing.T) {
	engine := newTestEngine(t)
	info := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(2000)})

	engine.ledger.Fund(assetB, trader, 250)
	res, err := engine.trades.TradeByTargetAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: assetB,
		TargetAsset: assetA,
		Actions: []domain.TradeAction{
			{StrategyID: info.ID, Amount: 250},
		},
		Deadline: deadline(),
	}, 250)
	require.NoError(t, err)
	require.Equal(t, uint64(250), res.SourceAmount)
	require.Equal(t, uint64(250), res.TargetAmount)

	require.Equal(t, uint64(250), engine.ledger.BalanceOf(assetA, trader))
	require.Zero(t, engine.ledger.BalanceOf(assetB, trader))
}

func TestTradeFees(t *testing.T) {
	engine := newTestEngine(t)
	info := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(2000)})

	// 1% trade fee
	require.NoError(t, engine.fees.SetTradeFee(ctx, admin, 10000))

	t.Run("fee on target side trading by source", func(t *testing.T) {
		engine.ledger.Fund(assetA, trader, 400)
		res, err := engine.trades.TradeBySourceAmount(ctx, application.TradeRequest{
			Trader:      trader,
			SourceAsset: assetA,
			TargetAsset: assetB,
			Actions: []domain.TradeAction{
				{StrategyID: info.ID, Amount: 400},
			},
			Deadline: deadline(),
		}, 0)
		require.NoError(t, err)
		require.Equal(t, uint64(400), res.SourceAmount)
		require.Equal(t, uint64(396), res.TargetAmount)
		require.Equal(t, uint64(4), res.FeeAmount)
		require.Equal(t, assetB, res.FeeAsset)

		fees, err := engine.fees.AccumulatedFees(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(4), fees[assetB])
	})

	t.Run("fee on source side trading by target", func(t *testing.T) {
		engine.ledger.Fund(assetA, trader, 405)
		res, err := engine.trades.TradeByTargetAmount(ctx, application.TradeRequest{
			Trader:      trader,
			SourceAsset: assetA,
			TargetAsset: assetB,
			Actions: []domain.TradeAction{
				{StrategyID: info.ID, Amount: 400},
			},
			Deadline: deadline(),
		}, 405)
		require.NoError(t, err)
		require.Equal(t, uint64(405), res.SourceAmount)
		require.Equal(t, uint64(400), res.TargetAmount)
		require.Equal(t, uint64(5), res.FeeAmount)
		require.Equal(t, assetA, res.FeeAsset)
	})
}

func TestTradeBounds(t *testing.T) {
	engine := newTestEngine(t)
	info := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(2000)})
	engine.ledger.Fund(assetA, trader, 1000)

	_, err := engine.trades.TradeBySourceAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: assetA,
		TargetAsset: assetB,
		Actions: []domain.TradeAction{
			{StrategyID: info.ID, Amount: 400},
		},
		Deadline: deadline(),
	}, 401)
	require.EqualError(t, err, domain.ErrLowerThanMinReturn.Error())

	_, err = engine.trades.TradeByTargetAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: assetA,
		TargetAsset: assetB,
		Actions: []domain.TradeAction{
			{StrategyID: info.ID, Amount: 400},
		},
		Deadline: deadline(),
	}, 399)
	require.EqualError(t, err, domain.ErrGreaterThanMaxInput.Error())

	// failed trades leave no trace
	require.Equal(t, uint64(1000), engine.ledger.BalanceOf(assetA, trader))
	found, err := engine.strategies.Strategy(ctx, info.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(2000), found.Orders[1].Liquidity)
}

func TestTradeValidation(t *testing.T) {
	engine := newTestEngine(t)
	info := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(2000)})
	engine.ledger.Fund(assetA, trader, 1000)

	newRequest := func(actions []domain.TradeAction) application.TradeRequest {
		return application.TradeRequest{
			Trader:      trader,
			SourceAsset: assetA,
			TargetAsset: assetB,
			Actions:     actions,
			Deadline:    deadline(),
		}
	}

	t.Run("expired deadline", func(t *testing.T) {
		req := newRequest([]domain.TradeAction{{StrategyID: info.ID, Amount: 1}})
		req.Deadline = time.Now().Add(-time.Second)
		_, err := engine.trades.TradeBySourceAmount(ctx, req, 0)
		require.EqualError(t, err, domain.ErrDeadlineExpired.Error())
	})

	t.Run("no actions", func(t *testing.T) {
		_, err := engine.trades.TradeBySourceAmount(ctx, newRequest(nil), 0)
		require.EqualError(t, err, domain.ErrInvalidActionsLength.Error())
	})

	t.Run("zero amount action", func(t *testing.T) {
		_, err := engine.trades.TradeBySourceAmount(
			ctx, newRequest([]domain.TradeAction{{StrategyID: info.ID, Amount: 0}}), 0,
		)
		require.EqualError(t, err, domain.ErrZeroValue.Error())
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := engine.trades.TradeBySourceAmount(
			ctx, newRequest([]domain.TradeAction{{
				StrategyID: domain.StrategyID{PairID: 1, Index: 99}, Amount: 1,
			}}), 0,
		)
		require.EqualError(t, err, domain.ErrInvalidTradeActionStrategyId.Error())
	})

	t.Run("strategy of another pair", func(t *testing.T) {
		_, err := engine.trades.TradeBySourceAmount(
			ctx, newRequest([]domain.TradeAction{{
				StrategyID: domain.StrategyID{PairID: 2, Index: 1}, Amount: 1,
			}}), 0,
		)
		require.EqualError(t, err, domain.ErrInvalidTradeActionStrategyId.Error())
	})

	t.Run("disabled order", func(t *testing.T) {
		disabled := engine.createFundedStrategy(t, [2]domain.Order{
			{}, {Liquidity: 100, Capacity: 100, CurveLow: unitRate, CurveHigh: unitRate},
		})
		// trading towards token0 whose order has no curve
		engine.ledger.Fund(assetB, trader, 10)
		req := application.TradeRequest{
			Trader:      trader,
			SourceAsset: assetB,
			TargetAsset: assetA,
			Actions:     []domain.TradeAction{{StrategyID: disabled.ID, Amount: 10}},
			Deadline:    deadline(),
		}
		_, err := engine.trades.TradeBySourceAmount(ctx, req, 0)
		require.EqualError(t, err, domain.ErrOrderDisabled.Error())
	})
}

func TestTradeMultipleActions(t *testing.T) {
	engine := newTestEngine(t)
	first := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(1000)})
	second := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(1000)})

	engine.ledger.Fund(assetA, trader, 600)
	res, err := engine.trades.TradeBySourceAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: assetA,
		TargetAsset: assetB,
		Actions: []domain.TradeAction{
			{StrategyID: first.ID, Amount: 100},
			{StrategyID: second.ID, Amount: 200},
			// repeated action compounds on the strategy's mutated state
			{StrategyID: first.ID, Amount: 300},
		},
		Deadline: deadline(),
	}, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(600), res.SourceAmount)
	require.Equal(t, uint64(600), res.TargetAmount)

	foundFirst, err := engine.strategies.Strategy(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(600), foundFirst.Orders[1].Liquidity)
	require.Equal(t, uint64(1400), foundFirst.Orders[0].Liquidity)

	foundSecond, err := engine.strategies.Strategy(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(800), foundSecond.Orders[1].Liquidity)
}

func TestTradeInsufficientLiquidity(t *testing.T) {
	engine := newTestEngine(t)
	info := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(500)})

	engine.ledger.Fund(assetA, trader, 501)
	_, err := engine.trades.TradeBySourceAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: assetA,
		TargetAsset: assetB,
		Actions: []domain.TradeAction{
			{StrategyID: info.ID, Amount: 501},
		},
		Deadline: deadline(),
	}, 0)
	require.EqualError(t, err, domain.ErrInsufficientLiquidity.Error())
}

func TestQuotesMatchExecution(t *testing.T) {
	engine := newTestEngine(t)
	info := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(2000)})
	require.NoError(t, engine.fees.SetTradeFee(ctx, admin, 2500))

	actions := []domain.TradeAction{{StrategyID: info.ID, Amount: 400}}

	quotedTarget, err := engine.trades.CalculateTradeTargetAmount(
		ctx, assetA, assetB, actions,
	)
	require.NoError(t, err)

	engine.ledger.Fund(assetA, trader, 400)
	res, err := engine.trades.TradeBySourceAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: assetA,
		TargetAsset: assetB,
		Actions:     actions,
		Deadline:    deadline(),
	}, quotedTarget)
	require.NoError(t, err)
	require.Equal(t, quotedTarget, res.TargetAmount)
}

// Trades a strategy down to its last unit of liquidity on a falling curve and
// checks that the drained order cannot serve any further amount.
func TestTradeDrainsOrderLiquidity(t *testing.T) {
	engine := newTestEngine(t)

	liquidity := uint64(800000)
	capacity := uint64(8000000)
	order := domain.Order{
		Liquidity: liquidity,
		Capacity:  capacity,
		CurveLow:  12148001999,
		CurveHigh: 736899889,
	}
	engine.ledger.Fund(assetA, maker, liquidity)
	engine.ledger.Fund(assetB, maker, liquidity)
	info, err := engine.strategies.CreateStrategy(ctx, application.CreateStrategyRequest{
		Owner:  maker,
		TokenA: assetA,
		TokenB: assetB,
		Orders: [2]domain.Order{order, order},
	})
	require.NoError(t, err)

	actions := []domain.TradeAction{{StrategyID: info.ID, Amount: liquidity}}
	quotedSource, err := engine.trades.CalculateTradeSourceAmount(
		ctx, assetA, assetB, actions,
	)
	require.NoError(t, err)
	require.Equal(t, uint64(474023659995436), quotedSource)

	engine.ledger.Fund(assetA, trader, quotedSource)
	res, err := engine.trades.TradeByTargetAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: assetA,
		TargetAsset: assetB,
		Actions:     actions,
		Deadline:    deadline(),
	}, quotedSource)
	require.NoError(t, err)
	require.Equal(t, quotedSource, res.SourceAmount)
	require.Equal(t, liquidity, res.TargetAmount)
	require.Equal(t, liquidity, engine.ledger.BalanceOf(assetB, trader))

	found, err := engine.strategies.Strategy(ctx, info.ID)
	require.NoError(t, err)
	require.Zero(t, found.Orders[1].Liquidity)

	// the drained order cannot serve anything anymore
	engine.ledger.Fund(assetA, trader, 1000)
	_, err = engine.trades.TradeByTargetAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: assetA,
		TargetAsset: assetB,
		Actions: []domain.TradeAction{
			{StrategyID: info.ID, Amount: 1},
		},
		Deadline: deadline(),
	}, 1000)
	require.EqualError(t, err, domain.ErrInsufficientLiquidity.Error())
}

func TestTradeWithNativeSource(t *testing.T) {
	engine := newTestEngine(t)

	engine.ledger.Fund(nativeAsset, maker, 1000)
	engine.ledger.Fund(assetA, maker, 1000)
	info, err := engine.strategies.CreateStrategy(ctx, application.CreateStrategyRequest{
		Owner:       maker,
		TokenA:      assetA,
		TokenB:      nativeAsset,
		Orders:      [2]domain.Order{flatOrder(1000), flatOrder(1000)},
		NativeValue: 1000,
	})
	require.NoError(t, err)

	engine.ledger.Fund(nativeAsset, trader, 500)

	// attached value short of the source amount
	_, err = engine.trades.TradeBySourceAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: nativeAsset,
		TargetAsset: assetA,
		Actions:     []domain.TradeAction{{StrategyID: info.ID, Amount: 300}},
		Deadline:    deadline(),
		NativeValue: 200,
	}, 0)
	require.EqualError(t, err, domain.ErrInsufficientNativeAssetReceived.Error())

	// excess attached value is refunded
	res, err := engine.trades.TradeBySourceAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: nativeAsset,
		TargetAsset: assetA,
		Actions:     []domain.TradeAction{{StrategyID: info.ID, Amount: 300}},
		Deadline:    deadline(),
		NativeValue: 500,
	}, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(300), res.SourceAmount)
	require.Equal(t, uint64(200), engine.ledger.BalanceOf(nativeAsset, trader))
	require.Equal(t, uint64(300), engine.ledger.BalanceOf(assetA, trader))

	// value attached to a trade with no native source leg
	engine.ledger.Fund(assetA, trader, 100)
	_, err = engine.trades.TradeBySourceAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: assetA,
		TargetAsset: nativeAsset,
		Actions:     []domain.TradeAction{{StrategyID: info.ID, Amount: 100}},
		Deadline:    deadline(),
		NativeValue: 100,
	}, 0)
	require.EqualError(t, err, domain.ErrUnnecessaryNativeAssetReceived.Error())
}

func TestFeeAdministration(t *testing.T) {
	engine := newTestEngine(t)
	engine.createFundedStrategy(t, [2]domain.Order{flatOrder(10), flatOrder(10)})

	t.Run("default fee", func(t *testing.T) {
		err := engine.fees.SetTradeFee(ctx, maker, 10000)
		require.EqualError(t, err, domain.ErrAccessDenied.Error())

		err = engine.fees.SetTradeFee(ctx, admin, 1000000)
		require.EqualError(t, err, domain.ErrInvalidFee.Error())

		require.NoError(t, engine.fees.SetTradeFee(ctx, admin, 10000))
		feePPM, err := engine.fees.TradeFee(ctx)
		require.NoError(t, err)
		require.Equal(t, uint32(10000), feePPM)
	})

	t.Run("pair override", func(t *testing.T) {
		err := engine.fees.SetPairTradeFee(ctx, admin, assetA, assetC, 5000)
		require.EqualError(t, err, domain.ErrPairDoesNotExist.Error())

		require.NoError(t, engine.fees.SetPairTradeFee(ctx, admin, assetA, assetB, 5000))
		feePPM, ok, err := engine.fees.PairTradeFee(ctx, assetA, assetB)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, uint32(5000), feePPM)

		// zero clears the override
		require.NoError(t, engine.fees.SetPairTradeFee(ctx, admin, assetA, assetB, 0))
		_, ok, err = engine.fees.PairTradeFee(ctx, assetA, assetB)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestPairFeeOverrideAppliesToTrades(t *testing.T) {
	engine := newTestEngine(t)
	info := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(2000)})

	require.NoError(t, engine.fees.SetTradeFee(ctx, admin, 10000))
	require.NoError(t, engine.fees.SetPairTradeFee(ctx, admin, assetA, assetB, 20000))

	engine.ledger.Fund(assetA, trader, 500)
	res, err := engine.trades.TradeBySourceAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: assetA,
		TargetAsset: assetB,
		Actions:     []domain.TradeAction{{StrategyID: info.ID, Amount: 500}},
		Deadline:    deadline(),
	}, 0)
	require.NoError(t, err)
	// 2% override instead of the 1% default
	require.Equal(t, uint64(490), res.TargetAmount)
	require.Equal(t, uint64(10), res.FeeAmount)
}

func TestWithdrawFees(t *testing.T) {
	engine := newTestEngine(t)
	info := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(2000)})
	require.NoError(t, engine.fees.SetTradeFee(ctx, admin, 10000))

	engine.ledger.Fund(assetA, trader, 400)
	_, err := engine.trades.TradeBySourceAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: assetA,
		TargetAsset: assetB,
		Actions:     []domain.TradeAction{{StrategyID: info.ID, Amount: 400}},
		Deadline:    deadline(),
	}, 0)
	require.NoError(t, err)

	_, err = engine.fees.WithdrawFees(ctx, maker, "treasury", []application.FeeWithdrawal{
		{Asset: assetB, Amount: 4},
	})
	require.EqualError(t, err, domain.ErrAccessDenied.Error())

	_, err = engine.fees.WithdrawFees(ctx, admin, "treasury", []application.FeeWithdrawal{
		{Asset: assetB, Amount: 4},
		{Asset: assetB, Amount: 1},
	})
	require.EqualError(t, err, domain.ErrDuplicateAsset.Error())

	// requested amount clamped to the available counter
	paid, err := engine.fees.WithdrawFees(ctx, admin, "treasury", []application.FeeWithdrawal{
		{Asset: assetB, Amount: 100},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(4), paid[assetB])
	require.Equal(t, uint64(4), engine.ledger.BalanceOf(assetB, "treasury"))

	fees, err := engine.fees.AccumulatedFees(ctx)
	require.NoError(t, err)
	require.Empty(t, fees)
}

func TestPausedEngine(t *testing.T) {
	engine := newTestEngine(t)
	info := engine.createFundedStrategy(t, [2]domain.Order{flatOrder(1000), flatOrder(2000)})

	engine.policy.SetPaused(true)

	_, err := engine.pairs.CreatePair(ctx, assetA, assetC)
	require.EqualError(t, err, application.ErrEnginePaused.Error())

	_, err = engine.strategies.CreateStrategy(ctx, application.CreateStrategyRequest{
		Owner:  maker,
		TokenA: assetA,
		TokenB: assetB,
		Orders: [2]domain.Order{{}, {}},
	})
	require.EqualError(t, err, application.ErrEnginePaused.Error())

	_, err = engine.trades.TradeBySourceAmount(ctx, application.TradeRequest{
		Trader:      trader,
		SourceAsset: assetA,
		TargetAsset: assetB,
		Actions:     []domain.TradeAction{{StrategyID: info.ID, Amount: 1}},
		Deadline:    deadline(),
	}, 0)
	require.EqualError(t, err, application.ErrEnginePaused.Error())

	// reads still work
	_, err = engine.strategies.Strategy(ctx, info.ID)
	require.NoError(t, err)

	engine.policy.SetPaused(false)
	_, err = engine.pairs.CreatePair(ctx, assetA, assetC)
	require.NoError(t, err)
}
