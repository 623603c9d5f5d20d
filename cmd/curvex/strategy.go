package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/curvex-network/curvex-daemon/internal/core/application"
	"github.com/curvex-network/curvex-daemon/internal/core/domain"
)

// strategyView decorates the service info with the human-readable marginal
// rate each order currently quotes, target asset per unit of source asset.
type strategyView struct {
	application.StrategyInfo
	MarginalRates [2]string `json:"marginal_rates"`
}

func viewOf(info application.StrategyInfo) strategyView {
	view := strategyView{StrategyInfo: info}
	for i, order := range info.Orders {
		view.MarginalRates[i] = order.Curve().MarginalRate().String()
	}
	return view
}

func viewsOf(infos []application.StrategyInfo) []strategyView {
	views := make([]strategyView, 0, len(infos))
	for _, info := range infos {
		views = append(views, viewOf(info))
	}
	return views
}

func orderFlags(suffix string) []cli.Flag {
	return []cli.Flag{
		&cli.Uint64Flag{
			Name:  "liquidity_" + suffix,
			Usage: "the liquidity of the order holding token " + suffix,
		},
		&cli.Uint64Flag{
			Name:  "capacity_" + suffix,
			Usage: "the capacity of the order holding token " + suffix,
		},
		&cli.Uint64Flag{
			Name:  "curve_low_" + suffix,
			Usage: "the scaled square root of the rate at depletion of the order holding token " + suffix,
		},
		&cli.Uint64Flag{
			Name:  "curve_high_" + suffix,
			Usage: "the scaled square root of the rate at full capacity of the order holding token " + suffix,
		},
	}
}

func orderFromFlags(ctx *cli.Context, suffix string) domain.Order {
	return domain.Order{
		Liquidity: ctx.Uint64("liquidity_" + suffix),
		Capacity:  ctx.Uint64("capacity_" + suffix),
		CurveLow:  ctx.Uint64("curve_low_" + suffix),
		CurveHigh: ctx.Uint64("curve_high_" + suffix),
	}
}

var createstrategy = cli.Command{
	Name:  "createstrategy",
	Usage: "create a new strategy funded with the given orders",
	Flags: append(append([]cli.Flag{
		&cli.StringFlag{
			Name:     "account",
			Usage:    "the account owning the strategy",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "token_a",
			Usage:    "the hash of the asset held by the first order",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "token_b",
			Usage:    "the hash of the asset held by the second order",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:  "native_value",
			Usage: "the native asset amount attached to the call",
		},
	}, orderFlags("a")...), orderFlags("b")...),
	Action: createStrategyAction,
}

var updatestrategy = cli.Command{
	Name:  "updatestrategy",
	Usage: "replace the orders of a strategy, settling the liquidity deltas",
	Flags: append(append([]cli.Flag{
		&cli.StringFlag{
			Name:     "account",
			Usage:    "the account owning the strategy",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "id",
			Usage:    "the strategy id in its pairId:index form",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:  "native_value",
			Usage: "the native asset amount attached to the call",
		},
	}, orderFlags("a")...), orderFlags("b")...),
	Action: updateStrategyAction,
}

var deletestrategy = cli.Command{
	Name:  "deletestrategy",
	Usage: "delete a strategy, refunding its remaining liquidity",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "account",
			Usage:    "the account owning the strategy",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "id",
			Usage:    "the strategy id in its pairId:index form",
			Required: true,
		},
	},
	Action: deleteStrategyAction,
}

var liststrategies = cli.Command{
	Name:  "liststrategies",
	Usage: "list the strategies of a pair",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "token_a",
			Usage:    "the hash of the first asset of the pair",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "token_b",
			Usage:    "the hash of the second asset of the pair",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:  "start",
			Usage: "the first strategy position to return",
		},
		&cli.Uint64Flag{
			Name:  "end",
			Usage: "the position to stop at, 0 for all",
		},
	},
	Action: listStrategiesAction,
}

func createStrategyAction(ctx *cli.Context) error {
	engine, err := connectEngine()
	if err != nil {
		return err
	}
	defer engine.close()

	info, err := engine.strategies.CreateStrategy(
		context.Background(), application.CreateStrategyRequest{
			Owner:  ctx.String("account"),
			TokenA: ctx.String("token_a"),
			TokenB: ctx.String("token_b"),
			Orders: [2]domain.Order{
				orderFromFlags(ctx, "a"),
				orderFromFlags(ctx, "b"),
			},
			NativeValue: ctx.Uint64("native_value"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(viewOf(*info))

	return nil
}

func updateStrategyAction(ctx *cli.Context) error {
	engine, err := connectEngine()
	if err != nil {
		return err
	}
	defer engine.close()

	id, err := domain.ParseStrategyID(ctx.String("id"))
	if err != nil {
		return err
	}

	// the stored orders are used as the caller's view: the update applies to
	// whatever state the strategy is in right now
	current, err := engine.strategies.Strategy(context.Background(), id)
	if err != nil {
		return err
	}

	info, err := engine.strategies.UpdateStrategy(
		context.Background(), application.UpdateStrategyRequest{
			Caller:        ctx.String("account"),
			ID:            id,
			CurrentOrders: current.Orders,
			NewOrders: [2]domain.Order{
				orderFromFlags(ctx, "a"),
				orderFromFlags(ctx, "b"),
			},
			NativeValue: ctx.Uint64("native_value"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(viewOf(*info))

	return nil
}

func deleteStrategyAction(ctx *cli.Context) error {
	engine, err := connectEngine()
	if err != nil {
		return err
	}
	defer engine.close()

	id, err := domain.ParseStrategyID(ctx.String("id"))
	if err != nil {
		return err
	}

	if err := engine.strategies.DeleteStrategy(
		context.Background(), ctx.String("account"), id,
	); err != nil {
		return err
	}

	printRespJSON(map[string]string{"deleted": id.String()})

	return nil
}

func listStrategiesAction(ctx *cli.Context) error {
	engine, err := connectEngine()
	if err != nil {
		return err
	}
	defer engine.close()

	strategies, err := engine.strategies.StrategiesByPair(
		context.Background(),
		ctx.String("token_a"), ctx.String("token_b"),
		ctx.Uint64("start"), ctx.Uint64("end"),
	)
	if err != nil {
		return err
	}

	printRespJSON(viewsOf(strategies))

	return nil
}
