package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/curvex-network/curvex-daemon/internal/core/application"
	"github.com/curvex-network/curvex-daemon/internal/core/domain"
)

var tradeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "source",
		Usage:    "the hash of the asset paid by the trader",
		Required: true,
	},
	&cli.StringFlag{
		Name:     "target",
		Usage:    "the hash of the asset received by the trader",
		Required: true,
	},
	&cli.StringFlag{
		Name:     "actions",
		Usage:    "comma separated fill instructions, each as pairId:index:amount",
		Required: true,
	},
	&cli.BoolFlag{
		Name:  "by_target",
		Usage: "denominate the action amounts in the target asset instead of the source one",
	},
}

var trade = cli.Command{
	Name:  "trade",
	Usage: "execute a trade against the strategies of a pair",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:     "account",
			Usage:    "the trading account",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:  "limit",
			Usage: "min return when trading by source, max input when trading by target",
		},
		&cli.DurationFlag{
			Name:  "deadline",
			Usage: "how long the trade stays valid",
			Value: time.Minute,
		},
		&cli.Uint64Flag{
			Name:  "native_value",
			Usage: "the native asset amount attached to the call",
		},
	}, tradeFlags...),
	Action: tradeAction,
}

var quote = cli.Command{
	Name:   "quote",
	Usage:  "quote a trade without executing it",
	Flags:  tradeFlags,
	Action: quoteAction,
}

func tradeAction(ctx *cli.Context) error {
	engine, err := connectEngine()
	if err != nil {
		return err
	}
	defer engine.close()

	actions, err := parseActions(ctx.String("actions"))
	if err != nil {
		return err
	}

	req := application.TradeRequest{
		Trader:      ctx.String("account"),
		SourceAsset: ctx.String("source"),
		TargetAsset: ctx.String("target"),
		Actions:     actions,
		Deadline:    time.Now().Add(ctx.Duration("deadline")),
		NativeValue: ctx.Uint64("native_value"),
	}

	var res *application.TradeResult
	if ctx.Bool("by_target") {
		res, err = engine.trades.TradeByTargetAmount(
			context.Background(), req, ctx.Uint64("limit"),
		)
	} else {
		res, err = engine.trades.TradeBySourceAmount(
			context.Background(), req, ctx.Uint64("limit"),
		)
	}
	if err != nil {
		return err
	}

	printRespJSON(res)

	return nil
}

func quoteAction(ctx *cli.Context) error {
	engine, err := connectEngine()
	if err != nil {
		return err
	}
	defer engine.close()

	actions, err := parseActions(ctx.String("actions"))
	if err != nil {
		return err
	}

	source, target := ctx.String("source"), ctx.String("target")

	if ctx.Bool("by_target") {
		amount, err := engine.trades.CalculateTradeSourceAmount(
			context.Background(), source, target, actions,
		)
		if err != nil {
			return err
		}
		printRespJSON(map[string]uint64{"source_amount": amount})
		return nil
	}

	amount, err := engine.trades.CalculateTradeTargetAmount(
		context.Background(), source, target, actions,
	)
	if err != nil {
		return err
	}
	printRespJSON(map[string]uint64{"target_amount": amount})

	return nil
}

func parseActions(raw string) ([]domain.TradeAction, error) {
	var actions []domain.TradeAction
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf(
				"invalid action %q, expected pairId:index:amount", entry,
			)
		}
		id, err := domain.ParseStrategyID(parts[0] + ":" + parts[1])
		if err != nil {
			return nil, err
		}
		amount, err := strconv.ParseUint(parts[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid action amount %q", parts[2])
		}
		actions = append(actions, domain.TradeAction{
			StrategyID: id,
			Amount:     amount,
		})
	}
	return actions, nil
}
