package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/curvex-network/curvex-daemon/internal/core/application"
	"github.com/curvex-network/curvex-daemon/pkg/mathutil"
)

// feeView renders a ppm fee together with its decimal rate.
func feeView(feePPM uint) map[string]interface{} {
	return map[string]interface{}{
		"fee_ppm": feePPM,
		"fee_rate": mathutil.RatioDecimal(
			uint64(feePPM), mathutil.OneMillion,
		).String(),
	}
}

var fee = cli.Command{
	Name:  "fee",
	Usage: "manage trade fees and their accumulated balances",
	Subcommands: []*cli.Command{
		{
			Name:  "set",
			Usage: "set the default trade fee",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "account",
					Usage:    "the calling account, must hold the admin role",
					Required: true,
				},
				&cli.UintFlag{
					Name:     "ppm",
					Usage:    "the fee in parts per million",
					Required: true,
				},
			},
			Action: setFeeAction,
		},
		{
			Name:  "setpair",
			Usage: "set or clear the fee override of a pair",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "account",
					Usage:    "the calling account, must hold the admin role",
					Required: true,
				},
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
				&cli.UintFlag{
					Name:     "ppm",
					Usage:    "the fee in parts per million, 0 to clear the override",
					Required: true,
				},
			},
			Action: setPairFeeAction,
		},
		{
			Name:   "balance",
			Usage:  "list the accumulated fee balances per asset",
			Action: feeBalanceAction,
		},
		{
			Name:  "withdraw",
			Usage: "withdraw accumulated fees to an account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "account",
					Usage:    "the calling account, must hold the fee manager role",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "to",
					Usage:    "the receiving account",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "asset",
					Usage:    "the hash of the asset to withdraw",
					Required: true,
				},
				&cli.Uint64Flag{
					Name:     "amount",
					Usage:    "the amount to withdraw, clamped to the available balance",
					Required: true,
				},
			},
			Action: withdrawFeesAction,
		},
	},
}

func setFeeAction(ctx *cli.Context) error {
	engine, err := connectEngine()
	if err != nil {
		return err
	}
	defer engine.close()

	if err := engine.fees.SetTradeFee(
		context.Background(), ctx.String("account"), uint32(ctx.Uint("ppm")),
	); err != nil {
		return err
	}

	printRespJSON(feeView(ctx.Uint("ppm")))

	return nil
}

func setPairFeeAction(ctx *cli.Context) error {
	engine, err := connectEngine()
	if err != nil {
		return err
	}
	defer engine.close()

	if err := engine.fees.SetPairTradeFee(
		context.Background(), ctx.String("account"),
		ctx.String("token_a"), ctx.String("token_b"), uint32(ctx.Uint("ppm")),
	); err != nil {
		return err
	}

	printRespJSON(feeView(ctx.Uint("ppm")))

	return nil
}

func feeBalanceAction(ctx *cli.Context) error {
	engine, err := connectEngine()
	if err != nil {
		return err
	}
	defer engine.close()

	fees, err := engine.fees.AccumulatedFees(context.Background())
	if err != nil {
		return err
	}

	printRespJSON(fees)

	return nil
}

func withdrawFeesAction(ctx *cli.Context) error {
	engine, err := connectEngine()
	if err != nil {
		return err
	}
	defer engine.close()

	paid, err := engine.fees.WithdrawFees(
		context.Background(), ctx.String("account"), ctx.String("to"),
		[]application.FeeWithdrawal{{
			Asset:  ctx.String("asset"),
			Amount: ctx.Uint64("amount"),
		}},
	)
	if err != nil {
		return err
	}

	printRespJSON(paid)

	return nil
}
