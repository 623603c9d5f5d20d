package main

import (
	"github.com/urfave/cli/v2"
)

// The ledger backing the CLI is an in-process stand-in for the external
// settlement system, so accounts need an explicit credit before they can
// fund strategies or trade.
var fund = cli.Command{
	Name:  "fund",
	Usage: "credit an account with an asset amount on the local ledger",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "account",
			Usage:    "the account to credit",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "asset",
			Usage:    "the hash of the asset to credit",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "amount",
			Usage:    "the amount to credit",
			Required: true,
		},
	},
	Action: fundAction,
}

func fundAction(ctx *cli.Context) error {
	engine, err := connectEngine()
	if err != nil {
		return err
	}
	defer engine.close()

	if err := engine.ledger.Fund(
		ctx.String("asset"), ctx.String("account"), ctx.Uint64("amount"),
	); err != nil {
		return err
	}

	balance, err := engine.ledger.BalanceOf(
		ctx.String("asset"), ctx.String("account"),
	)
	if err != nil {
		return err
	}

	printRespJSON(map[string]uint64{"balance": balance})

	return nil
}
