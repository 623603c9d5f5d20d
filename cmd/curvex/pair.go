package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var createpair = cli.Command{
	Name:  "createpair",
	Usage: "register a new tradeable pair",
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
	},
	Action: createPairAction,
}

var listpairs = cli.Command{
	Name:   "listpairs",
	Usage:  "list all registered pairs",
	Action: listPairsAction,
}

func createPairAction(ctx *cli.Context) error {
	engine, err := connectEngine()
	if err != nil {
		return err
	}
	defer engine.close()

	pair, err := engine.pairs.CreatePair(
		context.Background(), ctx.String("token_a"), ctx.String("token_b"),
	)
	if err != nil {
		return err
	}

	printRespJSON(pair)

	return nil
}

func listPairsAction(ctx *cli.Context) error {
	engine, err := connectEngine()
	if err != nil {
		return err
	}
	defer engine.close()

	pairs, err := engine.pairs.Pairs(context.Background())
	if err != nil {
		return err
	}

	printRespJSON(pairs)

	return nil
}
