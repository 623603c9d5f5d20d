package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/curvex-network/curvex-daemon/config"
	"github.com/curvex-network/curvex-daemon/internal/core/application"
	"github.com/curvex-network/curvex-daemon/internal/core/ports"
	"github.com/curvex-network/curvex-daemon/internal/infrastructure/assets"
	"github.com/curvex-network/curvex-daemon/internal/infrastructure/policy"
	"github.com/curvex-network/curvex-daemon/internal/infrastructure/pubsub"
	"github.com/curvex-network/curvex-daemon/internal/infrastructure/registry"
	dbbadger "github.com/curvex-network/curvex-daemon/internal/infrastructure/storage/db/badger"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "curvex operator CLI"
	app.Usage = "Command line interface for curvexd operators"
	app.Commands = append(
		app.Commands,
		&createpair,
		&listpairs,
		&createstrategy,
		&updatestrategy,
		&deletestrategy,
		&liststrategies,
		&trade,
		&quote,
		&fee,
		&fund,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

// engine bundles the services of the exchange opened on the local datadir.
// The ledger and the ownership registry persist in the same datadir so every
// invocation operates on the same balances and ownership records.
type engine struct {
	repoManager ports.RepoManager
	ledger      *assets.BadgerLedger
	pairs       *application.PairService
	strategies  *application.StrategyService
	trades      *application.TradeService
	fees        *application.FeeService
}

func connectEngine() (*engine, error) {
	dbDir, err := config.GetDbDir()
	if err != nil {
		return nil, err
	}
	repoManager, err := dbbadger.NewRepoManager(dbDir, nil)
	if err != nil {
		return nil, err
	}

	ledger := assets.NewBadgerLedger(repoManager.Store())
	transferor := assets.WithCircuitBreaker(ledger)
	ownership := registry.NewBadgerOwnershipRegistry(repoManager.Store())
	accessPolicy := policy.NewAccessPolicy(config.GetString(config.AdminAccountKey))
	pubsubSvc := pubsub.NewService()
	guard := application.NewReentrancyGuard()
	nativeAsset := config.GetString(config.NativeAssetKey)

	pairService, err := application.NewPairService(
		repoManager, accessPolicy, pubsubSvc,
	)
	if err != nil {
		return nil, err
	}
	strategyService, err := application.NewStrategyService(
		repoManager, ownership, transferor, accessPolicy, pubsubSvc, guard, nativeAsset,
	)
	if err != nil {
		return nil, err
	}
	tradeService, err := application.NewTradeService(
		repoManager, transferor, accessPolicy, pubsubSvc, guard, nativeAsset,
	)
	if err != nil {
		return nil, err
	}
	feeService, err := application.NewFeeService(
		repoManager, transferor, accessPolicy, pubsubSvc, guard,
	)
	if err != nil {
		return nil, err
	}

	return &engine{
		repoManager: repoManager,
		ledger:      ledger,
		pairs:       pairService,
		strategies:  strategyService,
		trades:      tradeService,
		fees:        feeService,
	}, nil
}

func (e *engine) close() {
	e.repoManager.Close()
}

func printRespJSON(resp interface{}) {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(jsonBytes))
}

func fatal(err error) {
	log.Errorln(err)
	os.Exit(1)
}
