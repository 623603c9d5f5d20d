package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/curvex-network/curvex-daemon/config"
	"github.com/curvex-network/curvex-daemon/internal/core/application"
	"github.com/curvex-network/curvex-daemon/internal/core/ports"
	"github.com/curvex-network/curvex-daemon/internal/infrastructure/assets"
	"github.com/curvex-network/curvex-daemon/internal/infrastructure/policy"
	"github.com/curvex-network/curvex-daemon/internal/infrastructure/pubsub"
	"github.com/curvex-network/curvex-daemon/internal/infrastructure/registry"
	dbbadger "github.com/curvex-network/curvex-daemon/internal/infrastructure/storage/db/badger"
	"github.com/curvex-network/curvex-daemon/internal/infrastructure/storage/db/inmemory"
)

func main() {
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repoManager, transferor, ownership, err := buildStorage()
	if err != nil {
		log.WithError(err).Panic("error while opening storage")
	}
	defer repoManager.Close()

	accessPolicy := policy.NewAccessPolicy(config.GetString(config.AdminAccountKey))
	pubsubSvc := pubsub.NewService()
	guard := application.NewReentrancyGuard()
	nativeAsset := config.GetString(config.NativeAssetKey)

	pairService, err := application.NewPairService(
		repoManager, accessPolicy, pubsubSvc,
	)
	if err != nil {
		log.WithError(err).Panic("error while creating pair service")
	}
	strategyService, err := application.NewStrategyService(
		repoManager, ownership, transferor, accessPolicy, pubsubSvc, guard, nativeAsset,
	)
	if err != nil {
		log.WithError(err).Panic("error while creating strategy service")
	}
	feeService, err := application.NewFeeService(
		repoManager, transferor, accessPolicy, pubsubSvc, guard,
	)
	if err != nil {
		log.WithError(err).Panic("error while creating fee service")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := feeService.SetTradeFee(
		ctx, config.GetString(config.AdminAccountKey),
		config.GetUint32(config.DefaultFeePPMKey),
	); err != nil {
		log.WithError(err).Panic("error while setting default trade fee")
	}

	log.Info("daemon started")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return logNotifications(ctx, pubsubSvc)
	})
	g.Go(func() error {
		return logStats(ctx, pairService, strategyService)
	})
	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
		select {
		case sig := <-sigChan:
			log.Infof("received signal %s, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("daemon stopped with error")
		return
	}
	log.Info("exiting")
}

// buildStorage opens the repo manager together with the ledger and the
// ownership registry. In badger mode all three persist in the same datadir
// so the CLI operating on it sees the daemon's balances and ownership
// records; in ephemeral mode everything lives in memory.
func buildStorage() (
	ports.RepoManager, ports.AssetTransferor, ports.OwnershipRegistry, error,
) {
	if config.GetString(config.DbTypeKey) == config.DbTypeInMemory {
		return inmemory.NewRepoManager(),
			assets.WithCircuitBreaker(assets.NewLedger()),
			registry.NewOwnershipRegistry(),
			nil
	}
	dbDir, err := config.GetDbDir()
	if err != nil {
		return nil, nil, nil, err
	}
	repoManager, err := dbbadger.NewRepoManager(dbDir, log.New())
	if err != nil {
		return nil, nil, nil, err
	}
	return repoManager,
		assets.WithCircuitBreaker(assets.NewBadgerLedger(repoManager.Store())),
		registry.NewBadgerOwnershipRegistry(repoManager.Store()),
		nil
}

// logNotifications mirrors every engine notification to the daemon's log.
func logNotifications(ctx context.Context, pubsubSvc *pubsub.Service) error {
	topics := []string{
		ports.TopicPairCreated,
		ports.TopicStrategyCreated,
		ports.TopicStrategyUpdated,
		ports.TopicStrategyDeleted,
		ports.TopicTradeExecuted,
		ports.TopicFeeUpdated,
	}
	for _, topic := range topics {
		events := pubsubSvc.Subscribe(topic)
		go func() {
			for {
				select {
				case event := <-events:
					log.WithField("topic", event.Topic).
						Debugf("notification: %s", string(event.Payload))
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// logStats periodically prints basic engine statistics.
func logStats(
	ctx context.Context,
	pairService *application.PairService,
	strategyService *application.StrategyService,
) error {
	interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pairs, err := pairService.Pairs(ctx)
			if err != nil {
				log.WithError(err).Warn("failed to gather stats")
				continue
			}
			var strategies uint64
			for _, pair := range pairs {
				count, err := strategyService.StrategiesByPairCount(
					ctx, pair.Token0, pair.Token1,
				)
				if err != nil {
					continue
				}
				strategies += count
			}
			log.Infof("stats: %d pairs, %d strategies", len(pairs), strategies)
		case <-ctx.Done():
			return nil
		}
	}
}
