package fx

import (
	"valorant-sync/internal/api"
	"valorant-sync/internal/catalog"
	"valorant-sync/internal/config"
	"valorant-sync/internal/database"
	"valorant-sync/internal/logger"
	"valorant-sync/internal/normalizer"
	"valorant-sync/internal/repository"
	"valorant-sync/internal/scheduler"
	"valorant-sync/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideNormalizer(c *catalog.Client) *normalizer.Normalizer {
	return normalizer.New(c)
}

func ProvideScheduler(
	client *api.RiotClient,
	matchRepo *repository.MatchRepository,
	accountRepo *repository.AccountRepository,
	ingestLog *repository.IngestLogRepository,
	n *normalizer.Normalizer,
	cfg *config.Config,
	log zerolog.Logger,
) *scheduler.Scheduler {
	return scheduler.New(client, matchRepo, accountRepo, n, ingestLog, cfg, log)
}

func ProvideHistoryService(
	client *api.RiotClient,
	matchRepo *repository.MatchRepository,
	log zerolog.Logger,
) *service.HistoryService {
	return service.NewHistoryService(client, matchRepo, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Invoke(logger.ApplyLevel),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewAccountRepository),
	fx.Provide(repository.NewIngestLogRepository),
	// api clients
	fx.Provide(api.NewRiotClient),
	fx.Provide(catalog.New),
	// core
	fx.Provide(ProvideNormalizer),
	fx.Provide(ProvideScheduler),
	// read surface
	fx.Provide(ProvideHistoryService),
)
