package api

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/config"
	"horizonva/opsdesk/internal/db"
	"horizonva/opsdesk/internal/db/repositories"
	"horizonva/opsdesk/internal/metrics"
	"horizonva/opsdesk/internal/providers"
	"horizonva/opsdesk/internal/services"
)

type Repositories struct {
	Pilot  *repositories.PilotRepository
	Roster *repositories.RosterRepository
	Report *repositories.ReportRepository
	Source *repositories.SourceRepository
	Keys   *repositories.KeysRepo
}

type Services struct {
	Cache     common.CacheInterface
	Duty      *services.DutyService
	Review    *services.PirepReviewService
	Catalog   *services.RosterCatalogService
	Pilot     *services.PilotService
	Sources   *services.SourceConfigService
	Ingestion *services.RouteIngestionService
	Builder   *services.RosterBuilderService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services

	// Ledger plumbing for the worker. At most one queue is non-nil; both
	// are nil when the sheet mirror is not configured, and the review
	// service then skips enqueueing entirely.
	Sheets        *common.SheetsClient
	RedisLedger   *common.RedisLedgerQueue
	ChannelLedger *common.ChannelLedgerQueue
}

func InitDependencies(ctx context.Context, cfg *config.Config, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Pilot:  repositories.NewPilotRepository(db.DB),
		Roster: repositories.NewRosterRepository(db.PgDB),
		Report: repositories.NewReportRepository(db.PgDB),
		Source: repositories.NewSourceRepository(db.PgDB),
		Keys:   repositories.NewApiKeysRepo(db.DB),
	}

	// One client serves both the cache and the ledger stream.
	var redisClient *redis.Client
	if os.Getenv("REDIS_HOST") != "" {
		redisClient = common.NewRedisClient()
	}

	var cacheSvc common.CacheInterface
	if redisClient != nil {
		redisCache, err := common.NewRedisCacheService(redisClient)
		if err != nil {
			log.Printf("[Deps] Redis cache unavailable, falling back to in-memory: %v", err)
			cacheSvc = common.NewCacheService(60000, 600)
		} else {
			cacheSvc = redisCache
		}
	} else {
		cacheSvc = common.NewCacheService(60000, 600)
	}

	var sheetsClient *common.SheetsClient
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" && cfg.GoogleRefreshToken != "" {
		client, err := common.NewSheetsClient(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRefreshToken)
		if err != nil {
			log.Printf("[Deps] Sheets client init failed, sheet sources and ledger disabled: %v", err)
		} else {
			sheetsClient = client
		}
	} else {
		log.Printf("[Deps] Google credentials not set, sheet sources and ledger disabled")
	}

	var ledgerQueue common.LedgerQueue
	var redisLedger *common.RedisLedgerQueue
	var channelLedger *common.ChannelLedgerQueue
	if sheetsClient != nil && cfg.LedgerSpreadsheetID != "" {
		if redisClient != nil {
			redisLedger = common.NewRedisLedgerQueue(redisClient)
			ledgerQueue = redisLedger
		} else {
			channelLedger = common.NewChannelLedgerQueue(100, func() {
				metricsReg.LedgerEntriesDropped.Inc()
			})
			ledgerQueue = channelLedger
		}
	}

	factory := providers.NewFactory(sheetsClient)

	svcs := &Services{
		Cache:     cacheSvc,
		Duty:      services.NewDutyService(repos.Pilot, repos.Roster, repos.Report, metricsReg, cfg.Policy),
		Review:    services.NewPirepReviewService(db.PgDB, repos.Report, ledgerQueue, metricsReg),
		Catalog:   services.NewRosterCatalogService(repos.Roster, cacheSvc, metricsReg, cfg.Policy, cfg.AirlineName, cfg.DefaultHub),
		Pilot:     services.NewPilotService(repos.Pilot, repos.Keys, cacheSvc, metricsReg, cfg.DefaultHub),
		Sources:   services.NewSourceConfigService(repos.Source, metricsReg),
		Ingestion: services.NewRouteIngestionService(repos.Source, factory, metricsReg, cfg.AirlineName),
		Builder:   services.NewRosterBuilderService(repos.Roster, metricsReg, cfg.Policy),
	}

	return &Dependencies{
		Repo:          repos,
		Services:      svcs,
		Sheets:        sheetsClient,
		RedisLedger:   redisLedger,
		ChannelLedger: channelLedger,
	}, nil
}
