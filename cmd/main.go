package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	_ "github.com/joho/godotenv/autoload"

	"outreach-metrics-service/internal/cache"
	"outreach-metrics-service/internal/config"
	"outreach-metrics-service/internal/controller"
	"outreach-metrics-service/internal/db"
	httpserver "outreach-metrics-service/internal/http"
	"outreach-metrics-service/internal/repository"
	"outreach-metrics-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The service stays up without a database: every panel then reports
	// source=no_database with zeroed values instead of failing requests.
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = db.NewPool(ctx, cfg)
		if err != nil {
			log.Fatalf("connect db: %v", err)
		}
		defer pool.Close()

		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	} else {
		log.Printf("DATABASE_URL not set, serving zeroed metrics")
	}

	repo := repository.NewMetricsRepository(pool)
	worker := service.NewBatchIngestWorker(repo, cfg.WorkerBufferSize, cfg.WorkerBatchSize, cfg.WorkerFlushEvery)
	defer worker.Shutdown()

	var metricsService service.MetricsService
	metricsService = service.NewMetricsService(repo, worker, cfg.ExcludedCampaigns, nil)

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("parse redis url: %v", err)
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()
		metricsService = cache.NewService(metricsService, cache.NewRedisStore(rdb, nil), cfg.CacheTTL)
	}

	metricsController := controller.NewMetricsController(metricsService, controller.NewAllowAllAuthorizer(), cfg.DefaultWorkspaceID)

	server := httpserver.NewServer(cfg, metricsController)

	log.Printf("starting server on %s", cfg.HTTPPort)
	if err := server.Listen(cfg.HTTPPort); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
