package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/quanganhtapcode/store/api/routes"
	"github.com/quanganhtapcode/store/internal/activity"
	"github.com/quanganhtapcode/store/internal/backfill"
	"github.com/quanganhtapcode/store/internal/imports"
	"github.com/quanganhtapcode/store/internal/inventory"
	"github.com/quanganhtapcode/store/internal/orders"
	"github.com/quanganhtapcode/store/internal/stats"
	"github.com/quanganhtapcode/store/pkg/config"
	"github.com/quanganhtapcode/store/pkg/db"
	"github.com/quanganhtapcode/store/pkg/logger"
	"github.com/quanganhtapcode/store/pkg/metrics"
	"github.com/quanganhtapcode/store/pkg/migrate"
	"github.com/quanganhtapcode/store/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run schema migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	var statsCache stats.Cache
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		statsCache = stats.NewRedisCache(redisClient)
	} else {
		statsCache = stats.NewMemoryCache()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engineMetrics := metrics.NewEngineMetrics(registry)

	recorder := activity.NewRecorder(dbClient.DB(), logg)
	inventoryRepo := inventory.NewRepository(dbClient.DB())

	ordersSvc, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		inventoryRepo,
		dbClient,
		recorder,
		engineMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	importsSvc, err := imports.NewService(
		imports.NewRepository(dbClient.DB()),
		inventoryRepo,
		dbClient,
		recorder,
		engineMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create imports service", err)
		os.Exit(1)
	}

	statsSvc, err := stats.NewService(dbClient.DB(), inventoryRepo, statsCache, cfg.Stats.CacheTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	if !cfg.Backfill.Disabled {
		job, err := backfill.NewJob(dbClient.DB(), dbClient, engineMetrics, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create backfill job", err)
			os.Exit(1)
		}
		// Requests are served first; the one-shot rebuild follows shortly.
		go job.RunAfter(context.Background(), cfg.Backfill.StartDelay)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": cfg.DB.Driver,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient.DB(),
			DBPinger: dbClient,
			Redis:    redisClient,
			Orders:   ordersSvc,
			Imports:  importsSvc,
			Stats:    statsSvc,
			Registry: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
