package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/worldoflottery/archive-backend/api/routes"
	"github.com/worldoflottery/archive-backend/internal/catalog"
	"github.com/worldoflottery/archive-backend/internal/enrichment"
	"github.com/worldoflottery/archive-backend/internal/profile"
	"github.com/worldoflottery/archive-backend/pkg/config"
	"github.com/worldoflottery/archive-backend/pkg/db"
	"github.com/worldoflottery/archive-backend/pkg/db/models"
	"github.com/worldoflottery/archive-backend/pkg/logger"
	"github.com/worldoflottery/archive-backend/pkg/metrics"
	"github.com/worldoflottery/archive-backend/pkg/redis"
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

	if cfg.Archive.AutoMigrate {
		if err := dbClient.AutoMigrate(context.Background(), &models.Ticket{}, &models.CollectorProfile{}); err != nil {
			logg.Error(context.Background(), "failed to migrate schema", err)
			os.Exit(1)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Store:         catalog.NewRepository(dbClient.DB()),
		Tx:            dbClient,
		Logger:        logg,
		Metrics:       metrics.NewCatalogMetrics(prometheus.DefaultRegisterer),
		SeedOnEmpty:   cfg.Archive.SeedOnEmpty,
		MaxImageBytes: cfg.Archive.MaxImageMB * 1024 * 1024,
		TopCountries:  cfg.Archive.TopCountries,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	// A failed hydration is recoverable: the archive starts empty and the
	// UI surfaces the storage problem on the first write.
	if _, err := catalogService.LoadAll(context.Background()); err != nil {
		logg.Warn(context.Background(), "catalog hydration failed, starting with an empty archive")
	}

	profileService, err := profile.NewService(profile.ServiceParams{
		Repo: profile.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	var enrichmentService enrichment.Service
	if cfg.Gemini.APIKey != "" {
		geminiClient, err := enrichment.NewClient(cfg.Gemini.APIKey,
			enrichment.WithBaseURL(cfg.Gemini.BaseURL),
			enrichment.WithModels(cfg.Gemini.AnalyzeModel, cfg.Gemini.ResearchModel),
			enrichment.WithHTTPClient(&http.Client{Timeout: cfg.Gemini.Timeout}),
		)
		if err != nil {
			logg.Error(context.Background(), "failed to create gemini client", err)
			os.Exit(1)
		}
		enrichmentService, err = enrichment.NewService(enrichment.ServiceParams{
			Client:   geminiClient,
			Cache:    redisClient,
			Logger:   logg,
			CacheTTL: cfg.Archive.CacheTTL,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create enrichment service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gemini api key not set, enrichment endpoints disabled")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, catalogService, profileService, enrichmentService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
