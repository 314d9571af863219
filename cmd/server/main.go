package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/catsec/phoneinfo/config"
	httpdelivery "github.com/catsec/phoneinfo/internal/delivery/http"
	"github.com/catsec/phoneinfo/internal/infrastructure/providers"
	"github.com/catsec/phoneinfo/internal/infrastructure/store"
	"github.com/catsec/phoneinfo/internal/translit"
	"github.com/catsec/phoneinfo/internal/usecase"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	registry := providers.NewRegistry(
		providers.NewMEClient(cfg.ME.APIURL, cfg.ME.SID, cfg.ME.Token),
		providers.NewSyncClient(cfg.Sync.APIURL, cfg.Sync.Token),
	)

	ctx := context.Background()
	cacheStore := store.NewCacheStore(db)
	for _, p := range registry.All() {
		if err := cacheStore.InitProvider(ctx, p.ID()); err != nil {
			logger.Error("failed to initialize cache table", "provider", p.ID(), "error", err)
			os.Exit(1)
		}
		if !p.Configured() {
			logger.Warn("provider not configured, lookups will skip it", "provider", p.ID())
		}
	}

	nicknameStore := store.NewNicknameStore(db)
	if err := nicknameStore.Init(ctx); err != nil {
		logger.Error("failed to initialize nickname store", "error", err)
		os.Exit(1)
	}
	seeded, err := nicknameStore.Seed(ctx, cfg.Data.NicknamesPath)
	if err != nil {
		logger.Error("failed to seed nickname store", "error", err)
		os.Exit(1)
	}
	if seeded > 0 {
		logger.Info("seeded nickname store", "entries", seeded)
	}

	commonNames, err := translit.LoadCommonNames(cfg.Data.NamesPath)
	if err != nil {
		logger.Error("failed to load common names", "path", cfg.Data.NamesPath, "error", err)
		os.Exit(1)
	}
	normalizer := translit.NewNormalizer(commonNames)

	engine := usecase.NewScoreEngine(cfg.Scoring, normalizer, nicknameStore)
	lookupService := usecase.NewLookupService(cacheStore, logger)

	handler := httpdelivery.NewHandler(registry, lookupService, engine, nicknameStore, usecase.LookupOptions{
		RefreshDays: cfg.Cache.RefreshDays,
		UseCache:    true,
	}, logger)

	router := httpdelivery.SetupRouter(handler, cfg.Server.AllowedOrigins, cfg.Server.Environment)

	logger.Info("starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
