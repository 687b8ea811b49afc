package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gamerec/internal/cache"
	"gamerec/internal/catalog"
	"gamerec/internal/cluster"
	"gamerec/internal/config"
	"gamerec/internal/db"
	"gamerec/internal/handler"
	"gamerec/internal/logging"
	"gamerec/internal/repository"
	"gamerec/internal/service"
)

func main() {
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Mongo and Redis
	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	// repos
	gameRepo := repository.NewGameRepository(cfg.CatalogPageSize, cfg.CatalogPages)
	libraryRepo := repository.NewLibraryRepository()
	recRepo := repository.NewRecommendationRepository()
	statsRepo := repository.NewGenreStatsRepository()

	// ============================
	// Catalog: remote node or Mongo
	// ============================
	var base catalog.Catalog = gameRepo
	breakerName := "catalog-mongo"
	if cfg.CatalogNodeAddr != "" {
		base = cluster.NewClient(cfg.CatalogNodeAddr)
		breakerName = "catalog-node"
		logging.Info().Str("addr", cfg.CatalogNodeAddr).Msg("[api] using remote catalog node")
	}
	cat := catalog.NewCached(
		catalog.NewBreaker(catalog.NewInstrumented(base), catalog.BreakerConfig{
			Name:             breakerName,
			FailureThreshold: cfg.BreakerFailures,
			Timeout:          cfg.BreakerTimeout,
		}),
		cfg.CatalogCacheSeconds,
	)

	// services
	gameSvc := service.NewGameService(cat, gameRepo)
	librarySvc := service.NewLibraryService(libraryRepo, gameRepo)
	modelStore := service.NewModelStore(cat, statsRepo, cfg.CatalogPages, cfg.ModelTTL)
	recSvc := service.NewRecommendService(cat, librarySvc, gameRepo, modelStore, recRepo, service.RecommendConfig{
		CacheTTLSeconds: cfg.RecCacheTTLSeconds,
		Timeout:         cfg.RequestTimeout,
	})
	genreAdminSvc := service.NewGenreAdminService(modelStore)

	// warm the genre model; requests rebuild it lazily if this fails
	if _, err := modelStore.Get(ctx); err != nil {
		logging.Warn().Err(err).Msg("[api] initial genre model build failed")
	}

	r := handler.NewRouter(handler.Handlers{
		Games:      handler.NewGameHandler(gameSvc),
		Library:    handler.NewLibraryHandler(librarySvc),
		Recommend:  handler.NewRecommendHandler(recSvc),
		GenreAdmin: handler.NewGenreAdminHandler(genreAdminSvc),
	}, cfg.JWTSecret)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("port", cfg.HTTPPort).Msg("[api] HTTP listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("[api] server failed")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("[api] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("[api] shutdown")
	}
	if err := db.Close(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("[mongo] disconnect")
	}
}
