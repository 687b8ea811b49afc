package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"gamerec/internal/catalog"
	"gamerec/internal/cluster"
	"gamerec/internal/config"
	"gamerec/internal/db"
	"gamerec/internal/logging"
	"gamerec/internal/repository"
)

func main() {
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	nodeID := os.Getenv("NODE_ID")
	if nodeID == "" {
		nodeID = "?"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// seed file for local runs, Mongo otherwise
	var c catalog.Catalog
	if cfg.CatalogSeedFile != "" {
		mem, err := catalog.LoadMemory(cfg.CatalogSeedFile, cfg.CatalogPageSize, cfg.CatalogPages)
		if err != nil {
			logging.Fatal().Err(err).Str("file", cfg.CatalogSeedFile).Msg("[catalognode] loading seed")
		}
		c = mem
	} else {
		db.InitMongo(cfg)
		defer func() { _ = db.Close(context.Background()) }()
		c = repository.NewGameRepository(cfg.CatalogPageSize, cfg.CatalogPages)
	}

	ln, err := net.Listen("tcp", cfg.CatalogNodeListen)
	if err != nil {
		logging.Fatal().Err(err).Str("addr", cfg.CatalogNodeListen).Msg("[catalognode] listen")
	}
	logging.Info().Str("node", nodeID).Str("addr", cfg.CatalogNodeListen).Msg("[catalognode] listening")

	srv := cluster.NewServer(catalog.NewInstrumented(c), nodeID, cfg.RequestTimeout)
	if err := srv.Serve(ctx, ln); err != nil {
		logging.Error().Err(err).Msg("[catalognode] serve")
	}
}
