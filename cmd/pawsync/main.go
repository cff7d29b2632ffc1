package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/furkeep/pawsync/internal/adapter"
	"github.com/furkeep/pawsync/internal/config"
	"github.com/furkeep/pawsync/internal/logger"
	"github.com/furkeep/pawsync/internal/service"
	"github.com/furkeep/pawsync/internal/store"
	"github.com/furkeep/pawsync/internal/workers"
	"github.com/furkeep/pawsync/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("pawsync")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	kv, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open durable storage")
	}

	remote := adapter.NewHTTPRemoteStore(adapter.HTTPClientConfig{
		BaseURL: cfg.Remote.BaseURL,
		Timeout: cfg.Remote.RequestTimeout,
	})

	services := service.NewServices(cfg, kv, remote, nil, log)

	if err = services.Cache.Rehydrate(ctx); err != nil {
		log.Warn().Err(err).Msg("cache rehydration incomplete")
	}
	if err = services.Queue.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("queue restore incomplete")
	}

	log.Info().
		Str("strategy", cfg.Queue.Strategy).
		Str("remote", cfg.Remote.BaseURL).
		Bool("persist", cfg.PersistToDisk()).
		Msg("pawsync started")

	workers.New(services.Network, services.Job).Run(ctx)

	services.Cache.Close()
	log.Info().Msg("shutting down")
}

// openStorage connects the durable key-value mirror, falling back to the
// in-memory backend when persistence is disabled.
func openStorage(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (store.KeyValue, error) {
	if !cfg.PersistToDisk() {
		return store.NewMemoryKeyValue(), nil
	}

	db, err := store.NewConnectSQLite(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	if err = migrations.Migrate(db.DB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store.NewSQLiteKeyValue(db, log), nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
