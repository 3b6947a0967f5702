// Package cli consolidates the initialization shared by cmd/gastos and
// cmd/recurring-worker: env loading, logging, configuration and the ledger
// store.
package cli

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"gastos/internal/backend"
	"gastos/internal/config"
	"gastos/internal/ledger"
	applog "gastos/internal/log"
)

// Bootstrap holds the process-wide dependencies every command needs.
type Bootstrap struct {
	Logger *applog.Logger
	Config *config.Config
	Store  *ledger.Store

	cleanup backend.CleanupFunc
}

// Init loads the environment, sets up logging for the given component,
// validates configuration and opens the ledger store. It exits the process
// on any failure, so callers get back a fully usable Bootstrap.
func Init(component string) *Bootstrap {
	// .env is optional outside local development
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(component)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateStore(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	return &Bootstrap{
		Logger:  logger,
		Config:  cfg,
		Store:   ledger.New(result.Store),
		cleanup: result.Cleanup,
	}
}

// Close releases the store. Safe to defer immediately after Init.
func (b *Bootstrap) Close() {
	if b.cleanup == nil {
		return
	}
	if err := b.cleanup(); err != nil {
		b.Logger.Error("Store cleanup failed", "error", err)
	}
}
