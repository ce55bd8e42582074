// Package cli consolidates the initialization shared by cmd/ledger and
// cmd/ledger-import: logging, .env loading, configuration and backend setup.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"ledger/internal/backend"
	"ledger/internal/config"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
)

// SetupLogger initializes structured logging and installs it as the default.
func SetupLogger(component string) *applog.Logger {
	logger := applog.New(slog.LevelInfo, component)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenBackend opens the configured snapshot backend or exits on failure.
func OpenBackend(logger *applog.Logger, cfg *config.Config) *backend.Result {
	result, err := backend.Open(logger.Logger, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		LedgerFile:   cfg.LedgerFile,
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to open backend", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	return result
}

// NewEngine builds the ledger engine on top of an opened backend or exits on
// failure (a malformed backing file under strict load).
func NewEngine(ctx context.Context, logger *applog.Logger, cfg *config.Config, result *backend.Result) *ledger.Engine {
	engine, err := ledger.New(ctx, result.Store, ledger.Options{
		Owners:     cfg.Owners,
		StrictLoad: cfg.StrictLoad,
	})
	if err != nil {
		logger.Error("Failed to load ledger", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	return engine
}
