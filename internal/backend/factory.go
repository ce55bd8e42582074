// Package backend selects and opens the engine's snapshot store from
// configuration.
package backend

import (
	"fmt"
	"log/slog"

	"ledger/internal/ledger"
	applog "ledger/internal/log"
	"ledger/internal/storage"
)

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result carries the opened store and an optional cleanup.
type Result struct {
	Store   ledger.SnapshotStore
	Cleanup CleanupFunc
}

// Open creates the snapshot store for the configured backend type.
func Open(logger *slog.Logger, cfg Config) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLite:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: store, Cleanup: store.Close}, nil

	case Memory:
		logger.Info("Initialized memory backend")
		return &Result{Store: storage.NewMemoryStore()}, nil

	default:
		store, err := storage.NewJSONFileStore(cfg.LedgerFile)
		if err != nil {
			return nil, fmt.Errorf("initialize json backend: %w", err)
		}
		logger.Info("Initialized JSON file backend", applog.FieldPath, cfg.LedgerFile)
		return &Result{Store: store}, nil
	}
}
