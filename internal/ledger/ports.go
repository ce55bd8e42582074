package ledger

import (
	"context"

	"ledger/internal/core"
)

// SnapshotStore is the outbound port the engine persists through. Every
// mutation rewrites the full collection; there is no append or partial
// update. Implementations live in internal/storage.
type SnapshotStore interface {
	// Load reads the persisted collection. A missing backing file is not an
	// error and yields an empty (or nil) map.
	Load(ctx context.Context) (map[string]core.Record, error)

	// Save writes the complete collection as a snapshot.
	Save(ctx context.Context, records map[string]core.Record) error

	// LoadCategories reads the persisted category registry in order.
	// Returning (nil, nil) means nothing was persisted yet and the engine
	// seeds its defaults.
	LoadCategories(ctx context.Context) ([]core.Category, error)

	// SaveCategories persists the registry, preserving order.
	SaveCategories(ctx context.Context, categories []core.Category) error
}
