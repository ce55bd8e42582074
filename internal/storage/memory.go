package storage

import (
	"context"
	"maps"
	"slices"
	"sync"

	"ledger/internal/core"
)

// MemoryStore is a volatile snapshot backend for tests and throwaway runs.
type MemoryStore struct {
	mu         sync.Mutex
	records    map[string]core.Record
	categories []core.Category
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (map[string]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		return nil, nil
	}
	return maps.Clone(s.records), nil
}

func (s *MemoryStore) Save(ctx context.Context, records map[string]core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = maps.Clone(records)
	return nil
}

func (s *MemoryStore) LoadCategories(ctx context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.categories), nil
}

func (s *MemoryStore) SaveCategories(ctx context.Context, categories []core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = slices.Clone(categories)
	return nil
}
