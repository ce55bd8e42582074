package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ledger/internal/core"
)

// JSONFileStore is the primary snapshot backend: one JSON object per file,
// rewritten whole on every save. The category registry lives in a sidecar
// file next to the snapshot so the snapshot itself stays a bare id->record
// mapping.
type JSONFileStore struct {
	path     string
	catsPath string
}

func NewJSONFileStore(path string) (*JSONFileStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &JSONFileStore{
		path:     path,
		catsPath: path + ".categories.json",
	}, nil
}

// Path returns the backing file location.
func (s *JSONFileStore) Path() string { return s.path }

func (s *JSONFileStore) Load(ctx context.Context) (map[string]core.Record, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &core.IOError{Op: "read", Path: s.path, Err: err}
	}
	return decodeSnapshot(s.path, data)
}

func (s *JSONFileStore) Save(ctx context.Context, records map[string]core.Record) error {
	data, err := encodeSnapshot(records)
	if err != nil {
		return &core.IOError{Op: "encode", Path: s.path, Err: err}
	}
	return s.writeAtomic(s.path, data)
}

func (s *JSONFileStore) LoadCategories(ctx context.Context) ([]core.Category, error) {
	data, err := os.ReadFile(s.catsPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &core.IOError{Op: "read", Path: s.catsPath, Err: err}
	}

	var wire []wireCategory
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &core.ParseError{Path: s.catsPath, Err: err}
	}
	cats := make([]core.Category, 0, len(wire))
	for _, c := range wire {
		cats = append(cats, core.Category{Key: c.Key, Name: c.Name})
	}
	return cats, nil
}

func (s *JSONFileStore) SaveCategories(ctx context.Context, categories []core.Category) error {
	wire := make([]wireCategory, 0, len(categories))
	for _, c := range categories {
		wire = append(wire, wireCategory{Key: c.Key, Name: c.Name})
	}
	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return &core.IOError{Op: "encode", Path: s.catsPath, Err: err}
	}
	return s.writeAtomic(s.catsPath, data)
}

// writeAtomic writes through a temp file and renames it into place so a
// crashed save never leaves a truncated snapshot.
func (s *JSONFileStore) writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &core.IOError{Op: "write", Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &core.IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
