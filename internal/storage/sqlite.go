package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ledger/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the snapshot in a SQLite database with the same
// whole-collection rewrite semantics as the JSON file backend: Save replaces
// every row inside one transaction.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (map[string]core.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount, category, description, owner, date, created_at FROM records`)
	if err != nil {
		return nil, &core.IOError{Op: "load", Path: s.path, Err: err}
	}
	defer rows.Close()

	records := make(map[string]core.Record)
	for rows.Next() {
		var r core.Record
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Amount, &r.Category, &r.Description, &r.Owner, &r.Date, &createdAt); err != nil {
			return nil, &core.IOError{Op: "scan", Path: s.path, Err: err}
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			r.CreatedAt = t
		}
		records[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, &core.IOError{Op: "load", Path: s.path, Err: err}
	}
	return records, nil
}

func (s *SQLiteStore) Save(ctx context.Context, records map[string]core.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &core.IOError{Op: "save", Path: s.path, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return &core.IOError{Op: "save", Path: s.path, Err: err}
	}
	for _, r := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO records (id, amount, category, description, owner, date, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Amount, r.Category, r.Description, r.Owner, r.Date,
			r.CreatedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return &core.IOError{Op: "save", Path: s.path, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &core.IOError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

func (s *SQLiteStore) LoadCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, name FROM categories ORDER BY position`)
	if err != nil {
		return nil, &core.IOError{Op: "load", Path: s.path, Err: err}
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.Key, &c.Name); err != nil {
			return nil, &core.IOError{Op: "scan", Path: s.path, Err: err}
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.IOError{Op: "load", Path: s.path, Err: err}
	}
	return cats, nil
}

func (s *SQLiteStore) SaveCategories(ctx context.Context, categories []core.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &core.IOError{Op: "save", Path: s.path, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return &core.IOError{Op: "save", Path: s.path, Err: err}
	}
	for i, c := range categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (key, name, position) VALUES (?, ?, ?)`,
			c.Key, c.Name, i); err != nil {
			return &core.IOError{Op: "save", Path: s.path, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &core.IOError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}
