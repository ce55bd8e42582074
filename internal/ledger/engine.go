// Package ledger implements the expense ledger engine: the validated record
// collection, the category and owner registries, query and aggregation
// operations, and the snapshot persistence contract. The engine is the sole
// owner of the collection; callers only ever hold copies.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/storage"
)

// now is a hook for tests that need deterministic creation instants.
var now = func() time.Time { return time.Now().UTC() }

// Engine owns the in-memory record collection and re-persists it through the
// SnapshotStore after every mutation. Operations are safe for concurrent use
// by a single process.
type Engine struct {
	mu         sync.Mutex
	store      SnapshotStore
	records    map[string]core.Record
	categories *categoryRegistry
	owners     []string
}

// Options configures engine construction.
type Options struct {
	// Owners enables the owner tag feature when non-empty: every record's
	// owner must then be a member of this list.
	Owners []string

	// Categories overrides the default registry seed when the store has no
	// persisted registry. Nil means DefaultCategories.
	Categories []core.Category

	// StrictLoad makes a malformed backing file fatal at startup. When
	// false the engine logs the error and starts with an empty collection.
	StrictLoad bool
}

// CreateParams is the full field set for creating or replacing a record.
type CreateParams struct {
	Amount      float64
	Category    string
	Description string
	Owner       string
	Date        string // YYYY-MM-DD, empty defaults to today
}

// New loads the persisted state and returns a ready engine.
func New(ctx context.Context, store SnapshotStore, opts Options) (*Engine, error) {
	records, err := store.Load(ctx)
	if err != nil {
		if opts.StrictLoad {
			return nil, err
		}
		slog.ErrorContext(ctx, "Backing file unreadable, starting empty",
			applog.FieldError, err, applog.FieldComponent, "ledger")
		records = nil
	}
	if records == nil {
		records = make(map[string]core.Record)
	}

	seed, err := store.LoadCategories(ctx)
	if err != nil {
		if opts.StrictLoad {
			return nil, err
		}
		slog.ErrorContext(ctx, "Category registry unreadable, using defaults",
			applog.FieldError, err, applog.FieldComponent, "ledger")
	}
	if len(seed) == 0 {
		seed = opts.Categories
	}
	if len(seed) == 0 {
		seed = DefaultCategories()
	}

	owners := make([]string, 0, len(opts.Owners))
	for _, o := range opts.Owners {
		if o = strings.TrimSpace(o); o != "" {
			owners = append(owners, o)
		}
	}

	return &Engine{
		store:      store,
		records:    records,
		categories: newCategoryRegistry(seed),
		owners:     owners,
	}, nil
}

// Create validates the input, inserts a fresh record and persists the
// collection. It returns the new record id. When persistence fails the
// record is still inserted and the returned error is a *core.IOError the
// caller should surface as "unsaved changes exist".
func (e *Engine) Create(ctx context.Context, p CreateParams) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.buildRecord(p)
	if err != nil {
		return "", err
	}
	r.ID = e.newID()
	r.CreatedAt = now()

	e.records[r.ID] = r
	if err := e.persist(ctx); err != nil {
		return r.ID, err
	}

	slog.InfoContext(ctx, "Record created",
		applog.FieldRecordID, r.ID,
		"amount", r.Amount,
		applog.FieldCategory, r.Category,
		applog.FieldComponent, "ledger")
	return r.ID, nil
}

// Get returns a copy of the record with the given id.
func (e *Engine) Get(ctx context.Context, id string) (core.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.records[id]
	if !ok {
		return core.Record{}, &core.NotFoundError{ID: id}
	}
	return r, nil
}

// Update replaces the record's full field set after re-running creation
// validation. ID and CreatedAt are preserved. A *core.IOError return means
// the replacement is applied in memory but not yet durable.
func (e *Engine) Update(ctx context.Context, id string, p CreateParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, ok := e.records[id]
	if !ok {
		return &core.NotFoundError{ID: id}
	}

	r, err := e.buildRecord(p)
	if err != nil {
		return err
	}
	r.ID = prev.ID
	r.CreatedAt = prev.CreatedAt

	e.records[id] = r
	if err := e.persist(ctx); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Record updated", applog.FieldRecordID, id, applog.FieldComponent, "ledger")
	return nil
}

// Delete removes the record with the given id and reports whether anything
// was removed. A missing id is not an error and leaves the backing file
// untouched.
func (e *Engine) Delete(ctx context.Context, id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.records[id]; !ok {
		return false, nil
	}
	delete(e.records, id)
	if err := e.persist(ctx); err != nil {
		return true, err
	}

	slog.InfoContext(ctx, "Record deleted", applog.FieldRecordID, id, applog.FieldComponent, "ledger")
	return true, nil
}

// Clear removes every record and persists the empty collection.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.records = make(map[string]core.Record)
	return e.persist(ctx)
}

// Save re-persists the current collection. Useful after a non-strict load
// recovered from a corrupt file.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persist(ctx)
}

// MergeLoad reads a second snapshot or export file and merges its records
// into the collection additively: ids not seen before are inserted
// unchanged, colliding ids are re-identified so the existing record is never
// overwritten. Returns how many records were added.
func (e *Engine) MergeLoad(ctx context.Context, path string) (int, error) {
	incoming, err := storage.ReadMergeFile(path)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(incoming))
	for id := range incoming {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	added := 0
	for _, id := range ids {
		r := incoming[id]
		if _, exists := e.records[id]; exists {
			r.ID = e.newID()
		} else {
			r.ID = id
		}
		e.records[r.ID] = r
		added++
	}

	if err := e.persist(ctx); err != nil {
		return added, fmt.Errorf("merge %s: %w", path, err)
	}

	slog.InfoContext(ctx, "Merge completed", applog.FieldPath, path, "added", added, applog.FieldComponent, "ledger")
	return added, nil
}

// Owners returns the configured owner list; empty means the feature is off.
func (e *Engine) Owners() []string {
	return slices.Clone(e.owners)
}

// Categories returns the registry in order.
func (e *Engine) Categories() []core.Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.categories.list()
}

// AddCategory registers a new category under a key derived from the display
// name. Duplicate keys or display names are rejected.
func (e *Engine) AddCategory(ctx context.Context, name string) (core.Category, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	name = strings.TrimSpace(name)
	key := core.CategoryKey(name)
	if err := e.categories.add(key, name); err != nil {
		return core.Category{}, err
	}
	if err := e.store.SaveCategories(ctx, e.categories.list()); err != nil {
		return core.Category{Key: key, Name: name}, err
	}

	slog.InfoContext(ctx, "Category added", applog.FieldCategory, key, applog.FieldComponent, "ledger")
	return core.Category{Key: key, Name: name}, nil
}

// DeleteCategory removes a category. Protected keys and keys still
// referenced by records are refused with a *core.ConflictError.
func (e *Engine) DeleteCategory(ctx context.Context, key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.categories.has(key) {
		return &core.ValidationError{Field: "category", Value: key, Reason: "unknown category"}
	}
	if _, protected := protectedKeys[key]; protected {
		return &core.ConflictError{Resource: "category", Key: key, Reason: "protected category"}
	}
	for _, r := range e.records {
		if r.Category == key {
			return &core.ConflictError{Resource: "category", Key: key, Reason: "category in use"}
		}
	}

	e.categories.remove(key)
	if err := e.store.SaveCategories(ctx, e.categories.list()); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Category deleted", applog.FieldCategory, key, applog.FieldComponent, "ledger")
	return nil
}

// buildRecord runs creation validation in order: amount, category, owner,
// description, date. Callers hold the lock.
func (e *Engine) buildRecord(p CreateParams) (core.Record, error) {
	if p.Amount <= 0 {
		return core.Record{}, &core.ValidationError{Field: "amount", Value: p.Amount, Reason: "must be positive"}
	}
	if !e.categories.has(p.Category) {
		return core.Record{}, &core.ValidationError{Field: "category", Value: p.Category, Reason: "unknown category"}
	}
	if len(e.owners) > 0 && !slices.Contains(e.owners, p.Owner) {
		return core.Record{}, &core.ValidationError{Field: "owner", Value: p.Owner, Reason: "not a registered owner"}
	}

	date := strings.TrimSpace(p.Date)
	if date == "" {
		date = core.Today()
	}

	r := core.Record{
		Amount:      p.Amount,
		Category:    p.Category,
		Description: strings.TrimSpace(p.Description),
		Owner:       p.Owner,
		Date:        date,
	}
	if err := r.Validate(); err != nil {
		return core.Record{}, err
	}
	return r, nil
}

// newID returns a fresh 8-character id, regenerating on the unlikely
// collision with an existing record. Callers hold the lock.
func (e *Engine) newID() string {
	for {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		if _, exists := e.records[id]; !exists {
			return id
		}
	}
}

func (e *Engine) persist(ctx context.Context) error {
	if err := e.store.Save(ctx, e.records); err != nil {
		slog.ErrorContext(ctx, "Persist failed, in-memory state retained",
			applog.FieldError, err, "records", len(e.records), applog.FieldComponent, "ledger")
		return err
	}
	return nil
}
