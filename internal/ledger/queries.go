package ledger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"ledger/internal/core"
	"ledger/internal/storage"
)

// List returns every record, newest creation first.
func (e *Engine) List(ctx context.Context) []core.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sorted(nil)
}

// FilterByDateRange returns records whose date falls within [start, end]
// inclusive. Both bounds must parse as YYYY-MM-DD and start must not be
// after end.
func (e *Engine) FilterByDateRange(ctx context.Context, start, end string) ([]core.Record, error) {
	from, err := core.ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := core.ParseDate(end)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, &core.ValidationError{
			Field:  "date",
			Value:  start + ".." + end,
			Reason: "start date cannot be after end date",
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sorted(func(r core.Record) bool {
		d, err := core.ParseDate(r.Date)
		if err != nil {
			return false
		}
		return !d.Before(from) && !d.After(to)
	}), nil
}

// FilterByCategory returns records in the given registered category.
func (e *Engine) FilterByCategory(ctx context.Context, key string) ([]core.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.categories.has(key) {
		return nil, &core.ValidationError{Field: "category", Value: key, Reason: "unknown category"}
	}
	return e.sorted(func(r core.Record) bool { return r.Category == key }), nil
}

// Search matches the query case-insensitively against descriptions. An
// empty query matches nothing; callers should short-circuit before calling.
func (e *Engine) Search(ctx context.Context, query string) []core.Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []core.Record{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sorted(func(r core.Record) bool {
		return strings.Contains(strings.ToLower(r.Description), q)
	})
}

// Total returns the sum of all record amounts, 0 when empty.
func (e *Engine) Total(ctx context.Context) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	var total float64
	for _, r := range e.records {
		total += r.Amount
	}
	return total
}

// SummaryByCategory returns one entry per registered category, including
// zero-valued entries for unused ones, so callers can render a complete
// breakdown without existence checks.
func (e *Engine) SummaryByCategory(ctx context.Context) map[string]core.CategorySummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	summary := make(map[string]core.CategorySummary, len(e.categories.order))
	for _, c := range e.categories.list() {
		summary[c.Key] = core.CategorySummary{Name: c.Name}
	}
	for _, r := range e.records {
		s, ok := summary[r.Category]
		if !ok {
			// Merged-in record referencing a category this registry never
			// had; keep the totals consistent with Total().
			s = core.CategorySummary{Name: r.Category}
		}
		s.Total += r.Amount
		s.Count++
		summary[r.Category] = s
	}
	return summary
}

// MonthlySummary computes the rollup for one calendar month, handling the
// December to January rollover and leap years.
func (e *Engine) MonthlySummary(ctx context.Context, year, month int) (core.MonthlySummary, error) {
	if month < 1 || month > 12 {
		return core.MonthlySummary{}, &core.ValidationError{Field: "month", Value: month, Reason: "must be between 1 and 12"}
	}
	if year < 1 || year > 9999 {
		return core.MonthlySummary{}, &core.ValidationError{Field: "year", Value: year, Reason: "must be a four-digit year"}
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	e.mu.Lock()
	defer e.mu.Unlock()

	summary := core.MonthlySummary{
		Month:      fmt.Sprintf("%04d-%02d", year, month),
		ByCategory: make(map[string]float64),
	}
	summary.Records = e.sorted(func(r core.Record) bool {
		d, err := core.ParseDate(r.Date)
		if err != nil {
			return false
		}
		return !d.Before(first) && !d.After(last)
	})
	for _, r := range summary.Records {
		summary.TotalAmount += r.Amount
		summary.Count++
		summary.ByCategory[r.Category] += r.Amount
	}
	return summary, nil
}

// MonthlyTotals returns the per-month spend across the whole collection in
// chronological order, for trend rendering.
func (e *Engine) MonthlyTotals(ctx context.Context) []core.MonthTotal {
	e.mu.Lock()
	defer e.mu.Unlock()

	byMonth := make(map[string]float64)
	for _, r := range e.records {
		if len(r.Date) < 7 {
			continue
		}
		byMonth[r.Date[:7]] += r.Amount
	}

	out := make([]core.MonthTotal, 0, len(byMonth))
	for month, total := range byMonth {
		out = append(out, core.MonthTotal{Month: month, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// WriteExport writes the export envelope for the current collection.
func (e *Engine) WriteExport(ctx context.Context, w io.Writer) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return storage.WriteExport(w, e.records)
}

// Export writes the export envelope to a file.
func (e *Engine) Export(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &core.IOError{Op: "export", Path: path, Err: err}
	}
	defer f.Close()

	if err := e.WriteExport(ctx, f); err != nil {
		return &core.IOError{Op: "export", Path: path, Err: err}
	}
	return nil
}

// sorted returns a filtered copy ordered newest CreatedAt first, ties broken
// by id for determinism. Callers hold the lock.
func (e *Engine) sorted(keep func(core.Record) bool) []core.Record {
	out := make([]core.Record, 0, len(e.records))
	for _, r := range e.records {
		if keep == nil || keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
