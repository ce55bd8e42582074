package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ledger/internal/core"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
)

type recordRequest struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Owner       string  `json:"owner"`
	Date        string  `json:"date"`
}

func (p recordRequest) params() ledger.CreateParams {
	return ledger.CreateParams{
		Amount:      p.Amount,
		Category:    p.Category,
		Description: p.Description,
		Owner:       p.Owner,
		Date:        p.Date,
	}
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listRecords(w, r)
	case http.MethodPost:
		s.createRecord(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// listRecords serves /api/records with optional filters: from+to for a date
// range, category for one category, q for a description search. Without
// parameters it returns the full collection, newest first.
func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	ctx := r.Context()

	var (
		records []core.Record
		err     error
	)
	switch {
	case query.Has("from") || query.Has("to"):
		records, err = s.engine.FilterByDateRange(ctx, query.Get("from"), query.Get("to"))
	case query.Has("category"):
		records, err = s.engine.FilterByCategory(ctx, query.Get("category"))
	case query.Has("q"):
		q := strings.TrimSpace(query.Get("q"))
		if q == "" {
			writeError(w, r, &core.ValidationError{Field: "q", Value: q, Reason: "search query must not be empty"})
			return
		}
		records = s.engine.Search(ctx, q)
	default:
		records = s.engine.List(ctx)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": listJSON(records),
		"count":   len(records),
	})
}

func (s *Server) createRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := s.engine.Create(r.Context(), req.params())
	if err != nil {
		var ioErr *core.IOError
		if errors.As(err, &ioErr) {
			// The record is in memory but not on disk; tell the caller so
			// it can warn about unsaved state.
			slog.ErrorContext(r.Context(), "Record created but not persisted",
				applog.FieldRecordID, id, applog.FieldError, err)
			writeJSON(w, http.StatusCreated, map[string]any{
				"id": id, "persisted": false, "warning": ioErr.Error(),
			})
			return
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "persisted": true})
}

func (s *Server) handleRecordByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/records/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		record, err := s.engine.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toJSON(record))

	case http.MethodPut:
		var req recordRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.engine.Update(r.Context(), id, req.params()); err != nil {
			var ioErr *core.IOError
			if errors.As(err, &ioErr) {
				writeJSON(w, http.StatusOK, map[string]any{
					"id": id, "persisted": false, "warning": ioErr.Error(),
				})
				return
			}
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "persisted": true})

	case http.MethodDelete:
		removed, err := s.engine.Delete(r.Context(), id)
		if err != nil {
			var ioErr *core.IOError
			if errors.As(err, &ioErr) {
				writeJSON(w, http.StatusOK, map[string]any{
					"deleted": removed, "persisted": false, "warning": ioErr.Error(),
				})
				return
			}
			writeError(w, r, err)
			return
		}
		// A missing id is not an error; deletion is idempotent-safe.
		writeJSON(w, http.StatusOK, map[string]any{"deleted": removed, "persisted": true})

	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}
