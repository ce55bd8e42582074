package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"ledger/internal/core"
	applog "ledger/internal/log"
)

type errorBody struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail"`
}

// recordJSON is the API shape of one record.
type recordJSON struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Owner       string  `json:"owner,omitempty"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"createdAt"`
}

func toJSON(r core.Record) recordJSON {
	return recordJSON{
		ID:          r.ID,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Owner:       r.Owner,
		Date:        r.Date,
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func listJSON(records []core.Record) []recordJSON {
	out := make([]recordJSON, 0, len(records))
	for _, r := range records {
		out = append(out, toJSON(r))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the engine's error kinds onto status codes: validation
// 422, not found 404, conflict 409, parse 400, everything else 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *core.ValidationError
		notFoundErr   *core.NotFoundError
		conflictErr   *core.ConflictError
		parseErr      *core.ParseError
		ioErr         *core.IOError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error: "validation", Field: validationErr.Field, Detail: validationErr.Error(),
		})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Detail: notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorBody{Error: "conflict", Detail: conflictErr.Error()})
	case errors.As(err, &parseErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "parse", Detail: parseErr.Error()})
	case errors.As(err, &ioErr):
		slog.ErrorContext(r.Context(), "Storage failure", applog.FieldError, err, applog.FieldPath, r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "io", Detail: ioErr.Error()})
	default:
		slog.ErrorContext(r.Context(), "Unhandled error", applog.FieldError, err, applog.FieldPath, r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal", Detail: err.Error()})
	}
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &core.ParseError{Path: "request body", Err: err}
	}
	return nil
}
