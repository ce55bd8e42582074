package http

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"ledger/internal/core"
	applog "ledger/internal/log"
)

// maxMergeBody caps uploaded merge files.
const maxMergeBody = 10 << 20 // 10MB

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="ledger-export.json"`)
	if err := s.engine.WriteExport(r.Context(), w); err != nil {
		// Headers are gone already; all we can do is log.
		slog.ErrorContext(r.Context(), "Export failed mid-stream", applog.FieldError, err)
	}
}

// handleMerge accepts a snapshot or export file as the request body, merges
// it into the collection and reports how many records were added.
func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxMergeBody))
	if err != nil {
		writeError(w, r, &core.IOError{Op: "read", Path: "request body", Err: err})
		return
	}

	tmp, err := os.CreateTemp("", "ledger-merge-*.json")
	if err != nil {
		writeError(w, r, &core.IOError{Op: "tempfile", Path: "merge upload", Err: err})
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		writeError(w, r, &core.IOError{Op: "write", Path: tmp.Name(), Err: err})
		return
	}
	tmp.Close()

	added, err := s.engine.MergeLoad(r.Context(), tmp.Name())
	if err != nil {
		if added > 0 {
			// Records merged in memory but the snapshot write failed.
			slog.ErrorContext(r.Context(), "Merge applied but not persisted",
				"added", added, applog.FieldError, err)
			writeJSON(w, http.StatusOK, map[string]any{
				"added": added, "persisted": false, "warning": err.Error(),
			})
			return
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"added": added, "persisted": true})
}
