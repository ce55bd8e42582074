package http

import (
	"errors"
	"net/http"
	"strings"

	"ledger/internal/core"
)

// Category and owner registries are read-only lookups for the presentation
// layer's selection controls, plus the two category mutations.

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cats := s.engine.Categories()
		out := make([]map[string]string, 0, len(cats))
		for _, c := range cats {
			out = append(out, map[string]string{"key": c.Key, "name": c.Name})
		}
		writeJSON(w, http.StatusOK, map[string]any{"categories": out})

	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		cat, err := s.engine.AddCategory(r.Context(), req.Name)
		if err != nil {
			var ioErr *core.IOError
			if errors.As(err, &ioErr) {
				writeJSON(w, http.StatusCreated, map[string]any{
					"key": cat.Key, "name": cat.Name, "persisted": false, "warning": ioErr.Error(),
				})
				return
			}
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"key": cat.Key, "name": cat.Name, "persisted": true})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleCategoryByKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/api/categories/")
	if key == "" || strings.Contains(key, "/") {
		http.NotFound(w, r)
		return
	}

	if err := s.engine.DeleteCategory(r.Context(), key); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": key})
}

func (s *Server) handleOwners(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	owners := s.engine.Owners()
	writeJSON(w, http.StatusOK, map[string]any{
		"owners":  owners,
		"enabled": len(owners) > 0,
	})
}
