// Package http exposes every ledger engine operation over a JSON API. All
// formatting beyond the wire shapes is the caller's job; this layer only
// maps engine results and error kinds onto status codes.
package http

import (
	"net/http"

	"ledger/internal/ledger"
	"ledger/internal/middleware/trace"
)

type Server struct {
	http.Server
	engine *ledger.Engine
}

func NewServer(addr string, engine *ledger.Engine) *Server {
	s := &Server{engine: engine}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleHealth)
	mux.HandleFunc("/api/records", s.handleRecords)
	mux.HandleFunc("/api/records/", s.handleRecordByID)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/summary/monthly", s.handleMonthlySummary)
	mux.HandleFunc("/api/summary/trend", s.handleTrend)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/categories/", s.handleCategoryByKey)
	mux.HandleFunc("/api/owners", s.handleOwners)
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/merge", s.handleMerge)

	s.Addr = addr
	s.Handler = trace.Middleware(mux)
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
