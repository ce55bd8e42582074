package http

import (
	"net/http"
	"strconv"

	"ledger/internal/core"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	summary := s.engine.SummaryByCategory(r.Context())
	byCategory := make(map[string]map[string]any, len(summary))
	for key, cs := range summary {
		byCategory[key] = map[string]any{
			"name":  cs.Name,
			"total": cs.Total,
			"count": cs.Count,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":      s.engine.Total(r.Context()),
		"byCategory": byCategory,
	})
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, r, &core.ValidationError{Field: "year", Value: r.URL.Query().Get("year"), Reason: "must be a number"})
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, r, &core.ValidationError{Field: "month", Value: r.URL.Query().Get("month"), Reason: "must be a number"})
		return
	}

	summary, err := s.engine.MonthlySummary(r.Context(), year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month":       summary.Month,
		"totalAmount": summary.TotalAmount,
		"count":       summary.Count,
		"byCategory":  summary.ByCategory,
		"records":     listJSON(summary.Records),
	})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	totals := s.engine.MonthlyTotals(r.Context())
	points := make([]map[string]any, 0, len(totals))
	for _, t := range totals {
		points = append(points, map[string]any{"month": t.Month, "total": t.Total})
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": points})
}
