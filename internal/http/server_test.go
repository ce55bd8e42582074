package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ledger/internal/ledger"
	"ledger/internal/storage"
)

func newTestServer(t *testing.T, opts ledger.Options) *Server {
	t.Helper()
	engine, err := ledger.New(context.Background(), storage.NewMemoryStore(), opts)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return NewServer(":0", engine)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func createRecord(t *testing.T, s *Server, body map[string]any) string {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/records", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode(t, rec)
	id, _ := resp["id"].(string)
	if id == "" {
		t.Fatalf("no id in create response: %v", resp)
	}
	return id
}

func TestCreateAndGetRecord(t *testing.T) {
	s := newTestServer(t, ledger.Options{})

	rec := doJSON(t, s, http.MethodPost, "/api/records", map[string]any{
		"amount": 42.50, "category": "food", "description": "Lunch", "date": "2024-03-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode(t, rec)
	if resp["persisted"] != true {
		t.Fatalf("expected persisted true, got %v", resp)
	}
	id := resp["id"].(string)

	rec = doJSON(t, s, http.MethodGet, "/api/records/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decode(t, rec)
	if got["amount"] != 42.50 || got["category"] != "food" || got["description"] != "Lunch" {
		t.Fatalf("unexpected record body: %v", got)
	}
	if got["createdAt"] == nil || got["createdAt"] == "" {
		t.Fatalf("expected createdAt in response: %v", got)
	}
}

func TestCreateValidationStatus(t *testing.T) {
	s := newTestServer(t, ledger.Options{})

	cases := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"negative amount", map[string]any{"amount": -1, "category": "food", "description": "x"}, "amount"},
		{"unknown category", map[string]any{"amount": 1, "category": "bogus", "description": "x"}, "category"},
		{"blank description", map[string]any{"amount": 1, "category": "food", "description": " "}, "description"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/records", tc.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
			}
			resp := decode(t, rec)
			if resp["field"] != tc.field {
				t.Fatalf("expected field %q, got %v", tc.field, resp)
			}
		})
	}

	rec := doJSON(t, s, http.MethodGet, "/api/records", nil)
	if count := decode(t, rec)["count"]; count != float64(0) {
		t.Fatalf("invalid creates must not mutate the collection, count=%v", count)
	}
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t, ledger.Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/records", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, ledger.Options{})

	rec := doJSON(t, s, http.MethodPatch, "/api/records", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, POST" {
		t.Fatalf("expected Allow header, got %q", allow)
	}
}

func TestListFilters(t *testing.T) {
	s := newTestServer(t, ledger.Options{})
	createRecord(t, s, map[string]any{"amount": 1, "category": "food", "description": "groceries", "date": "2024-03-01"})
	createRecord(t, s, map[string]any{"amount": 2, "category": "transport", "description": "bus ticket", "date": "2024-04-01"})

	rec := doJSON(t, s, http.MethodGet, "/api/records?category=food", nil)
	if count := decode(t, rec)["count"]; count != float64(1) {
		t.Fatalf("expected 1 food record, got %v", count)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/records?from=2024-03-01&to=2024-03-31", nil)
	if count := decode(t, rec)["count"]; count != float64(1) {
		t.Fatalf("expected 1 record in march, got %v", count)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/records?from=2024-05-01&to=2024-04-01", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for inverted range, got %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/records?q=GROCER", nil)
	if count := decode(t, rec)["count"]; count != float64(1) {
		t.Fatalf("expected 1 search hit, got %v", count)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/records?q=%20%20", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for blank query, got %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/records?category=bogus", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown category, got %d", rec.Code)
	}
}

func TestGetMissingRecord(t *testing.T) {
	s := newTestServer(t, ledger.Options{})

	rec := doJSON(t, s, http.MethodGet, "/api/records/nope1234", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateRecord(t *testing.T) {
	s := newTestServer(t, ledger.Options{})
	id := createRecord(t, s, map[string]any{"amount": 10, "category": "food", "description": "lunch", "date": "2024-03-01"})

	rec := doJSON(t, s, http.MethodPut, "/api/records/"+id, map[string]any{
		"amount": 12.5, "category": "shopping", "description": "groceries", "date": "2024-03-02",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/records/"+id, nil)
	got := decode(t, rec)
	if got["amount"] != 12.5 || got["category"] != "shopping" {
		t.Fatalf("update not applied: %v", got)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/records/missing1", map[string]any{
		"amount": 1, "category": "food", "description": "x",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing id, got %d", rec.Code)
	}
}

func TestDeleteRecord(t *testing.T) {
	s := newTestServer(t, ledger.Options{})
	id := createRecord(t, s, map[string]any{"amount": 1, "category": "food", "description": "x"})

	rec := doJSON(t, s, http.MethodDelete, "/api/records/"+id, nil)
	if rec.Code != http.StatusOK || decode(t, rec)["deleted"] != true {
		t.Fatalf("expected deleted true, got %d: %s", rec.Code, rec.Body.String())
	}

	// Deleting an unknown id reports false but is not an error.
	rec = doJSON(t, s, http.MethodDelete, "/api/records/"+id, nil)
	if rec.Code != http.StatusOK || decode(t, rec)["deleted"] != false {
		t.Fatalf("expected deleted false, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSummaryEndpoints(t *testing.T) {
	s := newTestServer(t, ledger.Options{})
	createRecord(t, s, map[string]any{"amount": 5, "category": "food", "description": "leap day", "date": "2024-02-29"})
	createRecord(t, s, map[string]any{"amount": 7, "category": "transport", "description": "march", "date": "2024-03-01"})

	rec := doJSON(t, s, http.MethodGet, "/api/summary", nil)
	resp := decode(t, rec)
	if resp["total"] != float64(12) {
		t.Fatalf("expected total 12, got %v", resp["total"])
	}
	byCategory := resp["byCategory"].(map[string]any)
	if len(byCategory) != 8 {
		t.Fatalf("expected one entry per registered category, got %d", len(byCategory))
	}

	rec = doJSON(t, s, http.MethodGet, "/api/summary/monthly?year=2024&month=2", nil)
	resp = decode(t, rec)
	if resp["month"] != "2024-02" || resp["totalAmount"] != float64(5) || resp["count"] != float64(1) {
		t.Fatalf("unexpected monthly summary: %v", resp)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/summary/monthly?year=2024&month=13", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for month 13, got %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/summary/monthly?year=2024&month=feb", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for non-numeric month, got %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/summary/trend", nil)
	months := decode(t, rec)["months"].([]any)
	if len(months) != 2 {
		t.Fatalf("expected 2 trend points, got %d", len(months))
	}
	first := months[0].(map[string]any)
	if first["month"] != "2024-02" {
		t.Fatalf("expected chronological trend, got %v", months)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	s := newTestServer(t, ledger.Options{})

	rec := doJSON(t, s, http.MethodPost, "/api/categories", map[string]any{"name": "Pet Care"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp := decode(t, rec); resp["key"] != "petcare" {
		t.Fatalf("unexpected category response: %v", resp)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/categories", map[string]any{"name": "Pet Care"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for duplicate, got %d", rec.Code)
	}

	// In use: conflict until the record is gone.
	id := createRecord(t, s, map[string]any{"amount": 30, "category": "petcare", "description": "vet visit"})
	rec = doJSON(t, s, http.MethodDelete, "/api/categories/petcare", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for in-use category, got %d", rec.Code)
	}
	doJSON(t, s, http.MethodDelete, "/api/records/"+id, nil)
	rec = doJSON(t, s, http.MethodDelete, "/api/categories/petcare", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after records removed, got %d: %s", rec.Code, rec.Body.String())
	}

	// Protected keys always refuse deletion.
	rec = doJSON(t, s, http.MethodDelete, "/api/categories/food", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for protected category, got %d", rec.Code)
	}
}

func TestOwnersEndpoint(t *testing.T) {
	s := newTestServer(t, ledger.Options{Owners: []string{"ann", "bob"}})

	rec := doJSON(t, s, http.MethodGet, "/api/owners", nil)
	resp := decode(t, rec)
	if resp["enabled"] != true {
		t.Fatalf("expected owner feature enabled, got %v", resp)
	}
	if owners := resp["owners"].([]any); len(owners) != 2 {
		t.Fatalf("expected 2 owners, got %v", owners)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/records", map[string]any{
		"amount": 1, "category": "food", "description": "x", "owner": "carol",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unregistered owner, got %d", rec.Code)
	}
}

func TestExportAndMerge(t *testing.T) {
	s := newTestServer(t, ledger.Options{})
	createRecord(t, s, map[string]any{"amount": 2.5, "category": "food", "description": "a", "date": "2024-01-01"})

	rec := doJSON(t, s, http.MethodGet, "/api/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "ledger-export.json") {
		t.Fatalf("unexpected Content-Disposition: %q", cd)
	}
	var envelope struct {
		Records     map[string]json.RawMessage `json:"records"`
		RecordCount int                        `json:"recordCount"`
		TotalAmount float64                    `json:"totalAmount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if envelope.RecordCount != 1 || envelope.TotalAmount != 2.5 {
		t.Fatalf("unexpected export counters: %+v", envelope)
	}

	// The export round-trips through merge; the colliding id is regenerated
	// so the merged collection holds both copies.
	req := httptest.NewRequest(http.MethodPost, "/api/merge", bytes.NewReader(rec.Body.Bytes()))
	merged := httptest.NewRecorder()
	s.Handler.ServeHTTP(merged, req)
	if merged.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", merged.Code, merged.Body.String())
	}
	resp := decode(t, merged)
	if resp["added"] != float64(1) || resp["persisted"] != true {
		t.Fatalf("unexpected merge response: %v", resp)
	}

	list := doJSON(t, s, http.MethodGet, "/api/records", nil)
	if count := decode(t, list)["count"]; count != float64(2) {
		t.Fatalf("expected 2 records after merge, got %v", count)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, ledger.Options{})
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, rec.Code)
		}
	}
}
