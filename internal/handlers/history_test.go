package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"reclaim_control/internal/models"
	"reclaim_control/internal/service"
)

func TestGetHistory(t *testing.T) {
	hist := &mockHistory{cols: models.HistoryColumns{
		"timestamp_ms": {1000, 2000},
		"water":        {40.5, 41.0},
	}}
	r := newTestRouter(&service.Service{History: hist})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history/1000/2000?sample_rate=5", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if hist.lastQuery != (models.HistoryQuery{StartMs: 1000, EndMs: 2000, SampleRate: 5}) {
		t.Fatalf("query=%+v", hist.lastQuery)
	}
	var body map[string][]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body["water"]) != 2 || body["water"][0] != 40.5 {
		t.Fatalf("body=%v", body)
	}
}

func TestGetHistory_Errors(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		err      error
		wantCode int
	}{
		{"bad start", "/history/abc/2000", nil, http.StatusBadRequest},
		{"bad end", "/history/1000/x", nil, http.StatusBadRequest},
		{"bad sample rate", "/history/1000/2000?sample_rate=-1", nil, http.StatusBadRequest},
		{"non-numeric sample rate", "/history/1000/2000?sample_rate=two", nil, http.StatusBadRequest},
		{"reversed range", "/history/2000/1000", fmt.Errorf("%w: end before start", models.ErrInvalidArgument), http.StatusBadRequest},
		{"store down", "/history/1000/2000", fmt.Errorf("%w: query: dial", models.ErrHistoryUnavailable), http.StatusServiceUnavailable},
		{"other", "/history/1000/2000", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{History: &mockHistory{err: tc.err}})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}

func TestAdminHistoryRoutes(t *testing.T) {
	hist := &mockHistory{
		tables:  []string{"history", "boost_events"},
		row:     models.HistoryRow{ID: 9, TimestampMs: 1234},
		deleted: 3,
	}
	r := newTestRouter(&service.Service{History: hist})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tables", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("tables status=%d", w.Code)
	}
	var tables struct {
		Tables []string `json:"tables"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &tables)
	if len(tables.Tables) != 2 {
		t.Fatalf("tables=%v", tables.Tables)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test_data/add", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("add status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/test_data/delete/100/200", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("delete status=%d", w.Code)
	}
	if hist.lastStart != 100 || hist.lastEnd != 200 {
		t.Fatalf("delete range=%d..%d", hist.lastStart, hist.lastEnd)
	}
	var del struct {
		Deleted int64 `json:"deleted"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &del)
	if del.Deleted != 3 {
		t.Fatalf("deleted=%d", del.Deleted)
	}
}

func TestAdminHistoryRoutes_Errors(t *testing.T) {
	r := newTestRouter(&service.Service{History: &mockHistory{err: fmt.Errorf("%w: nothing", models.ErrNotFound)}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/test_data/delete/100/200", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete none: status=%d, want 404", w.Code)
	}

	r = newTestRouter(&service.Service{History: &mockHistory{err: models.ErrHistoryUnavailable}})
	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/tables", nil),
		httptest.NewRequest(http.MethodPost, "/test_data/add", nil),
		httptest.NewRequest(http.MethodDelete, "/test_data/delete/1/2", nil),
	} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s %s: status=%d, want 503", req.Method, req.URL.Path, w.Code)
		}
	}
}
