package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"reclaim_control/internal/logger"
	"reclaim_control/internal/models"
	"reclaim_control/internal/service"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAdminRoutesRequireToken(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		parseErr error
		wantCode int
		wantMsg  string
	}{
		{"missing header", "", nil, http.StatusUnauthorized, "missing Authorization header"},
		{"wrong scheme", "Token abc", nil, http.StatusUnauthorized, "invalid Authorization header format"},
		{"bearer without token", "Bearer", nil, http.StatusUnauthorized, "invalid Authorization header format"},
		{"rejected token", "Bearer expired", errors.New("expired"), http.StatusUnauthorized, "invalid or expired token"},
		{"valid token", "Bearer good", nil, http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{parseID: 5, parseErr: tc.parseErr}
			r := newTestRouterWithAuth(&service.Service{
				Authorization: auth,
				Recorder:      &mockRecorder{status: service.RecorderStatus{Status: service.RecorderStopped}},
			}, true)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/logging/status", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantMsg == "" {
				if auth.lastParseToken != "good" {
					t.Fatalf("ParseToken got %q", auth.lastParseToken)
				}
				return
			}
			var out struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.wantMsg {
				t.Fatalf("error=%q, want %q", out.Error, tc.wantMsg)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	s := &service.Service{
		Authorization: &mockAuth{parseErr: errors.New("bad")},
		History:       &mockHistory{tables: []string{"history"}},
	}

	open := newTestRouterWithAuth(s, false)
	w := httptest.NewRecorder()
	open.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tables", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("auth disabled: got %d, want 200", w.Code)
	}

	locked := newTestRouterWithAuth(s, true)
	w = httptest.NewRecorder()
	locked.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tables", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("auth enabled without token: got %d, want 401", w.Code)
	}

	// Core routes stay open.
	s.Monitoring = &mockMonitoring{state: models.DeviceSnapshot{Water: 40}}
	w = httptest.NewRecorder()
	locked.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/state with auth enabled: got %d, want 200", w.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	h := NewHandler(&service.Service{Monitoring: &mockMonitoring{err: errors.New("boom")}}, log, false)
	r := h.InitRoutes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log, got %d", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.WarnLevel {
		t.Fatalf("5xx should log at warn, got %s", e.Level)
	}
	if e.ContextMap()["path"] != "/state" || e.ContextMap()["status"] != int64(http.StatusInternalServerError) {
		t.Fatalf("unexpected fields: %v", e.ContextMap())
	}
	if logs.FilterMessage("state_get_failed").Len() != 1 {
		t.Fatal("handler error not logged")
	}
}
