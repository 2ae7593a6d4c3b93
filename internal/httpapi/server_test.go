package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/httpapi/middleware"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/repo/memory"
)

// staticChecker returns a canned engine result.
type staticChecker struct {
	out probe.CheckResult
}

func (c staticChecker) Check(ctx context.Context, target string) probe.CheckResult {
	return c.out
}

func newTestServer(out probe.CheckResult) (*Server, *memory.Store) {
	store := memory.New()
	s := NewServer(zap.NewNop(), store, store, staticChecker{out: out})
	return s, store
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(probe.CheckResult{Status: 200, Result: "OK"})
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
}

func TestAddTarget_StoresAndChecks(t *testing.T) {
	s, store := newTestServer(probe.CheckResult{Status: 200, Result: "OK", LatencyMS: 7})

	body := `{"url":"https://example.org","name":"Example","interval_seconds":60}`
	req := httptest.NewRequest(http.MethodPost, "/api/targets", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("add target: %d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Target struct {
			ID       int64  `json:"id"`
			URL      string `json:"url"`
			IsActive bool   `json:"is_active"`
		} `json:"target"`
		Result struct {
			Result string `json:"result"`
		} `json:"result"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Target.ID == 0 || !resp.Target.IsActive {
		t.Fatalf("target not initialized: %+v", resp.Target)
	}
	if resp.Result.Result != "OK" {
		t.Fatalf("want OK result, got %q", resp.Result.Result)
	}

	last, err := store.LastByTarget(context.Background(), resp.Target.ID)
	if err != nil || last == nil || last.Result != "OK" {
		t.Fatalf("synchronous check not stored: %v err=%v", last, err)
	}
}

func TestAddTarget_RejectsBadURL(t *testing.T) {
	s, _ := newTestServer(probe.CheckResult{})
	for _, body := range []string{
		`{"url":""}`,
		`{"url":"ftp://example.org"}`,
		`{"url":"example.org"}`,
		`not json`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/targets", strings.NewReader(body))
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: got %d, want 400", body, rec.Code)
		}
	}
}

func TestAddTarget_DuplicateURLConflicts(t *testing.T) {
	s, _ := newTestServer(probe.CheckResult{Status: 200, Result: "OK"})

	body := `{"url":"https://example.org"}`
	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/targets", strings.NewReader(body))
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("attempt %d: got %d, want %d", i+1, rec.Code, want)
		}
	}
}

func TestAdHocCheck_ReturnsEngineResult(t *testing.T) {
	s, store := newTestServer(probe.CheckResult{
		Status: 404, Result: "FAIL:page not found", LatencyMS: 12,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/checks",
		strings.NewReader(`{"url":"https://example.org/missing"}`))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("adhoc check: %d", rec.Code)
	}
	var out probe.CheckResult
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != 404 || out.Result != "FAIL:page not found" {
		t.Fatalf("unexpected result: %+v", out)
	}

	// Ad-hoc checks are not persisted.
	rows, _ := store.Latest(context.Background())
	if len(rows) != 0 {
		t.Fatalf("adhoc check leaked into store: %v", rows)
	}
}

func TestAdminRouteRequiresAdminKey(t *testing.T) {
	s, _ := newTestServer(probe.CheckResult{Status: 200, Result: "OK"})
	s.Keys = middleware.Keys{Public: []string{"pub"}, Admin: []string{"adm"}}
	router := s.Router()

	req := httptest.NewRequest(http.MethodPost, "/api/targets",
		strings.NewReader(`{"url":"https://example.org"}`))
	req.Header.Set("X-API-Key", "pub")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("public key on admin route: got %d, want 403", rec.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/targets",
		strings.NewReader(`{"url":"https://example.org"}`))
	req2.Header.Set("X-API-Key", "adm")
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("admin key on admin route: got %d, want 201", rec2.Code)
	}
}

func TestListTargetsAndLatest(t *testing.T) {
	s, _ := newTestServer(probe.CheckResult{Status: 200, Result: "OK"})
	router := s.Router()

	add := httptest.NewRequest(http.MethodPost, "/api/targets",
		strings.NewReader(`{"url":"https://example.org"}`))
	router.ServeHTTP(httptest.NewRecorder(), add)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/targets", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "https://example.org") {
		t.Fatalf("list targets: %d %s", rec.Code, rec.Body.String())
	}

	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/api/results/latest", nil))
	if rec2.Code != http.StatusOK || !strings.Contains(rec2.Body.String(), `"result":"OK"`) {
		t.Fatalf("latest results: %d %s", rec2.Code, rec2.Body.String())
	}
}
