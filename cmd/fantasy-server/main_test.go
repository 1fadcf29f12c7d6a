package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"testing"

	"crypto-fantasy/internal/claim"
	"crypto-fantasy/internal/config"
	"crypto-fantasy/internal/metrics"
	"crypto-fantasy/internal/testutil"
	httptransport "crypto-fantasy/internal/transport/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type flusherRecorder struct {
	*httptest.ResponseRecorder
	flushed bool
}

func (f *flusherRecorder) Flush() {
	f.flushed = true
}

func TestBodyCaptureMiddlewarePreservesFlusher(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "no flusher", http.StatusInternalServerError)
			return
		}
		flusher.Flush()
		w.WriteHeader(http.StatusOK)
	})

	mw := httptransport.BodyCaptureMiddleware(4096)
	rec := &flusherRecorder{ResponseRecorder: httptest.NewRecorder()}
	req := httptest.NewRequest(http.MethodGet, "/api/ledger", nil)
	mw(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !rec.flushed {
		t.Fatal("expected flusher to be called")
	}
}

func TestNewClaimGuardDefaultsToLocal(t *testing.T) {
	g, closeGuard, err := newClaimGuard(context.Background(), "")
	if err != nil {
		t.Fatalf("newClaimGuard: %v", err)
	}
	defer closeGuard()
	if _, ok := g.(*claim.Local); !ok {
		t.Fatalf("expected *claim.Local, got %T", g)
	}
}

func TestNewClaimGuardRejectsBadURL(t *testing.T) {
	if _, _, err := newClaimGuard(context.Background(), "not a url"); err == nil {
		t.Fatal("expected error for malformed redis url")
	}
}

func TestRouteSnapshot(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()

	cfg := config.ServerConfig{AdminAPIKey: "admin-key", MCPEnabled: true}
	m := metrics.New()
	router := newRouter(cfg, st, newApp(st, claim.NewLocal(), m, cfg, decimal.NewFromInt(100)), m)

	var routes []string
	err := chi.Walk(router, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, method+" "+route)
		return nil
	})
	if err != nil {
		t.Fatalf("walk routes: %v", err)
	}
	sort.Strings(routes)

	expected := []string{
		"DELETE /mcp",
		"GET /api/leaderboard",
		"GET /api/ledger",
		"GET /api/matches",
		"GET /api/matches/{match_id}",
		"GET /api/matches/{match_id}/settlement",
		"GET /api/players/{player_id}",
		"GET /api/players/{player_id}/ledger",
		"GET /api/players/{player_id}/teams",
		"GET /healthz",
		"GET /mcp",
		"GET /metrics",
		"OPTIONS /mcp",
		"POST /api/matches",
		"POST /api/matches/{match_id}/cancel",
		"POST /api/matches/{match_id}/complete",
		"POST /api/matches/{match_id}/gains",
		"POST /api/matches/{match_id}/join",
		"POST /api/players",
		"POST /api/settlements/preview",
		"POST /api/teams",
		"POST /api/topup",
		"POST /mcp",
	}
	sort.Strings(expected)

	if !reflect.DeepEqual(routes, expected) {
		t.Fatalf("route snapshot mismatch\nexpected=%v\nactual=%v", expected, routes)
	}
}
