package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestObserveSettlement(t *testing.T) {
	m := New()
	m.ObserveSettlement("medium", "settled", decimal.RequireFromString("2"), true)
	m.ObserveSettlement("medium", "settled", decimal.RequireFromString("2"), false)
	m.ObserveSettlement("long", "incomplete_match", decimal.Zero, false)

	if got := testutil.ToFloat64(m.SettlementsTotal.WithLabelValues("medium", "settled")); got != 2 {
		t.Fatalf("settled count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.FloorAppliedTotal); got != 1 {
		t.Fatalf("floor count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SettlementsTotal.WithLabelValues("long", "incomplete_match")); got != 1 {
		t.Fatalf("incomplete count = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveSettlement("medium", "settled", decimal.RequireFromString("1"), false)
	m.ObserveSweep("settled")
	m.ObserveHTTP("/api/matches", 200)
}

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP("/api/matches/{match_id}", 404)
	m.ObserveHTTP("/api/matches/{match_id}", 404)
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/matches/{match_id}", "404")); got != 2 {
		t.Fatalf("http count = %v, want 2", got)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveSweep("settled")
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), `fantasy_sweep_matches_total{result="settled"} 1`) {
		t.Fatalf("metrics output missing sweep counter:\n%s", b)
	}
}
