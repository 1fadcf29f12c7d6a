package store_test

import (
	"context"
	"testing"

	"crypto-fantasy/internal/store"

	"github.com/shopspring/decimal"
)

func mustCreatePlayer(t *testing.T, st *store.Store, ctx context.Context, wallet, initial string) string {
	t.Helper()
	id, err := st.CreatePlayer(ctx, wallet, "p-"+wallet[len(wallet)-4:])
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	if err := st.EnsureAccount(ctx, id, decimal.RequireFromString(initial)); err != nil {
		t.Fatalf("ensure account: %v", err)
	}
	return id
}

func mustCreateTeam(t *testing.T, st *store.Store, ctx context.Context, playerID string) string {
	t.Helper()
	id, err := st.CreateTeam(ctx, playerID, "team", []string{"BTC", "ETH", "SOL"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	return id
}
