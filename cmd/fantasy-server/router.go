package main

import (
	"context"

	appmatches "crypto-fantasy/internal/app/matches"
	apppublic "crypto-fantasy/internal/app/public"
	"crypto-fantasy/internal/claim"
	"crypto-fantasy/internal/config"
	"crypto-fantasy/internal/ledger"
	"crypto-fantasy/internal/mcpserver"
	"crypto-fantasy/internal/metrics"
	"crypto-fantasy/internal/store"
	httptransport "crypto-fantasy/internal/transport/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type app struct {
	matches *appmatches.Service
	public  *apppublic.Service
	ledger  *ledger.Ledger
}

func newApp(st *store.Store, guard claim.Guard, m *metrics.Metrics, cfg config.ServerConfig, initial decimal.Decimal) *app {
	return &app{
		matches: appmatches.NewService(st, guard, m, cfg.ClaimTTL),
		public:  apppublic.NewService(st, initial),
		ledger:  ledger.New(st),
	}
}

func newRouter(cfg config.ServerConfig, st *store.Store, a *app, m *metrics.Metrics) *chi.Mux {
	return httptransport.NewRouter(cfg, httptransport.Deps{
		Health:  st,
		Matches: a.matches,
		Public:  a.public,
		Ledger:  a.ledger,
		Metrics: m,
		MCP:     mcpserver.New(a.matches, a.public).Handler(),
	})
}

// newClaimGuard uses Redis when a URL is configured so several server
// instances can share settlement claims. The returned close func is idempotent.
func newClaimGuard(ctx context.Context, redisURL string) (claim.Guard, func(), error) {
	if redisURL == "" {
		log.Info().Msg("settlement claims are in-process")
		return claim.NewLocal(), func() {}, nil
	}
	rdb, err := claim.DialRedis(ctx, redisURL)
	if err != nil {
		return nil, nil, err
	}
	closed := false
	return claim.NewRedis(rdb), func() {
		if closed {
			return
		}
		closed = true
		_ = rdb.Close()
	}, nil
}
