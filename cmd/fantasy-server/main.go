package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-fantasy/internal/config"
	"crypto-fantasy/internal/logging"
	"crypto-fantasy/internal/metrics"
	"crypto-fantasy/internal/store"
	"crypto-fantasy/internal/sweeper"
	httptransport "crypto-fantasy/internal/transport/http"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	initial, err := decimal.NewFromString(cfg.Server.InitialBalance)
	if err != nil || initial.IsNegative() {
		log.Fatal().Str("initial_balance", cfg.Server.InitialBalance).Msg("invalid INITIAL_BALANCE")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(cfg.Server.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	guard, closeGuard, err := newClaimGuard(ctx, cfg.Server.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("claim guard init failed")
	}
	defer closeGuard()

	m := metrics.New()
	app := newApp(st, guard, m, cfg.Server, initial)
	r := newRouter(cfg.Server, st, app, m)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.Server.SweepInterval > 0 {
		g.Go(func() error {
			return sweeper.New(app.matches, m).Run(gctx, cfg.Server.SweepInterval)
		})
	} else {
		log.Warn().Msg("settlement sweeper disabled")
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited")
		closeGuard()
		st.Close()
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
