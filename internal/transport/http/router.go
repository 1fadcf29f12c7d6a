package httptransport

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	appmatches "crypto-fantasy/internal/app/matches"
	apppublic "crypto-fantasy/internal/app/public"
	"crypto-fantasy/internal/config"
	"crypto-fantasy/internal/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the router mounts. MCP is optional.
type Deps struct {
	Health  Pinger
	Matches *appmatches.Service
	Public  *apppublic.Service
	Ledger  LedgerService
	Metrics *metrics.Metrics
	MCP     http.Handler
}

func NewRouter(cfg config.ServerConfig, d Deps) *chi.Mux {
	matchHandlers := NewMatchHandlers(d.Matches)
	publicHandlers := NewPublicHandlers(d.Public)
	adminHandlers := NewAdminHandlers(d.Health, d.Ledger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(MetricsMiddleware(d.Metrics))

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	if d.MCP != nil && cfg.MCPEnabled {
		r.With(APILogMiddleware()).MethodFunc(http.MethodOptions, "/mcp", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Allow", "POST, GET, DELETE, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
		})
		r.With(APILogMiddleware()).Method(http.MethodPost, "/mcp", d.MCP)
		r.With(APILogMiddleware()).Method(http.MethodGet, "/mcp", d.MCP)
		r.With(APILogMiddleware()).Method(http.MethodDelete, "/mcp", d.MCP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

		r.Post("/players", publicHandlers.RegisterPlayer())
		r.Get("/players/{player_id}", publicHandlers.Player())
		r.Get("/players/{player_id}/teams", publicHandlers.Teams())
		r.Get("/players/{player_id}/ledger", publicHandlers.PlayerLedger())
		r.Post("/teams", publicHandlers.CreateTeam())
		r.Get("/leaderboard", publicHandlers.Leaderboard())

		r.Post("/matches", matchHandlers.Create())
		r.Get("/matches", matchHandlers.List())
		r.Get("/matches/{match_id}", matchHandlers.Get())
		r.Post("/matches/{match_id}/join", matchHandlers.Join())
		r.Post("/matches/{match_id}/cancel", matchHandlers.Cancel())
		r.Post("/matches/{match_id}/gains", matchHandlers.RecordGain())
		r.Post("/matches/{match_id}/complete", matchHandlers.Complete())
		r.Get("/matches/{match_id}/settlement", matchHandlers.Settlement())
		r.Post("/settlements/preview", matchHandlers.Preview())

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Use(BodyCaptureMiddleware(4096))
			r.Get("/ledger", adminHandlers.Ledger())
			r.Post("/topup", adminHandlers.Topup())
		})
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
