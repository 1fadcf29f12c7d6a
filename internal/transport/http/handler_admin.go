package httptransport

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"crypto-fantasy/internal/ledger"
	"crypto-fantasy/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// LedgerService is the admin view of balances, satisfied by *ledger.Ledger.
type LedgerService interface {
	Topup(ctx context.Context, playerID string, amount decimal.Decimal, ref string) (decimal.Decimal, error)
	History(ctx context.Context, f store.LedgerFilter, limit, offset int) ([]store.LedgerEntry, error)
	Balance(ctx context.Context, playerID string) (decimal.Decimal, error)
}

type AdminHandlers struct {
	health Pinger
	ledger LedgerService
}

func NewAdminHandlers(health Pinger, l LedgerService) *AdminHandlers {
	return &AdminHandlers{health: health, ledger: l}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.health == nil {
			writeJSON(w, map[string]any{"ok": true})
			return
		}
		if err := h.health.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			writeJSON(w, map[string]any{"ok": false, "db": "down"})
			return
		}
		writeJSON(w, map[string]any{"ok": true, "db": "up"})
	}
}

func (h *AdminHandlers) Ledger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		f := store.LedgerFilter{PlayerID: r.URL.Query().Get("player_id"), MatchID: r.URL.Query().Get("match_id")}
		if v := r.URL.Query().Get("from"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				f.From = &t
			}
		}
		if v := r.URL.Query().Get("to"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				f.To = &t
			}
		}
		items, err := h.ledger.History(r.Context(), f, limit, offset)
		if err != nil {
			log.Error().Err(err).Msg("list ledger failed")
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		resp := map[string]any{"items": items, "limit": limit, "offset": offset}
		if f.PlayerID != "" {
			bal, err := h.ledger.Balance(r.Context(), f.PlayerID)
			switch {
			case errors.Is(err, store.ErrNotFound):
				WriteHTTPError(w, http.StatusNotFound, "player_not_found")
				return
			case err != nil:
				log.Error().Err(err).Str("player_id", f.PlayerID).Msg("ledger balance failed")
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
				return
			}
			resp["balance"] = bal
			if f.MatchID != "" {
				resp["match_net"] = ledger.MatchNet(items, f.PlayerID, f.MatchID)
			}
		}
		writeJSON(w, resp)
	}
}

func (h *AdminHandlers) Topup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PlayerID string `json:"player_id"`
			Amount   string `json:"amount"`
			Ref      string `json:"ref"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(body.Amount))
		if body.PlayerID == "" || err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		bal, err := h.ledger.Topup(r.Context(), body.PlayerID, amount, body.Ref)
		if err != nil {
			switch {
			case errors.Is(err, ledger.ErrInvalidAmount):
				WriteHTTPError(w, http.StatusBadRequest, "invalid_amount")
			case errors.Is(err, store.ErrNotFound):
				WriteHTTPError(w, http.StatusNotFound, "player_not_found")
			default:
				log.Error().Err(err).Str("player_id", body.PlayerID).Msg("topup failed")
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			}
			return
		}
		log.Info().Str("player_id", body.PlayerID).Str("amount", amount.String()).Msg("admin topup")
		writeJSON(w, map[string]any{"ok": true, "balance": bal})
	}
}
