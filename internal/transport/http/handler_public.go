package httptransport

import (
	"errors"
	"net/http"

	apppublic "crypto-fantasy/internal/app/public"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type PublicHandlers struct {
	svc *apppublic.Service
}

func NewPublicHandlers(svc *apppublic.Service) *PublicHandlers {
	return &PublicHandlers{svc: svc}
}

func (h *PublicHandlers) RegisterPlayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in apppublic.RegisterPlayerInput
		if !decodeJSON(w, r, &in) {
			return
		}
		resp, err := h.svc.RegisterPlayer(r.Context(), in)
		if err != nil {
			writePublicError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *PublicHandlers) Player() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.GetPlayer(r.Context(), chi.URLParam(r, "player_id"))
		if err != nil {
			writePublicError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *PublicHandlers) CreateTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in apppublic.CreateTeamInput
		if !decodeJSON(w, r, &in) {
			return
		}
		resp, err := h.svc.CreateTeam(r.Context(), in)
		if err != nil {
			writePublicError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *PublicHandlers) Teams() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.ListTeams(r.Context(), chi.URLParam(r, "player_id"))
		if err != nil {
			writePublicError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *PublicHandlers) PlayerLedger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		resp, err := h.svc.PlayerLedger(r.Context(), chi.URLParam(r, "player_id"), limit, offset)
		if err != nil {
			writePublicError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *PublicHandlers) Leaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		resp, err := h.svc.Leaderboard(r.Context(), limit, offset)
		if err != nil {
			writePublicError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func writePublicError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apppublic.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, apppublic.ErrInvalidWallet):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_wallet_address")
	case errors.Is(err, apppublic.ErrInvalidTokens):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_tokens")
	case errors.Is(err, apppublic.ErrPlayerNotFound):
		WriteHTTPError(w, http.StatusNotFound, "player_not_found")
	case errors.Is(err, apppublic.ErrTeamNotFound):
		WriteHTTPError(w, http.StatusNotFound, "team_not_found")
	default:
		log.Error().Err(err).Msg("public request failed")
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
