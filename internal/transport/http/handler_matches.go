package httptransport

import (
	"errors"
	"net/http"

	appmatches "crypto-fantasy/internal/app/matches"
	"crypto-fantasy/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type MatchHandlers struct {
	svc *appmatches.Service
}

func NewMatchHandlers(svc *appmatches.Service) *MatchHandlers {
	return &MatchHandlers{svc: svc}
}

func (h *MatchHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in appmatches.CreateMatchInput
		if !decodeJSON(w, r, &in) {
			return
		}
		resp, err := h.svc.CreateMatch(r.Context(), in)
		if err != nil {
			writeMatchError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *MatchHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		f := store.MatchFilter{
			Status:   r.URL.Query().Get("status"),
			PlayerID: r.URL.Query().Get("player_id"),
		}
		resp, err := h.svc.List(r.Context(), f, limit, offset)
		if err != nil {
			writeMatchError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *MatchHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Get(r.Context(), chi.URLParam(r, "match_id"))
		if err != nil {
			writeMatchError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *MatchHandlers) Join() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in appmatches.JoinMatchInput
		if !decodeJSON(w, r, &in) {
			return
		}
		resp, err := h.svc.JoinMatch(r.Context(), chi.URLParam(r, "match_id"), in)
		if err != nil {
			writeMatchError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *MatchHandlers) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PlayerID string `json:"player_id"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		resp, err := h.svc.CancelMatch(r.Context(), chi.URLParam(r, "match_id"), body.PlayerID)
		if err != nil {
			writeMatchError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *MatchHandlers) RecordGain() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in appmatches.RecordGainInput
		if !decodeJSON(w, r, &in) {
			return
		}
		resp, err := h.svc.RecordGain(r.Context(), chi.URLParam(r, "match_id"), in)
		if err != nil {
			writeMatchError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *MatchHandlers) Complete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Complete(r.Context(), chi.URLParam(r, "match_id"))
		if err != nil {
			writeMatchError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *MatchHandlers) Settlement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Settlement(r.Context(), chi.URLParam(r, "match_id"))
		if err != nil {
			writeMatchError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *MatchHandlers) Preview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in appmatches.PreviewInput
		if !decodeJSON(w, r, &in) {
			return
		}
		resp, err := h.svc.Preview(in)
		if err != nil {
			writeMatchError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func writeMatchError(w http.ResponseWriter, err error) {
	code := appmatches.Code(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, appmatches.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, appmatches.ErrMatchNotFound),
		errors.Is(err, appmatches.ErrPlayerNotFound),
		errors.Is(err, appmatches.ErrTeamNotFound),
		errors.Is(err, appmatches.ErrSettlementNotFound):
		status = http.StatusNotFound
	case errors.Is(err, appmatches.ErrNotParticipant):
		status = http.StatusForbidden
	case errors.Is(err, appmatches.ErrMatchNotOpen),
		errors.Is(err, appmatches.ErrMatchNotReady),
		errors.Is(err, appmatches.ErrNotSettleable),
		errors.Is(err, appmatches.ErrAlreadySettled),
		errors.Is(err, appmatches.ErrSettlementBusy),
		errors.Is(err, appmatches.ErrInsufficientBalance),
		errors.Is(err, appmatches.ErrGainAlreadyRecorded):
		status = http.StatusConflict
	default:
		log.Error().Err(err).Msg("match request failed")
	}
	WriteHTTPError(w, status, code)
}
