package matches

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"crypto-fantasy/internal/claim"
	"crypto-fantasy/internal/metrics"
	"crypto-fantasy/internal/settlement"
	"crypto-fantasy/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Repository is the slice of *store.Store the match workflow needs.
type Repository interface {
	GetPlayer(ctx context.Context, id string) (*store.Player, error)
	GetTeam(ctx context.Context, id string) (*store.Team, error)
	CreateMatch(ctx context.Context, nm store.NewMatch) (*store.Match, error)
	GetMatch(ctx context.Context, id string) (*store.Match, error)
	ListMatches(ctx context.Context, f store.MatchFilter, limit, offset int) ([]store.Match, error)
	ListDueMatches(ctx context.Context, now time.Time, limit int) ([]store.Match, error)
	JoinMatch(ctx context.Context, matchID, playerID, teamID string, now time.Time) (*store.Match, error)
	CancelMatch(ctx context.Context, matchID, playerID string) (*store.Match, error)
	RecordGain(ctx context.Context, matchID, playerID string, gain float64) (*store.Match, error)
	SettleMatch(ctx context.Context, matchID string, now time.Time, compute store.SettleFunc) (*store.Settlement, error)
	GetSettlement(ctx context.Context, matchID string) (*store.Settlement, error)
}

const (
	defaultClaimTTL = 30 * time.Second
	maxPageLimit    = 200
)

type Service struct {
	repo     Repository
	guard    claim.Guard
	metrics  *metrics.Metrics
	claimTTL time.Duration
	now      func() time.Time
}

func NewService(repo Repository, guard claim.Guard, m *metrics.Metrics, claimTTL time.Duration) *Service {
	if guard == nil {
		guard = claim.NewLocal()
	}
	if claimTTL <= 0 {
		claimTTL = defaultClaimTTL
	}
	return &Service{repo: repo, guard: guard, metrics: m, claimTTL: claimTTL, now: time.Now}
}

func (s *Service) CreateMatch(ctx context.Context, in CreateMatchInput) (*MatchResponse, error) {
	stake, err := parseStake(in.StakePerPlayer)
	if err != nil {
		return nil, err
	}
	if in.DurationSeconds != nil && *in.DurationSeconds <= 0 {
		return nil, fmt.Errorf("%w: duration_seconds must be positive", ErrInvalidRequest)
	}
	if err := s.checkTeam(ctx, in.PlayerID, in.TeamID); err != nil {
		return nil, err
	}
	m, err := s.repo.CreateMatch(ctx, store.NewMatch{
		CreatorID:       in.PlayerID,
		CreatorTeamID:   in.TeamID,
		StakePerPlayer:  stake,
		DurationSeconds: in.DurationSeconds,
	})
	if err != nil {
		return nil, mapStoreError(err)
	}
	log.Info().Str("match_id", m.ID).Str("creator_id", m.CreatorID).Str("stake", stake.String()).Msg("match created")
	return toMatchResponse(m), nil
}

func (s *Service) JoinMatch(ctx context.Context, matchID string, in JoinMatchInput) (*MatchResponse, error) {
	if strings.TrimSpace(matchID) == "" {
		return nil, ErrInvalidRequest
	}
	if err := s.checkTeam(ctx, in.PlayerID, in.TeamID); err != nil {
		return nil, err
	}
	m, err := s.repo.JoinMatch(ctx, matchID, in.PlayerID, in.TeamID, s.now())
	if err != nil {
		return nil, mapStoreError(err)
	}
	log.Info().Str("match_id", m.ID).Str("opponent_id", m.OpponentID).Msg("match started")
	return toMatchResponse(m), nil
}

func (s *Service) CancelMatch(ctx context.Context, matchID, playerID string) (*MatchResponse, error) {
	if strings.TrimSpace(matchID) == "" || strings.TrimSpace(playerID) == "" {
		return nil, ErrInvalidRequest
	}
	m, err := s.repo.CancelMatch(ctx, matchID, playerID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	log.Info().Str("match_id", m.ID).Msg("match cancelled")
	return toMatchResponse(m), nil
}

func (s *Service) RecordGain(ctx context.Context, matchID string, in RecordGainInput) (*MatchResponse, error) {
	if strings.TrimSpace(matchID) == "" || strings.TrimSpace(in.PlayerID) == "" || in.Gain == nil {
		return nil, ErrInvalidRequest
	}
	if math.IsNaN(*in.Gain) || math.IsInf(*in.Gain, 0) {
		return nil, fmt.Errorf("%w: gain must be finite", ErrInvalidRequest)
	}
	m, err := s.repo.RecordGain(ctx, matchID, in.PlayerID, *in.Gain)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toMatchResponse(m), nil
}

func (s *Service) Get(ctx context.Context, matchID string) (*MatchResponse, error) {
	if strings.TrimSpace(matchID) == "" {
		return nil, ErrInvalidRequest
	}
	m, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toMatchResponse(m), nil
}

func (s *Service) List(ctx context.Context, f store.MatchFilter, limit, offset int) (*MatchesResponse, error) {
	switch f.Status {
	case "", store.MatchOpen, store.MatchReady, store.MatchCompleted, store.MatchCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, f.Status)
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.repo.ListMatches(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]MatchResponse, 0, len(items))
	for i := range items {
		out = append(out, *toMatchResponse(&items[i]))
	}
	return &MatchesResponse{Items: out, Limit: limit, Offset: offset}, nil
}

func (s *Service) Settlement(ctx context.Context, matchID string) (*SettlementResponse, error) {
	st, err := s.repo.GetSettlement(ctx, matchID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSettlementNotFound
		}
		return nil, err
	}
	return toSettlementResponse(st), nil
}

// Complete settles a match whose window has ended and whose gains are both
// recorded. Concurrent callers for the same match get ErrSettlementBusy and a
// repeat call gets ErrAlreadySettled.
func (s *Service) Complete(ctx context.Context, matchID string) (*SettlementResponse, error) {
	if strings.TrimSpace(matchID) == "" {
		return nil, ErrInvalidRequest
	}
	release, err := claim.AcquireSettlement(ctx, s.guard, matchID, s.claimTTL)
	if err != nil {
		if errors.Is(err, claim.ErrClaimHeld) {
			return nil, ErrSettlementBusy
		}
		return nil, err
	}
	defer release()

	now := s.now()
	// Refusals before the row is loaded have no class to report.
	classLabel := "unknown"
	st, err := s.repo.SettleMatch(ctx, matchID, now, func(m *store.Match) (*store.Settlement, error) {
		classLabel = settlement.ClassifySeconds(m.DurationSeconds).String()
		in, ok := settlement.Adapt(matchRecord(m, now))
		if !ok {
			return nil, ErrNotSettleable
		}
		res, err := in.Settle()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return toStoreSettlement(res), nil
	})
	if err != nil {
		err = mapStoreError(err)
		s.metrics.ObserveSettlement(classLabel, Code(err), decimal.Zero, false)
		log.Warn().Err(err).Str("match_id", matchID).Msg("settlement refused")
		return nil, err
	}
	s.metrics.ObserveSettlement(st.DurationClass, "settled", st.Pot, st.FloorApplied)
	log.Info().
		Str("match_id", matchID).
		Str("winner_id", st.WinnerID).
		Str("winner_share", st.WinnerShare.String()).
		Str("loser_share", st.LoserShare.String()).
		Bool("floor_applied", st.FloorApplied).
		Msg("match settled")
	return toSettlementResponse(st), nil
}

// Preview runs the settlement engine on ad-hoc inputs.
func (s *Service) Preview(in PreviewInput) (*SettlementResponse, error) {
	if in.GainA == nil || in.GainB == nil {
		return nil, fmt.Errorf("%w: gain_a and gain_b are required", ErrInvalidRequest)
	}
	stake, err := parseStake(in.StakePerPlayer)
	if err != nil {
		return nil, err
	}
	class := settlement.Classify(in.DurationMinutes)
	if in.DurationClass != "" {
		class, err = settlement.ParseDurationClass(in.DurationClass)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	idA, idB := in.IDA, in.IDB
	if idA == "" {
		idA = "a"
	}
	if idB == "" {
		idB = "b"
	}
	res, err := settlement.Settle(*in.GainA, *in.GainB, settlement.Pot(stake), class, settlement.Identity(idA), settlement.Identity(idB))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return toSettlementResponse(toStoreSettlement(res)), nil
}

// DueMatchIDs lists matches the sweeper should try to settle.
func (s *Service) DueMatchIDs(ctx context.Context, limit int) ([]string, error) {
	items, err := s.repo.ListDueMatches(ctx, s.now(), limit)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, m := range items {
		out = append(out, m.ID)
	}
	return out, nil
}

func (s *Service) checkTeam(ctx context.Context, playerID, teamID string) error {
	if strings.TrimSpace(playerID) == "" || strings.TrimSpace(teamID) == "" {
		return ErrInvalidRequest
	}
	if _, err := s.repo.GetPlayer(ctx, playerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	if team.PlayerID != playerID {
		return fmt.Errorf("%w: team belongs to another player", ErrInvalidRequest)
	}
	return nil
}

func parseStake(raw string) (decimal.Decimal, error) {
	stake, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: stake_per_player is not a number", ErrInvalidRequest)
	}
	if !stake.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: stake_per_player must be positive", ErrInvalidRequest)
	}
	if !stake.Equal(stake.Truncate(settlement.ShareScale)) {
		return decimal.Zero, fmt.Errorf("%w: stake_per_player has more than %d decimal places", ErrInvalidRequest, settlement.ShareScale)
	}
	return stake, nil
}

// matchRecord settles on player ids; each player maps to exactly one wallet.
// A started match is terminal once its window has ended.
// Matches without a fixed window can be completed whenever both gains exist.
func matchRecord(m *store.Match, now time.Time) settlement.MatchRecord {
	rec := settlement.MatchRecord{
		MatchID:         m.ID,
		StakePerPlayer:  m.StakePerPlayer,
		DurationSeconds: m.DurationSeconds,
		A:               &settlement.Participant{ID: settlement.Identity(m.CreatorID), Gain: m.CreatorGain},
	}
	switch m.Status {
	case store.MatchCompleted:
		rec.Completed = true
	case store.MatchReady:
		rec.Completed = m.EndsAt == nil || m.WindowEnded(now)
	}
	if m.OpponentID != "" {
		rec.B = &settlement.Participant{ID: settlement.Identity(m.OpponentID), Gain: m.OpponentGain}
	}
	return rec
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrMatchNotFound
	case errors.Is(err, store.ErrMatchNotOpen):
		return ErrMatchNotOpen
	case errors.Is(err, store.ErrMatchNotReady):
		return ErrMatchNotReady
	case errors.Is(err, store.ErrAlreadySettled):
		return ErrAlreadySettled
	case errors.Is(err, store.ErrNotParticipant):
		return ErrNotParticipant
	case errors.Is(err, store.ErrSelfJoin):
		return fmt.Errorf("%w: cannot join own match", ErrInvalidRequest)
	case errors.Is(err, store.ErrInsufficientBalance):
		return ErrInsufficientBalance
	case errors.Is(err, store.ErrGainAlreadyRecorded):
		return ErrGainAlreadyRecorded
	default:
		return err
	}
}

func toStoreSettlement(res settlement.Result) *store.Settlement {
	return &store.Settlement{
		Pot:           res.Pot,
		DurationClass: res.Class.String(),
		WinnerID:      string(res.WinnerID),
		LoserID:       string(res.LoserID),
		WinnerShare:   res.WinnerShare,
		LoserShare:    res.LoserShare,
		WinnerGain:    res.WinnerGain,
		LoserGain:     res.LoserGain,
		Tie:           res.Tie,
		FloorApplied:  res.FloorApplied,
	}
}

func toSettlementResponse(st *store.Settlement) *SettlementResponse {
	out := &SettlementResponse{
		MatchID:       st.MatchID,
		Pot:           st.Pot,
		DurationClass: st.DurationClass,
		WinnerID:      st.WinnerID,
		LoserID:       st.LoserID,
		WinnerShare:   st.WinnerShare,
		LoserShare:    st.LoserShare,
		WinnerGain:    st.WinnerGain,
		LoserGain:     st.LoserGain,
		Tie:           st.Tie,
		FloorApplied:  st.FloorApplied,
	}
	if !st.CreatedAt.IsZero() {
		settledAt := st.CreatedAt
		out.SettledAt = &settledAt
	}
	return out
}

func toMatchResponse(m *store.Match) *MatchResponse {
	return &MatchResponse{
		ID:              m.ID,
		Status:          m.Status,
		StakePerPlayer:  m.StakePerPlayer,
		Pot:             settlement.Pot(m.StakePerPlayer),
		DurationSeconds: m.DurationSeconds,
		DurationClass:   settlement.ClassifySeconds(m.DurationSeconds).String(),
		CreatorID:       m.CreatorID,
		CreatorTeamID:   m.CreatorTeamID,
		OpponentID:      m.OpponentID,
		OpponentTeamID:  m.OpponentTeamID,
		CreatorGain:     m.CreatorGain,
		OpponentGain:    m.OpponentGain,
		CreatedAt:       m.CreatedAt,
		StartedAt:       m.StartedAt,
		EndsAt:          m.EndsAt,
		CompletedAt:     m.CompletedAt,
	}
}
