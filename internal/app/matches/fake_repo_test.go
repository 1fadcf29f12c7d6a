package matches

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crypto-fantasy/internal/store"

	"github.com/shopspring/decimal"
)

// memRepo is an in-memory Repository with the same state rules as the store.
type memRepo struct {
	mu          sync.Mutex
	seq         int
	players     map[string]*store.Player
	teams       map[string]*store.Team
	balances    map[string]decimal.Decimal
	matches     map[string]*store.Match
	settlements map[string]*store.Settlement
	settleCalls int
}

func newMemRepo() *memRepo {
	return &memRepo{
		players:     make(map[string]*store.Player),
		teams:       make(map[string]*store.Team),
		balances:    make(map[string]decimal.Decimal),
		matches:     make(map[string]*store.Match),
		settlements: make(map[string]*store.Settlement),
	}
}

func (r *memRepo) addPlayer(id, teamID, balance string) {
	r.players[id] = &store.Player{ID: id, WalletAddress: "0x" + id}
	r.teams[teamID] = &store.Team{ID: teamID, PlayerID: id, Name: teamID, Tokens: []string{"BTC"}}
	r.balances[id] = decimal.RequireFromString(balance)
}

func (r *memRepo) GetPlayer(_ context.Context, id string) (*store.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) GetTeam(_ context.Context, id string) (*store.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memRepo) CreateMatch(_ context.Context, nm store.NewMatch) (*store.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.balances[nm.CreatorID].LessThan(nm.StakePerPlayer) {
		return nil, store.ErrInsufficientBalance
	}
	r.balances[nm.CreatorID] = r.balances[nm.CreatorID].Sub(nm.StakePerPlayer)
	r.seq++
	m := &store.Match{
		ID:              fmt.Sprintf("m%d", r.seq),
		Status:          store.MatchOpen,
		StakePerPlayer:  nm.StakePerPlayer,
		DurationSeconds: nm.DurationSeconds,
		CreatorID:       nm.CreatorID,
		CreatorTeamID:   nm.CreatorTeamID,
		CreatedAt:       time.Now(),
	}
	r.matches[m.ID] = m
	cp := *m
	return &cp, nil
}

func (r *memRepo) GetMatch(_ context.Context, id string) (*store.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memRepo) ListMatches(_ context.Context, f store.MatchFilter, limit, offset int) ([]store.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]store.Match, 0)
	for i := 1; i <= r.seq; i++ {
		m, ok := r.matches[fmt.Sprintf("m%d", i)]
		if !ok {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.PlayerID != "" && m.CreatorID != f.PlayerID && m.OpponentID != f.PlayerID {
			continue
		}
		out = append(out, *m)
	}
	if offset >= len(out) {
		return []store.Match{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) ListDueMatches(_ context.Context, now time.Time, limit int) ([]store.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]store.Match, 0)
	for i := 1; i <= r.seq && len(out) < limit; i++ {
		m, ok := r.matches[fmt.Sprintf("m%d", i)]
		if !ok || m.Status != store.MatchReady || !m.WindowEnded(now) {
			continue
		}
		if m.CreatorGain == nil || m.OpponentGain == nil {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *memRepo) JoinMatch(_ context.Context, matchID, playerID, teamID string, now time.Time) (*store.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if m.Status != store.MatchOpen {
		return nil, store.ErrMatchNotOpen
	}
	if m.CreatorID == playerID {
		return nil, store.ErrSelfJoin
	}
	if r.balances[playerID].LessThan(m.StakePerPlayer) {
		return nil, store.ErrInsufficientBalance
	}
	r.balances[playerID] = r.balances[playerID].Sub(m.StakePerPlayer)
	m.Status = store.MatchReady
	m.OpponentID = playerID
	m.OpponentTeamID = teamID
	m.StartedAt = &now
	if m.DurationSeconds != nil {
		e := now.Add(time.Duration(*m.DurationSeconds) * time.Second)
		m.EndsAt = &e
	}
	cp := *m
	return &cp, nil
}

func (r *memRepo) CancelMatch(_ context.Context, matchID, playerID string) (*store.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if m.Status != store.MatchOpen {
		return nil, store.ErrMatchNotOpen
	}
	if m.CreatorID != playerID {
		return nil, store.ErrNotParticipant
	}
	r.balances[playerID] = r.balances[playerID].Add(m.StakePerPlayer)
	m.Status = store.MatchCancelled
	cp := *m
	return &cp, nil
}

func (r *memRepo) RecordGain(_ context.Context, matchID, playerID string, gain float64) (*store.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if m.Status != store.MatchReady {
		return nil, store.ErrMatchNotReady
	}
	var slot **float64
	switch playerID {
	case m.CreatorID:
		slot = &m.CreatorGain
	case m.OpponentID:
		slot = &m.OpponentGain
	default:
		return nil, store.ErrNotParticipant
	}
	if *slot != nil {
		return nil, store.ErrGainAlreadyRecorded
	}
	g := gain
	*slot = &g
	cp := *m
	return &cp, nil
}

func (r *memRepo) SettleMatch(_ context.Context, matchID string, now time.Time, compute store.SettleFunc) (*store.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settleCalls++
	m, ok := r.matches[matchID]
	if !ok {
		return nil, store.ErrNotFound
	}
	switch m.Status {
	case store.MatchCompleted:
		return nil, store.ErrAlreadySettled
	case store.MatchReady:
	default:
		return nil, store.ErrMatchNotReady
	}
	cp := *m
	st, err := compute(&cp)
	if err != nil {
		return nil, err
	}
	st.MatchID = matchID
	st.CreatedAt = now
	m.Status = store.MatchCompleted
	m.CompletedAt = &now
	r.balances[st.WinnerID] = r.balances[st.WinnerID].Add(st.WinnerShare)
	r.balances[st.LoserID] = r.balances[st.LoserID].Add(st.LoserShare)
	r.players[st.WinnerID].Wins++
	r.players[st.LoserID].Losses++
	r.settlements[matchID] = st
	return st, nil
}

func (r *memRepo) GetSettlement(_ context.Context, matchID string) (*store.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.settlements[matchID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

var _ Repository = (*memRepo)(nil)
