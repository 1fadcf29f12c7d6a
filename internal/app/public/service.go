package public

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"crypto-fantasy/internal/store"
	"crypto-fantasy/internal/wallet"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Repository is the slice of *store.Store the public endpoints read and write.
type Repository interface {
	CreatePlayer(ctx context.Context, wallet, name string) (string, error)
	GetPlayer(ctx context.Context, id string) (*store.Player, error)
	GetPlayerByWallet(ctx context.Context, wallet string) (*store.Player, error)
	EnsureAccount(ctx context.Context, playerID string, initial decimal.Decimal) error
	GetAccountBalance(ctx context.Context, playerID string) (decimal.Decimal, error)
	CreateTeam(ctx context.Context, playerID, name string, tokens []string) (string, error)
	GetTeam(ctx context.Context, id string) (*store.Team, error)
	ListTeamsByPlayer(ctx context.Context, playerID string) ([]store.Team, error)
	ListLeaderboard(ctx context.Context, limit, offset int) ([]store.LeaderboardEntry, error)
	ListLedgerEntries(ctx context.Context, f store.LedgerFilter, limit, offset int) ([]store.LedgerEntry, error)
}

type Service struct {
	repo           Repository
	initialBalance decimal.Decimal
}

const (
	leaderboardMaxRows = 100
	maxTeamTokens      = 8
	maxNameLen         = 64
)

var tokenSymbol = regexp.MustCompile(`^[A-Z0-9]{1,12}$`)

func NewService(repo Repository, initialBalance decimal.Decimal) *Service {
	if initialBalance.IsNegative() {
		initialBalance = decimal.Zero
	}
	return &Service{repo: repo, initialBalance: initialBalance}
}

// RegisterPlayer is idempotent per wallet: a known wallet returns its player.
func (s *Service) RegisterPlayer(ctx context.Context, in RegisterPlayerInput) (*PlayerResponse, error) {
	addr, err := wallet.Normalize(in.WalletAddress)
	if err != nil {
		return nil, ErrInvalidWallet
	}
	name := strings.TrimSpace(in.Name)
	if len(name) > maxNameLen {
		return nil, fmt.Errorf("%w: name too long", ErrInvalidRequest)
	}
	if name == "" {
		name = string(addr)[:10]
	}

	if p, err := s.repo.GetPlayerByWallet(ctx, string(addr)); err == nil {
		return s.playerResponse(ctx, p)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	id, err := s.repo.CreatePlayer(ctx, string(addr), name)
	switch {
	case errors.Is(err, store.ErrConflict):
		p, err := s.repo.GetPlayerByWallet(ctx, string(addr))
		if err != nil {
			return nil, err
		}
		return s.playerResponse(ctx, p)
	case err != nil:
		return nil, err
	}
	if err := s.repo.EnsureAccount(ctx, id, s.initialBalance); err != nil {
		return nil, err
	}
	log.Info().Str("player_id", id).Str("wallet", string(addr)).Msg("player registered")
	return s.GetPlayer(ctx, id)
}

func (s *Service) GetPlayer(ctx context.Context, playerID string) (*PlayerResponse, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, ErrInvalidRequest
	}
	p, err := s.repo.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return s.playerResponse(ctx, p)
}

func (s *Service) CreateTeam(ctx context.Context, in CreateTeamInput) (*TeamResponse, error) {
	if strings.TrimSpace(in.PlayerID) == "" {
		return nil, ErrInvalidRequest
	}
	tokens, err := normalizeTokens(in.Tokens)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > maxNameLen {
		return nil, fmt.Errorf("%w: team name must be 1-%d characters", ErrInvalidRequest, maxNameLen)
	}
	if _, err := s.repo.GetPlayer(ctx, in.PlayerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	id, err := s.repo.CreateTeam(ctx, in.PlayerID, name, tokens)
	if err != nil {
		return nil, err
	}
	team, err := s.repo.GetTeam(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return toTeamResponse(team), nil
}

func (s *Service) ListTeams(ctx context.Context, playerID string) (*TeamsResponse, error) {
	if _, err := s.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	teams, err := s.repo.ListTeamsByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	out := make([]TeamResponse, 0, len(teams))
	for i := range teams {
		out = append(out, *toTeamResponse(&teams[i]))
	}
	return &TeamsResponse{Items: out}, nil
}

// Leaderboard pages through the top leaderboardMaxRows players.
func (s *Service) Leaderboard(ctx context.Context, limit, offset int) (*LeaderboardResponse, error) {
	allItems, err := s.repo.ListLeaderboard(ctx, leaderboardMaxRows, 0)
	if err != nil {
		return nil, err
	}
	total := len(allItems)
	limit, ok := clampLeaderboardPage(limit, offset)
	if !ok || offset < 0 || offset >= total {
		return &LeaderboardResponse{Items: []LeaderboardItem{}, Total: total, Limit: limit, Offset: offset}, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	pageItems := allItems[offset:end]
	out := make([]LeaderboardItem, 0, len(pageItems))
	for idx, it := range pageItems {
		out = append(out, LeaderboardItem{
			Rank:          offset + idx + 1,
			PlayerID:      it.PlayerID,
			WalletAddress: it.WalletAddress,
			Name:          it.Name,
			Wins:          it.Wins,
			Losses:        it.Losses,
			NetWinnings:   it.NetWinnings,
		})
	}
	return &LeaderboardResponse{Items: out, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) PlayerLedger(ctx context.Context, playerID string, limit, offset int) (*LedgerResponse, error) {
	player, err := s.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.repo.ListLedgerEntries(ctx, store.LedgerFilter{PlayerID: playerID}, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]LedgerItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, LedgerItem{
			ID:        e.ID,
			Type:      e.Type,
			Amount:    e.Amount,
			RefType:   e.RefType,
			RefID:     e.RefID,
			CreatedAt: e.CreatedAt,
		})
	}
	return &LedgerResponse{PlayerID: playerID, Balance: player.Balance, Items: items, Limit: limit, Offset: offset}, nil
}

func (s *Service) playerResponse(ctx context.Context, p *store.Player) (*PlayerResponse, error) {
	balance, err := s.repo.GetAccountBalance(ctx, p.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return &PlayerResponse{
		ID:            p.ID,
		WalletAddress: p.WalletAddress,
		Name:          p.Name,
		Wins:          p.Wins,
		Losses:        p.Losses,
		Balance:       balance,
		CreatedAt:     p.CreatedAt,
	}, nil
}

// normalizeTokens upper-cases symbols and rejects empty, oversized or
// duplicated selections.
func normalizeTokens(raw []string) ([]string, error) {
	if len(raw) == 0 || len(raw) > maxTeamTokens {
		return nil, fmt.Errorf("%w: a team holds 1-%d tokens", ErrInvalidTokens, maxTeamTokens)
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		sym := strings.ToUpper(strings.TrimSpace(t))
		if !tokenSymbol.MatchString(sym) {
			return nil, fmt.Errorf("%w: bad symbol %q", ErrInvalidTokens, t)
		}
		if _, dup := seen[sym]; dup {
			return nil, fmt.Errorf("%w: duplicate symbol %s", ErrInvalidTokens, sym)
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out, nil
}

func clampLeaderboardPage(limit, offset int) (int, bool) {
	if offset >= leaderboardMaxRows {
		return 0, false
	}
	if limit <= 0 {
		limit = 50
	}
	remaining := leaderboardMaxRows - offset
	if limit > remaining {
		limit = remaining
	}
	return limit, true
}

func toTeamResponse(t *store.Team) *TeamResponse {
	tokens := t.Tokens
	if tokens == nil {
		tokens = []string{}
	}
	return &TeamResponse{ID: t.ID, PlayerID: t.PlayerID, Name: t.Name, Tokens: tokens, CreatedAt: t.CreatedAt}
}
