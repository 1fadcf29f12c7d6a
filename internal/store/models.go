package store

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MatchOpen      = "open"
	MatchReady     = "ready"
	MatchCompleted = "completed"
	MatchCancelled = "cancelled"
)

const (
	EntryStakeDebit  = "stake_debit"
	EntryStakeRefund = "stake_refund"
	EntryShareCredit = "share_credit"
	EntryTopup       = "topup"

	RefMatch = "match"
	RefAdmin = "admin"
)

type Player struct {
	ID            string
	WalletAddress string
	Name          string
	Wins          int
	Losses        int
	CreatedAt     time.Time
}

type Account struct {
	PlayerID  string
	Balance   decimal.Decimal
	UpdatedAt time.Time
}

type Team struct {
	ID        string
	PlayerID  string
	Name      string
	Tokens    []string
	CreatedAt time.Time
}

type Match struct {
	ID              string
	Status          string
	StakePerPlayer  decimal.Decimal
	DurationSeconds *int64
	CreatorID       string
	CreatorTeamID   string
	OpponentID      string
	OpponentTeamID  string
	CreatorGain     *float64
	OpponentGain    *float64
	CreatedAt       time.Time
	StartedAt       *time.Time
	EndsAt          *time.Time
	CompletedAt     *time.Time
}

// WindowEnded reports whether a started match has passed its end time.
func (m *Match) WindowEnded(now time.Time) bool {
	return m.EndsAt != nil && !now.Before(*m.EndsAt)
}

type NewMatch struct {
	CreatorID       string
	CreatorTeamID   string
	StakePerPlayer  decimal.Decimal
	DurationSeconds *int64
}

type MatchFilter struct {
	Status   string
	PlayerID string
}

type Settlement struct {
	MatchID       string
	Pot           decimal.Decimal
	DurationClass string
	WinnerID      string
	LoserID       string
	WinnerShare   decimal.Decimal
	LoserShare    decimal.Decimal
	WinnerGain    float64
	LoserGain     float64
	Tie           bool
	FloorApplied  bool
	CreatedAt     time.Time
}

type LedgerEntry struct {
	ID        string          `json:"id"`
	PlayerID  string          `json:"player_id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	RefType   string          `json:"ref_type"`
	RefID     string          `json:"ref_id"`
	CreatedAt time.Time       `json:"created_at"`
}

type LedgerFilter struct {
	PlayerID string
	MatchID  string
	From     *time.Time
	To       *time.Time
}

type LeaderboardEntry struct {
	PlayerID      string
	WalletAddress string
	Name          string
	Wins          int
	Losses        int
	NetWinnings   decimal.Decimal
}
