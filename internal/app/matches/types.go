package matches

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateMatchInput struct {
	PlayerID        string `json:"player_id"`
	TeamID          string `json:"team_id"`
	StakePerPlayer  string `json:"stake_per_player"`
	DurationSeconds *int64 `json:"duration_seconds"`
}

type JoinMatchInput struct {
	PlayerID string `json:"player_id"`
	TeamID   string `json:"team_id"`
}

type RecordGainInput struct {
	PlayerID string   `json:"player_id"`
	Gain     *float64 `json:"gain"`
}

// PreviewInput runs the split without touching any match. DurationClass wins
// over DurationMinutes when both are set.
type PreviewInput struct {
	GainA           *float64 `json:"gain_a"`
	GainB           *float64 `json:"gain_b"`
	StakePerPlayer  string   `json:"stake_per_player"`
	DurationClass   string   `json:"duration_class"`
	DurationMinutes *float64 `json:"duration_minutes"`
	IDA             string   `json:"id_a"`
	IDB             string   `json:"id_b"`
}

type MatchResponse struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	StakePerPlayer  decimal.Decimal `json:"stake_per_player"`
	Pot             decimal.Decimal `json:"pot"`
	DurationSeconds *int64          `json:"duration_seconds"`
	DurationClass   string          `json:"duration_class"`
	CreatorID       string          `json:"creator_id"`
	CreatorTeamID   string          `json:"creator_team_id"`
	OpponentID      string          `json:"opponent_id,omitempty"`
	OpponentTeamID  string          `json:"opponent_team_id,omitempty"`
	CreatorGain     *float64        `json:"creator_gain"`
	OpponentGain    *float64        `json:"opponent_gain"`
	CreatedAt       time.Time       `json:"created_at"`
	StartedAt       *time.Time      `json:"started_at"`
	EndsAt          *time.Time      `json:"ends_at"`
	CompletedAt     *time.Time      `json:"completed_at"`
}

type MatchesResponse struct {
	Items  []MatchResponse `json:"items"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type SettlementResponse struct {
	MatchID       string          `json:"match_id,omitempty"`
	Pot           decimal.Decimal `json:"pot"`
	DurationClass string          `json:"duration_class"`
	WinnerID      string          `json:"winner_id"`
	LoserID       string          `json:"loser_id"`
	WinnerShare   decimal.Decimal `json:"winner_share"`
	LoserShare    decimal.Decimal `json:"loser_share"`
	WinnerGain    float64         `json:"winner_gain"`
	LoserGain     float64         `json:"loser_gain"`
	Tie           bool            `json:"tie"`
	FloorApplied  bool            `json:"floor_applied"`
	SettledAt     *time.Time      `json:"settled_at,omitempty"`
}
