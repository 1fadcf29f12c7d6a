package public

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterPlayerInput struct {
	WalletAddress string `json:"wallet_address"`
	Name          string `json:"name"`
}

type PlayerResponse struct {
	ID            string          `json:"id"`
	WalletAddress string          `json:"wallet_address"`
	Name          string          `json:"name"`
	Wins          int             `json:"wins"`
	Losses        int             `json:"losses"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CreateTeamInput struct {
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Tokens   []string `json:"tokens"`
}

type TeamResponse struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	Name      string    `json:"name"`
	Tokens    []string  `json:"tokens"`
	CreatedAt time.Time `json:"created_at"`
}

type TeamsResponse struct {
	Items []TeamResponse `json:"items"`
}

type LeaderboardItem struct {
	Rank          int             `json:"rank"`
	PlayerID      string          `json:"player_id"`
	WalletAddress string          `json:"wallet_address"`
	Name          string          `json:"name"`
	Wins          int             `json:"wins"`
	Losses        int             `json:"losses"`
	NetWinnings   decimal.Decimal `json:"net_winnings"`
}

type LeaderboardResponse struct {
	Items  []LeaderboardItem `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type LedgerItem struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	RefType   string          `json:"ref_type"`
	RefID     string          `json:"ref_id"`
	CreatedAt time.Time       `json:"created_at"`
}

type LedgerResponse struct {
	PlayerID string          `json:"player_id"`
	Balance  decimal.Decimal `json:"balance"`
	Items    []LedgerItem    `json:"items"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}
