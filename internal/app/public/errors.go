package public

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInvalidWallet  = errors.New("invalid_wallet_address")
	ErrInvalidTokens  = errors.New("invalid_tokens")
	ErrPlayerNotFound = errors.New("player_not_found")
	ErrTeamNotFound   = errors.New("team_not_found")
)
