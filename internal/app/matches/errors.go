package matches

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid_request")
	ErrMatchNotFound       = errors.New("match_not_found")
	ErrPlayerNotFound      = errors.New("player_not_found")
	ErrTeamNotFound        = errors.New("team_not_found")
	ErrMatchNotOpen        = errors.New("match_not_open")
	ErrMatchNotReady       = errors.New("match_not_ready")
	ErrNotParticipant      = errors.New("not_participant")
	ErrNotSettleable       = errors.New("match_not_settleable")
	ErrAlreadySettled      = errors.New("already_settled")
	ErrSettlementBusy      = errors.New("settlement_busy")
	ErrSettlementNotFound  = errors.New("settlement_not_found")
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrGainAlreadyRecorded = errors.New("gain_already_recorded")
)

// Code returns the wire error code for err, or "internal_error".
func Code(err error) string {
	for _, known := range []error{
		ErrInvalidRequest, ErrMatchNotFound, ErrPlayerNotFound, ErrTeamNotFound,
		ErrMatchNotOpen, ErrMatchNotReady, ErrNotParticipant, ErrNotSettleable,
		ErrAlreadySettled, ErrSettlementBusy, ErrSettlementNotFound, ErrInsufficientBalance,
		ErrGainAlreadyRecorded,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal_error"
}
