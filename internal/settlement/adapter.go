package settlement

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrIncompleteMatch reports a record that cannot be settled yet.
var ErrIncompleteMatch = errors.New("incomplete_match")

const participantsPerMatch = 2

type Participant struct {
	ID   Identity
	Gain *float64
}

// MatchRecord is the slice of a stored match that settlement reads.
type MatchRecord struct {
	MatchID         string
	Completed       bool
	StakePerPlayer  decimal.Decimal
	DurationSeconds *int64
	A               *Participant
	B               *Participant
}

type Inputs struct {
	MatchID string
	GainA   float64
	GainB   float64
	Pot     decimal.Decimal
	Class   DurationClass
	IDA     Identity
	IDB     Identity
}

// Pot is the heads-up pool: both sides put in the same stake.
func Pot(stakePerPlayer decimal.Decimal) decimal.Decimal {
	return stakePerPlayer.Mul(decimal.NewFromInt(participantsPerMatch))
}

// Adapt extracts settlement inputs from rec. It reports false when the match
// has not reached a terminal state or either side lacks a recorded gain.
func Adapt(rec MatchRecord) (Inputs, bool) {
	if !rec.Completed {
		return Inputs{}, false
	}
	if rec.A == nil || rec.B == nil || rec.A.ID == "" || rec.B.ID == "" {
		return Inputs{}, false
	}
	if rec.A.Gain == nil || rec.B.Gain == nil {
		return Inputs{}, false
	}
	return Inputs{
		MatchID: rec.MatchID,
		GainA:   *rec.A.Gain,
		GainB:   *rec.B.Gain,
		Pot:     Pot(rec.StakePerPlayer),
		Class:   ClassifySeconds(rec.DurationSeconds),
		IDA:     rec.A.ID,
		IDB:     rec.B.ID,
	}, true
}

func (in Inputs) Settle() (Result, error) {
	return Settle(in.GainA, in.GainB, in.Pot, in.Class, in.IDA, in.IDB)
}
