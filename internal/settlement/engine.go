// Package settlement splits a match pot between winner and loser from the two
// sides' percentage gains over the match window.
package settlement

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid_input")

// Identity is an opaque participant id. The match service uses player ids.
type Identity string

// ShareScale is the number of decimal places shares are computed to. It
// matches the NUMERIC(38,18) amount columns, so stored shares never round.
const ShareScale = 18

var (
	floorFraction = decimal.RequireFromString("0.05")
	half          = decimal.RequireFromString("0.5")
)

// FloorFraction is the minimum share of the pot paid to the losing side.
func FloorFraction() decimal.Decimal {
	return floorFraction
}

type Result struct {
	Pot         decimal.Decimal
	Class       DurationClass
	WinnerShare decimal.Decimal
	LoserShare  decimal.Decimal
	WinnerID    Identity
	LoserID     Identity
	WinnerGain  float64
	LoserGain   float64
	// Tie is set when both gains were equal; side A is still the winner.
	Tie          bool
	FloorApplied bool
}

// Settle splits pot between the two sides. Side A wins ties. The returned
// shares always sum to pot and the loser share is never below 5% of pot.
func Settle(gainA, gainB float64, pot decimal.Decimal, class DurationClass, idA, idB Identity) (Result, error) {
	if err := validate(gainA, gainB, pot, class); err != nil {
		return Result{}, err
	}

	res := Result{
		Pot:        pot,
		Class:      class,
		WinnerID:   idA,
		LoserID:    idB,
		WinnerGain: gainA,
		LoserGain:  gainB,
		Tie:        gainA == gainB,
	}
	if gainB > gainA {
		res.WinnerID, res.LoserID = idB, idA
		res.WinnerGain, res.LoserGain = gainB, gainA
	}

	k := class.Smoothing()
	adjWinner := nonNegative(decimal.NewFromFloat(res.WinnerGain).Add(k))
	adjLoser := nonNegative(decimal.NewFromFloat(res.LoserGain).Add(k))
	total := adjWinner.Add(adjLoser)

	if total.IsZero() {
		// Both sides lost more than the smoothing constant covers.
		res.WinnerShare = pot.Mul(half).RoundDown(ShareScale)
	} else {
		res.WinnerShare = pot.Mul(adjWinner).DivRound(total, ShareScale)
	}
	res.LoserShare = pot.Sub(res.WinnerShare)

	// Rounded up so the loser never gets less than the floor fraction.
	floor := pot.Mul(floorFraction).RoundCeil(ShareScale)
	if res.LoserShare.LessThan(floor) {
		res.LoserShare = floor
		res.WinnerShare = pot.Sub(floor)
		res.FloorApplied = true
	}
	return res, nil
}

func validate(gainA, gainB float64, pot decimal.Decimal, class DurationClass) error {
	if !pot.IsPositive() {
		return fmt.Errorf("%w: pot must be positive, got %s", ErrInvalidInput, pot)
	}
	if !pot.Equal(pot.Truncate(ShareScale)) {
		return fmt.Errorf("%w: pot has more than %d decimal places", ErrInvalidInput, ShareScale)
	}
	if !finite(gainA) {
		return fmt.Errorf("%w: gain A is not finite", ErrInvalidInput)
	}
	if !finite(gainB) {
		return fmt.Errorf("%w: gain B is not finite", ErrInvalidInput)
	}
	if !class.Valid() {
		return fmt.Errorf("%w: unknown %s", ErrInvalidInput, class)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
