package settlement

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DurationClass buckets a match window into one of four smoothing regimes.
type DurationClass int

const (
	ShortFast DurationClass = iota
	Short
	Medium
	Long
)

const (
	shortFastMaxMinutes = 1.0
	shortMaxMinutes     = 5.0
	mediumMaxMinutes    = 60.0
)

var (
	smoothingShortFast = decimal.RequireFromString("0.20")
	smoothingShort     = decimal.RequireFromString("0.15")
	smoothingMedium    = decimal.RequireFromString("0.10")
	smoothingLong      = decimal.RequireFromString("0.05")
)

// Classify maps a duration in minutes to its class. Thresholds are inclusive
// on the upper bound. A nil duration is treated as Medium.
func Classify(minutes *float64) DurationClass {
	if minutes == nil {
		return Medium
	}
	m := *minutes
	switch {
	case m <= shortFastMaxMinutes:
		return ShortFast
	case m <= shortMaxMinutes:
		return Short
	case m <= mediumMaxMinutes:
		return Medium
	default:
		return Long
	}
}

// ClassifyDuration is the only place a stored window length (kept in seconds)
// is converted to minutes.
func ClassifyDuration(d time.Duration) DurationClass {
	minutes := d.Minutes()
	return Classify(&minutes)
}

// ClassifySeconds classifies an optional stored duration in seconds.
func ClassifySeconds(seconds *int64) DurationClass {
	if seconds == nil {
		return Medium
	}
	return ClassifyDuration(time.Duration(*seconds) * time.Second)
}

// Smoothing returns the additive constant applied to both gains.
func (c DurationClass) Smoothing() decimal.Decimal {
	switch c {
	case ShortFast:
		return smoothingShortFast
	case Short:
		return smoothingShort
	case Long:
		return smoothingLong
	default:
		return smoothingMedium
	}
}

func (c DurationClass) Valid() bool {
	return c >= ShortFast && c <= Long
}

func (c DurationClass) String() string {
	switch c {
	case ShortFast:
		return "short_fast"
	case Short:
		return "short"
	case Medium:
		return "medium"
	case Long:
		return "long"
	default:
		return fmt.Sprintf("duration_class(%d)", int(c))
	}
}

func ParseDurationClass(v string) (DurationClass, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "short_fast", "shortfast":
		return ShortFast, nil
	case "short":
		return Short, nil
	case "medium", "":
		return Medium, nil
	case "long":
		return Long, nil
	default:
		return Medium, fmt.Errorf("%w: unknown duration class %q", ErrInvalidInput, v)
	}
}

func (c DurationClass) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, c)
	}
	return []byte(c.String()), nil
}

func (c *DurationClass) UnmarshalText(b []byte) error {
	parsed, err := ParseDurationClass(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
