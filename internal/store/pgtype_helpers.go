package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// textParam binds an empty filter value as NULL so `$n::text IS NULL` matches.
func textParam(v string) pgtype.Text {
	return pgtype.Text{String: v, Valid: v != ""}
}

// Amounts cross the wire as text and are cast with $n::numeric on the way in
// and col::text on the way out, keeping full precision.
func numericParam(d decimal.Decimal) string {
	return d.String()
}

func decimalVal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
