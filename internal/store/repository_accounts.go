package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (s *Store) EnsureAccount(ctx context.Context, playerID string, initial decimal.Decimal) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO accounts (player_id, balance) VALUES ($1, $2::numeric) ON CONFLICT (player_id) DO NOTHING`,
		playerID, numericParam(initial))
	return err
}

func (s *Store) GetAccountBalance(ctx context.Context, playerID string) (decimal.Decimal, error) {
	var raw string
	if err := s.Pool.QueryRow(ctx, `SELECT balance::text FROM accounts WHERE player_id = $1`, playerID).Scan(&raw); err != nil {
		return decimal.Zero, mapNotFound(err)
	}
	return decimalVal(raw)
}

func (s *Store) Debit(ctx context.Context, playerID string, amount decimal.Decimal, entryType, refType, refID string) (decimal.Decimal, error) {
	var bal decimal.Decimal
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		bal, err = debitTx(ctx, tx, playerID, amount, entryType, refType, refID)
		return err
	})
	return bal, err
}

func (s *Store) Credit(ctx context.Context, playerID string, amount decimal.Decimal, entryType, refType, refID string) (decimal.Decimal, error) {
	var bal decimal.Decimal
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		bal, err = creditTx(ctx, tx, playerID, amount, entryType, refType, refID)
		return err
	})
	return bal, err
}

func lockBalance(ctx context.Context, tx pgx.Tx, playerID string) (decimal.Decimal, error) {
	var raw string
	if err := tx.QueryRow(ctx, `SELECT balance::text FROM accounts WHERE player_id = $1 FOR UPDATE`, playerID).Scan(&raw); err != nil {
		return decimal.Zero, mapNotFound(err)
	}
	return decimalVal(raw)
}

func debitTx(ctx context.Context, tx pgx.Tx, playerID string, amount decimal.Decimal, entryType, refType, refID string) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, errors.New("amount must be positive")
	}
	bal, err := lockBalance(ctx, tx, playerID)
	if err != nil {
		return decimal.Zero, err
	}
	if bal.LessThan(amount) {
		return decimal.Zero, ErrInsufficientBalance
	}
	newBal := bal.Sub(amount)
	if err := writeBalance(ctx, tx, playerID, newBal, entryType, amount.Neg(), refType, refID); err != nil {
		return decimal.Zero, err
	}
	return newBal, nil
}

func creditTx(ctx context.Context, tx pgx.Tx, playerID string, amount decimal.Decimal, entryType, refType, refID string) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, errors.New("amount must be positive")
	}
	bal, err := lockBalance(ctx, tx, playerID)
	if err != nil {
		return decimal.Zero, err
	}
	newBal := bal.Add(amount)
	if err := writeBalance(ctx, tx, playerID, newBal, entryType, amount, refType, refID); err != nil {
		return decimal.Zero, err
	}
	return newBal, nil
}

func writeBalance(ctx context.Context, tx pgx.Tx, playerID string, newBal decimal.Decimal, entryType string, signed decimal.Decimal, refType, refID string) error {
	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = $1::numeric, updated_at = now() WHERE player_id = $2`,
		numericParam(newBal), playerID); err != nil {
		return err
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO ledger_entries (id, player_id, type, amount, ref_type, ref_id) VALUES ($1, $2, $3, $4::numeric, $5, $6)`,
		NewID(), playerID, entryType, numericParam(signed), refType, refID)
	return err
}
