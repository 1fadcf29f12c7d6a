package ledger

import (
	"context"
	"errors"

	"crypto-fantasy/internal/store"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid_amount")

type Ledger struct {
	Store *store.Store
}

func New(s *store.Store) *Ledger {
	return &Ledger{Store: s}
}

// Topup credits an admin deposit, e.g. after an off-chain vault deposit is confirmed.
func (l *Ledger) Topup(ctx context.Context, playerID string, amount decimal.Decimal, ref string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if ref == "" {
		ref = store.NewID()
	}
	return l.Store.Credit(ctx, playerID, amount, store.EntryTopup, store.RefAdmin, ref)
}

func (l *Ledger) Balance(ctx context.Context, playerID string) (decimal.Decimal, error) {
	return l.Store.GetAccountBalance(ctx, playerID)
}

func (l *Ledger) History(ctx context.Context, f store.LedgerFilter, limit, offset int) ([]store.LedgerEntry, error) {
	return l.Store.ListLedgerEntries(ctx, f, limit, offset)
}

// MatchNet sums the ledger movements a match caused for one player: the
// stake debit plus any refund or share credit.
func MatchNet(entries []store.LedgerEntry, playerID, matchID string) decimal.Decimal {
	net := decimal.Zero
	for _, e := range entries {
		if e.PlayerID != playerID || e.RefType != store.RefMatch || e.RefID != matchID {
			continue
		}
		switch e.Type {
		case store.EntryStakeDebit, store.EntryStakeRefund, store.EntryShareCredit:
			net = net.Add(e.Amount)
		}
	}
	return net
}
