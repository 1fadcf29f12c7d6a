package store

import (
	"context"
)

func (s *Store) ListLedgerEntries(ctx context.Context, f LedgerFilter, limit, offset int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `SELECT id, player_id, type, amount::text, ref_type, ref_id, created_at
		FROM ledger_entries
		WHERE ($1::text IS NULL OR player_id = $1)
		  AND ($2::text IS NULL OR (ref_type = 'match' AND ref_id = $2))
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		  AND ($4::timestamptz IS NULL OR created_at < $4)
		ORDER BY created_at DESC, id DESC
		LIMIT $5 OFFSET $6`,
		textParam(f.PlayerID), textParam(f.MatchID), f.From, f.To, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LedgerEntry, 0)
	for rows.Next() {
		var (
			e      LedgerEntry
			amount string
		)
		if err := rows.Scan(&e.ID, &e.PlayerID, &e.Type, &amount, &e.RefType, &e.RefID, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.Amount, err = decimalVal(amount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListLeaderboard ranks players by wins, then by net winnings from matches.
func (s *Store) ListLeaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `SELECT id, wallet_address, name, wins, losses, net::text FROM (
			SELECT p.id, p.wallet_address, p.name, p.wins, p.losses,
				COALESCE(SUM(l.amount) FILTER (WHERE l.type IN ('stake_debit', 'stake_refund', 'share_credit')), 0) AS net
			FROM players p
			LEFT JOIN ledger_entries l ON l.player_id = p.id
			GROUP BY p.id
		) ranked
		ORDER BY wins DESC, net DESC, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LeaderboardEntry, 0)
	for rows.Next() {
		var (
			e   LeaderboardEntry
			net string
		)
		if err := rows.Scan(&e.PlayerID, &e.WalletAddress, &e.Name, &e.Wins, &e.Losses, &net); err != nil {
			return nil, err
		}
		if e.NetWinnings, err = decimalVal(net); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
