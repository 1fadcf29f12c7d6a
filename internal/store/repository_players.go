package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const playerColumns = `id, wallet_address, name, wins, losses, created_at`

func scanPlayer(row pgx.Row) (*Player, error) {
	var p Player
	if err := row.Scan(&p.ID, &p.WalletAddress, &p.Name, &p.Wins, &p.Losses, &p.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

// CreatePlayer inserts a player. wallet must already be normalized.
func (s *Store) CreatePlayer(ctx context.Context, wallet, name string) (string, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx, `INSERT INTO players (id, wallet_address, name) VALUES ($1, $2, $3)`, id, wallet, name)
	if err != nil {
		return "", mapConflict(err)
	}
	return id, nil
}

func (s *Store) GetPlayer(ctx context.Context, id string) (*Player, error) {
	return scanPlayer(s.Pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
}

func (s *Store) GetPlayerByWallet(ctx context.Context, wallet string) (*Player, error) {
	return scanPlayer(s.Pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE wallet_address = $1`, wallet))
}
