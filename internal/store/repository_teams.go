package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateTeam(ctx context.Context, playerID, name string, tokens []string) (string, error) {
	id := NewID()
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO teams (id, player_id, name) VALUES ($1, $2, $3)`, id, playerID, name); err != nil {
			return err
		}
		for i, sym := range tokens {
			if _, err := tx.Exec(ctx,
				`INSERT INTO team_tokens (team_id, symbol, position) VALUES ($1, $2, $3)`,
				id, sym, i); err != nil {
				return mapConflict(err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetTeam(ctx context.Context, id string) (*Team, error) {
	var t Team
	err := s.Pool.QueryRow(ctx, `SELECT id, player_id, name, created_at FROM teams WHERE id = $1`, id).
		Scan(&t.ID, &t.PlayerID, &t.Name, &t.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	tokens, err := s.teamTokens(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	t.Tokens = tokens[id]
	return &t, nil
}

func (s *Store) ListTeamsByPlayer(ctx context.Context, playerID string) ([]Team, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, player_id, name, created_at FROM teams WHERE player_id = $1 ORDER BY created_at, id`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Team, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.PlayerID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}
	tokens, err := s.teamTokens(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Tokens = tokens[out[i].ID]
	}
	return out, nil
}

func (s *Store) teamTokens(ctx context.Context, teamIDs []string) (map[string][]string, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT team_id, symbol FROM team_tokens WHERE team_id = ANY($1) ORDER BY team_id, position`, teamIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string][]string, len(teamIDs))
	for rows.Next() {
		var teamID, sym string
		if err := rows.Scan(&teamID, &sym); err != nil {
			return nil, err
		}
		out[teamID] = append(out[teamID], sym)
	}
	return out, rows.Err()
}
