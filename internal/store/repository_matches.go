package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

const matchColumns = `id, status, stake_per_player::text, duration_seconds, creator_id, creator_team_id,
	opponent_id, opponent_team_id, creator_gain, opponent_gain, created_at, started_at, ends_at, completed_at`

func scanMatch(row pgx.Row) (*Match, error) {
	var (
		m            Match
		stake        string
		opponentID   *string
		opponentTeam *string
	)
	err := row.Scan(&m.ID, &m.Status, &stake, &m.DurationSeconds, &m.CreatorID, &m.CreatorTeamID,
		&opponentID, &opponentTeam, &m.CreatorGain, &m.OpponentGain, &m.CreatedAt, &m.StartedAt, &m.EndsAt, &m.CompletedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if m.StakePerPlayer, err = decimalVal(stake); err != nil {
		return nil, err
	}
	m.OpponentID = deref(opponentID)
	m.OpponentTeamID = deref(opponentTeam)
	return &m, nil
}

// CreateMatch debits the creator's stake and opens the match in one transaction.
func (s *Store) CreateMatch(ctx context.Context, nm NewMatch) (*Match, error) {
	id := NewID()
	var out *Match
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := debitTx(ctx, tx, nm.CreatorID, nm.StakePerPlayer, EntryStakeDebit, RefMatch, id); err != nil {
			return err
		}
		row := tx.QueryRow(ctx, `INSERT INTO matches (id, status, stake_per_player, duration_seconds, creator_id, creator_team_id)
			VALUES ($1, $2, $3::numeric, $4, $5, $6) RETURNING `+matchColumns,
			id, MatchOpen, numericParam(nm.StakePerPlayer), nm.DurationSeconds, nm.CreatorID, nm.CreatorTeamID)
		m, err := scanMatch(row)
		if err != nil {
			return err
		}
		out = m
		return nil
	})
	return out, err
}

func (s *Store) GetMatch(ctx context.Context, id string) (*Match, error) {
	return scanMatch(s.Pool.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id))
}

func lockMatch(ctx context.Context, tx pgx.Tx, id string) (*Match, error) {
	return scanMatch(tx.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1 FOR UPDATE`, id))
}

func (s *Store) ListMatches(ctx context.Context, f MatchFilter, limit, offset int) ([]Match, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `SELECT `+matchColumns+` FROM matches
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR creator_id = $2 OR opponent_id = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`,
		textParam(f.Status), textParam(f.PlayerID), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMatches(rows)
}

// ListDueMatches returns started matches whose window has ended and whose
// gains are both recorded.
func (s *Store) ListDueMatches(ctx context.Context, now time.Time, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.Pool.Query(ctx, `SELECT `+matchColumns+` FROM matches
		WHERE status = $1 AND ends_at <= $2
		  AND creator_gain IS NOT NULL AND opponent_gain IS NOT NULL
		ORDER BY ends_at, id
		LIMIT $3`,
		MatchReady, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMatches(rows)
}

func collectMatches(rows pgx.Rows) ([]Match, error) {
	out := make([]Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// JoinMatch seats the opponent, debits their stake and starts the window.
func (s *Store) JoinMatch(ctx context.Context, matchID, playerID, teamID string, now time.Time) (*Match, error) {
	var out *Match
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		m, err := lockMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Status != MatchOpen {
			return ErrMatchNotOpen
		}
		if m.CreatorID == playerID {
			return ErrSelfJoin
		}
		if _, err := debitTx(ctx, tx, playerID, m.StakePerPlayer, EntryStakeDebit, RefMatch, matchID); err != nil {
			return err
		}
		var endsAt *time.Time
		if m.DurationSeconds != nil {
			e := now.Add(time.Duration(*m.DurationSeconds) * time.Second)
			endsAt = &e
		}
		row := tx.QueryRow(ctx, `UPDATE matches
			SET status = $2, opponent_id = $3, opponent_team_id = $4, started_at = $5, ends_at = $6
			WHERE id = $1 RETURNING `+matchColumns,
			matchID, MatchReady, playerID, teamID, now, endsAt)
		out, err = scanMatch(row)
		return err
	})
	return out, err
}

// CancelMatch refunds the creator of a match nobody has joined yet.
func (s *Store) CancelMatch(ctx context.Context, matchID, playerID string) (*Match, error) {
	var out *Match
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		m, err := lockMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Status != MatchOpen {
			return ErrMatchNotOpen
		}
		if m.CreatorID != playerID {
			return ErrNotParticipant
		}
		if _, err := creditTx(ctx, tx, m.CreatorID, m.StakePerPlayer, EntryStakeRefund, RefMatch, matchID); err != nil {
			return err
		}
		row := tx.QueryRow(ctx, `UPDATE matches SET status = $2, completed_at = now() WHERE id = $1 RETURNING `+matchColumns,
			matchID, MatchCancelled)
		out, err = scanMatch(row)
		return err
	})
	return out, err
}

// RecordGain stores a participant's final percentage gain for a started match.
// A gain is written once; later attempts get ErrGainAlreadyRecorded.
func (s *Store) RecordGain(ctx context.Context, matchID, playerID string, gain float64) (*Match, error) {
	var out *Match
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		m, err := lockMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Status != MatchReady {
			return ErrMatchNotReady
		}
		column := ""
		var current *float64
		switch playerID {
		case m.CreatorID:
			column, current = "creator_gain", m.CreatorGain
		case m.OpponentID:
			column, current = "opponent_gain", m.OpponentGain
		default:
			return ErrNotParticipant
		}
		if current != nil {
			return ErrGainAlreadyRecorded
		}
		row := tx.QueryRow(ctx, `UPDATE matches SET `+column+` = $2 WHERE id = $1 AND `+column+` IS NULL RETURNING `+matchColumns, matchID, gain)
		out, err = scanMatch(row)
		return err
	})
	return out, err
}

// SettleFunc computes the settlement for a match row that is locked for the
// duration of the call.
type SettleFunc func(m *Match) (*Settlement, error)

// SettleMatch completes a match exactly once: it locks the row, computes the
// split via compute, records the settlement, credits both shares and bumps
// the win/loss counters in a single transaction.
func (s *Store) SettleMatch(ctx context.Context, matchID string, now time.Time, compute SettleFunc) (*Settlement, error) {
	var out *Settlement
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		m, err := lockMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		switch m.Status {
		case MatchCompleted:
			return ErrAlreadySettled
		case MatchReady:
		default:
			return ErrMatchNotReady
		}
		st, err := compute(m)
		if err != nil {
			return err
		}
		if st == nil {
			return errors.New("settle: nil settlement")
		}
		st.MatchID = matchID
		if _, err := tx.Exec(ctx, `UPDATE matches SET status = $2, completed_at = $3 WHERE id = $1`,
			matchID, MatchCompleted, now); err != nil {
			return err
		}
		err = tx.QueryRow(ctx, `INSERT INTO match_settlements
			(match_id, pot, duration_class, winner_id, loser_id, winner_share, loser_share, winner_gain, loser_gain, tie, floor_applied)
			VALUES ($1, $2::numeric, $3, $4, $5, $6::numeric, $7::numeric, $8, $9, $10, $11)
			RETURNING created_at`,
			matchID, numericParam(st.Pot), st.DurationClass, st.WinnerID, st.LoserID,
			numericParam(st.WinnerShare), numericParam(st.LoserShare), st.WinnerGain, st.LoserGain, st.Tie, st.FloorApplied,
		).Scan(&st.CreatedAt)
		if err != nil {
			return mapConflict(err)
		}
		if _, err := creditTx(ctx, tx, st.WinnerID, st.WinnerShare, EntryShareCredit, RefMatch, matchID); err != nil {
			return err
		}
		if _, err := creditTx(ctx, tx, st.LoserID, st.LoserShare, EntryShareCredit, RefMatch, matchID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE players SET wins = wins + 1 WHERE id = $1`, st.WinnerID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE players SET losses = losses + 1 WHERE id = $1`, st.LoserID); err != nil {
			return err
		}
		out = st
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrAlreadySettled
		}
		return nil, err
	}
	return out, nil
}

func (s *Store) GetSettlement(ctx context.Context, matchID string) (*Settlement, error) {
	var (
		st                       Settlement
		pot, winShare, loseShare string
	)
	err := s.Pool.QueryRow(ctx, `SELECT match_id, pot::text, duration_class, winner_id, loser_id,
			winner_share::text, loser_share::text, winner_gain, loser_gain, tie, floor_applied, created_at
		FROM match_settlements WHERE match_id = $1`, matchID).
		Scan(&st.MatchID, &pot, &st.DurationClass, &st.WinnerID, &st.LoserID,
			&winShare, &loseShare, &st.WinnerGain, &st.LoserGain, &st.Tie, &st.FloorApplied, &st.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if st.Pot, err = decimalVal(pot); err != nil {
		return nil, err
	}
	if st.WinnerShare, err = decimalVal(winShare); err != nil {
		return nil, err
	}
	if st.LoserShare, err = decimalVal(loseShare); err != nil {
		return nil, err
	}
	return &st, nil
}
