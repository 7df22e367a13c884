package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound        = errors.New("match not found")
	ErrBracketAlreadyExists = errors.New("bracket already exists for this tournament")
	ErrMatchPlayerInvalid   = errors.New("match references an unknown player")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetTournamentID(ctx context.Context, matchID int) (int, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches (tournament_id, round, slot, player1_id, player2_id, winner_id,
		                     status, player1_sets, player2_sets, sets_to_win, is_walkover)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		m.TournamentID, m.Round, m.Slot, m.Player1ID, m.Player2ID, m.WinnerID,
		m.Status, m.Player1Sets, m.Player2Sets, m.SetsToWin, m.IsWalkover,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return r.handleMatchError(err)
	}
	return nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches
		SET player1_id = $1, player2_id = $2, winner_id = $3, status = $4,
		    player1_sets = $5, player2_sets = $6, is_walkover = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		m.Player1ID, m.Player2ID, m.WinnerID, m.Status,
		m.Player1Sets, m.Player2Sets, m.IsWalkover, m.ID,
	).Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return r.handleMatchError(err)
	}
	return nil
}

func (r *postgresMatchRepository) GetTournamentID(ctx context.Context, matchID int) (int, error) {
	var tournamentID int
	err := r.db.QueryRowContext(ctx, `SELECT tournament_id FROM matches WHERE id = $1`, matchID).Scan(&tournamentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrMatchNotFound
		}
		return 0, fmt.Errorf("failed to get tournament of match %d: %w", matchID, err)
	}
	return tournamentID, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error) {
	query := `
		SELECT id, tournament_id, round, slot, player1_id, player2_id, winner_id, status,
		       player1_sets, player2_sets, sets_to_win, is_walkover, created_at, updated_at
		FROM matches
		WHERE tournament_id = $1
		ORDER BY round, slot`

	rows, err := executor(r.db, exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.Round, &m.Slot, &m.Player1ID, &m.Player2ID, &m.WinnerID, &m.Status,
			&m.Player1Sets, &m.Player2Sets, &m.SetsToWin, &m.IsWalkover, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			if pqErr.Constraint == "matches_tournament_round_slot_key" {
				return ErrBracketAlreadyExists
			}
		case "foreign_key_violation":
			switch pqErr.Constraint {
			case "matches_player1_id_fkey", "matches_player2_id_fkey", "matches_winner_id_fkey":
				return ErrMatchPlayerInvalid
			case "matches_tournament_id_fkey":
				return ErrTournamentNotFound
			}
		}
	}
	return fmt.Errorf("match query failed: %w", err)
}
