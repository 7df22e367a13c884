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
	ErrSetConflict  = errors.New("set number already recorded for this match")
	ErrSetScoreTied = errors.New("set score cannot be tied")
)

type SetRepository interface {
	Create(ctx context.Context, exec SQLExecutor, set *models.Set) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Set, error)
}

type postgresSetRepository struct {
	db *sql.DB
}

func NewPostgresSetRepository(db *sql.DB) SetRepository {
	return &postgresSetRepository{db: db}
}

func (r *postgresSetRepository) Create(ctx context.Context, exec SQLExecutor, s *models.Set) error {
	query := `
		INSERT INTO sets (match_id, number, player1_score, player2_score, winner_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		s.MatchID, s.Number, s.Player1Score, s.Player2Score, s.WinnerID, s.Status,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "sets_match_number_key":
				return ErrSetConflict
			case "sets_scores_not_tied":
				return ErrSetScoreTied
			case "sets_match_id_fkey":
				return ErrMatchNotFound
			}
		}
		return fmt.Errorf("failed to insert set %d of match %d: %w", s.Number, s.MatchID, err)
	}
	return nil
}

func (r *postgresSetRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Set, error) {
	query := `
		SELECT s.id, s.match_id, s.number, s.player1_score, s.player2_score, s.winner_id, s.status, s.created_at
		FROM sets s
		JOIN matches m ON m.id = s.match_id
		WHERE m.tournament_id = $1
		ORDER BY s.match_id, s.number`

	rows, err := executor(r.db, exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sets for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	sets := make([]models.Set, 0)
	for rows.Next() {
		var s models.Set
		if err := rows.Scan(&s.ID, &s.MatchID, &s.Number, &s.Player1Score, &s.Player2Score, &s.WinnerID, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan set row: %w", err)
		}
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during set rows iteration: %w", err)
	}
	return sets, nil
}
