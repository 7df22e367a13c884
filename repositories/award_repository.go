package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/lib/pq"
)

var ErrAwardsAlreadyExist = errors.New("ranking awards already recorded for this tournament")

type RankingAwardRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, awards []models.RankingAward) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.RankingAward, error)
}

type postgresRankingAwardRepository struct {
	db *sql.DB
}

func NewPostgresRankingAwardRepository(db *sql.DB) RankingAwardRepository {
	return &postgresRankingAwardRepository{db: db}
}

func (r *postgresRankingAwardRepository) BatchCreate(ctx context.Context, exec SQLExecutor, awards []models.RankingAward) error {
	if len(awards) == 0 {
		return nil
	}

	query := `
		INSERT INTO ranking_awards (tournament_id, player_id, finish_round, points)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	ex := executor(r.db, exec)
	for i := range awards {
		a := &awards[i]
		err := ex.QueryRowContext(ctx, query, a.TournamentID, a.PlayerID, a.FinishRound, a.Points).Scan(&a.ID, &a.CreatedAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Constraint == "ranking_awards_tournament_player_key" {
				return ErrAwardsAlreadyExist
			}
			return fmt.Errorf("failed to insert ranking award for player %d: %w", a.PlayerID, err)
		}
	}
	return nil
}

func (r *postgresRankingAwardRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.RankingAward, error) {
	query := `
		SELECT id, tournament_id, player_id, finish_round, points, created_at
		FROM ranking_awards
		WHERE tournament_id = $1
		ORDER BY finish_round DESC, player_id`

	rows, err := executor(r.db, exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ranking awards for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	awards := make([]models.RankingAward, 0)
	for rows.Next() {
		var a models.RankingAward
		if err := rows.Scan(&a.ID, &a.TournamentID, &a.PlayerID, &a.FinishRound, &a.Points, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ranking award row: %w", err)
		}
		awards = append(awards, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during ranking award rows iteration: %w", err)
	}
	return awards, nil
}
