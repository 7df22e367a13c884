package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/bracket-engine/events"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
)

type CompletionResult struct {
	TournamentID int                     `json:"tournament_id"`
	Completed    bool                    `json:"completed"`
	Status       models.TournamentStatus `json:"status"`
	ChampionID   *int                    `json:"champion_id,omitempty"`
	Awards       []models.RankingAward   `json:"awards,omitempty"`
}

type CompletionService interface {
	// CheckCompletion finishes the tournament if its final is decided. Calling it on a
	// finished tournament returns the stored outcome and publishes nothing.
	CheckCompletion(ctx context.Context, tournamentID int) (*CompletionResult, error)
	ListInProgress(ctx context.Context) ([]int, error)
}

type completionService struct {
	engine
}

func NewCompletionService(deps Deps) CompletionService {
	return &completionService{engine: newEngine(deps)}
}

func (s *completionService) CheckCompletion(ctx context.Context, tournamentID int) (*CompletionResult, error) {
	var (
		result  *CompletionResult
		pending []events.Event
	)
	err := s.Locker.WithLock(ctx, tournamentID, func() error {
		return s.Tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
			var err error
			result, pending, err = s.check(ctx, exec, tournamentID)
			return err
		})
	})
	if err != nil {
		s.logFailure(ctx, "check_completion", tournamentID, err)
		return nil, err
	}

	if len(pending) > 0 {
		s.Logger.InfoContext(ctx, "Tournament finished",
			slog.Int("tournament_id", tournamentID), slog.Int("champion_id", *result.ChampionID))
	}
	s.publish(ctx, pending)
	return result, nil
}

func (s *completionService) check(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (*CompletionResult, []events.Event, error) {
	t, err := s.Tournaments.GetForUpdate(ctx, exec, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	result := &CompletionResult{TournamentID: t.ID, Status: t.Status}

	switch t.Status {
	case models.StatusFinished:
		awards, err := s.Awards.ListByTournament(ctx, exec, t.ID)
		if err != nil {
			return nil, nil, err
		}
		result.Completed = true
		result.ChampionID = t.ChampionID
		result.Awards = awards
		return result, nil, nil
	case models.StatusInProgress:
	default:
		return result, nil, nil
	}

	b, err := s.loadBracket(ctx, exec, t.ID)
	if err != nil {
		return nil, nil, err
	}
	if _, decided := b.Champion(); !decided {
		return result, nil, nil
	}

	awards, err := s.finalize(ctx, exec, t, b)
	if err != nil {
		return nil, nil, err
	}
	result.Completed = true
	result.Status = t.Status
	result.ChampionID = t.ChampionID
	result.Awards = awards
	return result, []events.Event{finishedEvent(t, awards, snapshotOf(t, b, awards))}, nil
}

func (s *completionService) ListInProgress(ctx context.Context) ([]int, error) {
	return s.Tournaments.ListIDsByStatus(ctx, models.StatusInProgress)
}
