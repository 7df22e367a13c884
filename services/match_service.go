package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/events"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
)

type SubmitResultInput struct {
	Sets             []brackets.SetScore `json:"sets"`
	DeclaredWinnerID *int                `json:"winner_id,omitempty"`
}

type MatchResult struct {
	Match              models.Match          `json:"match"`
	Advanced           []models.Match        `json:"advanced"`
	DiscardedSets      int                   `json:"discarded_sets"`
	TournamentFinished bool                  `json:"tournament_finished"`
	ChampionID         *int                  `json:"champion_id,omitempty"`
	Awards             []models.RankingAward `json:"awards,omitempty"`
}

type MatchService interface {
	SubmitMatchResult(ctx context.Context, matchID int, input SubmitResultInput) (*MatchResult, error)
}

type matchService struct {
	engine
}

func NewMatchService(deps Deps) MatchService {
	return &matchService{engine: newEngine(deps)}
}

func (s *matchService) SubmitMatchResult(ctx context.Context, matchID int, input SubmitResultInput) (*MatchResult, error) {
	if err := brackets.ValidateSetScores(input.Sets); err != nil {
		return nil, err
	}

	tournamentID, err := s.Matches.GetTournamentID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	var (
		result  *MatchResult
		pending []events.Event
	)
	err = s.Locker.WithLock(ctx, tournamentID, func() error {
		return s.Tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
			var err error
			result, pending, err = s.submit(ctx, exec, tournamentID, matchID, input)
			return err
		})
	})
	if err != nil {
		s.logFailure(ctx, "submit_match_result", tournamentID, err)
		return nil, err
	}

	s.Logger.InfoContext(ctx, "Match result recorded",
		slog.Int("tournament_id", tournamentID),
		slog.Int("match_id", matchID),
		slog.String("match_status", string(result.Match.Status)),
		slog.Int("advanced", len(result.Advanced)),
		slog.Bool("tournament_finished", result.TournamentFinished))
	s.publish(ctx, pending)
	return result, nil
}

func (s *matchService) submit(ctx context.Context, exec repositories.SQLExecutor, tournamentID, matchID int, input SubmitResultInput) (*MatchResult, []events.Event, error) {
	t, err := s.Tournaments.GetForUpdate(ctx, exec, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	if t.Status != models.StatusInProgress {
		return nil, nil, fmt.Errorf("%w: tournament %d is %s", ErrTournamentNotInProgress, t.ID, t.Status)
	}

	b, err := s.loadBracket(ctx, exec, t.ID)
	if err != nil {
		return nil, nil, err
	}
	m := b.MatchByID(matchID)
	if m == nil {
		return nil, nil, fmt.Errorf("%w: match %d", ErrMatchNotFound, matchID)
	}

	outcome, err := brackets.RecordSets(m, input.Sets, input.DeclaredWinnerID)
	if err != nil {
		return nil, nil, err
	}

	// RecordSets appended the new sets to m.Sets; store them and keep the generated IDs.
	base := len(m.Sets) - len(outcome.Recorded)
	for i := range outcome.Recorded {
		set := &m.Sets[base+i]
		if err := s.Sets.Create(ctx, exec, set); err != nil {
			return nil, nil, err
		}
		outcome.Recorded[i] = *set
	}
	if err := s.Matches.Update(ctx, exec, m); err != nil {
		return nil, nil, fmt.Errorf("failed to update match %d: %w", m.ID, err)
	}

	result := &MatchResult{DiscardedSets: outcome.Discarded, Advanced: []models.Match{}}
	if outcome.Finished {
		touched, err := b.Advance(m)
		if err != nil {
			return nil, nil, err
		}
		for _, next := range touched {
			if err := s.Matches.Update(ctx, exec, next); err != nil {
				return nil, nil, fmt.Errorf("failed to update match %d: %w", next.ID, err)
			}
			result.Advanced = append(result.Advanced, *next)
		}
	}
	result.Match = *m

	pending := []events.Event{}
	if _, decided := b.Champion(); decided {
		awards, err := s.finalize(ctx, exec, t, b)
		if err != nil {
			return nil, nil, err
		}
		result.TournamentFinished = true
		result.ChampionID = t.ChampionID
		result.Awards = awards
		pending = append(pending, finishedEvent(t, awards, snapshotOf(t, b, awards)))
	}

	updated := events.New(events.MatchUpdated, t.ID, events.MatchUpdatedPayload{
		TournamentID:       t.ID,
		Match:              result.Match,
		Advanced:           result.Advanced,
		TournamentFinished: result.TournamentFinished,
	})
	return result, append([]events.Event{updated}, pending...), nil
}
