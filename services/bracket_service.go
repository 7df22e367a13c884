package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/events"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
	"golang.org/x/sync/errgroup"
)

// GenerateBracketInput selects who is seeded. With Seeding set, positions are taken
// as given; otherwise PlayerIDs (or every Jugador when empty) are seeded by ranking.
type GenerateBracketInput struct {
	PlayerIDs []int                   `json:"player_ids,omitempty"`
	Seeding   []models.SeedAssignment `json:"seeded_players,omitempty"`
}

type BracketService interface {
	GenerateBracket(ctx context.Context, tournamentID int, input GenerateBracketInput) (*models.BracketSnapshot, error)
	GetBracket(ctx context.Context, tournamentID int) (*models.BracketSnapshot, error)
}

type bracketService struct {
	engine
}

func NewBracketService(deps Deps) BracketService {
	return &bracketService{engine: newEngine(deps)}
}

func (s *bracketService) GenerateBracket(ctx context.Context, tournamentID int, input GenerateBracketInput) (*models.BracketSnapshot, error) {
	var (
		snapshot *models.BracketSnapshot
		pending  []events.Event
	)

	err := s.Locker.WithLock(ctx, tournamentID, func() error {
		return s.Tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
			var err error
			snapshot, pending, err = s.generate(ctx, exec, tournamentID, input)
			return err
		})
	})
	if err != nil {
		s.logFailure(ctx, "generate_bracket", tournamentID, err)
		return nil, err
	}

	s.Logger.InfoContext(ctx, "Bracket generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("size", snapshot.Size),
		slog.Bool("manual_seeding", len(input.Seeding) > 0),
		slog.String("status", string(snapshot.Tournament.Status)))
	s.publish(ctx, pending)
	return snapshot, nil
}

func (s *bracketService) generate(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, input GenerateBracketInput) (*models.BracketSnapshot, []events.Event, error) {
	t, err := s.Tournaments.GetForUpdate(ctx, exec, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	if t.Status != models.StatusDraft {
		return nil, nil, fmt.Errorf("%w: tournament %d is %s", ErrTournamentNotDraft, t.ID, t.Status)
	}

	existing, err := s.Matches.ListByTournament(ctx, exec, t.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing matches: %w", err)
	}
	if len(existing) > 0 {
		return nil, nil, fmt.Errorf("%w: tournament %d", ErrBracketAlreadyExists, t.ID)
	}

	generator, err := brackets.NewGenerator(t.Type)
	if err != nil {
		return nil, nil, err
	}

	candidates, err := s.candidates(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	slots, err := brackets.ResolveSeeding(candidates, brackets.BracketSize(t.MaxPlayers), input.Seeding)
	if err != nil {
		return nil, nil, err
	}

	b, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{Tournament: t, Slots: slots})
	if err != nil {
		return nil, nil, err
	}

	for _, m := range b.Matches() {
		if err := s.Matches.Create(ctx, exec, m); err != nil {
			return nil, nil, fmt.Errorf("failed to store match round %d slot %d: %w", m.Round, m.Slot, err)
		}
	}
	if err := s.Tournaments.UpdateStatus(ctx, exec, t.ID, models.StatusInProgress); err != nil {
		return nil, nil, fmt.Errorf("failed to start tournament %d: %w", t.ID, err)
	}
	t.Status = models.StatusInProgress

	// Byes can decide the whole bracket, e.g. a single player in a bracket of four.
	var awards []models.RankingAward
	if _, decided := b.Champion(); decided {
		if awards, err = s.finalize(ctx, exec, t, b); err != nil {
			return nil, nil, err
		}
	}

	snapshot := snapshotOf(t, b, awards)
	pending := []events.Event{
		events.New(events.BracketGenerated, t.ID, events.BracketGeneratedPayload{TournamentID: t.ID, Bracket: snapshot}),
	}
	if len(input.Seeding) > 0 {
		pending = append(pending, events.New(events.ManualSeedingCompleted, t.ID, events.ManualSeedingCompletedPayload{
			TournamentID: t.ID,
			Seeding:      input.Seeding,
		}))
	}
	if t.Status == models.StatusFinished {
		pending = append(pending, finishedEvent(t, awards, snapshot))
	}
	return snapshot, pending, nil
}

// candidates returns the eligible players the seeding may draw from.
func (s *bracketService) candidates(ctx context.Context, input GenerateBracketInput) ([]*models.Player, error) {
	var ids []int
	switch {
	case len(input.Seeding) > 0:
		seen := make(map[int]bool, len(input.Seeding))
		for _, a := range input.Seeding {
			if a.PlayerID != nil && !seen[*a.PlayerID] {
				seen[*a.PlayerID] = true
				ids = append(ids, *a.PlayerID)
			}
		}
	case len(input.PlayerIDs) > 0:
		seen := make(map[int]bool, len(input.PlayerIDs))
		for _, id := range input.PlayerIDs {
			if seen[id] {
				return nil, fmt.Errorf("%w: player %d", brackets.ErrDuplicatePlayer, id)
			}
			seen[id] = true
		}
		ids = input.PlayerIDs
	default:
		players, err := s.Players.ListByRole(ctx, models.RolePlayer)
		if err != nil {
			return nil, fmt.Errorf("failed to list players: %w", err)
		}
		return players, nil
	}

	if len(ids) == 0 {
		return nil, brackets.ErrNoPlayers
	}
	players, err := s.Players.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	eligible := brackets.EligiblePlayers(players)

	// Manually seeded players are checked against this list by the resolver.
	if len(input.Seeding) == 0 {
		known := make(map[int]bool, len(eligible))
		for _, p := range eligible {
			known[p.ID] = true
		}
		for _, id := range ids {
			if !known[id] {
				return nil, fmt.Errorf("%w: player %d", brackets.ErrUnknownPlayer, id)
			}
		}
	}
	return eligible, nil
}

// GetBracket reads the current bracket without taking the tournament lock.
func (s *bracketService) GetBracket(ctx context.Context, tournamentID int) (*models.BracketSnapshot, error) {
	var (
		t       *models.Tournament
		matches []*models.Match
		sets    []models.Set
		awards  []models.RankingAward
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		t, err = s.Tournaments.GetByID(gctx, nil, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.Matches.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		sets, err = s.Sets.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		awards, err = s.Awards.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		if !errors.Is(err, ErrTournamentNotFound) {
			s.Logger.ErrorContext(ctx, "Failed to load bracket", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
		return nil, err
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: tournament %d", ErrBracketNotFound, tournamentID)
	}
	attachSets(matches, sets)
	b, err := brackets.Load(tournamentID, matches)
	if err != nil {
		s.logFailure(ctx, "get_bracket", tournamentID, err)
		return nil, err
	}
	if len(awards) == 0 {
		awards = nil
	}
	return snapshotOf(t, b, awards), nil
}
