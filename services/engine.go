package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/events"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
)

// Deps collects what the bracket, match and completion services share.
type Deps struct {
	Tx          repositories.Transactor
	Tournaments repositories.TournamentRepository
	Players     repositories.PlayerRepository
	Matches     repositories.MatchRepository
	Sets        repositories.SetRepository
	Awards      repositories.RankingAwardRepository
	Locker      *TournamentLocker
	Points      brackets.PointsFunc
	Publisher   events.Publisher
	Logger      *slog.Logger
	Now         func() time.Time
}

type engine struct {
	Deps
}

func newEngine(d Deps) engine {
	if d.Locker == nil {
		d.Locker = NewTournamentLocker(0)
	}
	if d.Points == nil {
		d.Points = brackets.DefaultPoints()
	}
	if d.Publisher == nil {
		d.Publisher = events.PublisherFunc(func(context.Context, events.Event) {})
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return engine{Deps: d}
}

// loadBracket reads every match of the tournament with its sets and rebuilds the tree.
func (e *engine) loadBracket(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (*brackets.Bracket, error) {
	matches, err := e.Matches.ListByTournament(ctx, exec, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: tournament %d", ErrBracketNotFound, tournamentID)
	}
	sets, err := e.Sets.ListByTournament(ctx, exec, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sets: %w", err)
	}
	attachSets(matches, sets)

	b, err := brackets.Load(tournamentID, matches)
	if err != nil {
		e.Logger.ErrorContext(ctx, "Stored bracket is inconsistent",
			slog.Int("tournament_id", tournamentID), slog.Int("matches", len(matches)), slog.Any("error", err))
		return nil, err
	}
	return b, nil
}

func attachSets(matches []*models.Match, sets []models.Set) {
	byMatch := make(map[int][]models.Set, len(matches))
	for _, s := range sets {
		byMatch[s.MatchID] = append(byMatch[s.MatchID], s)
	}
	for _, m := range matches {
		m.Sets = byMatch[m.ID]
		if m.Sets == nil {
			m.Sets = []models.Set{}
		}
	}
}

// finalize closes the tournament once its final is decided: the champion is stored,
// awards are computed and persisted, and t is updated in place.
func (e *engine) finalize(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, b *brackets.Bracket) ([]models.RankingAward, error) {
	champion, ok := b.Champion()
	if !ok {
		return nil, brackets.ErrBracketNotFinished
	}
	if champion == nil {
		return nil, fmt.Errorf("%w: final of tournament %d finished without a winner", brackets.ErrBracketCorruption, t.ID)
	}

	awards, err := b.Standings(e.Points)
	if err != nil {
		return nil, err
	}

	finishedAt := e.Now().UTC()
	if err := e.Tournaments.MarkFinished(ctx, exec, t.ID, *champion, finishedAt); err != nil {
		return nil, fmt.Errorf("failed to mark tournament %d finished: %w", t.ID, err)
	}
	if err := e.Awards.BatchCreate(ctx, exec, awards); err != nil {
		return nil, fmt.Errorf("failed to store ranking awards: %w", err)
	}

	t.Status = models.StatusFinished
	t.ChampionID = champion
	t.FinishedAt = &finishedAt
	return awards, nil
}

func snapshotOf(t *models.Tournament, b *brackets.Bracket, awards []models.RankingAward) *models.BracketSnapshot {
	return &models.BracketSnapshot{
		Tournament:  *t,
		Size:        b.Size,
		TotalRounds: b.TotalRounds,
		Rounds:      b.Rounds(),
		Awards:      awards,
	}
}

func finishedEvent(t *models.Tournament, awards []models.RankingAward, snapshot *models.BracketSnapshot) events.Event {
	return events.New(events.TournamentFinished, t.ID, events.TournamentFinishedPayload{
		TournamentID: t.ID,
		ChampionID:   *t.ChampionID,
		Awards:       awards,
		Bracket:      snapshot,
	})
}

// publish runs after the tournament lock is released.
func (e *engine) publish(ctx context.Context, evs []events.Event) {
	for _, ev := range evs {
		e.Publisher.Publish(ctx, ev)
	}
}

var rejections = []error{
	ErrTournamentNotFound, ErrMatchNotFound, ErrBracketNotFound,
	ErrBracketAlreadyExists, ErrTournamentNotDraft, ErrTournamentNotInProgress,
	brackets.ErrNoPlayers, brackets.ErrTooManyPlayers, brackets.ErrDuplicatePlayer,
	brackets.ErrIncompleteSeeding, brackets.ErrInvalidSeedPosition, brackets.ErrUnknownPlayer,
	brackets.ErrNoSets, brackets.ErrTiedSetScore, brackets.ErrNegativeScore, brackets.ErrWinnerMismatch,
	brackets.ErrMatchAlreadyFinished, brackets.ErrMatchNotReady, brackets.ErrUnsupportedBracketType,
}

// IsRejection reports whether err is an expected refusal of the request rather than a failure.
func IsRejection(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (e *engine) logFailure(ctx context.Context, op string, tournamentID int, err error) {
	attrs := []any{slog.String("operation", op), slog.Int("tournament_id", tournamentID), slog.Any("error", err)}
	switch {
	case errors.Is(err, brackets.ErrBracketCorruption):
		e.Logger.ErrorContext(ctx, "Bracket integrity failure", attrs...)
	case errors.Is(err, brackets.ErrInvalidBracketSize):
		e.Logger.ErrorContext(ctx, "Tournament bracket misconfigured", attrs...)
	case errors.Is(err, ErrTournamentBusy):
		e.Logger.WarnContext(ctx, "Tournament busy", attrs...)
	case IsRejection(err):
		e.Logger.InfoContext(ctx, "Operation rejected", attrs...)
	default:
		e.Logger.ErrorContext(ctx, "Operation failed", attrs...)
	}
}
