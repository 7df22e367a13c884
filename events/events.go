// Package events carries engine notifications to collaborators once a state change is committed.
package events

import (
	"context"
	"time"

	"github.com/Dosada05/bracket-engine/models"
)

type Type string

const (
	BracketGenerated       Type = "bracket-generated"
	ManualSeedingCompleted Type = "manual-seeding-completed"
	MatchUpdated           Type = "match-updated"
	TournamentFinished     Type = "tournament-finished"
)

type Event struct {
	Type         Type      `json:"type"`
	TournamentID int       `json:"tournament_id"`
	Payload      any       `json:"payload"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher delivers events. Delivery is best effort: implementations log failures
// and never report them back to the engine.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

type PublisherFunc func(ctx context.Context, ev Event)

func (f PublisherFunc) Publish(ctx context.Context, ev Event) {
	f(ctx, ev)
}

type BracketGeneratedPayload struct {
	TournamentID int                     `json:"tournament_id"`
	Bracket      *models.BracketSnapshot `json:"bracket"`
}

type ManualSeedingCompletedPayload struct {
	TournamentID int                     `json:"tournament_id"`
	Seeding      []models.SeedAssignment `json:"seeding"`
}

type MatchUpdatedPayload struct {
	TournamentID       int            `json:"tournament_id"`
	Match              models.Match   `json:"match"`
	Advanced           []models.Match `json:"advanced,omitempty"`
	TournamentFinished bool           `json:"tournament_finished"`
}

type TournamentFinishedPayload struct {
	TournamentID int                     `json:"tournament_id"`
	ChampionID   int                     `json:"champion_id"`
	Awards       []models.RankingAward   `json:"awards"`
	Bracket      *models.BracketSnapshot `json:"bracket,omitempty"`
}

func New(t Type, tournamentID int, payload any) Event {
	return Event{Type: t, TournamentID: tournamentID, Payload: payload, OccurredAt: time.Now().UTC()}
}
