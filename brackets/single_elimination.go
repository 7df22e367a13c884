package brackets

import (
	"context"
	"fmt"
	"math/bits"
	"sort"

	"github.com/Dosada05/bracket-engine/models"
)

type matchKey struct {
	round int
	slot  int
}

// Bracket is the in-memory match tree of one single elimination tournament.
// It is not safe for concurrent use; callers serialize access per tournament.
type Bracket struct {
	TournamentID int
	Size         int
	TotalRounds  int

	matches map[matchKey]*models.Match
}

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	if params.Tournament == nil {
		return nil, fmt.Errorf("single elimination: tournament is required")
	}
	return Build(params.Tournament.ID, params.Tournament.SetsToWin(), params.Slots)
}

func newBracket(tournamentID, size int) *Bracket {
	return &Bracket{
		TournamentID: tournamentID,
		Size:         size,
		TotalRounds:  bits.TrailingZeros(uint(size)),
		matches:      make(map[matchKey]*models.Match, size-1),
	}
}

// Build creates every match of the bracket from seeded slots. Slot 2i-1 meets slot 2i
// in round 1; later rounds start empty. Walkovers caused by byes are resolved and
// propagated before Build returns, across as many rounds as they reach.
func Build(tournamentID, setsToWin int, slots []*int) (*Bracket, error) {
	size := len(slots)
	if !isValidSize(size) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBracketSize, size)
	}

	b := newBracket(tournamentID, size)
	for r := 1; r <= b.TotalRounds; r++ {
		for s := 1; s <= b.matchesInRound(r); s++ {
			m := &models.Match{
				TournamentID: tournamentID,
				Round:        r,
				Slot:         s,
				Status:       models.MatchStatusPending,
				SetsToWin:    setsToWin,
				Sets:         []models.Set{},
			}
			if r == 1 {
				m.Player1ID = copyID(slots[2*s-2])
				m.Player2ID = copyID(slots[2*s-1])
			}
			b.matches[matchKey{r, s}] = m
		}
	}

	for s := 1; s <= b.matchesInRound(1); s++ {
		m := b.Match(1, s)
		if !b.resolveWalkover(m) {
			continue
		}
		if _, err := b.Advance(m); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Load rebuilds a bracket from persisted matches and checks that the tree is complete.
func Load(tournamentID int, matches []*models.Match) (*Bracket, error) {
	size := len(matches) + 1
	if !isValidSize(size) {
		return nil, fmt.Errorf("%w: tournament %d has %d matches", ErrBracketCorruption, tournamentID, len(matches))
	}

	b := newBracket(tournamentID, size)
	for _, m := range matches {
		if m.Round < 1 || m.Round > b.TotalRounds || m.Slot < 1 || m.Slot > b.matchesInRound(m.Round) {
			return nil, fmt.Errorf("%w: match %d at round %d slot %d is outside the tree", ErrBracketCorruption, m.ID, m.Round, m.Slot)
		}
		k := matchKey{m.Round, m.Slot}
		if _, dup := b.matches[k]; dup {
			return nil, fmt.Errorf("%w: two matches at round %d slot %d", ErrBracketCorruption, m.Round, m.Slot)
		}
		b.matches[k] = m
	}
	return b, nil
}

func (b *Bracket) matchesInRound(round int) int {
	return b.Size >> uint(round)
}

func (b *Bracket) Match(round, slot int) *models.Match {
	return b.matches[matchKey{round, slot}]
}

func (b *Bracket) MatchByID(id int) *models.Match {
	for _, m := range b.matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (b *Bracket) Final() *models.Match {
	return b.Match(b.TotalRounds, 1)
}

// Matches returns all matches ordered by round, then slot.
func (b *Bracket) Matches() []*models.Match {
	all := make([]*models.Match, 0, len(b.matches))
	for _, m := range b.matches {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Round != all[j].Round {
			return all[i].Round < all[j].Round
		}
		return all[i].Slot < all[j].Slot
	})
	return all
}

func (b *Bracket) Rounds() []models.BracketRound {
	rounds := make([]models.BracketRound, b.TotalRounds)
	for i := range rounds {
		rounds[i] = models.BracketRound{Number: i + 1, Matches: make([]models.Match, 0, b.matchesInRound(i+1))}
	}
	for _, m := range b.Matches() {
		rounds[m.Round-1].Matches = append(rounds[m.Round-1].Matches, *m)
	}
	return rounds
}

// sideDecided reports whether the given side can no longer change: round 1 sides are
// fixed by seeding, later sides are fixed once the feeding match has finished.
func (b *Bracket) sideDecided(m *models.Match, side int) bool {
	if m.Round == 1 {
		return true
	}
	feeder := b.Match(m.Round-1, 2*m.Slot-2+side)
	return feeder != nil && feeder.IsFinished()
}

// resolveWalkover finishes m without play when both sides are decided and at most one
// holds a player. A match with no player at all finishes without a winner and passes
// the bye on. Reports whether m was finished.
func (b *Bracket) resolveWalkover(m *models.Match) bool {
	if m.IsFinished() || !b.sideDecided(m, 1) || !b.sideDecided(m, 2) {
		return false
	}

	var winner *int
	switch {
	case m.Player1ID != nil && m.Player2ID != nil:
		return false
	case m.Player1ID != nil:
		winner = m.Player1ID
	case m.Player2ID != nil:
		winner = m.Player2ID
	}

	m.Status = models.MatchStatusFinished
	m.WinnerID = copyID(winner)
	m.IsWalkover = true
	return true
}
