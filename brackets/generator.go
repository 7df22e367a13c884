package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

type GenerateBracketParams struct {
	Tournament *models.Tournament
	Slots      []*int
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error)

	GetName() string
}

// NewGenerator picks the generator for a tournament type.
// Only single elimination is scheduled; the other declared types are rejected.
func NewGenerator(t models.TournamentType) (BracketGenerator, error) {
	switch t {
	case models.TypeElimination:
		return NewSingleEliminationGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBracketType, t)
	}
}
