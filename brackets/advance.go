package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

// Advance moves the winner of a finished match into the next round and resolves any
// walkovers that unlocks, following the chain with a work queue rather than recursion.
// It returns the matches it changed in the order they were changed. The final feeds
// nothing, so advancing it is a no-op.
func (b *Bracket) Advance(from *models.Match) ([]*models.Match, error) {
	if from == nil || !from.IsFinished() {
		return nil, fmt.Errorf("%w: cannot advance from an undecided match", ErrBracketCorruption)
	}

	var touched []*models.Match
	seen := make(map[matchKey]bool)
	queue := []*models.Match{from}

	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		if m.Round >= b.TotalRounds {
			continue
		}

		round, slot, side := m.Feeds()
		dest := b.Match(round, slot)
		if dest == nil {
			return touched, fmt.Errorf("%w: no match at round %d slot %d to receive the winner of round %d slot %d",
				ErrBracketCorruption, round, slot, m.Round, m.Slot)
		}
		if err := place(dest, side, m.WinnerID); err != nil {
			return touched, err
		}

		k := matchKey{dest.Round, dest.Slot}
		if !seen[k] {
			seen[k] = true
			touched = append(touched, dest)
		}
		if b.resolveWalkover(dest) {
			queue = append(queue, dest)
		}
	}
	return touched, nil
}

// place writes winner into one side of dest. A nil winner leaves the side empty,
// which marks it as a bye once the feeding match is finished.
func place(dest *models.Match, side int, winner *int) error {
	target := &dest.Player1ID
	if side == 2 {
		target = &dest.Player2ID
	}

	current := *target
	switch {
	case current == nil && winner == nil:
		return nil
	case current == nil && !dest.IsFinished():
		*target = copyID(winner)
		return nil
	case current != nil && winner != nil && *current == *winner:
		return nil
	}
	return fmt.Errorf("%w: round %d slot %d side %d already holds %s, refusing %s",
		ErrBracketCorruption, dest.Round, dest.Slot, side, describeID(current), describeID(winner))
}

func describeID(id *int) string {
	if id == nil {
		return "no player"
	}
	return fmt.Sprintf("player %d", *id)
}
