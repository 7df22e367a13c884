package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/bracket-engine/models"
)

// PointsFunc maps the round a player went out in to ranking points.
// The champion is passed finishRound = totalRounds+1.
type PointsFunc func(finishRound, totalRounds int) int

// DefaultPointsTable is champion, runner-up, semi-finalist, quarter-finalist, then everyone else.
var DefaultPointsTable = []int{100, 70, 45, 25, 10}

// PointsTable builds a PointsFunc from points ordered by distance from the title:
// index 0 is the champion, index 1 the losing finalist and so on. The last entry
// covers every earlier round.
func PointsTable(points []int) PointsFunc {
	table := append([]int(nil), points...)
	return func(finishRound, totalRounds int) int {
		if len(table) == 0 {
			return 0
		}
		depth := totalRounds + 1 - finishRound
		if depth < 0 {
			depth = 0
		}
		if depth >= len(table) {
			depth = len(table) - 1
		}
		return table[depth]
	}
}

func DefaultPoints() PointsFunc {
	return PointsTable(DefaultPointsTable)
}

// Champion returns the winner of the final once it is decided.
func (b *Bracket) Champion() (*int, bool) {
	final := b.Final()
	if final == nil || !final.IsFinished() {
		return nil, false
	}
	return copyID(final.WinnerID), true
}

// Standings computes the ranking award of every player who took part in a decided bracket.
// Awards are ordered by finish (champion first), then by player ID.
func (b *Bracket) Standings(points PointsFunc) ([]models.RankingAward, error) {
	champion, ok := b.Champion()
	if !ok {
		return nil, ErrBracketNotFinished
	}
	if champion == nil {
		return nil, fmt.Errorf("%w: final finished without a winner", ErrBracketCorruption)
	}
	if points == nil {
		points = DefaultPoints()
	}

	finish := map[int]int{*champion: b.TotalRounds + 1}
	for _, m := range b.matches {
		if !m.IsFinished() || m.WinnerID == nil {
			continue
		}
		for _, p := range []*int{m.Player1ID, m.Player2ID} {
			if p != nil && *p != *m.WinnerID {
				finish[*p] = m.Round
			}
		}
	}

	awards := make([]models.RankingAward, 0, len(finish))
	for playerID, round := range finish {
		awards = append(awards, models.RankingAward{
			TournamentID: b.TournamentID,
			PlayerID:     playerID,
			FinishRound:  round,
			Points:       points(round, b.TotalRounds),
		})
	}
	sort.Slice(awards, func(i, j int) bool {
		if awards[i].FinishRound != awards[j].FinishRound {
			return awards[i].FinishRound > awards[j].FinishRound
		}
		return awards[i].PlayerID < awards[j].PlayerID
	})
	return awards, nil
}
