package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

// SetScore is one submitted set, points for side 1 and side 2.
type SetScore struct {
	Player1Score int `json:"player1_score"`
	Player2Score int `json:"player2_score"`
}

type ResultOutcome struct {
	// Recorded holds the sets accepted into the match, in play order.
	Recorded []models.Set
	// Discarded counts sets submitted after the deciding one.
	Discarded int
	Finished  bool
}

// ValidateSetScores rejects a batch before anything is applied.
func ValidateSetScores(scores []SetScore) error {
	if len(scores) == 0 {
		return ErrNoSets
	}
	for i, sc := range scores {
		if sc.Player1Score == sc.Player2Score {
			return fmt.Errorf("%w: set %d is %d-%d", ErrTiedSetScore, i+1, sc.Player1Score, sc.Player2Score)
		}
		if sc.Player1Score < 0 || sc.Player2Score < 0 {
			return fmt.Errorf("%w: set %d is %d-%d", ErrNegativeScore, i+1, sc.Player1Score, sc.Player2Score)
		}
	}
	return nil
}

// RecordSets applies scores to m in order. When a side reaches the match's sets-to-win
// the match is finished and the remaining scores are dropped. If declaredWinner is set,
// the batch must decide the match in that player's favour. On error m is left untouched.
func RecordSets(m *models.Match, scores []SetScore, declaredWinner *int) (*ResultOutcome, error) {
	if err := ValidateSetScores(scores); err != nil {
		return nil, err
	}
	if m.IsFinished() {
		return nil, fmt.Errorf("%w: match %d", ErrMatchAlreadyFinished, m.ID)
	}
	if !m.IsReady() {
		return nil, fmt.Errorf("%w: match %d", ErrMatchNotReady, m.ID)
	}

	setsToWin := m.SetsToWin
	if setsToWin < 1 {
		setsToWin = 1
	}

	next := *m
	next.Sets = append([]models.Set(nil), m.Sets...)
	out := &ResultOutcome{}

	for i, sc := range scores {
		set := models.Set{
			MatchID:      m.ID,
			Number:       len(next.Sets) + 1,
			Player1Score: sc.Player1Score,
			Player2Score: sc.Player2Score,
			Status:       models.SetStatusFinished,
		}
		if sc.Player1Score > sc.Player2Score {
			set.WinnerID = copyID(next.Player1ID)
			next.Player1Sets++
		} else {
			set.WinnerID = copyID(next.Player2ID)
			next.Player2Sets++
		}
		next.Sets = append(next.Sets, set)
		out.Recorded = append(out.Recorded, set)

		if next.Player1Sets >= setsToWin || next.Player2Sets >= setsToWin {
			next.Status = models.MatchStatusFinished
			if next.Player1Sets > next.Player2Sets {
				next.WinnerID = copyID(next.Player1ID)
			} else {
				next.WinnerID = copyID(next.Player2ID)
			}
			out.Finished = true
			out.Discarded = len(scores) - i - 1
			break
		}
	}

	if !out.Finished {
		next.Status = models.MatchStatusInProgress
	}
	if declaredWinner != nil && (!out.Finished || *next.WinnerID != *declaredWinner) {
		return nil, fmt.Errorf("%w: declared player %d", ErrWinnerMismatch, *declaredWinner)
	}

	*m = next
	return out, nil
}
