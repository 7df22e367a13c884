package models

import "time"

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusFinished   MatchStatus = "finished"
)

// SetStatus is stored per set; sets are only written once scored.
type SetStatus string

const SetStatusFinished SetStatus = "finished"

type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Round        int         `json:"round" db:"round"`
	Slot         int         `json:"slot" db:"slot"`
	Player1ID    *int        `json:"player1_id,omitempty" db:"player1_id"`
	Player2ID    *int        `json:"player2_id,omitempty" db:"player2_id"`
	WinnerID     *int        `json:"winner_id,omitempty" db:"winner_id"`
	Status       MatchStatus `json:"status" db:"status"`
	Player1Sets  int         `json:"player1_sets" db:"player1_sets"`
	Player2Sets  int         `json:"player2_sets" db:"player2_sets"`
	SetsToWin    int         `json:"sets_to_win" db:"sets_to_win"`
	IsWalkover   bool        `json:"is_walkover" db:"is_walkover"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`

	Sets []Set `json:"sets" db:"-"`
}

type Set struct {
	ID           int       `json:"id" db:"id"`
	MatchID      int       `json:"match_id" db:"match_id"`
	Number       int       `json:"number" db:"number"`
	Player1Score int       `json:"player1_score" db:"player1_score"`
	Player2Score int       `json:"player2_score" db:"player2_score"`
	WinnerID     *int      `json:"winner_id,omitempty" db:"winner_id"`
	Status       SetStatus `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (m *Match) IsFinished() bool {
	return m.Status == MatchStatusFinished
}

// IsReady reports whether both sides have a player assigned.
func (m *Match) IsReady() bool {
	return m.Player1ID != nil && m.Player2ID != nil
}

// Feeds returns the round, slot and side (1 or 2) this match's winner moves into.
func (m *Match) Feeds() (round, slot, side int) {
	side = 2
	if m.Slot%2 == 1 {
		side = 1
	}
	return m.Round + 1, (m.Slot + 1) / 2, side
}

// HasPlayer reports whether id occupies either side.
func (m *Match) HasPlayer(id int) bool {
	return (m.Player1ID != nil && *m.Player1ID == id) || (m.Player2ID != nil && *m.Player2ID == id)
}
