package models

import "time"

// TournamentType is the declared format. Only TypeElimination is scheduled by the engine.
type TournamentType string

const (
	TypeElimination       TournamentType = "elimination"
	TypeDoubleElimination TournamentType = "double_elimination"
	TypeRoundRobin        TournamentType = "round_robin"
	TypeGroupsElimination TournamentType = "groups_elimination"
)

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusDraft      TournamentStatus = "draft"
	StatusInProgress TournamentStatus = "in_progress"
	StatusPaused     TournamentStatus = "paused"
	StatusFinished   TournamentStatus = "finished"
)

type Tournament struct {
	ID           int              `json:"id" db:"id"`
	Name         string           `json:"name" db:"name"`
	Type         TournamentType   `json:"type" db:"type"`
	MaxPlayers   int              `json:"max_players" db:"max_players"`
	SetsPerMatch int              `json:"sets_per_match" db:"sets_per_match"`
	Status       TournamentStatus `json:"status" db:"status"`
	ChampionID   *int             `json:"champion_id,omitempty" db:"champion_id"`
	FinishedAt   *time.Time       `json:"finished_at,omitempty" db:"finished_at"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}

// SetsToWin is the number of set wins that decides a match: 3 sets per match means 2,
// 4 sets per match means 2.
func (t Tournament) SetsToWin() int {
	return SetsToWinFor(t.SetsPerMatch)
}

func SetsToWinFor(setsPerMatch int) int {
	if setsPerMatch < 1 {
		setsPerMatch = 1
	}
	return (setsPerMatch + 1) / 2
}
