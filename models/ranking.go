package models

import "time"

// RankingAward is the point delta a player earned in a finished tournament.
// FinishRound is the round the player was eliminated in; the champion gets TotalRounds+1.
type RankingAward struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	PlayerID     int       `json:"player_id" db:"player_id"`
	FinishRound  int       `json:"finish_round" db:"finish_round"`
	Points       int       `json:"points" db:"points"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
