package models

// PlayerRole mirrors the role column owned by the players service.
type PlayerRole string

const (
	RolePlayer  PlayerRole = "Jugador"
	RoleReferee PlayerRole = "Arbitro"
	RoleAdmin   PlayerRole = "Administrador"
)

// Player carries only the fields the bracket engine needs for seeding.
type Player struct {
	ID      int        `json:"id" db:"id"`
	Name    string     `json:"name" db:"name"`
	Ranking *int       `json:"ranking,omitempty" db:"ranking"` // lower is better, nil means unranked
	Role    PlayerRole `json:"role" db:"role"`
}

// SeedAssignment places a player at a 1-based bracket position.
// A nil PlayerID declares the position as a bye.
type SeedAssignment struct {
	Position int  `json:"position"`
	PlayerID *int `json:"player_id"`
}
