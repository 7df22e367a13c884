package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/bracket-engine/models"
)

// BracketSize returns the smallest power of two that fits maxPlayers.
func BracketSize(maxPlayers int) int {
	size := 1
	for size < maxPlayers {
		size <<= 1
	}
	return size
}

func isValidSize(n int) bool {
	return n >= 2 && n&(n-1) == 0
}

// EligiblePlayers keeps only players with the Jugador role.
func EligiblePlayers(players []*models.Player) []*models.Player {
	eligible := make([]*models.Player, 0, len(players))
	for _, p := range players {
		if p != nil && p.Role == models.RolePlayer {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// ResolveSeeding turns candidates into exactly size slots, index i holding position i+1.
// A nil slot is a bye. With no manual assignment candidates are ordered by ranking
// ascending (unranked last) and the tail positions become byes.
func ResolveSeeding(candidates []*models.Player, size int, manual []models.SeedAssignment) ([]*int, error) {
	if !isValidSize(size) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBracketSize, size)
	}
	if len(candidates) == 0 {
		return nil, ErrNoPlayers
	}

	known := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		if known[c.ID] {
			return nil, fmt.Errorf("%w: player %d", ErrDuplicatePlayer, c.ID)
		}
		known[c.ID] = true
	}
	if len(candidates) > size {
		return nil, fmt.Errorf("%w: %d players for %d positions", ErrTooManyPlayers, len(candidates), size)
	}

	if len(manual) > 0 {
		return resolveManual(known, size, manual)
	}

	ordered := make([]*models.Player, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].Ranking, ordered[j].Ranking
		switch {
		case a != nil && b != nil && *a != *b:
			return *a < *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return ordered[i].ID < ordered[j].ID
	})

	slots := make([]*int, size)
	for i, p := range ordered {
		slots[i] = copyID(&p.ID)
	}
	return slots, nil
}

func resolveManual(known map[int]bool, size int, manual []models.SeedAssignment) ([]*int, error) {
	slots := make([]*int, size)
	filled := make([]bool, size)
	placed := make(map[int]int, len(manual))

	for _, a := range manual {
		if a.Position < 1 || a.Position > size || filled[a.Position-1] {
			return nil, fmt.Errorf("%w: position %d", ErrInvalidSeedPosition, a.Position)
		}
		filled[a.Position-1] = true
		if a.PlayerID == nil {
			continue
		}
		id := *a.PlayerID
		if !known[id] {
			return nil, fmt.Errorf("%w: player %d", ErrUnknownPlayer, id)
		}
		if prev, ok := placed[id]; ok {
			return nil, fmt.Errorf("%w: player %d at positions %d and %d", ErrDuplicatePlayer, id, prev, a.Position)
		}
		placed[id] = a.Position
		slots[a.Position-1] = copyID(&id)
	}

	for i, ok := range filled {
		if !ok {
			return nil, fmt.Errorf("%w: position %d is empty", ErrIncompleteSeeding, i+1)
		}
	}
	return slots, nil
}

func copyID(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
