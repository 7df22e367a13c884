package brackets

import "errors"

// Input validation errors. Safe to retry with corrected input.
var (
	ErrNoPlayers           = errors.New("no eligible players to seed")
	ErrTooManyPlayers      = errors.New("more players than bracket positions")
	ErrDuplicatePlayer     = errors.New("player occupies more than one bracket position")
	ErrIncompleteSeeding   = errors.New("manual seeding must cover every bracket position")
	ErrInvalidSeedPosition = errors.New("seed position is out of range or repeated")
	ErrUnknownPlayer       = errors.New("seeded player is not an eligible candidate")
	ErrNoSets              = errors.New("at least one set result is required")
	ErrTiedSetScore        = errors.New("set scores cannot be tied")
	ErrNegativeScore       = errors.New("set scores cannot be negative")
	ErrWinnerMismatch      = errors.New("declared winner does not match the set results")
)

// State conflicts. The caller should refresh before retrying.
var (
	ErrMatchAlreadyFinished   = errors.New("match is already finished")
	ErrMatchNotReady          = errors.New("match does not have both players assigned")
	ErrBracketNotFinished     = errors.New("final match has not been decided")
	ErrUnsupportedBracketType = errors.New("tournament type cannot be scheduled as a bracket")
)

// Structural errors. Never patched over.
var (
	ErrInvalidBracketSize = errors.New("bracket size must be a power of two and at least 2")
	ErrBracketCorruption  = errors.New("bracket structure is corrupted")
)
