package services

import (
	"context"
	"testing"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/events"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBracket_SeedsByRankingAndStartsTournament(t *testing.T) {
	f := newFixture()
	tour := f.store.addTournament(models.Tournament{Name: "Open", MaxPlayers: 8})
	f.store.addPlayer(1, intPtr(3), models.RolePlayer)
	f.store.addPlayer(2, nil, models.RolePlayer)
	f.store.addPlayer(3, intPtr(1), models.RolePlayer)
	f.store.addPlayer(4, intPtr(2), models.RolePlayer)
	f.store.addPlayer(5, intPtr(4), models.RolePlayer)
	f.store.addPlayer(9, intPtr(1), models.RoleReferee)

	snap, err := f.brackets.GenerateBracket(context.Background(), tour.ID, GenerateBracketInput{})
	require.NoError(t, err)

	assert.Equal(t, 8, snap.Size)
	assert.Equal(t, 3, snap.TotalRounds)
	assert.Equal(t, models.StatusInProgress, snap.Tournament.Status)
	assert.Equal(t, models.StatusInProgress, f.store.tournament(tour.ID).Status)

	matches, _, _ := f.store.counts()
	assert.Equal(t, 7, matches)

	first := snap.Rounds[0].Matches
	require.Len(t, first, 4)
	assert.Equal(t, 3, *first[0].Player1ID)
	assert.Equal(t, 4, *first[0].Player2ID)
	assert.Equal(t, 1, *first[1].Player1ID)
	assert.Equal(t, 5, *first[1].Player2ID)
	assert.Equal(t, 2, *first[2].Player1ID)
	assert.Nil(t, first[2].Player2ID)
	assert.True(t, first[2].IsWalkover)
	assert.Equal(t, 2, *first[2].WinnerID)
	assert.True(t, first[3].IsWalkover)
	assert.Nil(t, first[3].WinnerID)

	for _, m := range snap.Rounds[0].Matches {
		assert.Equal(t, 2, m.SetsToWin)
	}
	assert.Equal(t, []events.Type{events.BracketGenerated}, f.events.types())
}

func TestGenerateBracket_MatchCountIsSizeMinusOne(t *testing.T) {
	for _, size := range []int{2, 4, 8, 16, 32} {
		f := newFixture()
		tour := f.store.addTournament(models.Tournament{MaxPlayers: size})
		ids := make([]int, size)
		for i := range ids {
			ids[i] = i + 1
		}
		f.seedPlayers(ids...)

		snap, err := f.brackets.GenerateBracket(context.Background(), tour.ID, GenerateBracketInput{})
		require.NoError(t, err, "size %d", size)

		total := 0
		for _, r := range snap.Rounds {
			total += len(r.Matches)
		}
		assert.Equal(t, size-1, total, "size %d", size)
	}
}

func TestGenerateBracket_SinglePlayerFinishesAtGeneration(t *testing.T) {
	f := newFixture()
	tour := f.store.addTournament(models.Tournament{MaxPlayers: 4})
	f.seedPlayers(7)

	snap, err := f.brackets.GenerateBracket(context.Background(), tour.ID, GenerateBracketInput{})
	require.NoError(t, err)

	stored := f.store.tournament(tour.ID)
	assert.Equal(t, models.StatusFinished, stored.Status)
	require.NotNil(t, stored.ChampionID)
	assert.Equal(t, 7, *stored.ChampionID)

	for _, r := range snap.Rounds {
		for _, m := range r.Matches {
			assert.Equal(t, models.MatchStatusFinished, m.Status, "round %d slot %d", m.Round, m.Slot)
		}
	}
	require.Len(t, snap.Awards, 1)
	assert.Equal(t, 100, snap.Awards[0].Points)
	assert.Equal(t, []events.Type{events.BracketGenerated, events.TournamentFinished}, f.events.types())
}

func TestGenerateBracket_TwoPlayersInFourNeverDeadlock(t *testing.T) {
	f := newFixture()
	tour := f.store.addTournament(models.Tournament{MaxPlayers: 4})
	f.seedPlayers(1, 2)

	snap, err := f.brackets.GenerateBracket(context.Background(), tour.ID, GenerateBracketInput{})
	require.NoError(t, err)

	final := snap.Rounds[1].Matches[0]
	require.True(t, final.IsReady())
	assert.Equal(t, models.MatchStatusPending, final.Status)
	assert.Equal(t, 1, *final.Player1ID)
	assert.Equal(t, 2, *final.Player2ID)
}

func TestGenerateBracket_ManualSeeding(t *testing.T) {
	f := newFixture()
	tour := f.store.addTournament(models.Tournament{MaxPlayers: 4})
	f.seedPlayers(1, 2, 3)

	seeding := []models.SeedAssignment{
		{Position: 1, PlayerID: intPtr(3)},
		{Position: 2, PlayerID: intPtr(1)},
		{Position: 3, PlayerID: intPtr(2)},
		{Position: 4, PlayerID: nil},
	}
	snap, err := f.brackets.GenerateBracket(context.Background(), tour.ID, GenerateBracketInput{Seeding: seeding})
	require.NoError(t, err)

	first := snap.Rounds[0].Matches
	assert.Equal(t, 3, *first[0].Player1ID)
	assert.Equal(t, 1, *first[0].Player2ID)
	assert.Equal(t, 2, *first[1].WinnerID)
	assert.Equal(t, 2, *snap.Rounds[1].Matches[0].Player2ID)
	assert.Equal(t, []events.Type{events.BracketGenerated, events.ManualSeedingCompleted}, f.events.types())
}

func TestGenerateBracket_RejectionsPersistNothing(t *testing.T) {
	tests := []struct {
		name       string
		maxPlayers int
		players    []int
		input      GenerateBracketInput
		wantErr    error
	}{
		{name: "no players", maxPlayers: 4, wantErr: brackets.ErrNoPlayers},
		{name: "too many players", maxPlayers: 2, players: []int{1, 2, 3}, wantErr: brackets.ErrTooManyPlayers},
		{name: "duplicate requested player", maxPlayers: 4, players: []int{1, 2}, input: GenerateBracketInput{PlayerIDs: []int{1, 1}}, wantErr: brackets.ErrDuplicatePlayer},
		{name: "unknown requested player", maxPlayers: 4, players: []int{1, 2}, input: GenerateBracketInput{PlayerIDs: []int{1, 99}}, wantErr: brackets.ErrUnknownPlayer},
		{
			name: "incomplete manual seeding", maxPlayers: 4, players: []int{1, 2},
			input:   GenerateBracketInput{Seeding: []models.SeedAssignment{{Position: 1, PlayerID: intPtr(1)}, {Position: 2, PlayerID: intPtr(2)}}},
			wantErr: brackets.ErrIncompleteSeeding,
		},
		{
			name: "player seeded twice", maxPlayers: 2, players: []int{1, 2},
			input:   GenerateBracketInput{Seeding: []models.SeedAssignment{{Position: 1, PlayerID: intPtr(1)}, {Position: 2, PlayerID: intPtr(1)}}},
			wantErr: brackets.ErrDuplicatePlayer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tour := f.store.addTournament(models.Tournament{MaxPlayers: tt.maxPlayers})
			f.seedPlayers(tt.players...)

			_, err := f.brackets.GenerateBracket(context.Background(), tour.ID, tt.input)
			require.ErrorIs(t, err, tt.wantErr)

			matches, sets, awards := f.store.counts()
			assert.Zero(t, matches)
			assert.Zero(t, sets)
			assert.Zero(t, awards)
			assert.Equal(t, models.StatusDraft, f.store.tournament(tour.ID).Status)
			assert.Empty(t, f.events.types())
		})
	}
}

func TestGenerateBracket_StateConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.brackets.GenerateBracket(ctx, 404, GenerateBracketInput{})
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	paused := f.store.addTournament(models.Tournament{MaxPlayers: 4, Status: models.StatusPaused})
	_, err = f.brackets.GenerateBracket(ctx, paused.ID, GenerateBracketInput{})
	assert.ErrorIs(t, err, ErrTournamentNotDraft)

	rr := f.store.addTournament(models.Tournament{MaxPlayers: 4, Type: models.TypeRoundRobin})
	f.seedPlayers(1, 2)
	_, err = f.brackets.GenerateBracket(ctx, rr.ID, GenerateBracketInput{})
	assert.ErrorIs(t, err, brackets.ErrUnsupportedBracketType)

	tour := f.store.addTournament(models.Tournament{MaxPlayers: 4})
	_, err = f.brackets.GenerateBracket(ctx, tour.ID, GenerateBracketInput{})
	require.NoError(t, err)
	_, err = f.brackets.GenerateBracket(ctx, tour.ID, GenerateBracketInput{})
	assert.ErrorIs(t, err, ErrTournamentNotDraft)
}

func TestGenerateBracket_InvalidBracketSizeIsNotARejection(t *testing.T) {
	f := newFixture()
	tour := f.store.addTournament(models.Tournament{MaxPlayers: 1})
	f.seedPlayers(1)

	_, err := f.brackets.GenerateBracket(context.Background(), tour.ID, GenerateBracketInput{})
	require.ErrorIs(t, err, brackets.ErrInvalidBracketSize)
	assert.False(t, IsRejection(err))

	matches, _, _ := f.store.counts()
	assert.Zero(t, matches)
	assert.Equal(t, models.StatusDraft, f.store.tournament(tour.ID).Status)
	assert.Empty(t, f.events.types())

	logged := f.logs.String()
	assert.Contains(t, logged, `"level":"ERROR"`)
	assert.Contains(t, logged, "Tournament bracket misconfigured")
}

func TestGenerateBracket_AwardFailureRollsBack(t *testing.T) {
	f := newFixture()
	tour := f.store.addTournament(models.Tournament{MaxPlayers: 2})
	f.seedPlayers(1)
	f.store.failAwardInsert = errInjected

	_, err := f.brackets.GenerateBracket(context.Background(), tour.ID, GenerateBracketInput{})
	require.ErrorIs(t, err, errInjected)

	matches, _, _ := f.store.counts()
	assert.Zero(t, matches)
	assert.Equal(t, models.StatusDraft, f.store.tournament(tour.ID).Status)
	assert.Empty(t, f.events.types())
}

func TestGetBracket(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tour := f.store.addTournament(models.Tournament{MaxPlayers: 4})
	f.seedPlayers(1, 2, 3, 4)

	_, err := f.brackets.GetBracket(ctx, tour.ID)
	assert.ErrorIs(t, err, ErrBracketNotFound)

	_, err = f.brackets.GetBracket(ctx, 404)
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	generated, err := f.brackets.GenerateBracket(ctx, tour.ID, GenerateBracketInput{})
	require.NoError(t, err)

	got, err := f.brackets.GetBracket(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, generated.Size, got.Size)
	require.Len(t, got.Rounds, 2)
	assert.Equal(t, generated.Rounds[0].Matches[0].ID, got.Rounds[0].Matches[0].ID)
	assert.Empty(t, got.Awards)
}
