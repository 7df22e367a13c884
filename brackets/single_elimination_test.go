package brackets

import (
	"context"
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSlots(n int) []*int {
	slots := make([]*int, n)
	for i := range slots {
		slots[i] = intPtr(i + 1)
	}
	return slots
}

func TestBuild_MatchCountAndShape(t *testing.T) {
	for _, size := range []int{2, 4, 8, 16, 32, 64} {
		b, err := Build(1, 2, fullSlots(size))
		require.NoError(t, err)

		assert.Len(t, b.Matches(), size-1, "size %d", size)
		rounds := b.Rounds()
		require.Len(t, rounds, b.TotalRounds)
		for i, r := range rounds {
			assert.Equal(t, i+1, r.Number)
			assert.Len(t, r.Matches, size>>uint(i+1))
		}
		for _, m := range b.Matches() {
			assert.Equal(t, 2, m.SetsToWin)
			assert.Equal(t, models.MatchStatusPending, m.Status)
		}
	}
}

func TestBuild_RejectsInvalidSize(t *testing.T) {
	for _, n := range []int{0, 1, 3, 6, 12} {
		_, err := Build(1, 2, make([]*int, n))
		assert.ErrorIs(t, err, ErrInvalidBracketSize, "size %d", n)
	}
}

func TestBuild_PairsAdjacentSlots(t *testing.T) {
	b, err := Build(7, 2, fullSlots(4))
	require.NoError(t, err)

	m := b.Match(1, 2)
	require.NotNil(t, m)
	assert.Equal(t, 3, *m.Player1ID)
	assert.Equal(t, 4, *m.Player2ID)
	assert.Equal(t, 7, m.TournamentID)

	final := b.Final()
	assert.Nil(t, final.Player1ID)
	assert.Nil(t, final.Player2ID)
}

func TestBuild_SinglePlayerIsChampion(t *testing.T) {
	slots := []*int{intPtr(9), nil, nil, nil}
	b, err := Build(1, 2, slots)
	require.NoError(t, err)

	for _, m := range b.Matches() {
		assert.Equal(t, models.MatchStatusFinished, m.Status, "round %d slot %d", m.Round, m.Slot)
		assert.True(t, m.IsWalkover)
	}
	assert.Nil(t, b.Match(1, 2).WinnerID, "two byes produce no winner")

	champion, ok := b.Champion()
	require.True(t, ok)
	assert.Equal(t, 9, *champion)
}

func TestBuild_ByesCascadeAcrossRounds(t *testing.T) {
	// Positions 5..8 are empty: player 5's half has no opponents at all.
	slots := []*int{intPtr(1), intPtr(2), intPtr(3), intPtr(4), intPtr(5), nil, nil, nil}
	b, err := Build(1, 2, slots)
	require.NoError(t, err)

	assert.True(t, b.Match(1, 3).IsWalkover)
	assert.Equal(t, 5, *b.Match(1, 3).WinnerID)
	assert.True(t, b.Match(1, 4).IsFinished())
	assert.Nil(t, b.Match(1, 4).WinnerID)

	semi := b.Match(2, 2)
	assert.True(t, semi.IsWalkover)
	assert.Equal(t, 5, *semi.WinnerID)

	final := b.Final()
	assert.Equal(t, 5, *final.Player2ID)
	assert.Nil(t, final.Player1ID)
	assert.False(t, final.IsFinished(), "the other side is still undecided")
}

func TestBuild_TwoPlayersInFourReachFinal(t *testing.T) {
	slots := []*int{intPtr(1), nil, intPtr(2), nil}
	b, err := Build(1, 2, slots)
	require.NoError(t, err)

	final := b.Final()
	require.True(t, final.IsReady())
	assert.Equal(t, models.MatchStatusPending, final.Status)
	assert.False(t, final.IsWalkover)
}

func TestGenerator(t *testing.T) {
	g, err := NewGenerator(models.TypeElimination)
	require.NoError(t, err)
	assert.Equal(t, "SingleElimination", g.GetName())

	tour := &models.Tournament{ID: 3, SetsPerMatch: 5}
	b, err := g.GenerateBracket(context.Background(), GenerateBracketParams{Tournament: tour, Slots: fullSlots(4)})
	require.NoError(t, err)
	assert.Equal(t, 3, b.Final().SetsToWin)
	assert.Equal(t, 3, b.TournamentID)

	for _, typ := range []models.TournamentType{models.TypeRoundRobin, models.TypeDoubleElimination, models.TypeGroupsElimination, "unknown"} {
		_, err := NewGenerator(typ)
		assert.ErrorIs(t, err, ErrUnsupportedBracketType)
	}
}

func TestLoad(t *testing.T) {
	built, err := Build(1, 2, fullSlots(8))
	require.NoError(t, err)
	matches := built.Matches()
	for i, m := range matches {
		m.ID = 100 + i
	}

	b, err := Load(1, matches)
	require.NoError(t, err)
	assert.Equal(t, 8, b.Size)
	assert.Equal(t, 3, b.TotalRounds)
	assert.Same(t, matches[0], b.MatchByID(100))
	assert.Nil(t, b.MatchByID(1))

	_, err = Load(1, matches[:5])
	assert.ErrorIs(t, err, ErrBracketCorruption)

	dup := append([]*models.Match{}, matches...)
	dup[6] = &models.Match{Round: 1, Slot: 1}
	_, err = Load(1, dup)
	assert.ErrorIs(t, err, ErrBracketCorruption)

	outside := append([]*models.Match{}, matches...)
	outside[6] = &models.Match{Round: 4, Slot: 1}
	_, err = Load(1, outside)
	assert.ErrorIs(t, err, ErrBracketCorruption)
}
