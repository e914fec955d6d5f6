package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameAlternatesPlayersAndDetectsWin(t *testing.T) {
	g := NewGame()

	// PlayerA builds the bottom row while PlayerB stacks column 6.
	for col := 0; col < 3; col++ {
		require.NoError(t, g.MakeMove(col))
		require.NoError(t, g.MakeMove(6))
	}
	require.NoError(t, g.MakeMove(3))

	assert.Equal(t, StatusWon, g.Status)
	assert.Equal(t, PlayerA, g.Winner)
	assert.True(t, g.IsFinished())
	assert.ErrorIs(t, g.MakeMove(0), ErrGameOver)
}

func TestGameRejectsBadMoves(t *testing.T) {
	g := NewGame()
	assert.ErrorIs(t, g.MakeMove(-1), ErrInvalidMove)
	assert.ErrorIs(t, g.MakeMove(Columns), ErrInvalidMove)

	for i := 0; i < Rows; i++ {
		require.NoError(t, g.MakeMove(0))
	}
	assert.ErrorIs(t, g.MakeMove(0), ErrColumnFull)
}
