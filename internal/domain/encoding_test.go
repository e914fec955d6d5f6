package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringEmptyBoard(t *testing.T) {
	assert.Equal(t, "/////", NewBoard().String())
}

func TestStringBottomRow(t *testing.T) {
	b := NewBoard()
	b.WithPlace(0, PlayerA)
	b.WithPlace(2, PlayerB)
	assert.Equal(t, "/////A B", b.String())
}

func TestRoundTripEmpty(t *testing.T) {
	parsed, err := ParseBoard(NewBoard().String())
	require.NoError(t, err)
	assert.Equal(t, NewBoard(), parsed)
}

func TestRoundTripRandomPlayouts(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 50; game++ {
		b := NewBoard()
		for !b.IsTerminal() {
			moves := b.ValidMoves()
			b.WithPlace(moves[rng.Intn(len(moves))], b.NextPlayer())

			parsed, err := ParseBoard(b.String())
			require.NoError(t, err)
			require.Equal(t, b, parsed, "round trip failed for %q", b.String())
		}
	}
}

func TestParseDerivesNextPlayer(t *testing.T) {
	b := NewBoard()
	b.WithPlace(3, PlayerA)

	parsed, err := ParseBoard(b.String())
	require.NoError(t, err)
	assert.Equal(t, PlayerB, parsed.NextPlayer())
}

func TestParseRejectsWrongRowCount(t *testing.T) {
	_, err := ParseBoard("///")
	assert.ErrorIs(t, err, ErrInvalidBoard)
}

func TestParseRejectsUnknownLetter(t *testing.T) {
	_, err := ParseBoard("/////X")
	assert.ErrorIs(t, err, ErrInvalidBoard)
}

func TestParseRejectsFloatingPiece(t *testing.T) {
	// piece in row 1 of column 0 with nothing underneath
	_, err := ParseBoard("////A/")
	assert.ErrorIs(t, err, ErrInvalidBoard)
}

func TestParseRejectsBadParity(t *testing.T) {
	_, err := ParseBoard("/////AA")
	assert.ErrorIs(t, err, ErrInvalidBoard)

	_, err = ParseBoard("/////B")
	assert.ErrorIs(t, err, ErrInvalidBoard)
}

func TestParseRejectsOverlongRow(t *testing.T) {
	_, err := ParseBoard("/////AAAABBBB")
	assert.ErrorIs(t, err, ErrInvalidBoard)
}

func TestParseToleratesTrailingSpaces(t *testing.T) {
	padded, err := ParseBoard("     /      /   / //A")
	require.NoError(t, err)
	trimmed, err := ParseBoard("/////A")
	require.NoError(t, err)
	assert.Equal(t, trimmed, padded)
}
