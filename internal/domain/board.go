package domain

import (
	"fmt"
	"math/bits"
)

// Board is a plain comparable value: cheap to copy and usable directly as
// a map key, which the transposition table and strategy cache rely on.
//
// Each column is packed into one uint16: bits 0-5 hold the piece data for
// rows 0 (bottom) through 5 (0 = PlayerA, 1 = PlayerB, only meaningful
// below the column height), and bits 6-8 hold the height. Bits at or
// above the height are always zero so value equality is exact equality
// on the grid.
type Board struct {
	cols [Columns]uint16
}

const (
	heightShift = 6
	pieceMask   = 0x3f
)

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

func (b Board) height(column int) int {
	return int(b.cols[column] >> heightShift)
}

// Get returns the piece at the given cell. Row 0 is the bottom row.
func (b Board) Get(row, column int) Piece {
	if row < 0 || row >= Rows || column < 0 || column >= Columns {
		panic(fmt.Sprintf("domain: cell (%d,%d) out of range", row, column))
	}
	if row >= b.height(column) {
		return Empty
	}
	if b.cols[column]&(1<<row) != 0 {
		return PlayerB
	}
	return PlayerA
}

// WithPlace drops a piece into the given column, mutating the board.
// Placing out of range, into a full column, or placing Empty is a caller
// bug and panics.
func (b *Board) WithPlace(column int, piece Piece) {
	if column < 0 || column >= Columns {
		panic(fmt.Sprintf("domain: column %d out of range", column))
	}
	if piece == Empty {
		panic("domain: cannot place an empty piece")
	}
	h := b.height(column)
	if h >= Rows {
		panic(fmt.Sprintf("domain: column %d is full", column))
	}
	if piece == PlayerB {
		b.cols[column] |= 1 << h
	}
	b.cols[column] += 1 << heightShift
}

// Place is the hypothetical form of WithPlace: it leaves the receiver
// untouched and returns the successor board. Same preconditions.
func (b Board) Place(column int, piece Piece) Board {
	b.WithPlace(column, piece)
	return b
}

// NumPiecesPlayed is the total number of pieces on the board.
func (b Board) NumPiecesPlayed() int {
	total := 0
	for col := 0; col < Columns; col++ {
		total += b.height(col)
	}
	return total
}

// countPieces returns how many pieces each player has on the board.
func (b Board) countPieces() (a, bb int) {
	for col := 0; col < Columns; col++ {
		h := b.height(col)
		set := bits.OnesCount16(b.cols[col] & pieceMask)
		bb += set
		a += h - set
	}
	return a, bb
}

// NextPlayer derives whose turn it is from piece-count parity: PlayerA
// moves first, so the counts are either equal (PlayerA to move) or
// PlayerA leads by one (PlayerB to move). Anything else is a corrupted
// board and panics.
func (b Board) NextPlayer() Piece {
	a, bb := b.countPieces()
	switch a - bb {
	case 0:
		return PlayerA
	case 1:
		return PlayerB
	}
	panic(fmt.Sprintf("domain: corrupted board, %d PlayerA pieces vs %d PlayerB pieces", a, bb))
}

// ValidMoves returns the playable columns in ascending order.
func (b Board) ValidMoves() []int {
	moves := make([]int, 0, Columns)
	for col := 0; col < Columns; col++ {
		if b.height(col) < Rows {
			moves = append(moves, col)
		}
	}
	return moves
}

// NextStates returns every board reachable by the given piece in one move,
// ordered by column.
func (b Board) NextStates(piece Piece) []Board {
	moves := b.ValidMoves()
	states := make([]Board, 0, len(moves))
	for _, col := range moves {
		states = append(states, b.Place(col, piece))
	}
	return states
}

// IsTerminal reports whether the game is over: someone won or the board
// is full.
func (b Board) IsTerminal() bool {
	if _, ok := b.HasWinner(); ok {
		return true
	}
	return b.NumPiecesPlayed() == Rows*Columns
}
