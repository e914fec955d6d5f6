package domain

import (
	"fmt"
	"strings"
)

// String renders the board as a compact slash-delimited encoding: six
// rows from the top of the board down, one letter per piece, spaces for
// empty cells, trailing spaces trimmed. An empty board encodes as
// "/////".
func (b Board) String() string {
	rows := make([]string, Rows)
	for row := Rows - 1; row >= 0; row-- {
		line := make([]byte, Columns)
		for col := 0; col < Columns; col++ {
			line[col] = b.Get(row, col).letter()
		}
		rows[Rows-1-row] = strings.TrimRight(string(line), " ")
	}
	return strings.Join(rows, "/")
}

// ParseBoard is the inverse of String. It validates the shape of the
// encoding, gravity (no floating pieces), and piece-count parity, and
// returns ErrInvalidBoard-wrapped errors otherwise. Whose turn it is is
// derived from parity, exactly as on a live board.
func ParseBoard(s string) (Board, error) {
	segments := strings.Split(s, "/")
	if len(segments) != Rows {
		return Board{}, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, Rows, len(segments))
	}

	var b Board
	// The encoding lists the top row first; fill from the bottom row up so
	// the gravity check sees each column grow contiguously.
	for i := Rows - 1; i >= 0; i-- {
		segment := segments[i]
		if len(segment) > Columns {
			return Board{}, fmt.Errorf("%w: row %d longer than %d cells", ErrInvalidBoard, i, Columns)
		}
		row := Rows - 1 - i
		for col := 0; col < len(segment); col++ {
			var piece Piece
			switch segment[col] {
			case ' ':
				continue
			case 'A':
				piece = PlayerA
			case 'B':
				piece = PlayerB
			default:
				return Board{}, fmt.Errorf("%w: unexpected cell %q", ErrInvalidBoard, segment[col])
			}
			if row != b.height(col) {
				return Board{}, fmt.Errorf("%w: floating piece at row %d column %d", ErrInvalidBoard, row, col)
			}
			if piece == PlayerB {
				b.cols[col] |= 1 << row
			}
			b.cols[col] += 1 << heightShift
		}
	}

	a, bb := b.countPieces()
	if diff := a - bb; diff < 0 || diff > 1 {
		return Board{}, fmt.Errorf("%w: %d PlayerA pieces vs %d PlayerB pieces", ErrInvalidBoard, a, bb)
	}
	return b, nil
}
