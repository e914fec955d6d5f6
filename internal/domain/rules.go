package domain

// window walks 4 cells from (row, column) along (deltaRow, deltaCol).
// All four orientations used below stay in bounds by construction.
func (b Board) window(row, column, deltaRow, deltaCol int) [ToWin]Piece {
	var w [ToWin]Piece
	for i := 0; i < ToWin; i++ {
		w[i] = b.Get(row+i*deltaRow, column+i*deltaCol)
	}
	return w
}

func winnerOf(w [ToWin]Piece) (Piece, bool) {
	if w[0] != Empty && w[0] == w[1] && w[1] == w[2] && w[2] == w[3] {
		return w[0], true
	}
	return Empty, false
}

// HasWinner scans every four-in-a-row window and returns the winner, if
// any. The scan order (rows, columns, positive diagonal, negative
// diagonal) is fixed so results are reproducible, though in a legal game
// only one player can have four in a row.
func (b Board) HasWinner() (Piece, bool) {
	// horizontal
	for row := 0; row < Rows; row++ {
		for col := 0; col <= Columns-ToWin; col++ {
			if p, ok := winnerOf(b.window(row, col, 0, 1)); ok {
				return p, true
			}
		}
	}
	// vertical
	for col := 0; col < Columns; col++ {
		for row := 0; row <= Rows-ToWin; row++ {
			if p, ok := winnerOf(b.window(row, col, 1, 0)); ok {
				return p, true
			}
		}
	}
	// positive slope (up and to the right)
	for row := 0; row <= Rows-ToWin; row++ {
		for col := 0; col <= Columns-ToWin; col++ {
			if p, ok := winnerOf(b.window(row, col, 1, 1)); ok {
				return p, true
			}
		}
	}
	// negative slope (down and to the right)
	for row := ToWin - 1; row < Rows; row++ {
		for col := 0; col <= Columns-ToWin; col++ {
			if p, ok := winnerOf(b.window(row, col, -1, 1)); ok {
				return p, true
			}
		}
	}
	return Empty, false
}

// WinningMoves returns the columns where dropping the given piece wins
// immediately. It makes no sense to ask once someone has already won, so
// that is treated as a caller bug.
func (b Board) WinningMoves(piece Piece) []int {
	if _, ok := b.HasWinner(); ok {
		panic("domain: winning moves requested on a board that already has a winner")
	}
	var wins []int
	for _, col := range b.ValidMoves() {
		next := b.Place(col, piece)
		if w, ok := next.HasWinner(); ok && w == piece {
			wins = append(wins, col)
		}
	}
	return wins
}

// CountWinningOpportunities counts the four-cell windows holding exactly
// three of the given piece, one empty cell, and no opponent piece. This
// measures open threats like "AAA_", "_AAA", "AA_A" rather than moves
// that win right now. Same precondition as WinningMoves.
func (b Board) CountWinningOpportunities(piece Piece) int {
	if _, ok := b.HasWinner(); ok {
		panic("domain: opportunity count requested on a board that already has a winner")
	}
	count := 0
	// horizontal
	for row := 0; row < Rows; row++ {
		for col := 0; col <= Columns-ToWin; col++ {
			if isOpportunity(b.window(row, col, 0, 1), piece) {
				count++
			}
		}
	}
	// vertical
	for col := 0; col < Columns; col++ {
		for row := 0; row <= Rows-ToWin; row++ {
			if isOpportunity(b.window(row, col, 1, 0), piece) {
				count++
			}
		}
	}
	// positive slope
	for row := 0; row <= Rows-ToWin; row++ {
		for col := 0; col <= Columns-ToWin; col++ {
			if isOpportunity(b.window(row, col, 1, 1), piece) {
				count++
			}
		}
	}
	// negative slope
	for row := ToWin - 1; row < Rows; row++ {
		for col := 0; col <= Columns-ToWin; col++ {
			if isOpportunity(b.window(row, col, -1, 1), piece) {
				count++
			}
		}
	}
	return count
}

func isOpportunity(w [ToWin]Piece, piece Piece) bool {
	mine, empty := 0, 0
	for _, p := range w {
		switch p {
		case piece:
			mine++
		case Empty:
			empty++
		default:
			return false
		}
	}
	return mine == ToWin-1 && empty == 1
}
