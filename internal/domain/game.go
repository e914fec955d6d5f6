package domain

// Game tracks one live match on top of a Board. The board itself derives
// whose turn it is; the wrapper only adds terminal-state bookkeeping for
// the transport layer.
type Game struct {
	Board  Board
	Status GameStatus
	Winner Piece
}

func NewGame() *Game {
	return &Game{
		Board:  NewBoard(),
		Status: StatusActive,
		Winner: Empty,
	}
}

// MakeMove commits the current player's move into the given column.
func (g *Game) MakeMove(column int) error {
	if g.Status != StatusActive {
		return ErrGameOver
	}
	if column < 0 || column >= Columns {
		return ErrInvalidMove
	}
	valid := false
	for _, col := range g.Board.ValidMoves() {
		if col == column {
			valid = true
			break
		}
	}
	if !valid {
		return ErrColumnFull
	}

	g.Board.WithPlace(column, g.Board.NextPlayer())

	if winner, ok := g.Board.HasWinner(); ok {
		g.Status = StatusWon
		g.Winner = winner
		return nil
	}
	if g.Board.NumPiecesPlayed() == Rows*Columns {
		g.Status = StatusDraw
	}
	return nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}
