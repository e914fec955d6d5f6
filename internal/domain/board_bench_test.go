package domain

import "testing"

var (
	sinkPiece  Piece
	sinkBool   bool
	sinkBoard  Board
	sinkBoards []Board
	sinkCount  int
)

// benchBoards spans an empty board, three mid-game positions and a dense
// decided one so the scans see both sparse and crowded bit patterns.
func benchBoards() []Board {
	sequences := [][]int{
		{3, 3, 2, 4},
		{3, 2, 3, 4, 2, 2, 4, 4, 5},
		{0, 1, 0, 1, 0, 2, 3, 3, 3, 4, 5, 6, 6, 5},
		{
			0, 1, 2, 3, 4, 5, 6,
			0, 1, 2, 3, 4, 5, 6,
			0, 1, 2, 3, 4, 5, 6,
			0, 1, 2, 3, 4, 5, 6,
			0, 1, 2, 3, 4, 5, 6,
		},
	}
	boards := []Board{NewBoard()}
	for _, cols := range sequences {
		b := NewBoard()
		piece := PlayerA
		for _, col := range cols {
			b = b.Place(col, piece)
			piece = piece.Opponent()
		}
		boards = append(boards, b)
	}
	return boards
}

// liveBenchBoards filters out decided positions for the benchmarks whose
// operations treat a finished board as a caller bug.
func liveBenchBoards() []Board {
	var live []Board
	for _, b := range benchBoards() {
		if _, won := b.HasWinner(); !won {
			live = append(live, b)
		}
	}
	return live
}

func BenchmarkHasWinner(b *testing.B) {
	boards := benchBoards()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, board := range boards {
			sinkPiece, sinkBool = board.HasWinner()
		}
	}
}

func BenchmarkIsTerminal(b *testing.B) {
	boards := benchBoards()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, board := range boards {
			sinkBool = board.IsTerminal()
		}
	}
}

func BenchmarkNextPlayer(b *testing.B) {
	boards := benchBoards()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, board := range boards {
			sinkPiece = board.NextPlayer()
		}
	}
}

func BenchmarkNextStates(b *testing.B) {
	boards := liveBenchBoards()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, board := range boards {
			sinkBoards = board.NextStates(board.NextPlayer())
		}
	}
}

func BenchmarkPlace(b *testing.B) {
	type position struct {
		board Board
		moves []int
		piece Piece
	}
	var positions []position
	for _, board := range liveBenchBoards() {
		positions = append(positions, position{board, board.ValidMoves(), board.NextPlayer()})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, p := range positions {
			for _, col := range p.moves {
				sinkBoard = p.board.Place(col, p.piece)
			}
		}
	}
}

func BenchmarkCountWinningOpportunities(b *testing.B) {
	boards := liveBenchBoards()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, board := range boards {
			sinkCount = board.CountWinningOpportunities(PlayerA)
		}
	}
}
