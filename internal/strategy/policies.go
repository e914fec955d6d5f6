package strategy

import (
	"github.com/iamasit07/connect4-ai/internal/domain"
)

// Random is a pass-through layer: it keeps every candidate, leaving the
// choice entirely to the stack's final random pick.
type Random struct{}

func (Random) Name() string { return "Random" }

func (Random) Prune(_ domain.Board, candidates []int) []int {
	out := make([]int, len(candidates))
	copy(out, candidates)
	return out
}

// TriesToWin commits to the first candidate that either wins outright or
// occupies a square the opponent would win on. The two checks coincide
// for blocking purposes because at most one square can complete the
// opponent's line on the current ply.
type TriesToWin struct {
	piece domain.Piece
}

func NewTriesToWin(piece domain.Piece) TriesToWin {
	return TriesToWin{piece: piece}
}

func (s TriesToWin) Name() string { return "TriesToWin" }

func (s TriesToWin) Choose(board domain.Board, candidates []int) (int, bool) {
	for _, col := range candidates {
		mine := board.Place(col, s.piece)
		if w, ok := mine.HasWinner(); ok && w == s.piece {
			return col, true
		}
		theirs := board.Place(col, s.piece.Opponent())
		if w, ok := theirs.HasWinner(); ok && w == s.piece.Opponent() {
			return col, true
		}
	}
	return 0, false
}

// Setup commits to a candidate that wins outright, or that leaves us an
// immediate winning follow-up next turn.
type Setup struct {
	piece domain.Piece
}

func NewSetup(piece domain.Piece) Setup {
	return Setup{piece: piece}
}

func (s Setup) Name() string { return "Setup" }

func (s Setup) Choose(board domain.Board, candidates []int) (int, bool) {
	for _, col := range candidates {
		next := board.Place(col, s.piece)
		if w, ok := next.HasWinner(); ok && w == s.piece {
			return col, true
		}
		if len(next.WinningMoves(s.piece)) > 0 {
			return col, true
		}
	}
	return 0, false
}

// ThreeInARow keeps the candidates that maximize our open threat count
// after the move, preserving ties. An immediate win short-circuits to a
// single candidate.
type ThreeInARow struct {
	piece domain.Piece
}

func NewThreeInARow(piece domain.Piece) ThreeInARow {
	return ThreeInARow{piece: piece}
}

func (s ThreeInARow) Name() string { return "ThreeInARow" }

func (s ThreeInARow) Prune(board domain.Board, candidates []int) []int {
	best := -1
	var bestMoves []int
	for _, col := range candidates {
		next := board.Place(col, s.piece)
		if w, ok := next.HasWinner(); ok && w == s.piece {
			return []int{col}
		}
		score := next.CountWinningOpportunities(s.piece)
		if score > best {
			best = score
			bestMoves = bestMoves[:0]
			bestMoves = append(bestMoves, col)
		} else if score == best {
			bestMoves = append(bestMoves, col)
		}
	}
	return bestMoves
}

// AvoidTraps drops candidates that hand the opponent an immediate
// winning reply. An immediate own win is always kept. If every candidate
// loses, the filter fails open and keeps them all.
type AvoidTraps struct {
	piece domain.Piece
}

func NewAvoidTraps(piece domain.Piece) AvoidTraps {
	return AvoidTraps{piece: piece}
}

func (s AvoidTraps) Name() string { return "AvoidTraps" }

func (s AvoidTraps) Prune(board domain.Board, candidates []int) []int {
	allowed := make([]int, 0, len(candidates))
	for _, col := range candidates {
		next := board.Place(col, s.piece)
		if w, ok := next.HasWinner(); ok && w == s.piece {
			allowed = append(allowed, col)
			continue
		}
		if len(next.WinningMoves(s.piece.Opponent())) > 0 {
			continue
		}
		allowed = append(allowed, col)
	}

	// every move loses; pass the problem along unchanged
	if len(allowed) == 0 {
		out := make([]int, len(candidates))
		copy(out, candidates)
		return out
	}
	return allowed
}

// AvoidInescapableTraps drops candidates that let the opponent either
// win outright or set up more than one simultaneous winning threat,
// since we could only block one of them. Fails open like AvoidTraps.
type AvoidInescapableTraps struct {
	piece domain.Piece
}

func NewAvoidInescapableTraps(piece domain.Piece) AvoidInescapableTraps {
	return AvoidInescapableTraps{piece: piece}
}

func (s AvoidInescapableTraps) Name() string { return "AvoidInescapableTraps" }

func (s AvoidInescapableTraps) Prune(board domain.Board, candidates []int) []int {
	opponent := s.piece.Opponent()
	allowed := make([]int, 0, len(candidates))

candidate:
	for _, col := range candidates {
		next := board.Place(col, s.piece)
		if w, ok := next.HasWinner(); ok && w == s.piece {
			allowed = append(allowed, col)
			continue
		}
		for _, reply := range next.ValidMoves() {
			after := next.Place(reply, opponent)
			if w, ok := after.HasWinner(); ok && w == opponent {
				continue candidate
			}
			if len(after.WinningMoves(opponent)) > 1 {
				continue candidate
			}
		}
		allowed = append(allowed, col)
	}

	if len(allowed) == 0 {
		out := make([]int, len(candidates))
		copy(out, candidates)
		return out
	}
	return allowed
}
