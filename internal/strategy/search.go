package strategy

import (
	"github.com/iamasit07/connect4-ai/internal/domain"
)

// Verdict is the tri-valued outcome of the forced-win search. Unknown
// means the horizon was exhausted without proof either way. It is a
// legitimate result, not an error, and must never be conflated with
// NoForcedWin or the transposition table becomes unsound for deeper
// re-searches.
type Verdict int8

const (
	VerdictUnknown Verdict = iota
	VerdictWin
	VerdictNoForcedWin
)

func (v Verdict) String() string {
	switch v {
	case VerdictWin:
		return "win"
	case VerdictNoForcedWin:
		return "no-forced-win"
	}
	return "unknown"
}

// TableEntry memoizes a (possibly partial) search result for one board.
// DepthSearchedAt only matters for Unknown entries: a later search may
// re-expand the position only when it is allowed to go deeper than that.
type TableEntry struct {
	DepthSearchedAt int
	Verdict         Verdict
}

// Table is the transposition table seen by the search. It is injected so
// tests can substitute their own implementation, and nil disables
// memoization entirely.
type Table interface {
	Lookup(board domain.Board) (TableEntry, bool)
	Store(board domain.Board, entry TableEntry)
}

// DefaultMinPieces gates the search until the midgame: early positions
// are expensive to search and almost never contain a forced win.
const DefaultMinPieces = 20

// SearchForWin is a decider that commits to a candidate move if it can
// prove the move forces a win within the configured number of our own
// moves, assuming optimal opposition.
type SearchForWin struct {
	piece domain.Piece
	depth int
	table Table

	// MinPieces is how many pieces must be on the board before the
	// search activates. Exposed so tests can search small positions.
	MinPieces int
}

// NewSearchForWin builds the uncached variant.
func NewSearchForWin(piece domain.Piece, depth int) *SearchForWin {
	return &SearchForWin{piece: piece, depth: depth, MinPieces: DefaultMinPieces}
}

// NewSearchForWinCache builds the memoized variant backed by the given
// table.
func NewSearchForWinCache(piece domain.Piece, depth int, table Table) *SearchForWin {
	return &SearchForWin{piece: piece, depth: depth, table: table, MinPieces: DefaultMinPieces}
}

func (s *SearchForWin) Name() string {
	if s.table != nil {
		return "SearchForWinCache"
	}
	return "SearchForWin"
}

func (s *SearchForWin) Choose(board domain.Board, candidates []int) (int, bool) {
	if board.NumPiecesPlayed() < s.MinPieces {
		return 0, false
	}
	for _, col := range candidates {
		if s.forcedWinAfter(board, s.depth, col) == VerdictWin {
			return col, true
		}
	}
	return 0, false
}

// forcedWinAfter evaluates the position reached by playing col from
// prior: can we still force a win within depth of our own moves, with
// the opponent to move? The AND/OR recursion: every opponent reply must
// be survivable (AND), and surviving a reply needs just one winning
// response of ours (OR).
func (s *SearchForWin) forcedWinAfter(prior domain.Board, depth, col int) Verdict {
	if prior.NextPlayer() != s.piece {
		panic("strategy: forced-win search evaluated out of turn")
	}
	board := prior.Place(col, s.piece)

	if w, ok := board.HasWinner(); ok && w == s.piece {
		return VerdictWin
	}
	if board.NumPiecesPlayed() == domain.Rows*domain.Columns {
		// drawn board: nobody forces anything from here
		return VerdictNoForcedWin
	}
	if depth == 0 {
		return VerdictUnknown
	}

	if s.table != nil {
		if entry, ok := s.table.Lookup(board); ok {
			if entry.Verdict != VerdictUnknown {
				return entry.Verdict
			}
			// Already explored at least this deep without a verdict;
			// re-searching at the same horizon cannot make progress.
			if entry.DepthSearchedAt >= depth {
				return VerdictUnknown
			}
		}
	}

	opponent := s.piece.Opponent()
	for _, reply := range board.NextStates(opponent) {
		if w, ok := reply.HasWinner(); ok && w == opponent {
			// Refuted outright: a definite verdict at any depth.
			s.store(board, TableEntry{Verdict: VerdictNoForcedWin})
			return VerdictNoForcedWin
		}

		survived := false
		sawUnknown := false
		for _, response := range reply.ValidMoves() {
			switch s.forcedWinAfter(reply, depth-1, response) {
			case VerdictWin:
				survived = true
			case VerdictUnknown:
				sawUnknown = true
			}
			if survived {
				break
			}
		}
		if survived {
			continue
		}
		if sawUnknown {
			// Bottomed out before proving anything; remember how deep we
			// got so a deeper re-search skips this work.
			s.store(board, TableEntry{DepthSearchedAt: depth, Verdict: VerdictUnknown})
			return VerdictUnknown
		}
		// The opponent escapes via this reply no matter what we do.
		s.store(board, TableEntry{Verdict: VerdictNoForcedWin})
		return VerdictNoForcedWin
	}

	// Every opponent reply has a winning continuation for us.
	s.store(board, TableEntry{Verdict: VerdictWin})
	return VerdictWin
}

func (s *SearchForWin) store(board domain.Board, entry TableEntry) {
	if s.table != nil {
		s.table.Store(board, entry)
	}
}
