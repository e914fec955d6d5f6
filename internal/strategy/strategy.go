// Package strategy implements the AI decision pipeline: pruning layers
// and deciders composed into a stack, a bounded forced-win search with a
// transposition table, and a per-board cache for whole-stack decisions.
package strategy

import (
	"github.com/iamasit07/connect4-ai/internal/domain"
)

// Agent is the boundary contract of a configured AI: given a board,
// propose a column. ok is false only when the game is already over.
type Agent interface {
	Play(board domain.Board) (column int, ok bool)
	String() string
}

// Layer narrows a candidate move set. A layer with nothing useful to say
// may return an empty slice; the stack then keeps the prior candidates
// unchanged (fail-open).
type Layer interface {
	Name() string
	Prune(board domain.Board, candidates []int) []int
}

// Decider may commit to exactly one of the candidates, or decline and
// pass control to the next stage.
type Decider interface {
	Name() string
	Choose(board domain.Board, candidates []int) (column int, ok bool)
}

// Stage is the closed union of the two roles. Exactly one of the fields
// is set.
type Stage struct {
	layer   Layer
	decider Decider
}

func LayerStage(l Layer) Stage {
	return Stage{layer: l}
}

func DeciderStage(d Decider) Stage {
	return Stage{decider: d}
}

func (s Stage) Name() string {
	if s.decider != nil {
		return s.decider.Name()
	}
	return s.layer.Name()
}

// IsDecider reports which role the stage plays, for display purposes.
func (s Stage) IsDecider() bool {
	return s.decider != nil
}
