package strategy

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

// Stack threads a shrinking candidate set through an ordered list of
// stages. The pipeline itself is deterministic; the only randomness is
// the final uniform pick among the surviving candidates, which exists so
// two deterministic stacks don't replay the same game forever.
//
// A Stack is not safe for concurrent use (the RNG is unsynchronized);
// parallel simulations use one stack per worker or wrap it in a
// CachedAgent.
type Stack struct {
	stages []Stage
	rng    *rand.Rand
}

// NewStack builds a pipeline from the given stages. The RNG is injected
// so tests and simulations control the tie-break.
func NewStack(rng *rand.Rand, stages ...Stage) *Stack {
	return &Stack{stages: stages, rng: rng}
}

// EvaluateOptions runs the pipeline and returns the surviving candidate
// columns. Calling it on a terminal board is a caller contract violation
// and panics.
func (s *Stack) EvaluateOptions(board domain.Board) []int {
	options := board.ValidMoves()
	if len(options) == 0 {
		panic("strategy: evaluate called with no valid moves")
	}

	for _, stage := range s.stages {
		if stage.decider != nil {
			col, ok := stage.decider.Choose(board, options)
			if ok {
				if !containsMove(options, col) {
					panic(fmt.Sprintf("strategy: decider %s chose column %d outside its candidates %v",
						stage.decider.Name(), col, options))
				}
				return []int{col}
			}
		} else {
			pruned := stage.layer.Prune(board, options)
			// fail-open: a layer that would eliminate everything is ignored
			if len(pruned) > 0 {
				options = pruned
			}
		}
		if len(options) == 1 {
			return options
		}
	}
	return options
}

// Play picks uniformly at random among the surviving candidates.
func (s *Stack) Play(board domain.Board) (int, bool) {
	if board.IsTerminal() {
		return 0, false
	}
	options := s.EvaluateOptions(board)
	return options[s.rng.Intn(len(options))], true
}

func (s *Stack) String() string {
	names := make([]string, len(s.stages))
	for i, stage := range s.stages {
		names[i] = stage.Name()
	}
	return "StrategyStack(" + strings.Join(names, " => ") + ")"
}

func containsMove(options []int, col int) bool {
	for _, o := range options {
		if o == col {
			return true
		}
	}
	return false
}
