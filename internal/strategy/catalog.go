package strategy

import (
	"fmt"
	"math/rand"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

// Default search horizons, in own-moves. The cached variant can afford
// to look further because the transposition table absorbs most of the
// re-expansion cost.
const (
	DefaultSearchDepth      = 3
	DefaultCacheSearchDepth = 6
)

// PolicyInfo describes one available policy for human-facing layers.
type PolicyInfo struct {
	Name        string `json:"name"`
	Role        string `json:"role"` // "layer" or "decider"
	Description string `json:"description"`
}

// Catalog lists every policy a stack can be built from, in the order
// they are usually stacked.
func Catalog() []PolicyInfo {
	return []PolicyInfo{
		{Name: "TriesToWin", Role: "decider", Description: "takes an immediate win, or occupies the opponent's winning square"},
		{Name: "Setup", Role: "decider", Description: "takes a move that wins now or guarantees a winning follow-up next turn"},
		{Name: "SearchForWin", Role: "decider", Description: "bounded forced-win search without memoization"},
		{Name: "SearchForWinCache", Role: "decider", Description: "bounded forced-win search with a transposition table"},
		{Name: "AvoidInescapableTraps", Role: "layer", Description: "drops moves that allow an unblockable double threat"},
		{Name: "AvoidTraps", Role: "layer", Description: "drops moves that hand the opponent an immediate win"},
		{Name: "ThreeInARow", Role: "layer", Description: "keeps the moves that maximize open three-in-a-row threats"},
		{Name: "Random", Role: "layer", Description: "keeps everything; the final pick is random anyway"},
	}
}

// NewStage builds a single named stage for the given piece. The shared
// table is only used by SearchForWinCache and may be nil, in which case
// the cached search gets its own private table. searchDepth overrides the
// horizon of the search deciders; zero or negative keeps their defaults.
func NewStage(name string, piece domain.Piece, table Table, searchDepth int) (Stage, error) {
	switch name {
	case "TriesToWin":
		return DeciderStage(NewTriesToWin(piece)), nil
	case "Setup":
		return DeciderStage(NewSetup(piece)), nil
	case "SearchForWin":
		depth := searchDepth
		if depth <= 0 {
			depth = DefaultSearchDepth
		}
		return DeciderStage(NewSearchForWin(piece, depth)), nil
	case "SearchForWinCache":
		if table == nil {
			table = NewTranspositionTable()
		}
		depth := searchDepth
		if depth <= 0 {
			depth = DefaultCacheSearchDepth
		}
		return DeciderStage(NewSearchForWinCache(piece, depth, table)), nil
	case "AvoidInescapableTraps":
		return LayerStage(NewAvoidInescapableTraps(piece)), nil
	case "AvoidTraps":
		return LayerStage(NewAvoidTraps(piece)), nil
	case "ThreeInARow":
		return LayerStage(NewThreeInARow(piece)), nil
	case "Random":
		return LayerStage(Random{}), nil
	}
	return Stage{}, fmt.Errorf("strategy: unknown policy %q", name)
}

// BuildStack assembles a stack from policy names, in order. searchDepth
// is passed through to the search deciders; zero keeps their defaults.
func BuildStack(names []string, piece domain.Piece, rng *rand.Rand, searchDepth int) (*Stack, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("strategy: a stack needs at least one policy")
	}
	stages := make([]Stage, 0, len(names))
	for _, name := range names {
		stage, err := NewStage(name, piece, nil, searchDepth)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return NewStack(rng, stages...), nil
}

// DefaultStackNames is the configuration used when a caller doesn't
// specify one: strongest deciders first, then the pruning layers.
func DefaultStackNames() []string {
	return []string{"TriesToWin", "Setup", "AvoidInescapableTraps", "AvoidTraps", "ThreeInARow"}
}
