package strategy

import (
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

// CachedAgent memoizes a stack's entire candidate evaluation per exact
// board state, trading memory for speed in long simulation runs where
// the same positions recur constantly. The random final pick still
// happens on every query, so two identical boards may get different
// moves from the same cached candidate set.
//
// Safe for concurrent use: the stack evaluation itself is pure, the map
// is reader/writer locked, and the RNG has its own lock. Cached values
// are pure functions of the board, so two goroutines recomputing the
// same entry is wasted work, not a correctness problem.
type CachedAgent struct {
	stack *Stack

	mu    sync.RWMutex
	cache map[domain.Board][]int

	rngMu sync.Mutex
	rng   *rand.Rand

	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewCachedAgent(stack *Stack, rng *rand.Rand) *CachedAgent {
	return &CachedAgent{
		stack: stack,
		cache: make(map[domain.Board][]int),
		rng:   rng,
	}
}

func (c *CachedAgent) Play(board domain.Board) (int, bool) {
	if board.IsTerminal() {
		return 0, false
	}
	options := c.Options(board)

	c.rngMu.Lock()
	pick := options[c.rng.Intn(len(options))]
	c.rngMu.Unlock()
	return pick, true
}

// Options returns the memoized candidate set for a board, computing and
// caching it if needed. Repeated calls for the same board return the
// identical result.
func (c *CachedAgent) Options(board domain.Board) []int {
	c.mu.RLock()
	options, ok := c.cache[board]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return options
	}
	c.misses.Add(1)
	options = c.stack.EvaluateOptions(board)
	c.mu.Lock()
	c.cache[board] = options
	c.mu.Unlock()
	return options
}

func (c *CachedAgent) Stats() CacheStats {
	c.mu.RLock()
	entries := len(c.cache)
	c.mu.RUnlock()
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: entries}
}

func (c *CachedAgent) String() string {
	return "Cached(" + c.stack.String() + ")"
}
