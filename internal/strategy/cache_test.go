package strategy

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

func newDefaultCachedAgent(t *testing.T, seed int64) *CachedAgent {
	t.Helper()
	stack, err := BuildStack(DefaultStackNames(), domain.PlayerA, rand.New(rand.NewSource(seed)), 0)
	require.NoError(t, err)
	return NewCachedAgent(stack, rand.New(rand.NewSource(seed+1)))
}

func TestCachedAgentOptionsAreIdempotent(t *testing.T) {
	agent := newDefaultCachedAgent(t, 7)
	board := mustParse(t, "/////AA   BB")

	first := agent.Options(board)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, agent.Options(board))
	}

	stats := agent.Stats()
	assert.Equal(t, uint64(10), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestCachedAgentPlayPicksFromCachedSet(t *testing.T) {
	agent := newDefaultCachedAgent(t, 11)
	board := domain.NewBoard()
	options := agent.Options(board)

	for i := 0; i < 50; i++ {
		col, ok := agent.Play(board)
		require.True(t, ok)
		assert.Contains(t, options, col)
	}
}

func TestCachedAgentDeclinesTerminalBoard(t *testing.T) {
	agent := newDefaultCachedAgent(t, 13)
	won := mustParse(t, "/////AAAABBB")

	_, ok := agent.Play(won)
	assert.False(t, ok)
}

func TestCachedAgentConcurrentQueriesAgree(t *testing.T) {
	agent := newDefaultCachedAgent(t, 17)
	board := mustParse(t, "/////AA   BB")
	want := agent.Options(board)

	var wg sync.WaitGroup
	results := make([][]int, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = agent.Options(board)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestCachedAgentString(t *testing.T) {
	stack := NewStack(rand.New(rand.NewSource(1)), LayerStage(Random{}))
	agent := NewCachedAgent(stack, rand.New(rand.NewSource(2)))
	assert.Equal(t, "Cached(StrategyStack(Random))", agent.String())
}
