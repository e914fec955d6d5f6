package strategy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

func TestTranspositionTableRoundTrip(t *testing.T) {
	table := NewTranspositionTable()
	board := domain.NewBoard().Place(3, domain.PlayerA)

	_, ok := table.Lookup(board)
	require.False(t, ok)

	table.Store(board, TableEntry{Verdict: VerdictWin})
	entry, ok := table.Lookup(board)
	require.True(t, ok)
	assert.Equal(t, VerdictWin, entry.Verdict)

	stats := table.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestTranspositionTableNeverDowngradesDefiniteVerdict(t *testing.T) {
	table := NewTranspositionTable()
	board := domain.NewBoard().Place(0, domain.PlayerA)

	table.Store(board, TableEntry{Verdict: VerdictNoForcedWin})
	table.Store(board, TableEntry{Verdict: VerdictUnknown, DepthSearchedAt: 9})

	entry, ok := table.Lookup(board)
	require.True(t, ok)
	assert.Equal(t, VerdictNoForcedWin, entry.Verdict)
}

func TestTranspositionTableUpgradesUnknown(t *testing.T) {
	table := NewTranspositionTable()
	board := domain.NewBoard().Place(0, domain.PlayerA)

	table.Store(board, TableEntry{Verdict: VerdictUnknown, DepthSearchedAt: 2})
	table.Store(board, TableEntry{Verdict: VerdictWin})

	entry, ok := table.Lookup(board)
	require.True(t, ok)
	assert.Equal(t, VerdictWin, entry.Verdict)
}

func TestTranspositionTableClearKeepsCounters(t *testing.T) {
	table := NewTranspositionTable()
	board := domain.NewBoard().Place(4, domain.PlayerB)
	table.Store(board, TableEntry{Verdict: VerdictWin})
	table.Lookup(board)

	table.Clear()
	stats := table.Stats()
	assert.Zero(t, stats.Entries)
	assert.Equal(t, uint64(1), stats.Hits)
}

func TestTranspositionTableConcurrentAccess(t *testing.T) {
	table := NewTranspositionTable()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			board := domain.NewBoard().Place(w%domain.Columns, domain.PlayerA)
			for i := 0; i < 500; i++ {
				table.Store(board, TableEntry{Verdict: VerdictWin})
				table.Lookup(board)
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, 7, table.Stats().Entries)
}

func TestCacheStatsAddAndString(t *testing.T) {
	total := CacheStats{Hits: 2, Misses: 1, Entries: 3}.Add(CacheStats{Hits: 1, Misses: 4, Entries: 2})
	assert.Equal(t, CacheStats{Hits: 3, Misses: 5, Entries: 5}, total)
	assert.Equal(t, "hits=3 misses=5 entries=5", total.String())
}
