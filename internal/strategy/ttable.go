package strategy

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

// CacheStats summarizes the traffic on a board-keyed cache.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

func (s CacheStats) Add(other CacheStats) CacheStats {
	return CacheStats{
		Hits:    s.Hits + other.Hits,
		Misses:  s.Misses + other.Misses,
		Entries: s.Entries + other.Entries,
	}
}

func (s CacheStats) String() string {
	return fmt.Sprintf("hits=%d misses=%d entries=%d", s.Hits, s.Misses, s.Entries)
}

// TranspositionTable is the default Table: a reader/writer-locked map
// keyed by exact board value. Entries are pure functions of the board,
// so racing recomputations across parallel games is harmless; the lock
// only protects the map structure itself.
type TranspositionTable struct {
	mu      sync.RWMutex
	entries map[domain.Board]TableEntry
	hits    atomic.Uint64
	misses  atomic.Uint64
}

func NewTranspositionTable() *TranspositionTable {
	return &TranspositionTable{entries: make(map[domain.Board]TableEntry)}
}

func (t *TranspositionTable) Lookup(board domain.Board) (TableEntry, bool) {
	t.mu.RLock()
	entry, ok := t.entries[board]
	t.mu.RUnlock()

	if ok {
		t.hits.Add(1)
	} else {
		t.misses.Add(1)
	}
	return entry, ok
}

func (t *TranspositionTable) Store(board domain.Board, entry TableEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// A definite verdict is never downgraded back to unknown.
	if old, ok := t.entries[board]; ok && old.Verdict != VerdictUnknown && entry.Verdict == VerdictUnknown {
		return
	}
	t.entries[board] = entry
}

func (t *TranspositionTable) Stats() CacheStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return CacheStats{Hits: t.hits.Load(), Misses: t.misses.Load(), Entries: len(t.entries)}
}

// Clear drops every entry but keeps the counters.
func (t *TranspositionTable) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[domain.Board]TableEntry)
}
