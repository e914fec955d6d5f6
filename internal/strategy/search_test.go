package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

// doubleThreatBoard has A on the bottom at columns 2 and 3 with both
// flanks open. Playing 1 or 4 makes an open-ended three that wins on
// the following move no matter what B does.
func doubleThreatBoard(t *testing.T) domain.Board {
	return mustParse(t, "////      B/  AA  B")
}

func TestSearchFindsTwoMoveForcedWin(t *testing.T) {
	search := NewSearchForWin(domain.PlayerA, 1)
	search.MinPieces = 0

	col, ok := search.Choose(doubleThreatBoard(t), allColumns())
	require.True(t, ok)
	assert.Equal(t, 1, col, "column 1 is the first open-three move in scan order")
}

func TestSearchDeclinesAtZeroDepth(t *testing.T) {
	search := NewSearchForWin(domain.PlayerA, 0)
	search.MinPieces = 0

	_, ok := search.Choose(doubleThreatBoard(t), allColumns())
	assert.False(t, ok)
}

func TestSearchDeclinesWhenEveryLineIsRefuted(t *testing.T) {
	// B holds an open-ended three; whatever A does, B wins next turn.
	board := mustParse(t, "////     A/ BBB AA")
	search := NewSearchForWin(domain.PlayerA, 3)
	search.MinPieces = 0

	_, ok := search.Choose(board, allColumns())
	assert.False(t, ok)
}

func TestSearchRespectsMinPieceGate(t *testing.T) {
	search := NewSearchForWin(domain.PlayerA, 1)

	_, ok := search.Choose(doubleThreatBoard(t), allColumns())
	assert.False(t, ok, "early positions are below the gate and must be declined")
}

func TestSearchOutOfTurnPanics(t *testing.T) {
	search := NewSearchForWin(domain.PlayerB, 1)
	search.MinPieces = 0

	// A is to move on this board, so searching for B is a contract bug.
	assert.Panics(t, func() { search.Choose(doubleThreatBoard(t), allColumns()) })
}

type recordingTable struct {
	entries map[domain.Board]TableEntry
	lookups int
	stores  int
}

func newRecordingTable() *recordingTable {
	return &recordingTable{entries: map[domain.Board]TableEntry{}}
}

func (t *recordingTable) Lookup(board domain.Board) (TableEntry, bool) {
	t.lookups++
	entry, ok := t.entries[board]
	return entry, ok
}

func (t *recordingTable) Store(board domain.Board, entry TableEntry) {
	t.stores++
	t.entries[board] = entry
}

func TestSearchTrustsDefiniteTableVerdicts(t *testing.T) {
	board := doubleThreatBoard(t)
	table := newRecordingTable()
	// Pretend a previous search proved column 6 winning.
	table.entries[board.Place(6, domain.PlayerA)] = TableEntry{Verdict: VerdictWin}

	search := NewSearchForWinCache(domain.PlayerA, 1, table)
	search.MinPieces = 0

	col, ok := search.Choose(board, []int{6})
	require.True(t, ok)
	assert.Equal(t, 6, col)
	assert.Equal(t, 1, table.lookups)
	assert.Zero(t, table.stores)
}

func TestSearchCachesUnknownWithSearchDepth(t *testing.T) {
	board := doubleThreatBoard(t)
	table := newRecordingTable()

	search := NewSearchForWinCache(domain.PlayerA, 1, table)
	search.MinPieces = 0

	// Column 0 leaves a single blockable threat: unknown at this horizon.
	_, _ = search.Choose(board, []int{0})

	entry, ok := table.entries[board.Place(0, domain.PlayerA)]
	require.True(t, ok)
	assert.Equal(t, VerdictUnknown, entry.Verdict)
	assert.Equal(t, 1, entry.DepthSearchedAt)
}

func TestSearchSkipsReSearchAtSameHorizon(t *testing.T) {
	board := doubleThreatBoard(t)
	table := newRecordingTable()

	search := NewSearchForWinCache(domain.PlayerA, 1, table)
	search.MinPieces = 0

	_, _ = search.Choose(board, []int{0})
	storesAfterFirst := table.stores

	_, _ = search.Choose(board, []int{0})
	assert.Equal(t, storesAfterFirst, table.stores,
		"re-searching at the same depth should be answered from the table")
}

func TestSearchSharedTableSpeedsUpSecondSearcher(t *testing.T) {
	board := doubleThreatBoard(t)
	table := NewTranspositionTable()

	first := NewSearchForWinCache(domain.PlayerA, 1, table)
	first.MinPieces = 0
	col, ok := first.Choose(board, allColumns())
	require.True(t, ok)

	second := NewSearchForWinCache(domain.PlayerA, 1, table)
	second.MinPieces = 0
	again, ok2 := second.Choose(board, allColumns())
	require.True(t, ok2)
	assert.Equal(t, col, again)
	assert.Positive(t, table.Stats().Hits)
}

func TestSearchNames(t *testing.T) {
	assert.Equal(t, "SearchForWin", NewSearchForWin(domain.PlayerA, 3).Name())
	assert.Equal(t, "SearchForWinCache",
		NewSearchForWinCache(domain.PlayerA, 3, NewTranspositionTable()).Name())
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "unknown", VerdictUnknown.String())
	assert.Equal(t, "win", VerdictWin.String())
	assert.Equal(t, "no-forced-win", VerdictNoForcedWin.String())
}
