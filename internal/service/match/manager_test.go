package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

// scriptedAgent plays a fixed column every turn.
type scriptedAgent struct {
	column int
}

func (a scriptedAgent) Play(board domain.Board) (int, bool) {
	if board.IsTerminal() {
		return 0, false
	}
	return a.column, true
}

func (a scriptedAgent) String() string { return "Scripted" }

func TestManagerCreateSessionHumanFirst(t *testing.T) {
	m := NewManager(0)

	session, err := m.CreateSession(7, "alice", nil, true)
	require.NoError(t, err)

	assert.Equal(t, domain.PlayerA, session.HumanPiece)
	assert.Equal(t, domain.PlayerB, session.AIPiece)
	assert.Equal(t, "TriesToWin,Setup,AvoidInescapableTraps,AvoidTraps,ThreeInARow", session.Stack)

	col, err := session.OpeningMove()
	require.NoError(t, err)
	assert.Equal(t, -1, col, "AI should wait for the human opener")
	assert.Equal(t, 0, session.Game.Board.NumPiecesPlayed())
}

func TestManagerCreateSessionAIFirst(t *testing.T) {
	m := NewManager(0)

	session, err := m.CreateSession(7, "alice", nil, false)
	require.NoError(t, err)

	assert.Equal(t, domain.PlayerB, session.HumanPiece)
	assert.Equal(t, domain.PlayerA, session.AIPiece)

	col, err := session.OpeningMove()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, col, 0)
	assert.Less(t, col, domain.Columns)
	assert.Equal(t, 1, session.Game.Board.NumPiecesPlayed())
}

func TestManagerRejectsUnknownPolicy(t *testing.T) {
	m := NewManager(0)

	_, err := m.CreateSession(7, "alice", []string{"Clairvoyance"}, true)
	assert.Error(t, err)
}

func TestManagerReplacesExistingSession(t *testing.T) {
	m := NewManager(0)

	first, err := m.CreateSession(7, "alice", nil, true)
	require.NoError(t, err)
	second, err := m.CreateSession(7, "alice", nil, true)
	require.NoError(t, err)

	assert.NotEqual(t, first.MatchID, second.MatchID)
	assert.Equal(t, 1, m.ActiveSessions())

	_, exists := m.GetSession(first.MatchID)
	assert.False(t, exists)

	current, exists := m.GetSessionByUserID(7)
	require.True(t, exists)
	assert.Equal(t, second.MatchID, current.MatchID)
}

func TestManagerRemoveSession(t *testing.T) {
	m := NewManager(0)

	session, err := m.CreateSession(7, "alice", nil, true)
	require.NoError(t, err)

	require.NoError(t, m.RemoveSession(session.MatchID))
	assert.Error(t, m.RemoveSession(session.MatchID))
	_, exists := m.GetSessionByUserID(7)
	assert.False(t, exists)
}

func TestManagerCleanupIdleSessions(t *testing.T) {
	m := NewManager(0)

	_, err := m.CreateSession(7, "alice", nil, true)
	require.NoError(t, err)
	stale, err := m.CreateSession(8, "bob", nil, true)
	require.NoError(t, err)
	stale.mu.Lock()
	stale.lastActivity = time.Now().Add(-time.Hour)
	stale.mu.Unlock()

	removed := m.CleanupIdleSessions(30 * time.Minute)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, m.ActiveSessions())

	_, exists := m.GetSessionByUserID(8)
	assert.False(t, exists)
}

func TestSessionPlayHumanOutOfTurn(t *testing.T) {
	m := NewManager(0)

	// AI opens, so before OpeningMove the human may not play.
	session, err := m.CreateSession(7, "alice", nil, false)
	require.NoError(t, err)

	_, err = session.PlayHuman(3)
	assert.ErrorIs(t, err, domain.ErrInvalidMove)
}

func TestSessionPlayHumanWithAIReply(t *testing.T) {
	m := NewManager(0)

	session, err := m.CreateSession(7, "alice", nil, true)
	require.NoError(t, err)

	result, err := session.PlayHuman(3)
	require.NoError(t, err)

	assert.Equal(t, 3, result.HumanColumn)
	assert.GreaterOrEqual(t, result.AIColumn, 0)
	assert.Equal(t, domain.StatusActive, result.Status)
	assert.Equal(t, 2, result.TotalMoves)
	assert.Empty(t, result.Winner)
	assert.False(t, session.Finished())
}

// Against an agent that keeps stacking column 0, four drops in column 6
// win the game for the human.
func TestSessionHumanWinsAgainstScriptedAgent(t *testing.T) {
	session := newSession(7, "alice", true, []string{"Scripted"}, scriptedAgent{column: 0})

	var result MoveResult
	var err error
	for i := 0; i < 4; i++ {
		result, err = session.PlayHuman(6)
		require.NoError(t, err)
	}

	assert.Equal(t, domain.StatusWon, result.Status)
	assert.Equal(t, "user", result.Winner)
	assert.Equal(t, -1, result.AIColumn, "game ended before the AI could reply")
	assert.True(t, session.Finished())
	assert.Equal(t, "user", session.Outcome())

	_, err = session.PlayHuman(6)
	assert.ErrorIs(t, err, domain.ErrGameOver)
}

func TestSessionSnapshotReflectsBoard(t *testing.T) {
	session := newSession(7, "alice", true, []string{"Scripted"}, scriptedAgent{column: 0})

	_, err := session.PlayHuman(3)
	require.NoError(t, err)

	snap := session.Snapshot()
	assert.Equal(t, -1, snap.HumanColumn)
	assert.Equal(t, domain.StatusActive, snap.Status)
	assert.Equal(t, 2, snap.TotalMoves)
	assert.Equal(t, session.Game.Board.String(), snap.Board)
}
