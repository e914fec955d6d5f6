package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/service/match"
)

func TestMatchStartedMessageHumanFirst(t *testing.T) {
	manager := match.NewManager(0)
	session, err := manager.CreateSession(1, "alice", nil, true)
	require.NoError(t, err)

	msg := matchStartedMessage(session)

	assert.Equal(t, "match_started", msg.Type)
	assert.Equal(t, session.MatchID, msg.MatchID)
	assert.Equal(t, "PlayerA", msg.YourPiece)
	assert.Equal(t, session.Stack, msg.Stack)
	assert.Nil(t, msg.AIColumn, "AI has not moved when the human opens")
	assert.Equal(t, domain.StatusActive, msg.Status)
	assert.Equal(t, domain.NewBoard().String(), msg.Board)
}

func TestMatchStartedMessageAIOpens(t *testing.T) {
	manager := match.NewManager(0)
	session, err := manager.CreateSession(1, "alice", nil, false)
	require.NoError(t, err)

	msg := matchStartedMessage(session)

	assert.Equal(t, "PlayerB", msg.YourPiece)
	require.NotNil(t, msg.AIColumn)
	assert.GreaterOrEqual(t, *msg.AIColumn, 0)
	assert.Less(t, *msg.AIColumn, domain.Columns)
	assert.Equal(t, domain.StatusActive, msg.Status)
}
