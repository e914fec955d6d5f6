package match

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/metrics"
	"github.com/iamasit07/connect4-ai/internal/strategy"
)

// Manager tracks the live sessions. One active game per user; starting a
// new one replaces an abandoned game.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*Session // matchID -> session
	userToMatch map[int64]string

	table       *strategy.TranspositionTable
	seed        int64
	searchDepth int
}

// NewManager builds the session registry. searchDepth is handed to every
// stack's search policies; 0 keeps the policy defaults.
func NewManager(searchDepth int) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		userToMatch: make(map[int64]string),
		table:       strategy.NewTranspositionTable(),
		seed:        time.Now().UnixNano(),
		searchDepth: searchDepth,
	}
}

// CreateSession starts a new game for the user. Empty stackNames selects
// the default stack.
func (m *Manager) CreateSession(userID int64, username string, stackNames []string, humanFirst bool) (*Session, error) {
	if len(stackNames) == 0 {
		stackNames = strategy.DefaultStackNames()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	piece := domain.PlayerB
	if !humanFirst {
		piece = domain.PlayerA
	}
	m.seed++
	stages := make([]strategy.Stage, 0, len(stackNames))
	for _, name := range stackNames {
		stage, err := strategy.NewStage(name, piece, m.table, m.searchDepth)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	stack := strategy.NewStack(rand.New(rand.NewSource(m.seed)), stages...)

	session := newSession(userID, username, humanFirst, stackNames, stack)

	if old, exists := m.userToMatch[userID]; exists {
		delete(m.sessions, old)
	}
	m.sessions[session.MatchID] = session
	m.userToMatch[userID] = session.MatchID
	metrics.MatchesStarted.Inc()
	metrics.ActiveMatches.Set(float64(len(m.sessions)))

	log.Printf("[MATCH] Created session %s: %s (ID: %d) vs %s", session.MatchID, username, userID, session.Stack)
	return session, nil
}

func (m *Manager) GetSession(matchID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, exists := m.sessions[matchID]
	return session, exists
}

func (m *Manager) GetSessionByUserID(userID int64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matchID, exists := m.userToMatch[userID]
	if !exists {
		return nil, false
	}
	session, exists := m.sessions[matchID]
	return session, exists
}

func (m *Manager) RemoveSession(matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[matchID]
	if !exists {
		return fmt.Errorf("session not found")
	}
	delete(m.userToMatch, session.UserID)
	delete(m.sessions, matchID)
	metrics.ActiveMatches.Set(float64(len(m.sessions)))
	log.Printf("[MATCH] Removed session %s", matchID)
	return nil
}

// CleanupIdleSessions drops finished sessions and games abandoned longer
// than the idle timeout. Returns how many were removed.
func (m *Manager) CleanupIdleSessions(idleTimeout time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-idleTimeout)
	removed := 0
	for matchID, session := range m.sessions {
		if session.Finished() || session.IdleSince().Before(cutoff) {
			delete(m.userToMatch, session.UserID)
			delete(m.sessions, matchID)
			removed++
		}
	}
	metrics.ActiveMatches.Set(float64(len(m.sessions)))
	return removed
}

// ActiveSessions reports the number of live games, for metrics.
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// TableStats exposes the shared transposition table counters.
func (m *Manager) TableStats() strategy.CacheStats {
	return m.table.Stats()
}
