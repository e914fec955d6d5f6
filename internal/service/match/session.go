// Package match manages live human-versus-AI games in memory.
package match

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/metrics"
	"github.com/iamasit07/connect4-ai/internal/strategy"
)

// Session is one live game between a user and an AI stack. PlayerA
// always moves first, so humanFirst decides which piece each side owns.
type Session struct {
	MatchID    string
	UserID     int64
	Username   string
	HumanPiece domain.Piece
	AIPiece    domain.Piece
	Stack      string

	Game      *domain.Game
	Agent     strategy.Agent
	CreatedAt time.Time

	mu           sync.Mutex
	lastActivity time.Time
	finished     bool
}

// MoveResult reports everything the transport needs to render one turn.
type MoveResult struct {
	HumanColumn int               `json:"human_column"`
	AIColumn    int               `json:"ai_column"` // -1 when the AI didn't move
	Board       string            `json:"board"`
	Status      domain.GameStatus `json:"status"`
	Winner      string            `json:"winner,omitempty"` // "user", "ai" or "draw"
	TotalMoves  int               `json:"total_moves"`
}

func newSession(userID int64, username string, humanFirst bool, stackNames []string, agent strategy.Agent) *Session {
	humanPiece := domain.PlayerA
	aiPiece := domain.PlayerB
	if !humanFirst {
		humanPiece, aiPiece = domain.PlayerB, domain.PlayerA
	}
	return &Session{
		MatchID:      uuid.NewString(),
		UserID:       userID,
		Username:     username,
		HumanPiece:   humanPiece,
		AIPiece:      aiPiece,
		Stack:        strings.Join(stackNames, ","),
		Game:         domain.NewGame(),
		Agent:        agent,
		CreatedAt:    time.Now(),
		lastActivity: time.Now(),
	}
}

// OpeningMove lets the AI take its first turn when it plays first.
// Returns -1 when it is the human's move.
func (s *Session) OpeningMove() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Game.Board.NextPlayer() != s.AIPiece {
		return -1, nil
	}
	return s.aiMoveLocked()
}

// PlayHuman commits the user's move and, when the game continues, the
// AI's reply.
func (s *Session) PlayHuman(column int) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()

	if s.Game.IsFinished() {
		return MoveResult{}, domain.ErrGameOver
	}
	if s.Game.Board.NextPlayer() != s.HumanPiece {
		return MoveResult{}, domain.ErrInvalidMove
	}
	if err := s.Game.MakeMove(column); err != nil {
		return MoveResult{}, err
	}
	metrics.MovesPlayed.WithLabelValues("human").Inc()

	result := MoveResult{HumanColumn: column, AIColumn: -1}
	if !s.Game.IsFinished() {
		aiCol, err := s.aiMoveLocked()
		if err != nil {
			return MoveResult{}, err
		}
		result.AIColumn = aiCol
	}

	result.Board = s.Game.Board.String()
	result.Status = s.Game.Status
	result.TotalMoves = s.Game.Board.NumPiecesPlayed()
	if s.Game.IsFinished() {
		s.finished = true
		result.Winner = s.outcomeLocked()
		metrics.MatchesFinished.WithLabelValues(result.Winner).Inc()
	}
	return result, nil
}

func (s *Session) aiMoveLocked() (int, error) {
	start := time.Now()
	col, ok := s.Agent.Play(s.Game.Board)
	metrics.AIDecisionDuration.Observe(time.Since(start).Seconds())
	if !ok {
		return -1, domain.ErrGameOver
	}
	if err := s.Game.MakeMove(col); err != nil {
		return -1, err
	}
	metrics.MovesPlayed.WithLabelValues("ai").Inc()
	return col, nil
}

// outcomeLocked maps the board winner to the persisted outcome label.
func (s *Session) outcomeLocked() string {
	switch s.Game.Winner {
	case s.HumanPiece:
		return "user"
	case s.AIPiece:
		return "ai"
	}
	return "draw"
}

// Snapshot returns the current position without mutating anything.
func (s *Session) Snapshot() MoveResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := MoveResult{
		HumanColumn: -1,
		AIColumn:    -1,
		Board:       s.Game.Board.String(),
		Status:      s.Game.Status,
		TotalMoves:  s.Game.Board.NumPiecesPlayed(),
	}
	if s.Game.IsFinished() {
		result.Winner = s.outcomeLocked()
	}
	return result
}

// Finished reports whether the game reached a terminal state.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Outcome is only meaningful once Finished() is true.
func (s *Session) Outcome() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcomeLocked()
}

func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}
