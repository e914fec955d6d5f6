package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/repository/postgres"
	"github.com/iamasit07/connect4-ai/internal/service/arena"
	"github.com/iamasit07/connect4-ai/internal/service/auth"
	"github.com/iamasit07/connect4-ai/internal/service/match"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Handler owns the live-play websocket endpoint.
type Handler struct {
	ConnManager *ConnectionManager
	Matches     *match.Manager
	Arena       *arena.Service
	AuthService *auth.Service
	Upgrader    websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, matches *match.Manager, arenaSvc *arena.Service, authSvc *auth.Service) *Handler {
	return &Handler{
		ConnManager: cm,
		Matches:     matches,
		Arena:       arenaSvc,
		AuthService: authSvc,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket upgrades the request and runs the connection loop.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	h.handleConnection(conn)
}

func (h *Handler) handleConnection(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(readTimeout))

	done := make(chan struct{})
	defer close(done)

	// Keep-alive pinger
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	// First message must be an init carrying the session token.
	_, data, err := conn.ReadMessage()
	if err != nil {
		log.Printf("[WS] Read error during init: %v", err)
		conn.Close()
		return
	}

	var message domain.ClientMessage
	if err := json.Unmarshal(data, &message); err != nil {
		log.Printf("[WS] Invalid JSON during init: %v", err)
		conn.Close()
		return
	}

	if message.Type != "init" || message.Token == "" {
		log.Printf("[WS] Missing initialization or token")
		conn.Close()
		return
	}

	claims, err := h.AuthService.ValidateToken(message.Token)
	if err != nil {
		log.Printf("[WS] Invalid token during init: %v", err)
		conn.WriteJSON(domain.ServerMessage{Type: "error", Message: "Invalid token or session expired"})
		conn.Close()
		return
	}
	userID := claims.UserID
	username := claims.Username
	sessionID := claims.SessionID

	log.Printf("[WS] Connection initialized for user: %s (ID: %d)", username, userID)
	h.ConnManager.AddConnection(userID, conn, username)
	conn.WriteJSON(domain.ServerMessage{Type: "ready"})

	defer func() {
		log.Printf("[WS] Connection closed for user %s", username)
		h.ConnManager.RemoveConnectionIfMatching(userID, conn)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] User disconnected unexpectedly: %v", err)
			}
			break
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Invalid message format: %v", err)
			continue
		}

		// Every message re-validates the session so a login from another
		// device cuts this connection off at the next action.
		if !h.sessionStillActive(userID, sessionID) {
			return
		}

		h.processMessage(userID, username, msg)
	}
}

func (h *Handler) sessionStillActive(userID int64, sessionID string) bool {
	sess, err := h.AuthService.GetSession(sessionID)
	if err != nil {
		log.Printf("[WS] Session lookup error for sessionID=%s, userID=%d: %v", sessionID, userID, err)
		h.ConnManager.SendMessage(userID, domain.ServerMessage{Type: "error", Message: "Session lookup failed"})
		return false
	}
	if sess == nil {
		log.Printf("[WS] Session not found: sessionID=%s, userID=%d", sessionID, userID)
		h.ConnManager.SendMessage(userID, domain.ServerMessage{Type: "error", Message: "Session not found"})
		return false
	}
	if !sess.IsActive {
		log.Printf("[WS] Session inactive: sessionID=%s, userID=%d", sessionID, userID)
		h.ConnManager.SendMessage(userID, domain.ServerMessage{Type: "error", Message: "Session expired or logged out"})
		return false
	}
	return true
}

func (h *Handler) processMessage(userID int64, username string, msg domain.ClientMessage) {
	switch msg.Type {
	case "start_match":
		humanFirst := true
		if msg.HumanFirst != nil {
			humanFirst = *msg.HumanFirst
		}
		session, err := h.Matches.CreateSession(userID, username, msg.Stack, humanFirst)
		if err != nil {
			h.ConnManager.SendMessage(userID, domain.ServerMessage{Type: "error", Message: err.Error()})
			return
		}

		h.ConnManager.SendMessage(userID, matchStartedMessage(session))

	case "make_move":
		session, exists := h.Matches.GetSessionByUserID(userID)
		if !exists {
			h.ConnManager.SendMessage(userID, domain.ServerMessage{Type: "error", Message: "Game not found"})
			return
		}

		result, err := session.PlayHuman(msg.Column)
		if err != nil {
			h.ConnManager.SendMessage(userID, domain.ServerMessage{Type: "error", Message: moveErrorText(err)})
			return
		}

		reply := domain.ServerMessage{
			Type:       "move_made",
			MatchID:    session.MatchID,
			Column:     &result.HumanColumn,
			Board:      result.Board,
			Status:     result.Status,
			TotalMoves: result.TotalMoves,
		}
		if result.AIColumn >= 0 {
			reply.AIColumn = &result.AIColumn
		}
		h.ConnManager.SendMessage(userID, reply)

		if session.Finished() {
			h.finishMatch(userID, session, result)
		}

	case "abandon_match":
		session, exists := h.Matches.GetSessionByUserID(userID)
		if !exists {
			return
		}
		h.Matches.RemoveSession(session.MatchID)
		h.ConnManager.SendMessage(userID, domain.ServerMessage{Type: "match_abandoned", MatchID: session.MatchID})
	}
}

// matchStartedMessage builds the match_started payload. YourPiece carries
// the piece name, not the raw byte, so clients can match on "PlayerA".
func matchStartedMessage(session *match.Session) domain.ServerMessage {
	start := domain.ServerMessage{
		Type:      "match_started",
		MatchID:   session.MatchID,
		YourPiece: session.HumanPiece.Name(),
		Stack:     session.Stack,
	}
	if col, err := session.OpeningMove(); err == nil && col >= 0 {
		start.AIColumn = &col
	}
	snapshot := session.Snapshot()
	start.Board = snapshot.Board
	start.Status = snapshot.Status
	return start
}

// finishMatch persists the result and notifies the player.
func (h *Handler) finishMatch(userID int64, session *match.Session, result match.MoveResult) {
	record := postgres.MatchRecord{
		MatchID:         session.MatchID,
		UserID:          session.UserID,
		Username:        session.Username,
		Stack:           session.Stack,
		Outcome:         result.Winner,
		TotalMoves:      result.TotalMoves,
		DurationSeconds: int(time.Since(session.CreatedAt).Seconds()),
		BoardState:      result.Board,
		CreatedAt:       session.CreatedAt,
		FinishedAt:      time.Now(),
	}

	// Persistence must not block the socket loop.
	go func() {
		if err := h.Arena.RecordHumanMatch(record); err != nil {
			log.Printf("[WS] Failed to record match %s: %v", record.MatchID, err)
		}
	}()

	h.ConnManager.SendMessage(userID, domain.ServerMessage{
		Type:       "match_over",
		MatchID:    session.MatchID,
		Winner:     result.Winner,
		Board:      result.Board,
		Status:     result.Status,
		TotalMoves: result.TotalMoves,
	})
	h.Matches.RemoveSession(session.MatchID)
}

func moveErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidMove):
		return "Invalid move"
	case errors.Is(err, domain.ErrColumnFull):
		return "Column is full"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is already over"
	}
	return err.Error()
}
