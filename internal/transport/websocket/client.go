package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/metrics"
)

const writeTimeout = 10 * time.Second

// ConnectionManager tracks the single live socket per user.
type ConnectionManager struct {
	connections map[int64]*websocket.Conn
	usernames   map[int64]string

	// writeMu serializes writes per socket; conn.WriteJSON is not safe
	// for concurrent use.
	writeMu map[int64]*sync.Mutex

	mu sync.RWMutex // protects the maps themselves
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[int64]*websocket.Conn),
		usernames:   make(map[int64]string),
		writeMu:     make(map[int64]*sync.Mutex),
	}
}

// AddConnection registers a socket, closing any previous one for the
// same user so a user only ever has one live connection.
func (cm *ConnectionManager) AddConnection(userID int64, conn *websocket.Conn, username string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if oldConn, exists := cm.connections[userID]; exists {
		oldConn.Close()
	} else {
		metrics.WebsocketConnections.Inc()
	}

	cm.connections[userID] = conn
	cm.usernames[userID] = username
	cm.writeMu[userID] = &sync.Mutex{}
}

func (cm *ConnectionManager) RemoveConnection(userID int64) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.removeLocked(userID, nil)
}

// RemoveConnectionIfMatching only removes the entry when it still points
// at conn, so a reconnect that already replaced the socket is untouched.
func (cm *ConnectionManager) RemoveConnectionIfMatching(userID int64, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.removeLocked(userID, conn)
}

func (cm *ConnectionManager) removeLocked(userID int64, expect *websocket.Conn) {
	conn, exists := cm.connections[userID]
	if !exists || (expect != nil && conn != expect) {
		return
	}
	conn.Close()
	delete(cm.connections, userID)
	delete(cm.usernames, userID)
	delete(cm.writeMu, userID)
	metrics.WebsocketConnections.Dec()
}

func (cm *ConnectionManager) IsCurrentConnection(userID int64, conn *websocket.Conn) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	currentConn, exists := cm.connections[userID]
	return exists && currentConn == conn
}

// SendMessage writes a JSON message to one user, holding that user's
// write lock for the duration.
func (cm *ConnectionManager) SendMessage(userID int64, message domain.ServerMessage) error {
	cm.mu.RLock()
	conn, exists := cm.connections[userID]
	mu, muExists := cm.writeMu[userID]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return nil // user disconnected, ignore
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(message)
}

// DisconnectUser pushes a best-effort notice and closes the socket.
func (cm *ConnectionManager) DisconnectUser(userID int64, reason string) {
	_ = cm.SendMessage(userID, domain.ServerMessage{
		Type:    "force_disconnect",
		Message: reason,
	})
	cm.RemoveConnection(userID)
}

func (cm *ConnectionManager) GetUsername(userID int64) (string, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	name, exists := cm.usernames[userID]
	return name, exists
}
