package cleanup

import (
	"log"
	"time"

	"github.com/iamasit07/connect4-ai/internal/service/match"
)

// SessionStore is the slice of the session repository the worker needs.
type SessionStore interface {
	CleanupOldSessions(olderThanDays int) (int64, error)
}

type Worker struct {
	Matches     *match.Manager
	Sessions    SessionStore
	IdleTimeout time.Duration
}

func NewWorker(matches *match.Manager, sessions SessionStore, idleTimeout time.Duration) *Worker {
	return &Worker{Matches: matches, Sessions: sessions, IdleTimeout: idleTimeout}
}

// Start initiates the background ticker
func (w *Worker) Start() {
	go w.runCleanup()

	ticker := time.NewTicker(1 * time.Hour)
	go func() {
		for range ticker.C {
			w.runCleanup()
		}
	}()
	log.Println("[CLEANUP] Background worker started")
}

// runCleanup executes the actual cleanup logic
func (w *Worker) runCleanup() {
	log.Println("[CLEANUP] Starting scheduled cleanup task...")

	if removed := w.Matches.CleanupIdleSessions(w.IdleTimeout); removed > 0 {
		log.Printf("[CLEANUP] Removed %d idle match sessions", removed)
	}

	daysToKeep := 30 // Delete login sessions older than 30 days
	deletedCount, err := w.Sessions.CleanupOldSessions(daysToKeep)
	if err != nil {
		log.Printf("[CLEANUP] Error cleaning up DB sessions: %v", err)
	} else if deletedCount > 0 {
		log.Printf("[CLEANUP] Removed %d expired sessions from database", deletedCount)
	}
}
