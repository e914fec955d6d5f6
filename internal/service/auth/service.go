// Package auth implements login sessions on top of JWTs: the token is
// stateless, the session row makes it revocable, and the optional Redis
// blocklist makes revocation cheap to check.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iamasit07/connect4-ai/internal/domain"
	pkgauth "github.com/iamasit07/connect4-ai/pkg/auth"
)

const sessionKeyPrefix = "session:"
const blockedSessionKeyPrefix = "blocked_session:"
const sessionTTL = 30 * 24 * time.Hour // 30 days
const blocklistTTL = 1 * time.Hour

type SessionRepository interface {
	CreateSession(userID int64, sessionID, deviceInfo, ipAddress string, expiresAt time.Time) error
	GetSessionByID(sessionID string) (*domain.UserSession, error)
	DeactivateAllUserSessions(userID int64) error
	DeactivateSession(sessionID string) error
	UpdateSessionActivity(sessionID string) error
	GetUserSessionHistory(userID int64, limit int) ([]domain.UserSession, error)
}

type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Service handles authentication session logic.
type Service struct {
	repo  SessionRepository
	cache CacheRepository // Optional, can be nil
}

func NewService(repo SessionRepository, cache CacheRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// CreateSession opens a new login session and returns its JWT.
func (s *Service) CreateSession(userID int64, username, deviceInfo, ipAddress string) (token, sessionID string, err error) {
	sessionID = pkgauth.GenerateToken()
	expiresAt := time.Now().Add(sessionTTL)

	if err := s.repo.CreateSession(userID, sessionID, deviceInfo, ipAddress, expiresAt); err != nil {
		return "", "", fmt.Errorf("failed to store session: %v", err)
	}

	if s.cache != nil {
		session := &domain.UserSession{
			UserID:       userID,
			SessionID:    sessionID,
			DeviceInfo:   deviceInfo,
			IPAddress:    ipAddress,
			CreatedAt:    time.Now(),
			ExpiresAt:    expiresAt,
			LastActivity: time.Now(),
			IsActive:     true,
		}
		if err := s.setSessionInCache(session); err != nil {
			log.Printf("[SESSION] Warning: Failed to cache session: %v", err)
		}
	}

	token, err = pkgauth.GenerateJWT(userID, username, sessionID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate token: %v", err)
	}
	return token, sessionID, nil
}

// ValidateToken checks both the JWT signature and the backing session.
func (s *Service) ValidateToken(tokenString string) (*pkgauth.Claims, error) {
	claims, err := pkgauth.ValidateJWT(tokenString)
	if err != nil {
		return nil, err
	}
	if s.isSessionBlocked(claims.SessionID) {
		return nil, errors.New("session is blocked/revoked")
	}
	session, err := s.GetSession(claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %v", err)
	}
	if session == nil || !session.IsActive {
		return nil, errors.New("session invalidated")
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, errors.New("session expired")
	}
	return claims, nil
}

// GetSession reads through the cache to the database.
func (s *Service) GetSession(sessionID string) (*domain.UserSession, error) {
	if s.cache != nil {
		if session, err := s.getSessionFromCache(sessionID); err == nil && session != nil {
			return session, nil
		}
	}
	session, err := s.repo.GetSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session != nil && s.cache != nil {
		if err := s.setSessionInCache(session); err != nil {
			log.Printf("[SESSION] Warning: Failed to populate cache: %v", err)
		}
	}
	return session, nil
}

// InvalidateSession marks session as inactive AND adds it to the
// blocklist so already-issued tokens die immediately.
func (s *Service) InvalidateSession(sessionID string) error {
	if err := s.repo.DeactivateSession(sessionID); err != nil {
		return fmt.Errorf("failed to deactivate session: %v", err)
	}
	if s.cache != nil {
		ctx := context.Background()
		s.cache.Del(ctx, sessionKeyPrefix+sessionID)
	}
	return s.blocklistSession(sessionID)
}

// InvalidateAllUserSessions logs the user out everywhere.
func (s *Service) InvalidateAllUserSessions(userID int64) error {
	if err := s.repo.DeactivateAllUserSessions(userID); err != nil {
		return fmt.Errorf("failed to deactivate user sessions: %v", err)
	}
	return nil
}

func (s *Service) UpdateSessionActivity(sessionID string) error {
	if err := s.repo.UpdateSessionActivity(sessionID); err != nil {
		return err
	}
	if s.cache != nil {
		session, err := s.repo.GetSessionByID(sessionID)
		if err == nil && session != nil {
			if err := s.setSessionInCache(session); err != nil {
				log.Printf("[SESSION] Warning: Failed to update session in cache: %v", err)
			}
		}
	}
	return nil
}

func (s *Service) GetUserSessionHistory(userID int64, limit int) ([]domain.UserSession, error) {
	return s.repo.GetUserSessionHistory(userID, limit)
}

func (s *Service) blocklistSession(sessionID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(context.Background(), blockedSessionKeyPrefix+sessionID, "1", blocklistTTL)
}

func (s *Service) isSessionBlocked(sessionID string) bool {
	if s.cache == nil {
		return false
	}
	val, err := s.cache.Get(context.Background(), blockedSessionKeyPrefix+sessionID)
	return err == nil && val != ""
}

func (s *Service) setSessionInCache(session *domain.UserSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.cache.Set(context.Background(), sessionKeyPrefix+session.SessionID, data, sessionTTL)
}

func (s *Service) getSessionFromCache(sessionID string) (*domain.UserSession, error) {
	data, err := s.cache.Get(context.Background(), sessionKeyPrefix+sessionID)
	if err != nil {
		return nil, err
	}
	var session domain.UserSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}
