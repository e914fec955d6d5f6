package http

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-ai/internal/repository/postgres"
	authsvc "github.com/iamasit07/connect4-ai/internal/service/auth"
	"github.com/iamasit07/connect4-ai/internal/transport/http/middleware"
	"github.com/iamasit07/connect4-ai/pkg/auth"
	"github.com/iamasit07/connect4-ai/pkg/httputil"
	"github.com/iamasit07/connect4-ai/pkg/useragent"
)

// Disconnector cuts a user's live websocket, used when a login from a
// new device invalidates the old sessions.
type Disconnector interface {
	DisconnectUser(userID int64, reason string)
}

type AuthHandler struct {
	UserRepo    *postgres.UserRepo
	Sessions    *authsvc.Service
	ConnManager Disconnector
	Cache       authsvc.CacheRepository
}

func NewAuthHandler(userRepo *postgres.UserRepo, sessions *authsvc.Service, cm Disconnector, cache authsvc.CacheRepository) *AuthHandler {
	return &AuthHandler{
		UserRepo:    userRepo,
		Sessions:    sessions,
		ConnManager: cm,
		Cache:       cache,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}
	if len(req.Username) < 3 || len(req.Username) > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be between 3 and 50 characters"})
		return
	}
	if strings.ToUpper(req.Username) == "AI" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username 'AI' is reserved"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}

	existing, _ := h.UserRepo.GetUserByIdentifier(req.Username)
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already taken"})
		return
	}

	hashedPwd, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	userID, err := h.UserRepo.CreateUser(req.Username, req.Name, hashedPwd, req.Email, "", "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := createSessionForRequest(c, h.Sessions, userID, req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":       userID,
			"username": req.Username,
			"name":     req.Name,
			"email":    req.Email,
			"rating":   1000,
			"wins":     0,
			"losses":   0,
			"draws":    0,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.UserRepo.GetUserByIdentifier(req.Username)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := h.Sessions.InvalidateAllUserSessions(user.ID); err != nil {
		log.Printf("[AUTH] Failed to invalidate old sessions for user %d: %v", user.ID, err)
	}
	if h.ConnManager != nil {
		h.ConnManager.DisconnectUser(user.ID, "Logged in from another device")
	}

	token, err := createSessionForRequest(c, h.Sessions, user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.UserResponse(),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID := c.GetString("session_id"); sessionID != "" {
		if err := h.Sessions.InvalidateSession(sessionID); err != nil {
			log.Printf("[AUTH] Failed to invalidate session %s: %v", sessionID, err)
		}
	}
	httputil.ClearAuthCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cacheKey := fmt.Sprintf("user_profile:%d", userID)
	if h.Cache != nil {
		cachedData, err := h.Cache.Get(c.Request.Context(), cacheKey)
		if err == nil && cachedData != "" {
			var response map[string]interface{}
			if err := json.Unmarshal([]byte(cachedData), &response); err == nil {
				c.Header("X-Cache", "HIT")
				c.JSON(http.StatusOK, response)
				return
			}
		}
	}

	user, err := h.UserRepo.GetUserByID(userID)
	if err != nil || user == nil {
		log.Printf("[AUTH] /me: GetUserByID failed for user %d: %v", userID, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	response := user.UserResponse()
	if h.Cache != nil {
		if data, err := json.Marshal(response); err == nil {
			h.Cache.Set(c.Request.Context(), cacheKey, data, time.Hour)
		}
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name must be at most 100 characters"})
		return
	}

	if err := h.UserRepo.UpdateProfile(userID, req.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	user, err := h.UserRepo.GetUserByID(userID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if h.Cache != nil {
		h.Cache.Del(c.Request.Context(), fmt.Sprintf("user_profile:%d", userID))
	}

	c.JSON(http.StatusOK, gin.H{"user": user.UserResponse()})
}

func (h *AuthHandler) SessionHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sessions, err := h.Sessions.GetUserSessionHistory(userID, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch session history"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// createSessionForRequest opens a server-side session for the request's
// device and sets the auth cookie.
func createSessionForRequest(c *gin.Context, sessions *authsvc.Service, userID int64, username string) (string, error) {
	deviceInfo := useragent.ExtractDeviceInfo(c.Request)
	ipAddress := useragent.ExtractIPAddress(c.Request)

	token, _, err := sessions.CreateSession(userID, username, deviceInfo, ipAddress)
	if err != nil {
		return "", err
	}

	httputil.SetAuthCookie(c.Writer, token, time.Now().Add(30*24*time.Hour))
	return token, nil
}
