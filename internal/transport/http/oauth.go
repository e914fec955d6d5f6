package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-ai/internal/config"
	"github.com/iamasit07/connect4-ai/internal/repository/postgres"
	authsvc "github.com/iamasit07/connect4-ai/internal/service/auth"
	"github.com/iamasit07/connect4-ai/pkg/auth"
)

type OAuthHandler struct {
	UserRepo    *postgres.UserRepo
	Sessions    *authsvc.Service
	Config      *config.OAuthConfig
	ConnManager Disconnector
}

func NewOAuthHandler(userRepo *postgres.UserRepo, sessions *authsvc.Service, cfg *config.OAuthConfig, cm Disconnector) *OAuthHandler {
	return &OAuthHandler{
		UserRepo:    userRepo,
		Sessions:    sessions,
		Config:      cfg,
		ConnManager: cm,
	}
}

// GoogleLogin redirects the user to Google's consent screen.
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	url := h.Config.GoogleLoginConfig.AuthCodeURL("state")
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback handles the response from Google. Known emails log in
// directly; new users are sent to the signup-completion page with a
// short-lived setup token.
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	token, err := h.Config.GoogleLoginConfig.Exchange(context.Background(), code)
	if err != nil {
		log.Printf("[OAUTH] Failed to exchange token: %v", err)
		c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=auth_failed")
		return
	}

	userInfo, err := config.GetGoogleUserInfo(token.AccessToken)
	if err != nil {
		log.Printf("[OAUTH] Failed to get user info: %v", err)
		c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=user_info_failed")
		return
	}

	user, err := h.UserRepo.GetUserByEmail(userInfo.Email)
	if err != nil {
		log.Printf("[OAUTH] Failed to look up user: %v", err)
		c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=server_error")
		return
	}

	if user == nil {
		// New user: don't create an account yet, hand the frontend a
		// setup token for the completion form.
		setupToken, err := auth.GenerateSetupToken(userInfo.Email, userInfo.ID, userInfo.Name, userInfo.Picture)
		if err != nil {
			log.Printf("[OAUTH] Failed to generate setup token: %v", err)
			c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=setup_failed")
			return
		}

		redirectURL := fmt.Sprintf("%s/complete-signup?token=%s&email=%s&name=%s",
			config.AppConfig.FrontendURL, setupToken, userInfo.Email, userInfo.Name)
		c.Redirect(http.StatusTemporaryRedirect, redirectURL)
		return
	}

	// Auto-link the Google ID when the account was created with a password.
	if !user.GoogleID.Valid {
		if err := h.UserRepo.UpdateUserGoogleID(userInfo.Email, userInfo.ID); err != nil {
			log.Printf("[OAUTH] Failed to link Google ID: %v", err)
		}
	}

	if err := h.Sessions.InvalidateAllUserSessions(user.ID); err != nil {
		log.Printf("[OAUTH] Failed to invalidate old sessions for user %d: %v", user.ID, err)
	}
	if h.ConnManager != nil {
		h.ConnManager.DisconnectUser(user.ID, "Logged in from another device via Google")
	}

	if _, err := h.newSession(c, user.ID, user.Username); err != nil {
		log.Printf("[OAUTH] Failed to create session: %v", err)
		c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=server_error")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/dashboard")
}

// CompleteGoogleSignup finishes registration for a new Google user.
func (h *OAuthHandler) CompleteGoogleSignup(c *gin.Context) {
	var req struct {
		SetupToken string `json:"token"`
		Username   string `json:"username"`
		Password   string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	claims, err := auth.ValidateSetupToken(req.SetupToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired signup token"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 3 || len(req.Username) > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be between 3 and 50 characters"})
		return
	}
	if strings.ToUpper(req.Username) == "AI" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username 'AI' is reserved"})
		return
	}

	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, _ := h.UserRepo.GetUserByIdentifier(req.Username)
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}
	emailUser, _ := h.UserRepo.GetUserByEmail(claims.Email)
	if emailUser != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered. Please login."})
		return
	}

	hashedPwd, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	userID, err := h.UserRepo.CreateUser(req.Username, claims.Name, hashedPwd, claims.Email, claims.GoogleID, claims.Picture)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	token, err := h.newSession(c, userID, req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         userID,
			"username":   req.Username,
			"name":       claims.Name,
			"avatar_url": claims.Picture,
			"email":      claims.Email,
			"rating":     1000,
			"wins":       0,
			"losses":     0,
			"draws":      0,
		},
	})
}

func (h *OAuthHandler) newSession(c *gin.Context, userID int64, username string) (string, error) {
	return createSessionForRequest(c, h.Sessions, userID, username)
}
