package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authsvc "github.com/iamasit07/connect4-ai/internal/service/auth"
	"github.com/iamasit07/connect4-ai/internal/transport/http/middleware"
	"github.com/iamasit07/connect4-ai/internal/transport/websocket"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth    *AuthHandler
	OAuth   *OAuthHandler
	Arena   *ArenaHandler
	WS      *websocket.Handler
	AuthSvc *authsvc.Service
}

// NewRouter assembles the gin engine with all middleware and routes.
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	router.POST("/api/auth/register", h.Auth.Register)
	router.POST("/api/auth/login", h.Auth.Login)
	router.GET("/api/auth/google/login", h.OAuth.GoogleLogin)
	router.GET("/api/auth/google/callback", h.OAuth.GoogleCallback)
	router.POST("/api/auth/google/complete", h.OAuth.CompleteGoogleSignup)

	router.GET("/api/leaderboard", h.Arena.PlayerLeaderboard)
	router.GET("/api/leaderboard/stacks", h.Arena.StackLeaderboard)
	router.GET("/api/stacks", h.Arena.Catalog)
	router.GET("/api/sim/runs", h.Arena.SimRuns)

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.Auth(h.AuthSvc))
	{
		protected.POST("/api/auth/logout", h.Auth.Logout)
		protected.GET("/api/auth/me", h.Auth.Me)
		protected.PUT("/api/auth/profile", h.Auth.UpdateProfile)
		protected.GET("/api/sessions", h.Auth.SessionHistory)

		protected.GET("/api/matches", h.Arena.MatchHistory)
		protected.GET("/api/matches/:id", h.Arena.Match)
	}

	// Websocket auth happens inside the handler itself.
	if h.WS != nil {
		router.GET("/ws", func(c *gin.Context) {
			h.WS.HandleWebSocket(c.Writer, c.Request)
		})
	}

	return router
}
