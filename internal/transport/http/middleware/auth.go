package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-ai/internal/service/auth"
	"github.com/iamasit07/connect4-ai/pkg/httputil"
)

// Auth validates the request's session token and stashes the caller's
// identity in the gin context as "user_id" and "username".
func Auth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := httputil.GetTokenFromRequest(c.Request)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			httputil.ClearAuthCookie(c.Writer)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or session expired"})
			return
		}

		// Activity update runs in background to not block the request.
		go authService.UpdateSessionActivity(claims.SessionID)

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}

// UserID pulls the authenticated user's ID out of the gin context.
func UserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
