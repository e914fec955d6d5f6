package httputil

import (
	"net/http"
	"os"
	"strings"
	"time"
)

const AuthCookieName = "auth_token"

// SetAuthCookie writes the session JWT. In production the cookie is
// Secure + SameSite=None so the browser sends it on cross-site requests
// from the frontend origin.
func SetAuthCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	isProduction := os.Getenv("ENVIRONMENT") == "production"

	sameSite := http.SameSiteLaxMode
	if isProduction {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: sameSite,
	})
}

func ClearAuthCookie(w http.ResponseWriter) {
	isProduction := os.Getenv("ENVIRONMENT") == "production"

	sameSite := http.SameSiteLaxMode
	if isProduction {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: sameSite,
	})
}

func GetTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(AuthCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// GetTokenFromRequest prefers the auth cookie and falls back to a
// Bearer token for non-browser clients.
func GetTokenFromRequest(r *http.Request) string {
	if token, err := GetTokenFromCookie(r); err == nil && token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
