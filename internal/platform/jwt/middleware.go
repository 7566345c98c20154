package jwtmw

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// ContextUserID はgin.Contextに格納するユーザーIDのキーです。
	ContextUserID = "userID"
	// CookieName はブラウザ向けページでトークンを運ぶCookie名です。
	CookieName = "token"
	// SignInPath は未認証のページリクエストのリダイレクト先です。
	SignInPath = "/sign-in"
)

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		status, msg := authenticate(c)
		if status != 0 {
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}
		c.Next()
	}
}

// PageAuthRequired behaves like AuthRequired but redirects unauthenticated
// browser requests to the sign-in page instead of responding with JSON.
func PageAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		status, msg := authenticate(c)
		switch status {
		case 0:
			c.Next()
		case http.StatusUnauthorized:
			c.Redirect(http.StatusSeeOther, SignInPath)
			c.Abort()
		default:
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
		}
	}
}

// authenticate verifies the request token and stores the user id on success.
// It returns a zero status when the request may proceed.
func authenticate(c *gin.Context) (int, string) {
	// 1. Get token from Authorization header, falling back to the cookie
	tokenStr, ok := bearerToken(c)
	if !ok {
		return http.StatusUnauthorized, "missing bearer token"
	}

	// 2. Load secret key from environment variable
	secret := os.Getenv(EnvKeyJWTSecret)
	if secret == "" {
		// Server misconfiguration (JWT_SECRET not set)
		return http.StatusInternalServerError, "server misconfigured"
	}

	// 3. Parse and verify JWT signature
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return http.StatusUnauthorized, "invalid token"
	}

	// 4. Extract the subject; a token without one carries no identity
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return http.StatusUnauthorized, "invalid token"
	}

	// 5. Expose the user id to handlers and to usecases via the request context
	c.Set(ContextUserID, sub)
	c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), sub))
	return 0, ""
}

func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer "), true
	}
	if auth != "" {
		return "", false
	}
	if v, err := c.Cookie(CookieName); err == nil && v != "" {
		return v, true
	}
	return "", false
}
