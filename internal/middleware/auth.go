package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/models"
	"github.com/familyrecipes/backend/internal/types"
)

// Context keys and cookie name shared with the handlers.
const (
	ContextUserID    = "user_id"
	ContextSessionID = "session_id"
	SessionCookie    = "session"
)

// SessionVerifier validates session tokens and confirms the user still exists
type SessionVerifier interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
}

// AuthMiddleware loads the session, if any, from the Bearer header or the
// session cookie. Requests without a valid session continue anonymously.
func AuthMiddleware(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := verifier.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}

		// A deleted user's session is treated as no session.
		if _, err := verifier.GetUserByID(c.Request.Context(), claims.UserID); err != nil {
			if !apperror.IsNotFound(err) {
				c.Error(err)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		// Store user info in context
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextSessionID, claims.SessionID)
		c.Next()
	}
}

// RequireUser rejects requests that AuthMiddleware left anonymous.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == 0 {
			c.Error(apperror.Unauthorized("Login required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the signed-in user, or 0 for anonymous requests.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}

// SessionID returns the id of the current session, or "".
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}

func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}
