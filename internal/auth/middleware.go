package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userIDKey = "userId"

// PrincipalResolver maps a token subject (email) to the stable account id.
type PrincipalResolver interface {
	ResolveUserID(ctx context.Context, email string) (string, error)
}

// Middleware authenticates the request and stores the caller's user id in
// the gin context for handlers to read via UserID.
func Middleware(tokens *TokenManager, resolver PrincipalResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		email, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		userID, err := resolver.ResolveUserID(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, ErrPrincipalNotFound) {
				logger.Error("valid token resolved to no account", zap.String("email", email))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not resolve user"})
				return
			}
			logger.Error("principal resolution failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not resolve user"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated caller's user id set by Middleware.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
