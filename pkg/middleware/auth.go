package middleware

import (
	"net/http"
	"strings"

	"roleplay-online/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	UserEmailKey = "userEmail"
	UserNameKey  = "userName"
)

// JWTAuthMiddleware validates the Bearer token and stores the caller's
// identity in the gin context. The token carries no privileges beyond
// routing per-user records.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(UserEmailKey, claims.Email)
		c.Set(UserNameKey, claims.Name)
		c.Next()
	}
}

// UserEmail returns the authenticated caller's email, or "" before auth.
func UserEmail(c *gin.Context) string {
	return c.GetString(UserEmailKey)
}
