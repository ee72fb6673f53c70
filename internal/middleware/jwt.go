package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Token expiry

	"storefront/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// Gin context keys set by JWTAuthMiddleware
const (
	ContextUserID      = "userID"
	ContextRole        = "role"
	ContextTokenID     = "tokenID"
	ContextTokenExpiry = "tokenExpiry"
)

// abort writes the error envelope and stops the chain
func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"status": "error", "message": message})
}

// JWTAuthMiddleware validates JWT tokens and extracts user information.
// rdb may be nil, in which case revoked tokens are not checked.
func JWTAuthMiddleware(secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")) // Extract the token string
		claims, err := utils.ParseJWT(tokenStr, secret)                          // Parse the JWT token
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if rdb != nil && claims.ID != "" {
			revoked, err := utils.IsTokenRevoked(c.Request.Context(), rdb, claims.ID)
			if err != nil {
				// Fail closed: a token we cannot check is not trusted
				logrus.WithFields(logrus.Fields{"user_id": claims.UserID, "error": err.Error()}).Error("Revocation check failed")
				abort(c, http.StatusInternalServerError, "Internal server error")
				return
			}
			if revoked {
				abort(c, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
		}
		c.Set(ContextUserID, claims.UserID) // Store userID in context
		c.Set(ContextRole, claims.Role)     // Store role in context
		c.Set(ContextTokenID, claims.ID)    // Store token id for logout
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExpiry, claims.ExpiresAt.Time)
		}
		c.Next() // Proceed to the next handler
	}
}

// CurrentUser returns the session's user id and role
func CurrentUser(c *gin.Context) (userID, role string, ok bool) {
	userID = c.GetString(ContextUserID)
	role = c.GetString(ContextRole)
	return userID, role, userID != ""
}

// TokenExpiry returns the expiry of the presented token
func TokenExpiry(c *gin.Context) time.Time {
	return c.GetTime(ContextTokenExpiry)
}
