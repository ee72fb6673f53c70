package api

import (
	"net/http" // HTTP status codes
	"time"     // Token lifetime

	"storefront/internal/domain"     // Domain models
	"storefront/internal/middleware" // Session accessors
	"storefront/internal/service"    // User service
	"storefront/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// adminUsersCachePrefix prefixes every cached page of the admin user list
const adminUsersCachePrefix = "admin:users:"

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`     // Display name must be provided
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse is the data returned by a successful login
type AuthResponse struct {
	Token     string            `json:"token"`     // JWT token
	ExpiresAt time.Time         `json:"expiresAt"` // Token expiry
	User      domain.PublicUser `json:"user"`      // Logged in user
}

// RegisterHandler creates a user account with the default role
func RegisterHandler(users *service.UserService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Name, email, and password are required")
			return
		}
		user, err := users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			fail(c, err)
			return
		}
		invalidateUserList(c, rdb)
		// Return success response
		ok(c, http.StatusCreated, "Registration successful", user)
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(users *service.UserService, jwtSecret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Email and password are required")
			return
		}
		identity, err := users.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			fail(c, err)
			return
		}
		// Generate JWT token
		token, claims, err := utils.GenerateJWT(identity.UserID, identity.Role, jwtSecret, ttl)
		if err != nil {
			fail(c, domain.Internal("Failed to generate token", err))
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": identity.UserID, "role": identity.Role}).Info("User logged in")
		// Return the token in the response
		ok(c, http.StatusOK, "Login successful", AuthResponse{
			Token:     token,
			ExpiresAt: claims.ExpiresAt.Time,
			User:      identity.User,
		})
	}
}

// LogoutHandler revokes the presented token until it would have expired.
// Revocation needs Redis; without it logout only acknowledges.
func LogoutHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, found := sessionUser(c)
		if !found {
			return
		}
		if rdb != nil { // Without Redis tokens simply run until they expire
			tokenID := c.GetString(middleware.ContextTokenID)
			if err := utils.RevokeToken(c.Request.Context(), rdb, tokenID, middleware.TokenExpiry(c)); err != nil {
				fail(c, domain.Internal("Failed to revoke token", err))
				return
			}
		}
		logrus.WithFields(logrus.Fields{"user_id": userID}).Info("User logged out")
		ok(c, http.StatusOK, "Logged out successfully", nil)
	}
}

// invalidateUserList drops every cached admin user page
func invalidateUserList(c *gin.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if err := utils.DeleteCachePrefix(c.Request.Context(), rdb, adminUsersCachePrefix); err != nil {
		logrus.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to invalidate user list cache")
	}
}
