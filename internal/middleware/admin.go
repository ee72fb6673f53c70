package middleware

import (
	"net/http" // HTTP status codes

	"storefront/internal/domain" // Importing domain roles

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the role carried by the session; it must run after JWTAuthMiddleware
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role, ok := CurrentUser(c) // Get identity from context
		// Check if the session exists
		if !ok {
			abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		// Check if user role is admin
		if role != domain.RoleAdmin {
			abort(c, http.StatusForbidden, "Unauthorized. Admin access required.")
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
