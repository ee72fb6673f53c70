package api

import (
	"errors"   // Sentinel matching
	"net/http" // HTTP status codes

	"storefront/internal/service" // User service

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// GetProfileHandler returns the logged in user's profile
func GetProfileHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, found := sessionUser(c)
		if !found {
			return
		}
		user, err := users.Get(c.Request.Context(), userID)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, http.StatusOK, "Profile fetched successfully", user)
	}
}

// UpdateProfileHandler applies a partial update to the logged in user
func UpdateProfileHandler(users *service.UserService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, found := sessionUser(c)
		if !found {
			return
		}
		var patch service.UserPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		user, err := users.Update(c.Request.Context(), userID, patch)
		if errors.Is(err, service.ErrNothingToUpdate) {
			respond(c, http.StatusOK, statusInfo, "No data provided for update", nil)
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		invalidateUserList(c, rdb)
		ok(c, http.StatusOK, "Profile updated successfully!", user)
	}
}
