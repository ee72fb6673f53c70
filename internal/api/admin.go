package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"storefront/internal/service" // User service
	"storefront/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// userListTTL is how long a page of the admin user list is cached
const userListTTL = 60 * time.Second

// UserListResponse is a page of users plus whether it came from the cache
type UserListResponse struct {
	service.UserPage
	Cached bool `json:"cached"` // Indicate response is from cache
}

// ListUsersHandler returns one page of registered users
func ListUsersHandler(users *service.UserService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page := 1      // Default page number
		pageSize := 20 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			// If valid, set page size
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size
			}
		}
		// Create a cache key based on the effective pagination
		cacheKey := adminUsersCachePrefix + "page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)

		// If cached data found, return it
		var cached service.UserPage
		if rdb != nil {
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
				ok(c, http.StatusOK, "Users fetched successfully", UserListResponse{UserPage: cached, Cached: true})
				return
			}
		}
		result, err := users.List(ctx, page, pageSize)
		if err != nil {
			fail(c, err)
			return
		}
		// Cache the response for future requests
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, result, userListTTL)
		}
		ok(c, http.StatusOK, "Users fetched successfully", UserListResponse{UserPage: result})
	}
}
