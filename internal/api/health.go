package api

import (
	"context"  // Ping deadline
	"net/http" // HTTP status codes
	"time"     // Ping timeout

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// HealthHandler pings the database and Redis
func HealthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "up", "redis": "up"}
		healthy := true
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "down"
			healthy = false
		}
		if rdb == nil || rdb.Ping(ctx).Err() != nil {
			checks["redis"] = "down"
			healthy = false
		}
		if !healthy {
			respond(c, http.StatusServiceUnavailable, statusError, "Service unavailable", checks)
			return
		}
		ok(c, http.StatusOK, "OK", checks)
	}
}
