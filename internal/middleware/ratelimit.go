package middleware

import (
	"bytes"         // Body replay
	"context"       // Redis operations
	"encoding/json" // Email extraction
	"errors"        // Body size error matching
	"io"            // Body reading
	"net/http"      // HTTP status codes
	"strconv"       // Header values
	"strings"       // Email normalization
	"time"          // Cooldown durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// Login limiter settings
const (
	LoginMaxAttempts = 5
	LoginCooldown    = 15 * time.Minute
	MaxLoginBodySize = 1 << 20 // Bytes read from a login request
)

// LoginRateLimit blocks an email after too many failed logins.
// Failures are counted from the handler's 401 responses; a success resets the counter.
func LoginRateLimit(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next() // Limiter disabled without Redis
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxLoginBodySize)
		bodyBytes, err := io.ReadAll(c.Request.Body) // Read the body without consuming it for the handler
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				abort(c, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			abort(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || strings.TrimSpace(input.Email) == "" {
			c.Next() // Let the handler report the bad request
			return
		}
		email := strings.ToLower(strings.TrimSpace(input.Email))
		ctx := c.Request.Context()
		attemptsKey := "login_attempts:" + email
		cooldownKey := "login_cooldown:" + email

		// Is the email cooling down?
		if ttl, err := rdb.TTL(ctx, cooldownKey).Result(); err == nil && ttl > 0 {
			tooMany(c, ttl)
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			recordFailure(ctx, rdb, email, attemptsKey, cooldownKey, c)
		case http.StatusOK:
			_ = rdb.Del(ctx, attemptsKey, cooldownKey).Err() // Successful login resets the counter
		}
	}
}

func recordFailure(ctx context.Context, rdb *redis.Client, email, attemptsKey, cooldownKey string, c *gin.Context) {
	pipe := rdb.TxPipeline()
	incr := pipe.Incr(ctx, attemptsKey)
	pipe.Expire(ctx, attemptsKey, LoginCooldown)
	if _, err := pipe.Exec(ctx); err != nil {
		logrus.WithFields(logrus.Fields{"email": email, "error": err.Error()}).Warn("Login attempt tracking failed")
		return
	}
	attempts := incr.Val()
	if attempts >= LoginMaxAttempts {
		// Activate the cooldown
		_ = rdb.Set(ctx, cooldownKey, "1", LoginCooldown).Err()
		_ = rdb.Del(ctx, attemptsKey).Err()
		logrus.WithFields(logrus.Fields{"email": email, "attempts": attempts}).Warn("Login locked after repeated failures")
		return
	}
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(LoginMaxAttempts-attempts, 10))
}

func tooMany(c *gin.Context, ttl time.Duration) {
	c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"status":      "error",
		"message":     "Too many failed login attempts. Try again in " + strconv.Itoa(int(ttl.Minutes())+1) + " minutes",
		"retry_after": int(ttl.Seconds()),
	})
}
