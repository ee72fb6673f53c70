package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/testutil"
	"storefront/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// protectedRouter echoes the session set by the middleware chain
func protectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		userID, role, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"userID": userID, "role": role})
	})
	r.GET("/me", chain...)
	return r
}

func get(t *testing.T, r http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sign(t *testing.T, userID, role string) (string, *utils.Claims) {
	t.Helper()
	tok, claims, err := utils.GenerateJWT(userID, role, testutil.JWTSecret, time.Hour)
	require.NoError(t, err)
	return tok, claims
}

func TestJWTAuthMiddleware(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	r := protectedRouter(JWTAuthMiddleware(testutil.JWTSecret, rdb))

	t.Run("missing header", func(t *testing.T) {
		w := get(t, r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"error"`)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(t, r, "not-a-jwt").Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, _, err := utils.GenerateJWT("u1", domain.RoleUser, "other-secret", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(t, r, tok).Code)
	})

	t.Run("valid token", func(t *testing.T) {
		tok, _ := sign(t, "u1", domain.RoleUser)
		w := get(t, r, tok)
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "u1", body["userID"])
		assert.Equal(t, domain.RoleUser, body["role"])
	})

	t.Run("revoked token", func(t *testing.T) {
		tok, claims := sign(t, "u2", domain.RoleUser)
		require.NoError(t, utils.RevokeToken(context.Background(), rdb, claims.ID, claims.ExpiresAt.Time))
		assert.Equal(t, http.StatusUnauthorized, get(t, r, tok).Code)
	})
}

func TestAdminOnlyMiddleware(t *testing.T) {
	r := protectedRouter(JWTAuthMiddleware(testutil.JWTSecret, nil), AdminOnlyMiddleware())

	userTok, _ := sign(t, "u1", domain.RoleUser)
	w := get(t, r, userTok)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Admin access required")

	adminTok, _ := sign(t, "a1", domain.RoleAdmin)
	assert.Equal(t, http.StatusOK, get(t, r, adminTok).Code)

	// Without the session gate in front there is no identity at all
	bare := protectedRouter(AdminOnlyMiddleware())
	assert.Equal(t, http.StatusUnauthorized, get(t, bare, "").Code)
}

func TestLoginRateLimit(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	succeed := false
	r := gin.New()
	r.POST("/login", LoginRateLimit(rdb), func(c *gin.Context) {
		var body struct {
			Email string `json:"email"`
		}
		require.NoError(t, c.ShouldBindJSON(&body), "body must still be readable")
		if succeed {
			c.JSON(http.StatusOK, gin.H{"status": "success"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error"})
	})
	login := func(email string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"`+email+`","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// A success resets the counter
	for i := 0; i < LoginMaxAttempts-1; i++ {
		assert.Equal(t, http.StatusUnauthorized, login("bob@example.com").Code)
	}
	succeed = true
	assert.Equal(t, http.StatusOK, login("bob@example.com").Code)
	succeed = false

	for i := 0; i < LoginMaxAttempts; i++ {
		assert.Equal(t, http.StatusUnauthorized, login("alice@example.com").Code)
	}
	w := login("ALICE@example.com")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Greater(t, body["retry_after"], float64(0))

	// Other emails are unaffected
	assert.Equal(t, http.StatusUnauthorized, login("bob@example.com").Code)
}

func TestLoginRateLimit_BodyTooLarge(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	reached := false
	r := gin.New()
	r.POST("/login", LoginRateLimit(rdb), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	padding := strings.Repeat("a", MaxLoginBodySize)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@example.com","password":"`+padding+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.False(t, reached, "oversized bodies never reach the handler")
	assert.Contains(t, w.Body.String(), `"status":"error"`)
}
