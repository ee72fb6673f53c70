package api

import (
	"errors"   // Error kind matching
	"net/http" // HTTP status codes

	"storefront/internal/domain"     // Error taxonomy
	"storefront/internal/middleware" // Session accessors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Envelope statuses
const (
	statusSuccess = "success"
	statusError   = "error"
	statusInfo    = "info"
)

// respond writes the {status, message, data?} envelope
func respond(c *gin.Context, code int, status, message string, data any) {
	body := gin.H{"status": status, "message": message}
	if data != nil {
		body["data"] = data // Payload only when there is one
	}
	c.JSON(code, body)
}

// ok writes a success envelope
func ok(c *gin.Context, code int, message string, data any) {
	respond(c, code, statusSuccess, message, data)
}

// badRequest writes a 400 envelope
func badRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, statusError, message, nil)
}

// statusOf maps an error kind to its HTTP status
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope for err; internal details are logged, never returned
func fail(c *gin.Context, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method, // HTTP method
			"path":   c.FullPath(),     // Route pattern
			"error":  err.Error(),      // Underlying error
		}).Error("Request failed")
	}
	respond(c, code, statusError, domain.MessageOf(err), nil)
}

// sessionUser returns the user id stored by the JWT middleware
func sessionUser(c *gin.Context) (string, bool) {
	userID, _, found := middleware.CurrentUser(c) // Get userID from context
	if !found {
		respond(c, http.StatusUnauthorized, statusError, "Unauthorized", nil)
		return "", false
	}
	return userID, true
}
