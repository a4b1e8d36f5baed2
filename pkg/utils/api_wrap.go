package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers answer with a flat success envelope: {"success": true, ...payload}
// on the happy path, {"success": false, "message": ...} otherwise.

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"success":  false,
		"message":  message,
		"trace_id": traceID(c),
	})
}

// RespondRedirect tells the client to navigate elsewhere (trial exhausted,
// forced logout, checkout hand-off). The transport is JSON; the 303 semantics
// live in the status code.
func RespondRedirect(c *gin.Context, code int, location string) {
	c.JSON(code, gin.H{
		"success":  code < http.StatusBadRequest,
		"redirect": location,
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAccountNotFound):
		RespondError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "Session not found")
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, ErrInvalidPassword):
		RespondError(c, http.StatusBadRequest, "Password must be at least 6 characters and include at least one special character")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrInvalidToken):
		RespondError(c, http.StatusBadRequest, "The link is invalid or expired")
	case errors.Is(err, ErrSubscriptionInactive):
		RespondError(c, http.StatusForbidden, "Your subscription is inactive. Please renew to continue.")
	case errors.Is(err, ErrNotAuthorized):
		RespondError(c, http.StatusForbidden, "You are not authorized to perform this action")
	case errors.Is(err, ErrProtectedAccount):
		RespondError(c, http.StatusForbidden, "The primary admin account cannot be modified")
	case errors.Is(err, ErrNoTrialSessionsLeft):
		RespondError(c, http.StatusForbidden, "no_sessions_left")
	case errors.Is(err, ErrBillingError):
		log.Printf("Billing error: %v", err)
		RespondError(c, http.StatusBadGateway, "Something went wrong with the payment provider")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
