package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
)

// userIDHeader carries the authenticated user's ID, set by the
// fronting auth proxy. Credential issuance and session validation are
// outside this service.
const userIDHeader = "X-User-ID"

// userIDKey is the gin context key the auth middleware stores the user
// ID under.
const userIDKey = "userID"

// RequireUser rejects requests without an authenticated user ID.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// statusForError maps the error taxonomy to HTTP status codes.
// Validation and authorization failures are terminal; transient
// failures are reported for the caller to retry.
func statusForError(err error) int {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrSelfShare):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrDuplicateGrant):
		return http.StatusConflict
	case errors.Is(err, entities.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, entities.ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}
