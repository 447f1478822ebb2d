package controllers

import (
	"PinguinGuard/models"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	userTypeParent = "parent"
	userTypeChild  = "child"
)

var childDirectory ChildDirectory

// clock is in the family's time zone; main replaces it.
var clock = time.Now

func SetChildDirectory(directory ChildDirectory) {
	childDirectory = directory
}

func SetClock(now func() time.Time) {
	clock = now
}

// caller returns the authenticated firebase_uid and user_type set by
// middlewares.AuthMiddleware.
func caller(c *gin.Context) (string, string) {
	return c.GetString("firebase_uid"), c.GetString("user_type")
}

// authorizeChild checks that the caller may act on childUID: a child only on
// itself, a parent only on its own children. It writes the error response
// and returns false when access is denied.
func authorizeChild(c *gin.Context, childUID string, allowed ...string) bool {
	uid, userType := caller(c)
	if !contains(allowed, userType) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden for " + userType})
		return false
	}

	switch userType {
	case userTypeChild:
		if uid != childUID {
			c.JSON(http.StatusForbidden, gin.H{"error": "children can only access their own data"})
			return false
		}
		return true
	case userTypeParent:
		child, err := childDirectory.FindByFirebaseUID(c.Request.Context(), childUID)
		if err != nil {
			respondError(c, err)
			return false
		}
		if !child.BelongsTo(uid) {
			c.JSON(http.StatusForbidden, gin.H{"error": "child is not in your family"})
			return false
		}
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "unknown user type"})
	return false
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidPolicy),
		errors.Is(err, models.ErrInvalidUsage),
		errors.Is(err, models.ErrEmptyReason):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrAlreadyPending),
		errors.Is(err, models.ErrNotPending),
		errors.Is(err, models.ErrAlreadyMonitoring),
		errors.Is(err, models.ErrAlreadyLinked),
		errors.Is(err, models.ErrNotRestricted):
		status = http.StatusConflict
	case errors.Is(err, models.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
