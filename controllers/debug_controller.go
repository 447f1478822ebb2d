package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health is the liveness probe.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": clock()})
}

// DebugAuth shows who the token belongs to and which children the caller
// can act on.
func DebugAuth(c *gin.Context) {
	uid, userType := caller(c)
	scope := []string{}

	switch userType {
	case userTypeParent:
		children, err := childDirectory.FindByParentUID(c.Request.Context(), uid)
		if err != nil {
			respondError(c, err)
			return
		}
		for _, child := range children {
			scope = append(scope, child.FirebaseUID)
		}
	case userTypeChild:
		scope = append(scope, uid)
	}

	c.JSON(http.StatusOK, gin.H{
		"firebase_uid": uid,
		"user_type":    userType,
		"child_scope":  scope,
	})
}
