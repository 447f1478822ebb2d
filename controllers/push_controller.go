package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var pushTester PushTester

// SetPushTester enables /debug/push. It stays nil when FCM is not configured.
func SetPushTester(tester PushTester) {
	pushTester = tester
}

// TestPushNotification sends a test push to the caller's own device.
func TestPushNotification(c *gin.Context) {
	if pushTester == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications are not configured"})
		return
	}

	uid, userType := caller(c)
	id, err := pushTester.SendTest(c.Request.Context(), uid, userType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Push sent", "message_id": id})
}
