package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var familyService FamilyService

func SetFamilyService(service FamilyService) {
	familyService = service
}

// ListChildren returns the children linked to the calling parent.
func ListChildren(c *gin.Context) {
	uid, userType := caller(c)
	if userType != userTypeParent {
		c.JSON(http.StatusForbidden, gin.H{"error": "only parents have children"})
		return
	}

	children, err := familyService.Children(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": children})
}

// LinkChild binds a child account to the calling parent.
func LinkChild(c *gin.Context) {
	uid, userType := caller(c)
	if userType != userTypeParent {
		c.JSON(http.StatusForbidden, gin.H{"error": "only parents can link children"})
		return
	}

	var input struct {
		ChildUID string `json:"child_uid" binding:"required"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	child, err := familyService.LinkChild(c.Request.Context(), uid, input.ChildUID, input.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Child linked", "data": child})
}

// RegisterDeviceToken stores the FCM token of the caller's device.
func RegisterDeviceToken(c *gin.Context) {
	uid, userType := caller(c)

	var input struct {
		DeviceToken string `json:"device_token" binding:"required"`
		Lang        string `json:"lang"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := familyService.RegisterDeviceToken(c.Request.Context(), uid, userType, input.DeviceToken, input.Lang); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device token saved"})
}
