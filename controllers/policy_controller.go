package controllers

import (
	"PinguinGuard/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

var policyService PolicyService

func SetPolicyService(service PolicyService) {
	policyService = service
}

// GetPolicy returns the child's policy; a child without one is unrestricted.
func GetPolicy(c *gin.Context) {
	childUID := c.Param("child_uid")
	if !authorizeChild(c, childUID, userTypeParent, userTypeChild) {
		return
	}

	policy, err := policyService.Get(c.Request.Context(), childUID)
	if err != nil {
		if !isNotFound(err) {
			respondError(c, err)
			return
		}
		policy = models.UnrestrictedPolicy(childUID)
	}
	c.JSON(http.StatusOK, gin.H{"data": policy})
}

func SetBlock(c *gin.Context) {
	childUID := c.Param("child_uid")
	if !authorizeChild(c, childUID, userTypeParent) {
		return
	}

	var input struct {
		Blocked *bool   `json:"blocked" binding:"required"`
		Reason  *string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	policy, err := policyService.SetBlock(c.Request.Context(), childUID, *input.Blocked, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Policy updated successfully", "data": policy})
}

func SetWindows(c *gin.Context) {
	childUID := c.Param("child_uid")
	if !authorizeChild(c, childUID, userTypeParent) {
		return
	}

	var input struct {
		Windows []models.TimeWindow `json:"windows"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	policy, err := policyService.SetWindows(c.Request.Context(), childUID, input.Windows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Policy updated successfully", "data": policy})
}

// SetDailyCap sets the cap; a null or missing minutes removes it.
func SetDailyCap(c *gin.Context) {
	childUID := c.Param("child_uid")
	if !authorizeChild(c, childUID, userTypeParent) {
		return
	}

	var input struct {
		Minutes *int `json:"minutes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	policy, err := policyService.SetDailyCap(c.Request.Context(), childUID, input.Minutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Policy updated successfully", "data": policy})
}
