package controllers

import (
	"PinguinGuard/models"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultHistoryDays = 7

var usageService UsageService

func SetUsageService(service UsageService) {
	usageService = service
}

// RecordUsage adds minutes reported by the child's device. Without "at"
// the server time is used.
func RecordUsage(c *gin.Context) {
	childUID := c.Param("child_uid")
	if !authorizeChild(c, childUID, userTypeChild) {
		return
	}

	var input struct {
		Minutes *int       `json:"minutes" binding:"required"`
		At      *time.Time `json:"at"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	at := clock()
	if input.At != nil {
		at = *input.At
	}

	record, err := usageService.RecordUsage(c.Request.Context(), childUID, *input.Minutes, at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": record})
}

func GetTodayUsage(c *gin.Context) {
	childUID := c.Param("child_uid")
	if !authorizeChild(c, childUID, userTypeParent, userTypeChild) {
		return
	}

	record, err := usageService.Today(c.Request.Context(), childUID, clock())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": record})
}

// GetUsageHistory returns ?days=N days oldest first, 7 by default.
func GetUsageHistory(c *gin.Context) {
	childUID := c.Param("child_uid")
	if !authorizeChild(c, childUID, userTypeParent, userTypeChild) {
		return
	}

	days := defaultHistoryDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a number"})
			return
		}
		if n < 1 || n > models.MaxHistoryDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("days must be between 1 and %d", models.MaxHistoryDays)})
			return
		}
		days = n
	}

	history, err := usageService.History(c.Request.Context(), childUID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": history})
}
