package controllers

import (
	"PinguinGuard/models"
	"PinguinGuard/services"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	verdictPolicies services.PolicyReader
	verdictUsage    services.UsageReader
)

// SetRestrictionSources wires the stores read by GetRestriction.
func SetRestrictionSources(policies services.PolicyReader, usage services.UsageReader) {
	verdictPolicies = policies
	verdictUsage = usage
}

// GetRestriction evaluates the child's verdict at the current instant.
func GetRestriction(c *gin.Context) {
	childUID := c.Param("child_uid")
	if !authorizeChild(c, childUID, userTypeParent, userTypeChild) {
		return
	}

	verdict, err := services.CurrentVerdict(c.Request.Context(), verdictPolicies, verdictUsage, childUID, clock())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": verdict})
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
