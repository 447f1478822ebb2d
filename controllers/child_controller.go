package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadChild returns a child's profile to the child itself or its parent.
func ReadChild(c *gin.Context) {
	childUID := c.Param("child_uid")
	if !authorizeChild(c, childUID, userTypeParent, userTypeChild) {
		return
	}

	child, err := childDirectory.FindByFirebaseUID(c.Request.Context(), childUID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": child})
}
