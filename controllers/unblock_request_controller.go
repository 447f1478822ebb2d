package controllers

import (
	"PinguinGuard/logger"
	"PinguinGuard/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

var unblockRequestService UnblockRequestService

func SetUnblockRequestService(service UnblockRequestService) {
	unblockRequestService = service
}

// CreateUnblockRequest is called by a restricted child.
func CreateUnblockRequest(c *gin.Context) {
	childUID, userType := caller(c)
	if userType != userTypeChild {
		c.JSON(http.StatusForbidden, gin.H{"error": "only children can request access"})
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := unblockRequestService.Create(c.Request.Context(), childUID, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": request})
}

// RespondUnblockRequest approves or rejects a request. Approval alone does
// not lift a manual block; "unblock": true additionally clears it.
func RespondUnblockRequest(c *gin.Context) {
	parentUID, _ := caller(c)
	var input struct {
		Approve  *bool   `json:"approve" binding:"required"`
		Response *string `json:"response"`
		Unblock  bool    `json:"unblock"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	request, err := unblockRequestService.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !authorizeChild(c, request.ChildID, userTypeParent) {
		return
	}

	resolved, err := unblockRequestService.Respond(ctx, request.ID, *input.Approve, input.Response, parentUID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"data": resolved}
	if *input.Approve && input.Unblock {
		policy, err := policyService.SetBlock(ctx, resolved.ChildID, false, nil)
		if err != nil {
			// Запрос уже одобрен, сообщаем только о неудачной разблокировке
			logger.With("controllers").Error("failed to lift block after approval", "child", resolved.ChildID, "error", err)
			response["unblock_error"] = err.Error()
		} else {
			response["policy"] = policy
		}
	}
	c.JSON(http.StatusOK, response)
}

func ListChildUnblockRequests(c *gin.Context) {
	childUID := c.Param("child_uid")
	if !authorizeChild(c, childUID, userTypeParent, userTypeChild) {
		return
	}

	requests, err := unblockRequestService.ListForChild(c.Request.Context(), childUID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": requests})
}

// ListPendingUnblockRequests returns the pending requests of the calling
// parent's children, most recent first.
func ListPendingUnblockRequests(c *gin.Context) {
	parentUID, userType := caller(c)
	if userType != userTypeParent {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden for " + userType})
		return
	}

	ctx := c.Request.Context()
	children, err := childDirectory.FindByParentUID(ctx, parentUID)
	if err != nil {
		respondError(c, err)
		return
	}
	family := make(map[string]bool, len(children))
	for _, child := range children {
		family[child.FirebaseUID] = true
	}

	pending, err := unblockRequestService.ListPending(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	mine := make([]models.UnblockRequest, 0, len(pending))
	for _, r := range pending {
		if family[r.ChildID] {
			mine = append(mine, r)
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": mine})
}
