package controllers

import (
	"PinguinGuard/models"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockChild(t *testing.T, env *testEnv, childUID string) {
	t.Helper()
	w := env.asParent(http.MethodPut, "/policies/"+childUID+"/block", gin.H{"blocked": true, "reason": "bedtime"})
	require.Equal(t, http.StatusOK, w.Code)
}

func createRequest(t *testing.T, env *testEnv) models.UnblockRequest {
	t.Helper()
	w := env.asChild(http.MethodPost, "/unblock-requests", gin.H{"reason": "bored"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var req models.UnblockRequest
	decodeData(t, w, &req)
	return req
}

func TestUnblockRequestFlow(t *testing.T) {
	env := setupTestRouter(t)
	blockChild(t, env, "child-1")

	req := createRequest(t, env)
	assert.Equal(t, models.RequestStatusPending, req.Status)

	w := env.asChild(http.MethodPost, "/unblock-requests", gin.H{"reason": "please"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var pending []models.UnblockRequest
	decodeData(t, env.asParent(http.MethodGet, "/unblock-requests/pending", nil), &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, req.ID, pending[0].ID)

	w = env.asParent(http.MethodPost, "/unblock-requests/"+req.ID+"/respond", gin.H{"approve": true, "response": "ok, 30 more min"})
	require.Equal(t, http.StatusOK, w.Code)
	var resolved models.UnblockRequest
	decodeData(t, w, &resolved)
	assert.Equal(t, models.RequestStatusApproved, resolved.Status)
	assert.Equal(t, "ok, 30 more min", *resolved.ParentResponse)

	// Approval without "unblock" keeps the block, so the child may ask again.
	var v models.Verdict
	decodeData(t, env.asChild(http.MethodGet, "/restrictions/child-1", nil), &v)
	assert.Equal(t, models.ReasonManualBlock, v.Reason)
	createRequest(t, env)

	w = env.asParent(http.MethodPost, "/unblock-requests/"+req.ID+"/respond", gin.H{"approve": false})
	assert.Equal(t, http.StatusConflict, w.Code)

	var history []models.UnblockRequest
	decodeData(t, env.asChild(http.MethodGet, "/unblock-requests/child/child-1", nil), &history)
	assert.Len(t, history, 2)
}

func TestRespondWithUnblockLiftsBlock(t *testing.T) {
	env := setupTestRouter(t)
	blockChild(t, env, "child-1")
	req := createRequest(t, env)

	w := env.asParent(http.MethodPost, "/unblock-requests/"+req.ID+"/respond", gin.H{"approve": true, "unblock": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"policy"`)

	var v models.Verdict
	decodeData(t, env.asChild(http.MethodGet, "/restrictions/child-1", nil), &v)
	assert.False(t, v.Restricted)
}

func TestRejectWithUnblockKeepsBlock(t *testing.T) {
	env := setupTestRouter(t)
	blockChild(t, env, "child-1")
	req := createRequest(t, env)

	w := env.asParent(http.MethodPost, "/unblock-requests/"+req.ID+"/respond", gin.H{"approve": false, "unblock": true})
	require.Equal(t, http.StatusOK, w.Code)

	var v models.Verdict
	decodeData(t, env.asChild(http.MethodGet, "/restrictions/child-1", nil), &v)
	assert.Equal(t, models.ReasonManualBlock, v.Reason)
}

func TestCreateUnblockRequestErrors(t *testing.T) {
	env := setupTestRouter(t)

	// Not restricted
	assert.Equal(t, http.StatusConflict, env.asChild(http.MethodPost, "/unblock-requests", gin.H{"reason": "bored"}).Code)

	blockChild(t, env, "child-1")
	assert.Equal(t, http.StatusBadRequest, env.asChild(http.MethodPost, "/unblock-requests", gin.H{"reason": "   "}).Code)
	assert.Equal(t, http.StatusForbidden, env.asParent(http.MethodPost, "/unblock-requests", gin.H{"reason": "x"}).Code)
}

func TestRespondAccessControl(t *testing.T) {
	env := setupTestRouter(t)
	blockChild(t, env, "child-1")
	req := createRequest(t, env)

	w := env.do(http.MethodPost, "/unblock-requests/"+req.ID+"/respond", "parent-2", "parent", gin.H{"approve": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.asChild(http.MethodPost, "/unblock-requests/"+req.ID+"/respond", gin.H{"approve": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.asParent(http.MethodPost, "/unblock-requests/missing/respond", gin.H{"approve": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.asParent(http.MethodPost, "/unblock-requests/"+req.ID+"/respond", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPendingIsFilteredToFamily(t *testing.T) {
	env := setupTestRouter(t)
	blockChild(t, env, "child-1")
	createRequest(t, env)

	var pending []models.UnblockRequest
	decodeData(t, env.do(http.MethodGet, "/unblock-requests/pending", "parent-2", "parent", nil), &pending)
	assert.Empty(t, pending)

	assert.Equal(t, http.StatusForbidden, env.asChild(http.MethodGet, "/unblock-requests/pending", nil).Code)
}

func TestHealth(t *testing.T) {
	env := setupTestRouter(t)
	w := env.do(http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}
