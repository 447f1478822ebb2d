package controllers

import (
	"PinguinGuard/models"
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListChildren(t *testing.T) {
	env := setupTestRouter(t)

	var children []models.Child
	w := env.asParent(http.MethodGet, "/parents/me/children", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &children)
	assert.Len(t, children, 2)

	assert.Equal(t, http.StatusForbidden, env.asChild(http.MethodGet, "/parents/me/children", nil).Code)
}

func TestLinkChild(t *testing.T) {
	env := setupTestRouter(t)

	w := env.asParent(http.MethodPost, "/parents/me/children", gin.H{"child_uid": "child-9", "name": "Оля"})
	require.Equal(t, http.StatusOK, w.Code)

	// The new child is now in the family.
	assert.Equal(t, http.StatusOK, env.asParent(http.MethodGet, "/policies/child-9", nil).Code)

	w = env.asParent(http.MethodPost, "/parents/me/children", gin.H{"child_uid": "child-3"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.asParent(http.MethodPost, "/parents/me/children", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDeviceToken(t *testing.T) {
	env := setupTestRouter(t)

	w := env.asChild(http.MethodPut, "/children/me/device-token", gin.H{"device_token": "fcm-child", "lang": "ru"})
	require.Equal(t, http.StatusOK, w.Code)

	child, err := childDirectory.FindByFirebaseUID(context.Background(), "child-1")
	require.NoError(t, err)
	assert.Equal(t, "fcm-child", child.DeviceToken)
	assert.Equal(t, "ru", child.Lang)

	w = env.asParent(http.MethodPut, "/parents/me/device-token", gin.H{"device_token": "fcm-parent"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPut, "/children/me/device-token", "child-404", "child", gin.H{"device_token": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, http.StatusBadRequest, env.asParent(http.MethodPut, "/parents/me/device-token", gin.H{}).Code)
}

func TestReadChild(t *testing.T) {
	env := setupTestRouter(t)

	var child models.Child
	decodeData(t, env.asChild(http.MethodGet, "/children/child-1", nil), &child)
	assert.Equal(t, "Маша", child.Name)

	assert.Equal(t, http.StatusOK, env.asParent(http.MethodGet, "/children/child-2", nil).Code)
	assert.Equal(t, http.StatusForbidden, env.asParent(http.MethodGet, "/children/child-3", nil).Code)
	assert.Equal(t, http.StatusForbidden, env.asChild(http.MethodGet, "/children/child-2", nil).Code)
}

type stubPushTester struct {
	uid, userType string
}

func (s *stubPushTester) SendTest(ctx context.Context, uid, userType string) (string, error) {
	s.uid, s.userType = uid, userType
	return "msg-1", nil
}

func TestPushNotificationEndpoint(t *testing.T) {
	env := setupTestRouter(t)
	assert.Equal(t, http.StatusServiceUnavailable, env.asParent(http.MethodPost, "/debug/push", nil).Code)

	stub := &stubPushTester{}
	SetPushTester(stub)
	defer SetPushTester(nil)

	w := env.asChild(http.MethodPost, "/debug/push", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "child-1", stub.uid)
	assert.Equal(t, "child", stub.userType)
}
