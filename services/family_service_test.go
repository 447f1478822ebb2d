package services

import (
	"PinguinGuard/models"
	"PinguinGuard/repositories/memory"
	"PinguinGuard/repositories/mocks"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLinkChild(t *testing.T) {
	ctx := context.Background()
	children := memory.NewChildRepository()
	service := NewFamilyService(memory.NewParentRepository(), children)

	child, err := service.LinkChild(ctx, "parent-1", "child-1", " Маша ")
	require.NoError(t, err)
	assert.Equal(t, "parent-1", child.ParentUID)
	assert.Equal(t, "Маша", child.Name)

	_, err = service.LinkChild(ctx, "parent-1", "child-1", "")
	require.NoError(t, err)
	stored, _ := children.FindByFirebaseUID(ctx, "child-1")
	assert.Equal(t, "Маша", stored.Name)

	_, err = service.LinkChild(ctx, "parent-2", "child-1", "")
	assert.ErrorIs(t, err, models.ErrAlreadyLinked)

	list, err := service.Children(ctx, "parent-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = service.Children(ctx, "parent-9")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestRegisterDeviceToken(t *testing.T) {
	ctx := context.Background()
	parents := memory.NewParentRepository()
	children := memory.NewChildRepository(models.Child{FirebaseUID: "child-1", ParentUID: "parent-1"})
	service := NewFamilyService(parents, children)

	require.NoError(t, service.RegisterDeviceToken(ctx, "parent-1", "parent", "p-token", "ru"))
	parent, err := parents.FindByFirebaseUID(ctx, "parent-1")
	require.NoError(t, err)
	assert.Equal(t, "p-token", parent.DeviceToken)
	assert.Equal(t, "ru", parent.Lang)

	require.NoError(t, service.RegisterDeviceToken(ctx, "child-1", "child", "c-token", ""))
	child, _ := children.FindByFirebaseUID(ctx, "child-1")
	assert.Equal(t, "c-token", child.DeviceToken)

	err = service.RegisterDeviceToken(ctx, "child-9", "child", "x", "")
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.Error(t, service.RegisterDeviceToken(ctx, "x", "admin", "x", ""))
}

func TestRegisterDeviceTokenStoreError(t *testing.T) {
	parents := new(mocks.ParentRepository)
	parents.On("FindByFirebaseUID", mock.Anything, "parent-1").Return(models.Parent{}, errBackendDown)
	service := NewFamilyService(parents, new(mocks.ChildRepository))

	err := service.RegisterDeviceToken(context.Background(), "parent-1", "parent", "t", "")
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	parents.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
