// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"PinguinGuard/models"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type PolicyRepository struct {
	mock.Mock
}

func (m *PolicyRepository) FindByChildID(ctx context.Context, childID string) (models.Policy, error) {
	args := m.Called(ctx, childID)
	return args.Get(0).(models.Policy), args.Error(1)
}

func (m *PolicyRepository) Save(ctx context.Context, policy models.Policy) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}

type UsageRepository struct {
	mock.Mock
}

func (m *UsageRepository) AddUsage(ctx context.Context, childID, date string, minutes int) (models.UsageRecord, error) {
	args := m.Called(ctx, childID, date, minutes)
	return args.Get(0).(models.UsageRecord), args.Error(1)
}

func (m *UsageRepository) FindByDate(ctx context.Context, childID, date string) (models.UsageRecord, error) {
	args := m.Called(ctx, childID, date)
	return args.Get(0).(models.UsageRecord), args.Error(1)
}

func (m *UsageRepository) FindRange(ctx context.Context, childID, fromDate, toDate string) ([]models.UsageRecord, error) {
	args := m.Called(ctx, childID, fromDate, toDate)
	return args.Get(0).([]models.UsageRecord), args.Error(1)
}

type UnblockRequestRepository struct {
	mock.Mock
}

func (m *UnblockRequestRepository) Create(ctx context.Context, request models.UnblockRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *UnblockRequestRepository) FindByID(ctx context.Context, id string) (models.UnblockRequest, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.UnblockRequest), args.Error(1)
}

func (m *UnblockRequestRepository) FindPendingByChild(ctx context.Context, childID string) (models.UnblockRequest, error) {
	args := m.Called(ctx, childID)
	return args.Get(0).(models.UnblockRequest), args.Error(1)
}

func (m *UnblockRequestRepository) Resolve(ctx context.Context, id string, status models.RequestStatus, response *string, respondedBy string, at time.Time) (models.UnblockRequest, error) {
	args := m.Called(ctx, id, status, response, respondedBy, at)
	return args.Get(0).(models.UnblockRequest), args.Error(1)
}

func (m *UnblockRequestRepository) ListByChild(ctx context.Context, childID string) ([]models.UnblockRequest, error) {
	args := m.Called(ctx, childID)
	return args.Get(0).([]models.UnblockRequest), args.Error(1)
}

func (m *UnblockRequestRepository) ListPending(ctx context.Context) ([]models.UnblockRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.UnblockRequest), args.Error(1)
}

type ChildRepository struct {
	mock.Mock
}

func (m *ChildRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (models.Child, error) {
	args := m.Called(ctx, firebaseUID)
	return args.Get(0).(models.Child), args.Error(1)
}

func (m *ChildRepository) FindByParentUID(ctx context.Context, parentUID string) ([]models.Child, error) {
	args := m.Called(ctx, parentUID)
	return args.Get(0).([]models.Child), args.Error(1)
}

func (m *ChildRepository) Save(ctx context.Context, child models.Child) error {
	args := m.Called(ctx, child)
	return args.Error(0)
}

type ParentRepository struct {
	mock.Mock
}

func (m *ParentRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (models.Parent, error) {
	args := m.Called(ctx, firebaseUID)
	return args.Get(0).(models.Parent), args.Error(1)
}

func (m *ParentRepository) Save(ctx context.Context, parent models.Parent) error {
	args := m.Called(ctx, parent)
	return args.Error(0)
}
