package memory

import (
	"PinguinGuard/models"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type UnblockRequestRepository struct {
	mu       sync.Mutex
	requests map[string]models.UnblockRequest
}

func NewUnblockRequestRepository() *UnblockRequestRepository {
	return &UnblockRequestRepository{requests: make(map[string]models.UnblockRequest)}
}

func (r *UnblockRequestRepository) Create(ctx context.Context, request models.UnblockRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[request.ID]; ok {
		return nil
	}
	for _, existing := range r.requests {
		if existing.ChildID == request.ChildID && existing.IsPending() {
			return fmt.Errorf("create unblock request for %s: %w", request.ChildID, models.ErrAlreadyPending)
		}
	}
	r.requests[request.ID] = request
	return nil
}

func (r *UnblockRequestRepository) FindByID(ctx context.Context, id string) (models.UnblockRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return models.UnblockRequest{}, fmt.Errorf("unblock request %s: %w", id, models.ErrNotFound)
	}
	return req, nil
}

func (r *UnblockRequestRepository) FindPendingByChild(ctx context.Context, childID string) (models.UnblockRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ChildID == childID && req.IsPending() {
			return req, nil
		}
	}
	return models.UnblockRequest{}, fmt.Errorf("pending unblock request for %s: %w", childID, models.ErrNotFound)
}

func (r *UnblockRequestRepository) Resolve(ctx context.Context, id string, status models.RequestStatus, response *string, respondedBy string, at time.Time) (models.UnblockRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return models.UnblockRequest{}, fmt.Errorf("unblock request %s: %w", id, models.ErrNotFound)
	}
	if !req.IsPending() {
		return req, fmt.Errorf("resolve unblock request %s (status %s): %w", id, req.Status, models.ErrNotPending)
	}
	req.Status = status
	req.ParentResponse = response
	req.RespondedBy = &respondedBy
	req.RespondedAt = &at
	r.requests[id] = req
	return req, nil
}

func (r *UnblockRequestRepository) ListByChild(ctx context.Context, childID string) ([]models.UnblockRequest, error) {
	return r.list(func(req models.UnblockRequest) bool { return req.ChildID == childID }), nil
}

func (r *UnblockRequestRepository) ListPending(ctx context.Context) ([]models.UnblockRequest, error) {
	return r.list(func(req models.UnblockRequest) bool { return req.IsPending() }), nil
}

func (r *UnblockRequestRepository) list(match func(models.UnblockRequest) bool) []models.UnblockRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.UnblockRequest, 0)
	for _, req := range r.requests {
		if match(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
