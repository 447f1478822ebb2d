// Package memory holds in-process repository implementations. They back the
// "memory" storage mode and the service tests.
package memory

import (
	"PinguinGuard/models"
	"context"
	"fmt"
	"sync"
)

type PolicyRepository struct {
	mu       sync.RWMutex
	policies map[string]models.Policy
}

func NewPolicyRepository() *PolicyRepository {
	return &PolicyRepository{policies: make(map[string]models.Policy)}
}

func (r *PolicyRepository) FindByChildID(ctx context.Context, childID string) (models.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.policies[childID]
	if !ok {
		return models.Policy{}, fmt.Errorf("policy for %s: %w", childID, models.ErrNotFound)
	}
	return p.Clone(), nil
}

func (r *PolicyRepository) Save(ctx context.Context, policy models.Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies[policy.ChildID] = policy.Clone()
	return nil
}
