package memory

import (
	"PinguinGuard/models"
	"context"
	"fmt"
	"sync"
)

type ChildRepository struct {
	mu       sync.RWMutex
	children map[string]models.Child
}

func NewChildRepository(children ...models.Child) *ChildRepository {
	r := &ChildRepository{children: make(map[string]models.Child)}
	for _, c := range children {
		r.children[c.FirebaseUID] = c
	}
	return r
}

func (r *ChildRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (models.Child, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.children[firebaseUID]
	if !ok {
		return models.Child{}, fmt.Errorf("child %s: %w", firebaseUID, models.ErrNotFound)
	}
	return c, nil
}

func (r *ChildRepository) FindByParentUID(ctx context.Context, parentUID string) ([]models.Child, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Child
	for _, c := range r.children {
		if c.ParentUID == parentUID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *ChildRepository) Save(ctx context.Context, child models.Child) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.children[child.FirebaseUID] = child
	return nil
}

type ParentRepository struct {
	mu      sync.RWMutex
	parents map[string]models.Parent
}

func NewParentRepository(parents ...models.Parent) *ParentRepository {
	r := &ParentRepository{parents: make(map[string]models.Parent)}
	for _, p := range parents {
		r.parents[p.FirebaseUID] = p
	}
	return r
}

func (r *ParentRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (models.Parent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parents[firebaseUID]
	if !ok {
		return models.Parent{}, fmt.Errorf("parent %s: %w", firebaseUID, models.ErrNotFound)
	}
	return p, nil
}

func (r *ParentRepository) Save(ctx context.Context, parent models.Parent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parents[parent.FirebaseUID] = parent
	return nil
}
