package services

import (
	"PinguinGuard/logger"
	"PinguinGuard/models"
	"PinguinGuard/repositories"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// PolicyStore is a write-through cache over the policy repository. Writes
// for one child are serialized and become visible to reads as soon as the
// backend accepted them.
type PolicyStore struct {
	repo   repositories.PolicyRepository
	cfg    storeConfig
	locks  *keyedMutex
	logger *log.Logger

	mu    sync.RWMutex
	cache map[string]models.Policy

	subMu     sync.RWMutex
	nextSubID int
	listeners map[int]PolicyListener
}

// PolicyListener is told about every policy write the backend accepted.
type PolicyListener func(policy models.Policy)

func NewPolicyStore(repo repositories.PolicyRepository, opts ...StoreOption) *PolicyStore {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &PolicyStore{
		repo:   repo,
		cfg:    cfg,
		locks:  newKeyedMutex(),
		logger: logger.With("policy_store"),
		cache:  make(map[string]models.Policy),

		listeners: make(map[int]PolicyListener),
	}
}

// Subscribe registers l for accepted writes and returns the matching
// unsubscribe func. Listeners run inside the write and must not block.
func (s *PolicyStore) Subscribe(l PolicyListener) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = l
	return func() {
		s.subMu.Lock()
		delete(s.listeners, id)
		s.subMu.Unlock()
	}
}

func (s *PolicyStore) notifyListeners(p models.Policy) {
	s.subMu.RLock()
	listeners := make([]PolicyListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.subMu.RUnlock()

	for _, l := range listeners {
		l(p.Clone())
	}
}

// Get returns the stored policy or models.ErrNotFound. Callers that evaluate
// restrictions treat ErrNotFound as "no restrictions".
func (s *PolicyStore) Get(ctx context.Context, childID string) (models.Policy, error) {
	if p, ok := s.cached(childID); ok {
		return p, nil
	}

	unlock := s.locks.Lock(childID)
	defer unlock()
	return s.load(ctx, childID)
}

func (s *PolicyStore) SetBlock(ctx context.Context, childID string, blocked bool, reason *string) (models.Policy, error) {
	return s.update(ctx, childID, func(p *models.Policy) error {
		p.IsBlocked = blocked
		if blocked {
			p.BlockReason = reason
		} else {
			p.BlockReason = nil
		}
		return nil
	})
}

// SetWindows replaces the allowed windows. The input must already be in
// chronological order and non-overlapping; nothing is merged or sorted.
func (s *PolicyStore) SetWindows(ctx context.Context, childID string, windows []models.TimeWindow) (models.Policy, error) {
	if err := models.ValidateWindows(windows); err != nil {
		return models.Policy{}, err
	}
	return s.update(ctx, childID, func(p *models.Policy) error {
		p.AllowedWindows = append([]models.TimeWindow(nil), windows...)
		return nil
	})
}

// SetDailyCap sets the cap in minutes; nil removes it.
func (s *PolicyStore) SetDailyCap(ctx context.Context, childID string, minutes *int) (models.Policy, error) {
	if err := models.ValidateDailyCap(minutes); err != nil {
		return models.Policy{}, err
	}
	return s.update(ctx, childID, func(p *models.Policy) error {
		if minutes == nil {
			p.DailyCapMinutes = nil
			return nil
		}
		m := *minutes
		p.DailyCapMinutes = &m
		return nil
	})
}

// Invalidate drops the cached policy so the next read goes to the backend.
func (s *PolicyStore) Invalidate(childID string) {
	s.mu.Lock()
	delete(s.cache, childID)
	s.mu.Unlock()
}

func (s *PolicyStore) update(ctx context.Context, childID string, mutate func(*models.Policy) error) (models.Policy, error) {
	if childID == "" {
		return models.Policy{}, fmt.Errorf("%w: child id is required", models.ErrInvalidPolicy)
	}

	unlock := s.locks.Lock(childID)
	defer unlock()

	current, err := s.load(ctx, childID)
	if errors.Is(err, models.ErrNotFound) {
		current = models.UnrestrictedPolicy(childID)
	} else if err != nil {
		return models.Policy{}, err
	}

	next := current.Clone()
	if err := mutate(&next); err != nil {
		return models.Policy{}, err
	}
	next.UpdatedAt = s.cfg.clock()
	if err := next.Validate(); err != nil {
		return models.Policy{}, err
	}

	err = s.cfg.retry.do(ctx, "policy.save", s.cfg.metrics, func(ctx context.Context) error {
		return s.repo.Save(ctx, next)
	})
	if err != nil {
		s.logger.Error("failed to save policy", "child", childID, "error", err)
		return models.Policy{}, err
	}

	s.store(next)
	s.notifyListeners(next)
	s.logger.Debug("policy updated", "child", childID, "blocked", next.IsBlocked, "windows", len(next.AllowedWindows))
	return next.Clone(), nil
}

// load must be called with the child's lock held.
func (s *PolicyStore) load(ctx context.Context, childID string) (models.Policy, error) {
	if p, ok := s.cached(childID); ok {
		return p, nil
	}

	var p models.Policy
	err := s.cfg.retry.do(ctx, "policy.get", s.cfg.metrics, func(ctx context.Context) error {
		var err error
		p, err = s.repo.FindByChildID(ctx, childID)
		return err
	})
	if err != nil {
		return models.Policy{}, err
	}
	s.store(p)
	return p.Clone(), nil
}

func (s *PolicyStore) cached(childID string) (models.Policy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.cache[childID]
	if !ok {
		return models.Policy{}, false
	}
	return p.Clone(), true
}

func (s *PolicyStore) store(p models.Policy) {
	s.mu.Lock()
	s.cache[p.ChildID] = p.Clone()
	s.mu.Unlock()
}
