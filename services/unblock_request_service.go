package services

import (
	"PinguinGuard/interfaces"
	"PinguinGuard/logger"
	"PinguinGuard/metrics"
	"PinguinGuard/models"
	"PinguinGuard/repositories"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ResponseListener is told about every request a parent resolved.
type ResponseListener func(request models.UnblockRequest)

// UnblockRequestService runs the PENDING -> APPROVED/REJECTED workflow.
// Approving a request never touches the policy; lifting a manual block is a
// separate PolicyStore.SetBlock call made by the parent-facing surface.
type UnblockRequestService struct {
	repo     repositories.UnblockRequestRepository
	policies PolicyReader
	usage    UsageReader
	notifier interfaces.NotificationService
	events   interfaces.EventPublisher
	metrics  *metrics.RestrictionMetrics
	retry    RetryPolicy
	clock    Clock
	newID    func() string
	locks    *keyedMutex
	logger   *log.Logger

	subMu     sync.RWMutex
	nextSubID int
	listeners map[int]ResponseListener
}

type UnblockRequestOption func(*UnblockRequestService)

func WithNotifier(n interfaces.NotificationService) UnblockRequestOption {
	return func(s *UnblockRequestService) { s.notifier = n }
}

func WithEventPublisher(p interfaces.EventPublisher) UnblockRequestOption {
	return func(s *UnblockRequestService) { s.events = p }
}

func WithRequestMetrics(m *metrics.RestrictionMetrics) UnblockRequestOption {
	return func(s *UnblockRequestService) { s.metrics = m }
}

func WithRequestClock(clock Clock) UnblockRequestOption {
	return func(s *UnblockRequestService) { s.clock = clock }
}

func WithRequestRetry(p RetryPolicy) UnblockRequestOption {
	return func(s *UnblockRequestService) { s.retry = p }
}

// WithIDGenerator overrides uuid generation of request ids.
func WithIDGenerator(gen func() string) UnblockRequestOption {
	return func(s *UnblockRequestService) { s.newID = gen }
}

func NewUnblockRequestService(repo repositories.UnblockRequestRepository, policies PolicyReader, usage UsageReader, opts ...UnblockRequestOption) *UnblockRequestService {
	s := &UnblockRequestService{
		repo:      repo,
		policies:  policies,
		usage:     usage,
		retry:     DefaultRetryPolicy,
		clock:     time.Now,
		newID:     uuid.NewString,
		locks:     newKeyedMutex(),
		logger:    logger.With("unblock_requests"),
		listeners: make(map[int]ResponseListener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create files a request for a restricted child. A second request while one
// is pending fails with models.ErrAlreadyPending; that is the expected result
// of a double tap, not a fault.
func (s *UnblockRequestService) Create(ctx context.Context, childID, reason string) (models.UnblockRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.UnblockRequest{}, models.ErrEmptyReason
	}

	unlock := s.locks.Lock(childID)
	defer unlock()

	now := s.clock()
	verdict, err := CurrentVerdict(ctx, s.policies, s.usage, childID, now)
	if err != nil {
		return models.UnblockRequest{}, err
	}
	if !verdict.Restricted {
		return models.UnblockRequest{}, fmt.Errorf("create unblock request for %s: %w", childID, models.ErrNotRestricted)
	}

	existing, err := s.findPending(ctx, childID)
	switch {
	case err == nil:
		return models.UnblockRequest{}, fmt.Errorf("create unblock request for %s (pending %s): %w", childID, existing.ID, models.ErrAlreadyPending)
	case !errors.Is(err, models.ErrNotFound):
		return models.UnblockRequest{}, err
	}

	request := models.UnblockRequest{
		ID:        s.newID(),
		ChildID:   childID,
		Reason:    reason,
		Status:    models.RequestStatusPending,
		CreatedAt: now,
	}
	// Inserting the same id twice is a no-op, so the insert can be retried.
	err = s.retry.do(ctx, "unblock.create", s.metrics, func(ctx context.Context) error {
		return s.repo.Create(ctx, request)
	})
	if err != nil {
		return models.UnblockRequest{}, err
	}

	s.metrics.ObserveRequestCreated()
	s.logger.Info("unblock request created", "child", childID, "request", request.ID, "verdict", verdict.Reason)

	if s.notifier != nil {
		if err := s.notifier.NotifyUnblockRequested(ctx, request); err != nil {
			s.logger.Warn("failed to notify parent", "request", request.ID, "error", err)
		}
	}
	s.publish(ctx, interfaces.EventUnblockRequestCreated, request)
	return request, nil
}

// Respond resolves a pending request. Concurrent or repeated responses to
// the same request get models.ErrNotPending; exactly one of them wins.
func (s *UnblockRequestService) Respond(ctx context.Context, requestID string, approve bool, parentResponse *string, respondedBy string) (models.UnblockRequest, error) {
	current, err := s.Get(ctx, requestID)
	if err != nil {
		return models.UnblockRequest{}, err
	}

	unlock := s.locks.Lock(current.ChildID)
	resolved, err := s.repo.Resolve(ctx, requestID, models.StatusFor(approve), normalizeResponse(parentResponse), respondedBy, s.clock())
	unlock()
	if err != nil {
		if !errors.Is(err, models.ErrNotPending) {
			s.logger.Error("failed to resolve unblock request", "request", requestID, "error", err)
		}
		return models.UnblockRequest{}, err
	}

	s.metrics.ObserveRequestResponded(string(resolved.Status))
	s.logger.Info("unblock request resolved", "child", resolved.ChildID, "request", resolved.ID, "status", resolved.Status)

	s.notifyListeners(resolved)
	if s.notifier != nil {
		if err := s.notifier.NotifyUnblockResolved(ctx, resolved); err != nil {
			s.logger.Warn("failed to notify child", "request", resolved.ID, "error", err)
		}
	}
	s.publish(ctx, interfaces.EventUnblockRequestResponded, resolved)
	return resolved, nil
}

func (s *UnblockRequestService) Get(ctx context.Context, requestID string) (models.UnblockRequest, error) {
	var request models.UnblockRequest
	err := s.retry.do(ctx, "unblock.get", s.metrics, func(ctx context.Context) error {
		var err error
		request, err = s.repo.FindByID(ctx, requestID)
		return err
	})
	return request, err
}

func (s *UnblockRequestService) ListForChild(ctx context.Context, childID string) ([]models.UnblockRequest, error) {
	var requests []models.UnblockRequest
	err := s.retry.do(ctx, "unblock.list_child", s.metrics, func(ctx context.Context) error {
		var err error
		requests, err = s.repo.ListByChild(ctx, childID)
		return err
	})
	return requests, err
}

func (s *UnblockRequestService) ListPending(ctx context.Context) ([]models.UnblockRequest, error) {
	var requests []models.UnblockRequest
	err := s.retry.do(ctx, "unblock.list_pending", s.metrics, func(ctx context.Context) error {
		var err error
		requests, err = s.repo.ListPending(ctx)
		return err
	})
	return requests, err
}

// Subscribe registers l for resolved requests and returns the matching
// unsubscribe func. Listeners run synchronously inside Respond and must not block.
func (s *UnblockRequestService) Subscribe(l ResponseListener) func() {
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

func (s *UnblockRequestService) notifyListeners(request models.UnblockRequest) {
	s.subMu.RLock()
	listeners := make([]ResponseListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.subMu.RUnlock()

	for _, l := range listeners {
		l(request)
	}
}

func (s *UnblockRequestService) findPending(ctx context.Context, childID string) (models.UnblockRequest, error) {
	var request models.UnblockRequest
	err := s.retry.do(ctx, "unblock.find_pending", s.metrics, func(ctx context.Context) error {
		var err error
		request, err = s.repo.FindPendingByChild(ctx, childID)
		return err
	})
	return request, err
}

func (s *UnblockRequestService) publish(ctx context.Context, eventType string, request models.UnblockRequest) {
	if s.events == nil {
		return
	}
	event := interfaces.AuditEvent{
		Type:       eventType,
		ChildID:    request.ChildID,
		OccurredAt: s.clock(),
		Payload:    request,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish audit event", "type", eventType, "request", request.ID, "error", err)
	}
}

func normalizeResponse(response *string) *string {
	if response == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*response)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
