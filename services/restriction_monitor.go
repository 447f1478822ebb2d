package services

import (
	"PinguinGuard/interfaces"
	"PinguinGuard/logger"
	"PinguinGuard/metrics"
	"PinguinGuard/models"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultPollInterval is the reference re-evaluation period.
const DefaultPollInterval = 30 * time.Second

// VerdictCallback receives every published verdict change for a child. It
// runs on the child's worker goroutine and must not call Stop for the same
// child.
type VerdictCallback func(childID string, verdict models.Verdict)

// ResponseSubscriber is the part of UnblockRequestService the monitor needs.
type ResponseSubscriber interface {
	Subscribe(l ResponseListener) func()
}

// PolicySubscriber is the part of PolicyStore the monitor needs.
type PolicySubscriber interface {
	Subscribe(l PolicyListener) func()
}

// RestrictionMonitor keeps one polling worker per observed child. Each
// worker re-evaluates on its ticker and on Refresh, and publishes only when
// the verdict reason changes.
type RestrictionMonitor struct {
	policies PolicyReader
	usage    UsageReader
	interval time.Duration
	clock    Clock
	metrics  *metrics.RestrictionMetrics
	events   interfaces.EventPublisher
	logger   *log.Logger

	policyChanges PolicySubscriber

	mu           sync.Mutex
	workers      map[string]*monitorWorker
	unsubscribes []func()
}

type MonitorOption func(*RestrictionMonitor)

func WithInterval(d time.Duration) MonitorOption {
	return func(m *RestrictionMonitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

func WithMonitorClock(clock Clock) MonitorOption {
	return func(m *RestrictionMonitor) { m.clock = clock }
}

func WithMonitorMetrics(mt *metrics.RestrictionMetrics) MonitorOption {
	return func(m *RestrictionMonitor) { m.metrics = mt }
}

// WithVerdictEvents publishes a verdict.changed audit event for every
// delivered verdict.
func WithVerdictEvents(p interfaces.EventPublisher) MonitorOption {
	return func(m *RestrictionMonitor) { m.events = p }
}

// WithPolicyChanges re-evaluates a child right after any accepted write to
// its policy.
func WithPolicyChanges(sub PolicySubscriber) MonitorOption {
	return func(m *RestrictionMonitor) { m.policyChanges = sub }
}

// NewRestrictionMonitor wires the monitor to its stores. When requests is
// non-nil every resolved request triggers an immediate re-evaluation for
// that child.
func NewRestrictionMonitor(policies PolicyReader, usage UsageReader, requests ResponseSubscriber, opts ...MonitorOption) *RestrictionMonitor {
	m := &RestrictionMonitor{
		policies: policies,
		usage:    usage,
		interval: DefaultPollInterval,
		clock:    time.Now,
		logger:   logger.With("restriction_monitor"),
		workers:  make(map[string]*monitorWorker),
	}
	for _, opt := range opts {
		opt(m)
	}
	if requests != nil {
		m.unsubscribes = append(m.unsubscribes, requests.Subscribe(func(r models.UnblockRequest) {
			m.Refresh(r.ChildID)
		}))
	}
	if m.policyChanges != nil {
		m.unsubscribes = append(m.unsubscribes, m.policyChanges.Subscribe(func(p models.Policy) {
			m.Refresh(p.ChildID)
		}))
	}
	return m
}

// Start begins observing childID. The first verdict is evaluated and
// published right away.
func (m *RestrictionMonitor) Start(childID string, callback VerdictCallback) error {
	if callback == nil {
		return errors.New("restriction monitor: callback is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workers[childID]; ok {
		return fmt.Errorf("start monitor for %s: %w", childID, models.ErrAlreadyMonitoring)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &monitorWorker{
		monitor:  m,
		childID:  childID,
		callback: callback,
		cancel:   cancel,
		refresh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	m.workers[childID] = w
	m.metrics.MonitorStarted()
	go w.run(ctx)

	m.logger.Debug("monitor started", "child", childID, "interval", m.interval)
	return nil
}

// Stop cancels the child's worker. Once Stop returns the callback will not
// be invoked again, even if an evaluation was in flight.
func (m *RestrictionMonitor) Stop(childID string) error {
	m.mu.Lock()
	w, ok := m.workers[childID]
	if ok {
		delete(m.workers, childID)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("stop monitor for %s: %w", childID, models.ErrNotFound)
	}
	w.stop()
	m.metrics.MonitorStopped()
	m.logger.Debug("monitor stopped", "child", childID)
	return nil
}

// Refresh asks the child's worker for an out-of-band evaluation. Requests
// that arrive while one is queued are coalesced. It reports whether the
// child is monitored.
func (m *RestrictionMonitor) Refresh(childID string) bool {
	m.mu.Lock()
	w, ok := m.workers[childID]
	m.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case w.refresh <- struct{}{}:
	default:
	}
	return true
}

func (m *RestrictionMonitor) IsMonitoring(childID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.workers[childID]
	return ok
}

// Active lists the children currently observed.
func (m *RestrictionMonitor) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.workers))
	for id := range m.workers {
		ids = append(ids, id)
	}
	return ids
}

// FailureCount is the number of ticks for childID that could not reach a
// store since monitoring started.
func (m *RestrictionMonitor) FailureCount(childID string) int64 {
	m.mu.Lock()
	w, ok := m.workers[childID]
	m.mu.Unlock()
	if !ok {
		return 0
	}
	return w.failures.Load()
}

// Close stops every worker and waits for their goroutines to exit.
func (m *RestrictionMonitor) Close() {
	m.mu.Lock()
	workers := m.workers
	m.workers = make(map[string]*monitorWorker)
	unsubscribes := m.unsubscribes
	m.unsubscribes = nil
	m.mu.Unlock()

	for _, unsubscribe := range unsubscribes {
		unsubscribe()
	}
	for _, w := range workers {
		w.stop()
		m.metrics.MonitorStopped()
	}
	for _, w := range workers {
		<-w.done
	}
}

type monitorWorker struct {
	monitor  *RestrictionMonitor
	childID  string
	callback VerdictCallback
	cancel   context.CancelFunc
	refresh  chan struct{}
	done     chan struct{}
	failures atomic.Int64

	// deliverMu is held while the callback runs; stop takes it so that no
	// delivery can start or still be running once stop returns.
	deliverMu sync.Mutex
	stopped   bool

	// last is only touched by the worker goroutine.
	last *models.Verdict
}

func (w *monitorWorker) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.monitor.interval)
	defer ticker.Stop()

	w.evaluate(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.evaluate(ctx)
		case <-w.refresh:
			w.evaluate(ctx)
		}
	}
}

func (w *monitorWorker) evaluate(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	m := w.monitor

	verdict, err := CurrentVerdict(ctx, m.policies, m.usage, w.childID, m.clock())
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		// The last published verdict stays in force.
		n := w.failures.Add(1)
		m.metrics.ObservePollFailure(w.childID)
		m.logger.Warn("restriction poll failed", "child", w.childID, "failures", n, "error", err)
		return
	}
	m.metrics.ObserveEvaluation(string(verdict.Reason))

	if w.last != nil && w.last.SameOutcome(verdict) {
		return
	}
	if w.deliver(verdict) {
		w.publish(ctx, verdict)
	}
}

func (w *monitorWorker) deliver(verdict models.Verdict) bool {
	w.deliverMu.Lock()
	defer w.deliverMu.Unlock()
	if w.stopped {
		return false
	}
	w.last = &verdict
	w.monitor.metrics.ObserveVerdictChange(string(verdict.Reason))
	w.callback(w.childID, verdict)
	return true
}

func (w *monitorWorker) publish(ctx context.Context, verdict models.Verdict) {
	m := w.monitor
	if m.events == nil {
		return
	}
	event := interfaces.AuditEvent{
		Type:       interfaces.EventVerdictChanged,
		ChildID:    w.childID,
		OccurredAt: verdict.EvaluatedAt,
		Payload:    verdict,
	}
	if err := m.events.Publish(ctx, event); err != nil && ctx.Err() == nil {
		m.logger.Warn("failed to publish verdict event", "child", w.childID, "error", err)
	}
}

func (w *monitorWorker) stop() {
	w.cancel()
	w.deliverMu.Lock()
	w.stopped = true
	w.deliverMu.Unlock()
}
