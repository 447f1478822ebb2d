package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RestrictionMetrics groups the engine's prometheus collectors. A nil
// *RestrictionMetrics is valid and records nothing.
type RestrictionMetrics struct {
	// Evaluations by resulting reason
	EvaluationsTotal *prometheus.CounterVec
	// Published verdict changes by new reason
	VerdictChangesTotal *prometheus.CounterVec
	// Poll ticks that could not reach a store
	PollFailuresTotal *prometheus.CounterVec
	ActiveMonitors    prometheus.Gauge

	UnblockRequestsCreatedTotal   prometheus.Counter
	UnblockRequestsRespondedTotal *prometheus.CounterVec

	UsageMinutesRecordedTotal prometheus.Counter
	StoreRetriesTotal         *prometheus.CounterVec
}

func NewRestrictionMetrics(reg prometheus.Registerer) *RestrictionMetrics {
	factory := promauto.With(reg)
	return &RestrictionMetrics{
		EvaluationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restriction_evaluations_total",
				Help: "Number of restriction evaluations by verdict reason",
			},
			[]string{"reason"},
		),
		VerdictChangesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restriction_verdict_changes_total",
				Help: "Number of verdict changes published to subscribers",
			},
			[]string{"reason"},
		),
		PollFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restriction_poll_failures_total",
				Help: "Number of monitor ticks that failed to read policy or usage",
			},
			[]string{"child_id"},
		),
		ActiveMonitors: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "restriction_active_monitors",
				Help: "Number of children currently monitored",
			},
		),
		UnblockRequestsCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "unblock_requests_created_total",
				Help: "Number of unblock requests created by children",
			},
		),
		UnblockRequestsRespondedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unblock_requests_responded_total",
				Help: "Number of unblock requests resolved by parents",
			},
			[]string{"status"},
		),
		UsageMinutesRecordedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "usage_minutes_recorded_total",
				Help: "Total minutes of usage recorded in the ledger",
			},
		),
		StoreRetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_retries_total",
				Help: "Number of retried backend store calls by operation",
			},
			[]string{"operation"},
		),
	}
}

func (m *RestrictionMetrics) ObserveEvaluation(reason string) {
	if m == nil {
		return
	}
	m.EvaluationsTotal.WithLabelValues(reason).Inc()
}

func (m *RestrictionMetrics) ObserveVerdictChange(reason string) {
	if m == nil {
		return
	}
	m.VerdictChangesTotal.WithLabelValues(reason).Inc()
}

func (m *RestrictionMetrics) ObservePollFailure(childID string) {
	if m == nil {
		return
	}
	m.PollFailuresTotal.WithLabelValues(childID).Inc()
}

func (m *RestrictionMetrics) MonitorStarted() {
	if m == nil {
		return
	}
	m.ActiveMonitors.Inc()
}

func (m *RestrictionMetrics) MonitorStopped() {
	if m == nil {
		return
	}
	m.ActiveMonitors.Dec()
}

func (m *RestrictionMetrics) ObserveRequestCreated() {
	if m == nil {
		return
	}
	m.UnblockRequestsCreatedTotal.Inc()
}

func (m *RestrictionMetrics) ObserveRequestResponded(status string) {
	if m == nil {
		return
	}
	m.UnblockRequestsRespondedTotal.WithLabelValues(status).Inc()
}

func (m *RestrictionMetrics) ObserveUsage(minutes int) {
	if m == nil {
		return
	}
	m.UsageMinutesRecordedTotal.Add(float64(minutes))
}

func (m *RestrictionMetrics) ObserveRetry(operation string) {
	if m == nil {
		return
	}
	m.StoreRetriesTotal.WithLabelValues(operation).Inc()
}
