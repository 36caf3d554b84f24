// Package monitor wires the observation window to the wind tracker and the
// notification path.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/telewind/telewind/internal/domain"
	"github.com/telewind/telewind/internal/observability"
)

// ObservationSource yields deduplicated observations in time order.
type ObservationSource interface {
	Next(ctx context.Context) (domain.Observation, error)
}

// SubscriberLister reads the current notification recipients.
type SubscriberLister interface {
	List(ctx context.Context) ([]int64, error)
}

// Notifier delivers a rising-edge alert to the given chats.
type Notifier interface {
	Notify(ctx context.Context, obs domain.Observation, chatIDs []int64) error
}

// EventSink receives fired events for downstream consumers. Optional.
type EventSink interface {
	Publish(ctx context.Context, obs domain.Observation) error
}

// Monitor drives the tracker with observations and reacts to rising edges.
type Monitor struct {
	source      ObservationSource
	tracker     *domain.WindTracker
	subscribers SubscriberLister
	notifier    Notifier
	sink        EventSink // nil when the Kafka sink is disabled
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
}

// New creates a Monitor. sink may be nil.
func New(source ObservationSource, tracker *domain.WindTracker, subscribers SubscriberLister, notifier Notifier, sink EventSink, logger *slog.Logger, metrics *observability.Metrics) *Monitor {
	return &Monitor{
		source:      source,
		tracker:     tracker,
		subscribers: subscribers,
		notifier:    notifier,
		sink:        sink,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once at least one observation has been
// processed, or an error describing why the service is not yet ready.
func (m *Monitor) CheckReadiness(_ context.Context) error {
	if !m.ready.Load() {
		return errors.New("no observation processed yet")
	}
	return nil
}

// Run pulls observations until the context is cancelled. Each observation
// steps the tracker; a rising edge notifies all current subscribers and,
// when configured, publishes to the event sink.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started",
		"sector", m.tracker.Sector.String(),
		"threshold", m.tracker.SpeedThreshold,
		"candidate_steps", m.tracker.CandidateSteps,
		"cooldown_steps", m.tracker.CooldownSteps,
	)
	m.metrics.MonitorRunning.Set(1)
	defer m.metrics.MonitorRunning.Set(0)

	for {
		obs, err := m.source.Next(ctx)
		if err != nil {
			// The window only fails on cancellation.
			m.logger.Info("monitor stopping", "reason", err)
			return nil
		}

		fired := m.tracker.Step(obs)
		state := m.tracker.State()

		m.metrics.ObservationsProcessed.Inc()
		if state.IsHigh() {
			m.metrics.WindHigh.Set(1)
		} else {
			m.metrics.WindHigh.Set(0)
		}
		m.ready.Store(true)
		m.logger.Debug("observation processed", "observation", obs.String(), "state", state.String(), "fired", fired)

		if fired {
			m.metrics.EventsFired.Inc()
			m.fireEvent(ctx, obs)
		}
	}
}

func (m *Monitor) fireEvent(ctx context.Context, obs domain.Observation) {
	chatIDs, err := m.subscribers.List(ctx)
	if err != nil {
		m.logger.Error("listing subscribers failed, alert dropped", "error", err)
	} else if err := m.notifier.Notify(ctx, obs, chatIDs); err != nil {
		m.logger.Error("notify failed", "error", err)
	}

	if m.sink == nil {
		return
	}
	if err := m.sink.Publish(ctx, obs); err != nil {
		m.logger.Error("event sink publish failed", "error", err)
	}
}
