package monitor_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telewind/telewind/internal/domain"
	"github.com/telewind/telewind/internal/monitor"
	"github.com/telewind/telewind/internal/observability"
)

// sliceSource serves a fixed observation sequence, then blocks until cancel.
type sliceSource struct {
	observations []domain.Observation
	index        int
}

func (s *sliceSource) Next(ctx context.Context) (domain.Observation, error) {
	if s.index >= len(s.observations) {
		<-ctx.Done()
		return domain.Observation{}, ctx.Err()
	}
	obs := s.observations[s.index]
	s.index++
	return obs, nil
}

type staticSubscribers struct {
	chatIDs []int64
	err     error
}

func (s *staticSubscribers) List(_ context.Context) ([]int64, error) {
	return s.chatIDs, s.err
}

type recordingNotifier struct {
	calls []notifyCall
}

type notifyCall struct {
	Observation domain.Observation
	ChatIDs     []int64
}

func (n *recordingNotifier) Notify(_ context.Context, obs domain.Observation, chatIDs []int64) error {
	n.calls = append(n.calls, notifyCall{Observation: obs, ChatIDs: chatIDs})
	return nil
}

type recordingSink struct {
	published []domain.Observation
	err       error
}

func (s *recordingSink) Publish(_ context.Context, obs domain.Observation) error {
	s.published = append(s.published, obs)
	return s.err
}

func observationRun(speeds ...float64) []domain.Observation {
	start := time.Date(2022, 10, 29, 22, 0, 0, 0, time.FixedZone("VLAT", 10*3600))
	observations := make([]domain.Observation, len(speeds))
	for i, speed := range speeds {
		observations[i] = domain.Observation{
			Time:      start.Add(time.Duration(i) * time.Minute),
			Direction: 180,
			AvgSpeed:  speed,
		}
	}
	return observations
}

func runMonitor(t *testing.T, m *monitor.Monitor) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	require.NoError(t, m.Run(ctx))
}

func TestMonitor_NotifiesOnRisingEdge(t *testing.T) {
	source := &sliceSource{observations: observationRun(3.0, 6.0, 6.0, 6.0)}
	tracker := domain.NewWindTracker(domain.South90, 5.0, 2, 2)
	subs := &staticSubscribers{chatIDs: []int64{100, 200}}
	notifier := &recordingNotifier{}
	sink := &recordingSink{}
	m := monitor.New(source, tracker, subs, notifier, sink, slog.Default(), observability.NewMetricsForTesting())

	runMonitor(t, m)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, []int64{100, 200}, notifier.calls[0].ChatIDs)
	assert.Equal(t, 6.0, notifier.calls[0].Observation.AvgSpeed)

	require.Len(t, sink.published, 1)
	assert.Equal(t, notifier.calls[0].Observation, sink.published[0])
}

func TestMonitor_NoNotifyOnCooldownReentry(t *testing.T) {
	// Confirm, dip into cooldown, recover: one episode, one notification.
	source := &sliceSource{observations: observationRun(6.0, 6.0, 6.0, 3.0, 6.0)}
	tracker := domain.NewWindTracker(domain.South90, 5.0, 2, 2)
	notifier := &recordingNotifier{}
	m := monitor.New(source, tracker, &staticSubscribers{chatIDs: []int64{100}}, notifier, nil, slog.Default(), observability.NewMetricsForTesting())

	runMonitor(t, m)

	assert.Len(t, notifier.calls, 1)
}

func TestMonitor_QuietWindNeverNotifies(t *testing.T) {
	source := &sliceSource{observations: observationRun(3.0, 4.0, 4.9, 2.2)}
	tracker := domain.NewWindTracker(domain.South90, 5.0, 2, 2)
	notifier := &recordingNotifier{}
	m := monitor.New(source, tracker, &staticSubscribers{}, notifier, nil, slog.Default(), observability.NewMetricsForTesting())

	runMonitor(t, m)

	assert.Empty(t, notifier.calls)
}

func TestMonitor_RunsWithoutSink(t *testing.T) {
	source := &sliceSource{observations: observationRun(6.0)}
	tracker := domain.NewWindTracker(domain.South90, 5.0, 0, 0)
	notifier := &recordingNotifier{}
	m := monitor.New(source, tracker, &staticSubscribers{chatIDs: []int64{100}}, notifier, nil, slog.Default(), observability.NewMetricsForTesting())

	runMonitor(t, m)

	assert.Len(t, notifier.calls, 1)
}

func TestMonitor_SubscriberListErrorDropsAlert(t *testing.T) {
	source := &sliceSource{observations: observationRun(6.0)}
	tracker := domain.NewWindTracker(domain.South90, 5.0, 0, 0)
	subs := &staticSubscribers{err: errors.New("db locked")}
	notifier := &recordingNotifier{}
	sink := &recordingSink{}
	m := monitor.New(source, tracker, subs, notifier, sink, slog.Default(), observability.NewMetricsForTesting())

	runMonitor(t, m)

	// Alert is dropped, but the event still reaches the sink.
	assert.Empty(t, notifier.calls)
	assert.Len(t, sink.published, 1)
}

func TestMonitor_Readiness(t *testing.T) {
	source := &sliceSource{observations: observationRun(3.0)}
	tracker := domain.NewWindTracker(domain.South90, 5.0, 2, 2)
	m := monitor.New(source, tracker, &staticSubscribers{}, &recordingNotifier{}, nil, slog.Default(), observability.NewMetricsForTesting())

	assert.Error(t, m.CheckReadiness(context.Background()))

	runMonitor(t, m)

	assert.NoError(t, m.CheckReadiness(context.Background()))
}
