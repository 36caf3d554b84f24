package window_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telewind/telewind/internal/domain"
	"github.com/telewind/telewind/internal/observability"
	"github.com/telewind/telewind/internal/window"
)

const pollInterval = 55 * time.Second

// scriptedFetcher returns one scripted result per Fetch call, then empty
// batches forever.
type scriptedFetcher struct {
	results []fetchResult
	calls   int
}

type fetchResult struct {
	batch []domain.Observation
	err   error
}

func (f *scriptedFetcher) Fetch(_ context.Context) ([]domain.Observation, error) {
	if f.calls >= len(f.results) {
		return nil, nil
	}
	r := f.results[f.calls]
	f.calls++
	return r.batch, r.err
}

var stationTZ = time.FixedZone("VLAT", 10*3600)

func obsAt(minute int, speed float64) domain.Observation {
	return domain.Observation{
		Time:      time.Date(2022, 10, 29, 22, minute, 0, 0, stationTZ),
		Direction: 180,
		AvgSpeed:  speed,
	}
}

func newTestWindow(f window.Fetcher, clock clockwork.Clock) *window.Window {
	return window.New(f, pollInterval, clock, slog.Default(), observability.NewMetricsForTesting())
}

// next advances the fake clock one poll interval and pulls one observation.
func next(t *testing.T, w *window.Window, clock *clockwork.FakeClock) domain.Observation {
	t.Helper()
	clock.Advance(pollInterval)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	obs, err := w.Next(ctx)
	require.NoError(t, err)
	return obs
}

// expectNothing advances the clock one interval and asserts Next stays blocked.
func expectNothing(t *testing.T, w *window.Window, clock *clockwork.FakeClock) {
	t.Helper()
	clock.Advance(pollInterval)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := w.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWindow_BootstrapKeepsOnlyLatest(t *testing.T) {
	// First batch carries history; only the newest sample must come through.
	fetcher := &scriptedFetcher{results: []fetchResult{
		{batch: []domain.Observation{obsAt(45, 7.3), obsAt(35, 4.8), obsAt(40, 6.1)}},
	}}
	clock := clockwork.NewFakeClock()
	w := newTestWindow(fetcher, clock)
	defer w.Close()

	obs := next(t, w, clock)
	assert.Equal(t, obsAt(45, 7.3), obs)

	expectNothing(t, w, clock)
}

func TestWindow_DeduplicatesRepeatedBatches(t *testing.T) {
	batch := []domain.Observation{obsAt(40, 6.1), obsAt(45, 7.3)}
	fetcher := &scriptedFetcher{results: []fetchResult{
		{batch: batch},
		{batch: batch}, // station re-returns the same history
	}}
	clock := clockwork.NewFakeClock()
	w := newTestWindow(fetcher, clock)
	defer w.Close()

	obs := next(t, w, clock)
	assert.Equal(t, obsAt(45, 7.3), obs)

	// Second poll contains nothing new.
	expectNothing(t, w, clock)
	assert.Equal(t, 2, fetcher.calls)
}

func TestWindow_OrdersAndFiltersSteadyState(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{
		{batch: []domain.Observation{obsAt(35, 4.8)}},
		// Overlapping, unordered, with an already-seen entry.
		{batch: []domain.Observation{obsAt(50, 8.0), obsAt(35, 4.8), obsAt(40, 6.1), obsAt(45, 7.3)}},
	}}
	clock := clockwork.NewFakeClock()
	w := newTestWindow(fetcher, clock)
	defer w.Close()

	first := next(t, w, clock)
	assert.Equal(t, obsAt(35, 4.8), first)

	// One tick refills the buffer with the three new samples; they drain
	// oldest-first without further polling.
	got := []domain.Observation{next(t, w, clock)}
	for i := 0; i < 2; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		obs, err := w.Next(ctx)
		cancel()
		require.NoError(t, err)
		got = append(got, obs)
	}

	want := []domain.Observation{obsAt(40, 6.1), obsAt(45, 7.3), obsAt(50, 8.0)}
	assert.Equal(t, want, got)
	assert.Equal(t, 2, fetcher.calls)

	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].Time.After(got[i-1].Time), "emitted times must strictly increase")
	}
}

func TestWindow_CollapsesDuplicateTimestampsInBatch(t *testing.T) {
	dup := obsAt(40, 6.1)
	dupOther := obsAt(40, 9.9)
	fetcher := &scriptedFetcher{results: []fetchResult{
		{batch: []domain.Observation{obsAt(35, 4.8)}},
		{batch: []domain.Observation{dup, dupOther, obsAt(45, 7.3)}},
	}}
	clock := clockwork.NewFakeClock()
	w := newTestWindow(fetcher, clock)
	defer w.Close()

	next(t, w, clock) // bootstrap

	first := next(t, w, clock)
	assert.Equal(t, dup.Time, first.Time)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	second, err := w.Next(ctx)
	cancel()
	require.NoError(t, err)
	assert.Equal(t, obsAt(45, 7.3), second)
}

func TestWindow_FetchErrorRetriesAtNextTick(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{
		{err: errors.New("connection refused")},
		{batch: []domain.Observation{obsAt(45, 7.3)}},
	}}
	clock := clockwork.NewFakeClock()
	w := newTestWindow(fetcher, clock)
	defer w.Close()

	// The failed poll must not terminate the sequence.
	expectNothing(t, w, clock)

	obs := next(t, w, clock)
	assert.Equal(t, obsAt(45, 7.3), obs)
	assert.Equal(t, 2, fetcher.calls)
}

func TestWindow_EmptyBatchLeavesHighWaterUnchanged(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{
		{batch: []domain.Observation{obsAt(35, 4.8)}},
		{batch: nil},
		{batch: []domain.Observation{obsAt(40, 6.1)}},
	}}
	clock := clockwork.NewFakeClock()
	w := newTestWindow(fetcher, clock)
	defer w.Close()

	assert.Equal(t, obsAt(35, 4.8), next(t, w, clock))
	expectNothing(t, w, clock)
	assert.Equal(t, obsAt(40, 6.1), next(t, w, clock))
}

func TestWindow_CancelledContext(t *testing.T) {
	fetcher := &scriptedFetcher{}
	clock := clockwork.NewFakeClock()
	w := newTestWindow(fetcher, clock)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
