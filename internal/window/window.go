// Package window turns repeated, overlapping snapshot polls into a single
// gap-free, chronologically ordered, at-most-once observation stream.
//
// The station republishes recent history on every fetch, in no guaranteed
// order and with heavy overlap between polls. The window keeps a high-water
// mark (the timestamp of the newest observation ever delivered) and only
// lets strictly newer observations through, so the consumer sees each
// distinct sample exactly once, oldest first.
package window

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/telewind/telewind/internal/domain"
	"github.com/telewind/telewind/internal/observability"
)

// Fetcher retrieves the current snapshot batch from the station.
// The batch may be unordered, overlap previous polls, or be empty.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.Observation, error)
}

// Window is the deduplicating poll loop. Not safe for concurrent use: one
// consumer pulls observations one at a time via Next.
type Window struct {
	fetcher  Fetcher
	clock    clockwork.Clock
	ticker   clockwork.Ticker
	interval time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics

	// pending holds fetched but not yet delivered observations, oldest first.
	pending []domain.Observation
	// highWater is the time of the newest observation ever delivered;
	// zero until the first successful non-empty poll.
	highWater time.Time
}

// New creates a Window polling the fetcher at the given interval. The clock
// is injectable so tests can drive polls with a fake; pass
// clockwork.NewRealClock() in production.
func New(fetcher Fetcher, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Window {
	return &Window{
		fetcher:  fetcher,
		clock:    clock,
		ticker:   clock.NewTicker(interval),
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

// Close stops the poll ticker. The window cannot be restarted; create a new
// one instead.
func (w *Window) Close() {
	w.ticker.Stop()
}

// Next blocks until the next observation is available and returns it.
// Fetch and parse failures are logged and retried at the next tick; the
// only error Next returns is the context's, on cancellation. Ticks do not
// accumulate: a poll cycle slower than the interval delays the next poll
// rather than firing a burst of catch-up fetches.
func (w *Window) Next(ctx context.Context) (domain.Observation, error) {
	for {
		if len(w.pending) > 0 {
			obs := w.pending[0]
			w.pending = w.pending[1:]
			w.metrics.WindowPending.Set(float64(len(w.pending)))
			return obs, nil
		}

		select {
		case <-ctx.Done():
			return domain.Observation{}, ctx.Err()
		case <-w.ticker.Chan():
		}

		w.poll(ctx)
	}
}

// poll runs one fetch cycle and refills the pending buffer with whatever is
// new since the high-water mark.
func (w *Window) poll(ctx context.Context) {
	start := w.clock.Now()
	batch, err := w.fetcher.Fetch(ctx)
	w.metrics.PollsTotal.Inc()
	w.metrics.PollDuration.Observe(w.clock.Since(start).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.metrics.FetchErrors.Inc()
		w.logger.Warn("station fetch failed, retrying at next tick", "error", err)
		return
	}
	if len(batch) == 0 {
		return
	}

	sort.Slice(batch, func(i, j int) bool { return batch[i].Time.Before(batch[j].Time) })

	if w.highWater.IsZero() {
		// First successful poll: deliver only the newest sample. The rest
		// of the batch is stale history and would flood the tracker.
		latest := batch[len(batch)-1]
		w.pending = append(w.pending, latest)
		w.highWater = latest.Time
	} else {
		w.pending = append(w.pending, w.keepNew(batch)...)
	}

	w.metrics.WindowPending.Set(float64(len(w.pending)))
	w.logger.Debug("poll complete", "batch", len(batch), "new", len(w.pending))
}

// keepNew filters a time-sorted batch down to observations strictly newer
// than the high-water mark, collapsing duplicate timestamps within the
// batch, and advances the mark.
func (w *Window) keepNew(batch []domain.Observation) []domain.Observation {
	kept := make([]domain.Observation, 0, len(batch))
	last := w.highWater
	for _, obs := range batch {
		if !obs.Time.After(last) {
			continue
		}
		kept = append(kept, obs)
		last = obs.Time
	}
	w.highWater = last
	return kept
}
