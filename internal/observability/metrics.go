package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// polling window, the tracker, and the notification path.
type Metrics struct {
	PollsTotal            prometheus.Counter
	FetchErrors           prometheus.Counter
	ObservationsProcessed prometheus.Counter
	EventsFired           prometheus.Counter
	MonitorRunning        prometheus.Gauge

	// Window internals.
	WindowPending prometheus.Gauge
	PollDuration  prometheus.Histogram

	// Notification delivery.
	NotificationsSent  prometheus.Counter
	NotificationErrors prometheus.Counter

	// WindHigh is 1 while the tracker considers the wind episode active
	// (High or Cooldown), 0 otherwise.
	WindHigh prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PollsTotal,
		m.FetchErrors,
		m.ObservationsProcessed,
		m.EventsFired,
		m.MonitorRunning,
		m.WindowPending,
		m.PollDuration,
		m.NotificationsSent,
		m.NotificationErrors,
		m.WindHigh,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PollsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telewind",
			Name:      "polls_total",
			Help:      "Total station page fetch attempts.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telewind",
			Name:      "fetch_errors_total",
			Help:      "Total failed fetch or parse attempts, retried at the next tick.",
		}),
		ObservationsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telewind",
			Name:      "observations_processed_total",
			Help:      "Total observations stepped through the wind tracker.",
		}),
		EventsFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telewind",
			Name:      "events_fired_total",
			Help:      "Total rising-edge events (sustained wind confirmed).",
		}),
		MonitorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "telewind",
			Name:      "monitor_running",
			Help:      "1 when the monitor loop is active, 0 when shut down.",
		}),
		WindowPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "telewind",
			Name:      "window_pending_observations",
			Help:      "Observations fetched but not yet delivered to the tracker.",
		}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "telewind",
			Name:      "poll_duration_seconds",
			Help:      "Duration of a fetch-and-parse cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telewind",
			Name:      "notifications_sent_total",
			Help:      "Total Telegram messages delivered.",
		}),
		NotificationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telewind",
			Name:      "notification_errors_total",
			Help:      "Total failed Telegram deliveries.",
		}),
		WindHigh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "telewind",
			Name:      "wind_high",
			Help:      "1 while the wind episode is active (High or Cooldown).",
		}),
	}
}
