// Command telewind runs the wind-alert daemon: it polls the anemometer
// station, tracks sustained high wind, and notifies Telegram subscribers on
// each rising edge.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/telewind/telewind/internal/anemometer"
	"github.com/telewind/telewind/internal/config"
	"github.com/telewind/telewind/internal/domain"
	"github.com/telewind/telewind/internal/eventlog"
	"github.com/telewind/telewind/internal/httpserver"
	"github.com/telewind/telewind/internal/monitor"
	"github.com/telewind/telewind/internal/observability"
	"github.com/telewind/telewind/internal/store"
	"github.com/telewind/telewind/internal/telegram"
	"github.com/telewind/telewind/internal/window"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	subscriptions, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open subscription store", "error", err)
		os.Exit(1)
	}

	station := anemometer.NewClient(cfg.SourceURL, cfg.FetchTimeout, cfg.SourceLocation(), logger)
	w := window.New(station, cfg.PollInterval, clockwork.NewRealClock(), logger, metrics)

	tracker := domain.NewWindTracker(cfg.WindSector, cfg.SpeedThreshold, cfg.CandidateSteps, cfg.CooldownSteps)

	botClient := telegram.NewClient(cfg.TelegramToken, logger)
	notifier := telegram.NewNotifier(botClient, logger, metrics)
	bot := telegram.NewBot(botClient, subscriptions, logger)

	// Event sink is optional (enabled via KAFKA_BROKERS).
	var sink monitor.EventSink
	var events *eventlog.Writer
	if cfg.KafkaEventsEnabled() {
		events = eventlog.NewWriter(cfg, logger)
		sink = events
		logger.Info("kafka event sink enabled", "topic", cfg.KafkaEventsTopic)
	} else {
		logger.Info("kafka event sink disabled")
	}

	m := monitor.New(w, tracker, subscriptions, notifier, sink, logger, metrics)

	srv := httpserver.New(cfg.HTTPAddr, m, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the Telegram command loop.
	go func() {
		if err := bot.Run(ctx); err != nil {
			logger.Error("telegram command loop error", "error", err)
		}
	}()

	// Start the monitor loop.
	go func() {
		if err := m.Run(ctx); err != nil {
			logger.Error("monitor error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	w.Close()
	if events != nil {
		if err := events.Close(); err != nil {
			logger.Error("kafka event sink close error", "error", err)
		}
	}
	if err := subscriptions.Close(); err != nil {
		logger.Error("subscription store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
