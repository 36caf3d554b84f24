// Package eventlog publishes fired wind events to Kafka so downstream
// consumers (dashboards, recorders) don't have to subscribe through the bot.
// The sink is optional; the monitor runs without one.
package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/telewind/telewind/internal/config"
	"github.com/telewind/telewind/internal/domain"
)

// Writer produces wind events to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured events topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaEventsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// windEvent is the published payload for one rising edge.
type windEvent struct {
	Observation domain.Observation `json:"observation"`
	FiredAt     time.Time          `json:"fired_at"`
}

// Publish writes one rising-edge event. The key is the observation
// timestamp, so replays of the same edge land in the same partition.
func (w *Writer) Publish(ctx context.Context, obs domain.Observation) error {
	firedAt := domain.Clock().Now().UTC()
	value, err := json.Marshal(windEvent{Observation: obs, FiredAt: firedAt})
	if err != nil {
		return fmt.Errorf("serialize wind event: %w", err)
	}
	msg := kafkago.Message{
		Key:   []byte(obs.Time.UTC().Format(time.RFC3339)),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "fired_at", Value: []byte(firedAt.Format(time.RFC3339))},
		},
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}
