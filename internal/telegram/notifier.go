package telegram

import (
	"context"
	"log/slog"

	"github.com/telewind/telewind/internal/domain"
	"github.com/telewind/telewind/internal/observability"
)

// Notifier fans a rising-edge alert out to subscribed chats.
type Notifier struct {
	client  *Client
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewNotifier creates a Notifier on top of the Bot API client.
func NewNotifier(client *Client, logger *slog.Logger, metrics *observability.Metrics) *Notifier {
	return &Notifier{client: client, logger: logger, metrics: metrics}
}

// Notify sends the alert to every chat. A failed delivery to one chat is
// logged and counted but does not block the others; an alert the other
// subscribers never see is worse than a duplicate log line.
func (n *Notifier) Notify(ctx context.Context, obs domain.Observation, chatIDs []int64) error {
	n.logger.Info("wind is growing up, notifying subscribers",
		"observation", obs.String(), "subscribers", len(chatIDs))

	message := "Wind is growing up: " + obs.String()
	for _, chatID := range chatIDs {
		if err := n.client.SendMessage(ctx, chatID, message); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			n.metrics.NotificationErrors.Inc()
			n.logger.Warn("notification delivery failed", "chat_id", chatID, "error", err)
			continue
		}
		n.metrics.NotificationsSent.Inc()
	}
	return nil
}
