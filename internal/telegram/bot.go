package telegram

import (
	"context"
	"log/slog"
	"time"
)

// longPollSeconds is the server-side hold for getUpdates.
const longPollSeconds = 50

// SubscriptionStore mutates the subscriber registry in response to commands.
type SubscriptionStore interface {
	Add(ctx context.Context, chatID int64) error
	Remove(ctx context.Context, chatID int64) error
}

// Bot runs the inbound command loop: /subscribe and /unsubscribe from
// private chats maintain the subscriber registry. Everything else is ignored.
type Bot struct {
	client *Client
	store  SubscriptionStore
	logger *slog.Logger
}

// NewBot creates the command-loop bot.
func NewBot(client *Client, store SubscriptionStore, logger *slog.Logger) *Bot {
	return &Bot{client: client, store: store, logger: logger}
}

// Run long-polls for updates until the context is cancelled. Transient API
// errors are logged and retried after a short pause.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("telegram command loop started")
	var offset int64

	for {
		if ctx.Err() != nil {
			b.logger.Info("telegram command loop stopping", "reason", ctx.Err())
			return nil
		}

		updates, err := b.client.GetUpdates(ctx, offset, longPollSeconds)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			b.logger.Warn("getUpdates failed, retrying", "error", err)
			if !sleepWithContext(ctx, 3*time.Second) {
				return nil
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update Update) {
	msg := update.Message
	if msg == nil || msg.Chat.Type != "private" {
		return
	}

	switch msg.Text {
	case "/subscribe":
		b.logger.Debug("subscribing", "chat_id", msg.Chat.ID)
		if err := b.store.Add(ctx, msg.Chat.ID); err != nil {
			b.logger.Error("subscribe failed", "chat_id", msg.Chat.ID, "error", err)
			return
		}
		b.reply(ctx, msg.Chat.ID, "You are subscribed successfully!")
	case "/unsubscribe":
		b.logger.Debug("unsubscribing", "chat_id", msg.Chat.ID)
		if err := b.store.Remove(ctx, msg.Chat.ID); err != nil {
			b.logger.Error("unsubscribe failed", "chat_id", msg.Chat.ID, "error", err)
			return
		}
		b.reply(ctx, msg.Chat.ID, "You are unsubscribed")
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.client.SendMessage(ctx, chatID, text); err != nil {
		b.logger.Warn("reply failed", "chat_id", chatID, "error", err)
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
