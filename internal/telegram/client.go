// Package telegram is a minimal Telegram Bot API client: just enough to
// long-poll for subscription commands and push wind alerts. The two
// endpoints used here do not justify a bot framework.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Update is one entry from getUpdates.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is an inbound chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      Chat   `json:"chat"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"` // "private", "group", "supergroup", "channel"
}

// apiResponse is the Bot API envelope.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// Client talks to the Telegram Bot API.
type Client struct {
	http    *resty.Client
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a Bot API client for the given bot token.
func NewClient(token string, logger *slog.Logger) *Client {
	return &Client{
		http:    resty.New().SetTimeout(90 * time.Second),
		baseURL: "https://api.telegram.org/bot" + token,
		logger:  logger,
	}
}

// SendMessage delivers a plain-text message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	body := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	var out apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&out).
		Post(c.baseURL + "/sendMessage")
	if err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	if resp.StatusCode() != 200 || !out.OK {
		return fmt.Errorf("telegram sendMessage: status %d: %s", resp.StatusCode(), out.Description)
	}
	return nil
}

// GetUpdates long-polls for inbound updates after the given offset.
// timeout is the server-side hold in seconds; the call returns earlier when
// updates arrive.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	var out apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("offset", fmt.Sprintf("%d", offset)).
		SetQueryParam("timeout", fmt.Sprintf("%d", timeout)).
		SetResult(&out).
		Get(c.baseURL + "/getUpdates")
	if err != nil {
		return nil, fmt.Errorf("telegram getUpdates: %w", err)
	}
	if resp.StatusCode() != 200 || !out.OK {
		return nil, fmt.Errorf("telegram getUpdates: status %d: %s", resp.StatusCode(), out.Description)
	}

	var updates []Update
	if err := json.Unmarshal(out.Result, &updates); err != nil {
		return nil, fmt.Errorf("telegram getUpdates: decode result: %w", err)
	}
	return updates, nil
}
