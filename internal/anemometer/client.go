package anemometer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/telewind/telewind/internal/domain"
)

// Client fetches the station page over HTTP and parses it into observations.
type Client struct {
	http     *resty.Client
	url      string
	location *time.Location
	logger   *slog.Logger
}

// NewClient creates a station client. The location is the station's fixed
// UTC offset; parsed timestamps carry it.
func NewClient(url string, timeout time.Duration, location *time.Location, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	return &Client{
		http:     httpClient,
		url:      url,
		location: location,
		logger:   logger,
	}
}

// Fetch downloads and parses the current snapshot. The returned batch is in
// document order (newest first as published by the station); callers must
// not assume any ordering.
func (c *Client) Fetch(ctx context.Context) ([]domain.Observation, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("fetch station page: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("fetch station page: status %d", resp.StatusCode())
	}

	observations, err := Parse(bytes.NewReader(resp.Body()), c.location)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fetched station snapshot", "url", c.url, "observations", len(observations))
	return observations, nil
}
