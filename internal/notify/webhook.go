// Package notify pushes plant alerts to an external webhook. Delivery is
// fire-and-forget: a down endpoint must never stall a scan.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Client struct {
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

// New builds a webhook client. A nil return means notifications are
// disabled; callers must nil-check.
func New(webhookURL string, logger *zap.Logger) *Client {
	if webhookURL == "" {
		return nil
	}
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type message struct {
	Text string `json:"text"`
	At   string `json:"at"`
}

// Send posts a text alert in the background. Failures are logged and
// dropped.
func (c *Client) Send(text string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.post(ctx, text); err != nil {
			c.logger.Warn("notification failed", zap.Error(err))
		}
	}()
}

func (c *Client) post(ctx context.Context, text string) error {
	body, err := json.Marshal(message{Text: text, At: time.Now().Format("2006-01-02 15:04")})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
