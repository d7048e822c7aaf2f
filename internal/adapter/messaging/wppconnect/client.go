// Package wppconnect sends chat messages through a WPPConnect server session.
package wppconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iho/debtledger/internal/domain"
)

// DefaultTimeout bounds one gateway call.
const DefaultTimeout = 15 * time.Second

// Config for Client.
type Config struct {
	BaseURL    string
	Session    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client implements usecase.Messenger.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
}

// New creates a new Client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		httpClient: cfg.HTTPClient,
		apiURL:     strings.TrimRight(cfg.BaseURL, "/") + "/" + cfg.Session,
		token:      cfg.Token,
	}
}

type textMessage struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type pollOptions struct {
	SelectableCount int `json:"selectableCount"`
}

type pollMessage struct {
	Phone   string      `json:"phone"`
	Name    string      `json:"name"`
	Choices []string    `json:"choices"`
	Options pollOptions `json:"options"`
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, channel, message string) error {
	return c.post(ctx, "/send-message", textMessage{
		Phone:   phone(channel),
		Message: message,
	})
}

// SendPoll sends a single-choice poll.
func (c *Client) SendPoll(ctx context.Context, channel, question string, options []string) error {
	return c.post(ctx, "/send-poll-message", pollMessage{
		Phone:   phone(channel),
		Name:    question,
		Choices: options,
		Options: pollOptions{SelectableCount: 1},
	})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrTransport, path, err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned %d", domain.ErrTransport, path, resp.StatusCode)
	}

	return nil
}

// phone strips the "@c.us" style suffix the gateway appends to chat ids.
func phone(channel string) string {
	if at := strings.IndexByte(channel, '@'); at >= 0 {
		return channel[:at]
	}
	return channel
}
