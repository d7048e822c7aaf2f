// Package ollama talks to a local Ollama server's generate API.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iho/debtledger/internal/domain"
)

// DefaultTimeout bounds one generation request.
const DefaultTimeout = 120 * time.Second

// Generation parameters tuned for short, deterministic JSON answers.
const (
	temperature = 0.1
	maxTokens   = 1024
	topK        = 20
)

// Config for Client.
type Config struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client implements extraction.VisionModel on top of Ollama.
type Client struct {
	httpClient *http.Client
	endpoint   string
	model      string
	timeout    time.Duration
}

// New creates a new Client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	return &Client{
		httpClient: cfg.HTTPClient,
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/api/generate",
		model:      cfg.Model,
		timeout:    cfg.Timeout,
	}
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
	TopK        int     `json:"top_k"`
}

type generateRequest struct {
	Model     string           `json:"model"`
	Prompt    string           `json:"prompt,omitempty"`
	Images    []string         `json:"images,omitempty"`
	Stream    bool             `json:"stream"`
	Format    string           `json:"format,omitempty"`
	Options   *generateOptions `json:"options,omitempty"`
	KeepAlive *int             `json:"keep_alive,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Generate sends prompt and image and returns the model's raw text.
func (c *Client) Generate(ctx context.Context, prompt string, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out generateResponse
	err := c.post(ctx, generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Images: []string{base64.StdEncoding.EncodeToString(image)},
		Format: "json",
		Options: &generateOptions{
			Temperature: temperature,
			NumPredict:  maxTokens,
			TopK:        topK,
		},
	}, &out)
	if err != nil {
		return "", err
	}

	if out.Error != "" {
		return "", fmt.Errorf("%w: ollama: %s", domain.ErrTransport, out.Error)
	}

	return out.Response, nil
}

// Release unloads the model from memory.
func (c *Client) Release(ctx context.Context) error {
	keepAlive := 0

	return c.post(ctx, generateRequest{Model: c.model, KeepAlive: &keepAlive}, nil)
}

func (c *Client) post(ctx context.Context, body generateRequest, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%w: ollama returned %d: %s", domain.ErrTransport, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode ollama response: %v", domain.ErrTransport, err)
	}

	return nil
}
