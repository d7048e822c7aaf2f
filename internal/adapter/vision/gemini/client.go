// Package gemini runs receipt extraction on Google's hosted Gemini models.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/iho/debtledger/internal/domain"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// Config for Client.
type Config struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	BaseURL    string // overrides the API endpoint, used by tests
	HTTPClient *http.Client
}

// Client implements extraction.VisionModel with the genai SDK.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// New creates a new Client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// Generate sends the prompt with the image inline and returns the response text.
func (c *Client) Generate(ctx context.Context, prompt string, image []byte) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: prompt},
				{
					InlineData: &genai.Blob{
						MIMEType: http.DetectContentType(image),
						Data:     image,
					},
				},
			},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.1),
		TopK:             genai.Ptr[float32](20),
		MaxOutputTokens:  1024,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", domain.ErrTransport, err)
	}

	return resp.Text(), nil
}

// Release is a no-op: hosted models hold no local resources.
func (c *Client) Release(ctx context.Context) error {
	return nil
}
