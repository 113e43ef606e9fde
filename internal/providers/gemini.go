package providers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"google.golang.org/genai"
)

const (
	GeminiName         = "gemini"
	geminiDefaultModel = "gemini-2.5-pro-preview-03-25"
)

// GeminiConfig holds configuration for the Gemini text client.
type GeminiConfig struct {
	APIKey     string
	Model      string
	MaxRetries int           // Transport-level retry attempts (default: 3)
	RetryDelay time.Duration // Base delay between retries (default: 2s)
	Logger     *slog.Logger
}

// GeminiClient implements TextGenerator using Google's Gemini API.
type GeminiClient struct {
	client     *genai.Client
	model      string
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewGeminiClient creates a new Gemini text client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client:     client,
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
	}, nil
}

// Name returns the provider identifier.
func (c *GeminiClient) Name() string {
	return GeminiName
}

// Generate produces prose for the given prompt. Transient failures are
// retried at the transport level; the returned text is trimmed.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	var resp *genai.GenerateContentResponse

	err := retry.Do(
		func() error {
			var err error
			resp, err = c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("gemini request failed, retrying",
				"attempt", n+1,
				"model", c.model,
				"error", err,
			)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}

// Verify interface
var _ TextGenerator = (*GeminiClient)(nil)
