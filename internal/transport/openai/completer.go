package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/meridian-clinic/deepsearch/internal/domain"
	"github.com/meridian-clinic/deepsearch/internal/metrics"
)

// Completer is a text-completion provider using the OpenAI-compatible chat API.
type Completer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds the completion provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completion provider.
func NewCompleter(cfg *Config) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Completer{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
}

// Complete issues one chat-completion call. op labels the call site for
// metrics ("translate", "synthesize"). Every call is bounded by the
// configured timeout; exceeding it is a hard provider failure, not an empty
// result.
func (c *Completer) Complete(ctx context.Context, op, systemPrompt, userPrompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		mapped := parseAPIError(err)
		metrics.CompletionRequestsTotal.WithLabelValues(op, c.model, "error").Inc()
		metrics.CompletionErrorsTotal.WithLabelValues(op, c.model, errorType(mapped)).Inc()
		return "", mapped
	}

	if len(resp.Choices) == 0 {
		metrics.CompletionRequestsTotal.WithLabelValues(op, c.model, "error").Inc()
		metrics.CompletionErrorsTotal.WithLabelValues(op, c.model, "empty_response").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrCompletionProviderError)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(op, c.model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(op, c.model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.CompletionTokensTotal.WithLabelValues(op, c.model, "prompt").
			Add(float64(resp.Usage.PromptTokens))
		metrics.CompletionTokensTotal.WithLabelValues(op, c.model, "completion").
			Add(float64(resp.Usage.CompletionTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError maps provider errors onto the domain taxonomy so callers can
// distinguish "try again in a minute" (rate limited) from "add credits"
// (quota) from everything else.
func parseAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if isQuotaExhausted(apiErr) {
			return fmt.Errorf("completion API error %d: %s: %w",
				apiErr.HTTPStatusCode, apiErr.Message, domain.ErrQuotaExhausted)
		}
		if apiErr.HTTPStatusCode == 429 {
			return fmt.Errorf("completion API error 429: %s: %w",
				apiErr.Message, domain.ErrRateLimited)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrCompletionProviderError)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == 429 {
			return fmt.Errorf("completion API error 429: %s: %w",
				string(reqErr.Body), domain.ErrRateLimited)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), domain.ErrCompletionProviderError)
	}

	return fmt.Errorf("completion request failed: %v: %w", err, domain.ErrCompletionProviderError)
}

// isQuotaExhausted detects the insufficient_quota variant of a 429.
func isQuotaExhausted(apiErr *openai.APIError) bool {
	if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
		return true
	}
	return apiErr.HTTPStatusCode == 429 && strings.Contains(apiErr.Type, "insufficient_quota")
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrQuotaExhausted):
		return "quota_exhausted"
	default:
		return "provider_error"
	}
}
