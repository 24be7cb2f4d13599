// Package openai implements the recipe engine's Completer on the official
// OpenAI Go SDK.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/socialchef/yeschef/internal/httpclient"
	"github.com/socialchef/yeschef/internal/metrics"
)

var (
	ErrNotConfigured = errors.New("openai api key not configured")
	ErrNoResponse    = errors.New("no response from OpenAI")
)

// CompletionRequest is a single-message chat completion.
type CompletionRequest struct {
	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int
	// JSON requests the json_object response format.
	JSON bool
	// Kind labels the generation in metrics, e.g. "transcript" or "validation".
	Kind string
}

type Client struct {
	apiKey string
	sdk    openai.Client
}

// NewClient builds a client. The SDK's own retries are disabled; callers
// retry through utils.WithRetry.
func NewClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &Client{
		apiKey: apiKey,
		sdk:    openai.NewClient(opts...),
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Complete sends req and returns the trimmed content of the first choice.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(req.Model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(req.Prompt)},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	start := time.Now()
	resp, err := c.sdk.Chat.Completions.New(httpclient.WithProvider(ctx, httpclient.ProviderOpenAI), params)
	metrics.RecordAIGeneration(ctx, req.Model, req.Kind, time.Since(start))
	if err != nil {
		slog.Warn("OpenAI completion failed",
			"model", req.Model,
			"kind", req.Kind,
			"status", StatusCode(err),
			"error", err)
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrNoResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrNoResponse
	}
	return content, nil
}

// StatusCode returns the HTTP status of an API error, or 0.
func StatusCode(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsRateLimit reports whether err is a rate limit or quota rejection.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if StatusCode(err) == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "quota")
}

// IsAuthError reports whether the API rejected the credentials.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNotConfigured) {
		return true
	}
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
