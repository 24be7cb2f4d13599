package recipe

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/socialchef/yeschef/internal/errors"
	"github.com/socialchef/yeschef/internal/services/openai"
)

// RateLimitMessage is shown to users when the model keeps rejecting calls.
const RateLimitMessage = "Too many requests at the moment. Please try again later."

// ErrRateLimited is returned once rate-limit retries are exhausted.
var ErrRateLimited = stderrors.New(RateLimitMessage)

// ProviderError represents a classified error from the model provider
type ProviderError struct {
	Type    string // "rate_limit", "auth", "timeout", "server_error", "client_error", "unknown"
	Message string
	Status  int
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return e.Message
}

// ClassifyError analyzes a model call error
func ClassifyError(err error) *ProviderError {
	if err == nil {
		return nil
	}

	msg := err.Error()
	status := openai.StatusCode(err)
	kind := "unknown"

	switch {
	case openai.IsRateLimit(err) || containsSubstring(msg, "429") || containsSubstring(msg, "too many requests"):
		kind = "rate_limit"
	case openai.IsAuthError(err):
		kind = "auth"
	case stderrors.Is(err, context.DeadlineExceeded) || containsSubstring(msg, "timeout"):
		kind = "timeout"
	case status >= 500 || containsSubstring(msg, "server error"):
		kind = "server_error"
	case status >= 400:
		kind = "client_error"
	}

	return &ProviderError{Type: kind, Message: msg, Status: status}
}

// IsRetryableError reports whether a model call should be retried. Only
// rate-limit and quota rejections qualify.
func IsRetryableError(err error) bool {
	p := ClassifyError(err)
	return p != nil && p.Type == "rate_limit"
}

// toAppError converts a failed generation into the application error that
// the orchestrator maps to an HTTP status.
func toAppError(err error) error {
	if err == nil {
		return nil
	}
	p := ClassifyError(err)
	switch p.Type {
	case "rate_limit":
		appErr := errors.NewRateLimitError(RateLimitMessage, "MODEL_RATE_LIMITED", "Wait a minute before trying again.")
		appErr.Err = stderrors.Join(ErrRateLimited, err)
		return appErr
	case "auth":
		return errors.NewCredentialError("API authentication error - please check your API keys", "MODEL_AUTH_FAILED", err)
	case "timeout":
		return errors.NewTimeoutError("Request timeout - please try again", "MODEL_TIMEOUT", err)
	default:
		return errors.NewRecipeGenerationError("recipe extraction failed", "RECIPE_GENERATION_FAILED", err)
	}
}

// containsSubstring checks if a string contains a substring (case-insensitive)
func containsSubstring(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
