// Package recipe turns transcripts, titles and dish names into normalized
// recipes using a chat completion model.
package recipe

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/socialchef/yeschef/internal/services/ai"
	"github.com/socialchef/yeschef/internal/services/openai"
	"github.com/socialchef/yeschef/internal/utils"
)

// Completer sends a single prompt to a chat model.
type Completer interface {
	Complete(ctx context.Context, req openai.CompletionRequest) (string, error)
}

// Options configures the engine's models and retry policy.
type Options struct {
	RecipeModel     string
	ValidationModel string
	MaxTokens       int
	Retry           utils.RetryConfig
}

// DefaultOptions returns gpt-4o for recipes, gpt-3.5-turbo for validation
// and the rate-limit retry policy.
func DefaultOptions() Options {
	retry := utils.RateLimitRetryConfig()
	retry.ShouldRetry = IsRetryableError
	return Options{
		RecipeModel:     "gpt-4o",
		ValidationModel: "gpt-3.5-turbo",
		MaxTokens:       2000,
		Retry:           retry,
	}
}

type Engine struct {
	completer Completer
	opts      Options
}

func NewEngine(completer Completer, opts Options) *Engine {
	def := DefaultOptions()
	if opts.RecipeModel == "" {
		opts.RecipeModel = def.RecipeModel
	}
	if opts.ValidationModel == "" {
		opts.ValidationModel = def.ValidationModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = def.MaxTokens
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = def.Retry
	}
	if opts.Retry.ShouldRetry == nil {
		opts.Retry.ShouldRetry = IsRetryableError
	}
	return &Engine{completer: completer, opts: opts}
}

// ExtractFromTranscript extracts the recipe described in text. sourceKind
// is one of the ai.Source constants.
func (e *Engine) ExtractFromTranscript(ctx context.Context, text, title, sourceKind string) (*Recipe, error) {
	slog.Info("Extracting recipe from transcript", "chars", len(text), "source", sourceKind)
	return e.generate(ctx, "transcript", ai.BuildTranscriptPrompt(text, title, sourceKind))
}

// GenerateFromTitle infers a recipe from a video title alone.
func (e *Engine) GenerateFromTitle(ctx context.Context, title string) (*Recipe, error) {
	slog.Info("Generating recipe from title", "title", title)
	return e.generate(ctx, "title", ai.BuildTitlePrompt(title))
}

// GenerateFromQuery creates a recipe for a dish name.
func (e *Engine) GenerateFromQuery(ctx context.Context, dish string) (*Recipe, error) {
	slog.Info("Generating recipe from query", "dish", dish)
	return e.generate(ctx, "query", ai.BuildQueryPrompt(dish))
}

func (e *Engine) generate(ctx context.Context, kind, prompt string) (*Recipe, error) {
	req := openai.CompletionRequest{
		Model:       e.opts.RecipeModel,
		Prompt:      prompt,
		Temperature: 0,
		MaxTokens:   e.opts.MaxTokens,
		JSON:        true,
		Kind:        kind,
	}

	content, err := utils.WithRetry(ctx, func(ctx context.Context) (string, error) {
		return e.completer.Complete(ctx, req)
	}, e.opts.Retry)
	if err != nil {
		slog.Error("Recipe generation failed", "kind", kind, "error", err)
		return nil, toAppError(err)
	}

	r, err := ParseRecipe(content)
	if err != nil {
		slog.Error("Model returned unparseable recipe", "kind", kind, "error", err)
		return nil, toAppError(err)
	}
	return r, nil
}

// ValidateFoodInput classifies query as food related. It never fails:
// errors and unparseable answers yield {true, 0.5}.
func (e *Engine) ValidateFoodInput(ctx context.Context, query string) FoodValidation {
	fallback := FoodValidation{IsFood: true, Confidence: 0.5}

	content, err := utils.WithRetry(ctx, func(ctx context.Context) (string, error) {
		return e.completer.Complete(ctx, openai.CompletionRequest{
			Model:       e.opts.ValidationModel,
			Prompt:      ai.BuildFoodValidationPrompt(query),
			Temperature: 0.1,
			MaxTokens:   100,
			Kind:        "validation",
		})
	}, e.opts.Retry)
	if err != nil {
		slog.Warn("Food validation failed, allowing input", "error", err)
		return fallback
	}

	var result struct {
		IsFood     *bool    `json:"isFood"`
		Confidence *float64 `json:"confidence"`
	}
	if err := SafeParseJSON(content, &result); err != nil || result.IsFood == nil || result.Confidence == nil {
		slog.Warn("Failed to parse validation response", "content", strings.TrimSpace(content))
		return fallback
	}
	if math.IsNaN(*result.Confidence) {
		return fallback
	}

	return FoodValidation{
		IsFood:     *result.IsFood,
		Confidence: math.Min(math.Max(*result.Confidence, 0), 1),
	}
}
