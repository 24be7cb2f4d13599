package worker

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq"

	"github.com/socialchef/yeschef/internal/errors"
	"github.com/socialchef/yeschef/internal/orchestrator"
)

// Runner runs the recipe pipeline.
type Runner interface {
	Run(ctx context.Context, req orchestrator.Request) (*orchestrator.Result, error)
}

// RecipeWarmer fills the shared recipe cache ahead of user requests.
type RecipeWarmer struct {
	runner Runner
}

func NewRecipeWarmer(runner Runner) *RecipeWarmer {
	return &RecipeWarmer{runner: runner}
}

// Handlers returns the task handlers served by the worker.
func (w *RecipeWarmer) Handlers() map[string]asynq.HandlerFunc {
	return map[string]asynq.HandlerFunc{
		TypeWarmRecipe: w.HandleWarmRecipe,
	}
}

func (w *RecipeWarmer) HandleWarmRecipe(ctx context.Context, t *asynq.Task) error {
	var payload WarmRecipePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	slog.Info("Warming recipe cache",
		"job_id", payload.JobID,
		"recipe_name", payload.RecipeName,
		"video_input", payload.VideoInput)

	res, err := w.runner.Run(ctx, orchestrator.Request{
		RecipeName: payload.RecipeName,
		VideoInput: payload.VideoInput,
		Lang:       payload.Lang,
	})
	if err != nil {
		status := errors.StatusCode(err)
		slog.Warn("Recipe warming failed", "job_id", payload.JobID, "status", status, "error", err)
		if !retryable(status) {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	slog.Info("Recipe cache warmed",
		"job_id", payload.JobID,
		"title", res.Data.Recipe.Title,
		"from_cache", res.FromCache)
	return nil
}

// retryable reports whether a pipeline status is worth another attempt.
func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusRequestTimeout, http.StatusServiceUnavailable, http.StatusInternalServerError:
		return true
	default:
		return false
	}
}

// isFailure keeps rate limiting out of asynq's failure statistics.
func isFailure(err error) bool {
	return !stderrors.Is(err, asynq.SkipRetry) && errors.StatusCode(err) != http.StatusTooManyRequests
}
