package worker

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TypeWarmRecipe = "recipe:warm"
)

const (
	warmMaxRetry = 3
	warmTimeout  = 5 * time.Minute
)

// WarmRecipePayload is the payload for cache warming tasks. Exactly one of
// RecipeName and VideoInput is expected.
type WarmRecipePayload struct {
	JobID      string `json:"job_id"`
	RecipeName string `json:"recipe_name,omitempty"`
	VideoInput string `json:"video_input,omitempty"`
	Lang       string `json:"lang,omitempty"`
}

// NewWarmRecipeTask creates a new cache warming task
func NewWarmRecipeTask(payload WarmRecipePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeWarmRecipe, data,
		asynq.MaxRetry(warmMaxRetry),
		asynq.Timeout(warmTimeout),
	), nil
}
