package worker

import (
	"fmt"

	"github.com/hibiken/asynq"
)

// NewServer creates a new Asynq server for processing tasks
func NewServer(redisURL string, concurrency int) (*asynq.Server, error) {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	return asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: concurrency,
			IsFailure:   isFailure,
		},
	), nil
}

// NewMux registers the handlers behind the given middleware
func NewMux(handlers map[string]asynq.HandlerFunc, mw ...asynq.MiddlewareFunc) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(mw...)
	for taskType, handler := range handlers {
		mux.HandleFunc(taskType, handler)
	}
	return mux
}
