package utils

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"
)

// RetryConfig holds the configuration for the retry mechanism.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	Timeout         time.Duration
	RetryableErrors []string
	// ShouldRetry, when set, replaces the pattern match on RetryableErrors.
	ShouldRetry func(error) bool
}

// RetryableFunc defines the signature for operations that can be retried.
type RetryableFunc[T any] func(ctx context.Context) (T, error)

// DefaultRetryConfig returns a RetryConfig with sensible default values.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  1 * time.Second,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		Timeout:       30 * time.Second,
		RetryableErrors: []string{
			"timeout",
			"connection reset",
			"rate limit",
			"connection refused",
			"socket hang up",
			"5", // covers 5xx status codes usually mentioned in error messages
		},
	}
}

// RateLimitRetryConfig returns the policy used for model calls: three
// attempts, 1s doubling, and only rate-limit or quota failures retried.
func RateLimitRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  1 * time.Second,
		MaxDelay:      4 * time.Second,
		BackoffFactor: 2.0,
		Timeout:       60 * time.Second,
		RetryableErrors: []string{
			"rate limit",
			"rate_limit",
			"quota",
			"429",
			"too many requests",
		},
	}
}

// LinearRetryConfig waits step*attempt between attempts.
func LinearRetryConfig(attempts int, step time.Duration, shouldRetry func(error) bool) RetryConfig {
	return RetryConfig{
		MaxAttempts:   attempts,
		InitialDelay:  step,
		MaxDelay:      step * time.Duration(attempts),
		BackoffFactor: 1.0,
		Timeout:       20 * time.Second,
		ShouldRetry:   shouldRetry,
	}
}

// IsRetryableError checks if the given error is retryable based on defined patterns.
func IsRetryableError(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	for _, pattern := range patterns {
		if strings.Contains(errMsg, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// WithRetry executes the given operation with retries based on the provided config.
func WithRetry[T any](ctx context.Context, operation RetryableFunc[T], config RetryConfig) (T, error) {
	var lastErr error
	var zero T

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		// Create a context with timeout for this specific attempt
		attemptCtx, cancel := context.WithTimeout(ctx, config.Timeout)

		result, err := operation(attemptCtx)
		cancel() // Release resources as soon as operation is done

		if err == nil {
			return result, nil
		}

		lastErr = err

		// If this was the last attempt, don't wait or check retryability
		if attempt == config.MaxAttempts {
			break
		}

		// Check if the error is retryable
		if !config.retryable(err) {
			break
		}

		delay := config.delay(attempt)

		// Add jitter (up to 10% of the delay)
		jitterRange := int64(delay) / 10
		if jitterRange > 0 && config.BackoffFactor > 1 {
			jitter := time.Duration(rand.Int63n(jitterRange))
			delay += jitter
		}

		// Wait for the delay or context cancellation
		select {
		case <-time.After(delay):
			// Continue to next attempt
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}

func (c RetryConfig) retryable(err error) bool {
	if c.ShouldRetry != nil {
		return c.ShouldRetry(err)
	}
	return IsRetryableError(err, c.RetryableErrors)
}

// delay is InitialDelay * BackoffFactor^(attempt-1) for exponential configs
// and InitialDelay * attempt when BackoffFactor is 1, capped at MaxDelay.
func (c RetryConfig) delay(attempt int) time.Duration {
	var d time.Duration
	if c.BackoffFactor <= 1 {
		d = c.InitialDelay * time.Duration(attempt)
	} else {
		d = time.Duration(float64(c.InitialDelay) * math.Pow(c.BackoffFactor, float64(attempt-1)))
	}
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d
}
