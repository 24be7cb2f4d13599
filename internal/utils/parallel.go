package utils

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunParallelWithResults executes funcs concurrently and returns their
// results in input order together with the non-nil errors. A failing func
// does not cancel the others.
func RunParallelWithResults[T any](ctx context.Context, funcs []func(ctx context.Context) (T, error)) ([]T, []error) {
	if len(funcs) == 0 {
		return nil, nil
	}

	results := make([]T, len(funcs))
	errs := make([]error, len(funcs))

	var g errgroup.Group
	for i, fn := range funcs {
		g.Go(func() error {
			results[i], errs[i] = fn(ctx)
			return nil
		})
	}
	_ = g.Wait()

	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	return results, nonNil
}
