package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunParallelWithResults(t *testing.T) {
	var running, peak atomic.Int32
	work := func(v int, err error) func(context.Context) (int, error) {
		return func(ctx context.Context) (int, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			running.Add(-1)
			return v, err
		}
	}

	boom := errors.New("boom")
	results, errs := RunParallelWithResults(context.Background(), []func(context.Context) (int, error){
		work(1, nil),
		work(2, boom),
		work(3, nil),
	})

	assert.Equal(t, []int{1, 2, 3}, results)
	assert.Equal(t, []error{boom}, errs)
	assert.Greater(t, peak.Load(), int32(1))
}

func TestRunParallelWithResultsEmpty(t *testing.T) {
	results, errs := RunParallelWithResults[string](context.Background(), nil)
	assert.Nil(t, results)
	assert.Nil(t, errs)
}
