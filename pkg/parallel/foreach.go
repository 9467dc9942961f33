package parallel

import (
	"context"
	"fmt"
	"sync"

	"github.com/dd0wney/cluso-leiden/pkg/logging"
)

// ForEach calls fn(i) for every i in [0, n) on at most workers goroutines and waits for
// all started calls to return. Calls must be independent of each other.
//
// If ctx is cancelled, no further calls are started and ctx.Err() is returned. A
// panicking call does not stop the others; every panic is logged to logger and the first
// one is returned wrapped in ErrTaskPanicked. A nil logger discards the output.
func ForEach(ctx context.Context, logger logging.Logger, n, workers int, fn func(i int)) error {
	if n <= 0 {
		return ctx.Err()
	}
	if workers <= 0 || workers > n {
		workers = min(defaultWorkers(), n)
	}

	if logger == nil {
		logger = logging.NewNopLogger()
	}
	pool, err := NewWorkerPool(workers, logger)
	if err != nil {
		return err
	}

	var (
		mu       sync.Mutex
		panicked error
	)
	run := func(i int) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("task panic recovered", logging.Int("index", i), logging.Any("panic", r))
				mu.Lock()
				if panicked == nil {
					panicked = fmt.Errorf("%w: index %d: %v", ErrTaskPanicked, i, r)
				}
				mu.Unlock()
			}
		}()
		fn(i)
	}

	cancelled := false
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		pool.Submit(func() { run(i) })
	}
	pool.Wait()

	if cancelled {
		logger.Debug("foreach cancelled", logging.Int("tasks", n))
		return ctx.Err()
	}
	return panicked
}
