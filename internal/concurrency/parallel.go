// Package concurrency runs independent jobs on a bounded worker pool.
package concurrency

import (
	"context"
	"fmt"
	"sync"
)

// ParallelOptions configures ProcessParallel.
type ParallelOptions struct {
	// MaxWorkers caps the number of concurrent jobs.
	MaxWorkers int
}

// DefaultOptions returns the default pool size.
func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 10,
	}
}

type outcome[R any] struct {
	index  int
	result R
	err    error
}

// ProcessParallel calls itemFunc for every item and returns the results in
// input order along with the non-nil errors. Items not started before ctx
// is cancelled are reported with ctx's error. Every worker has returned by
// the time ProcessParallel does.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultOptions().MaxWorkers
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	jobs := make(chan int, len(items))
	for i := range items {
		jobs <- i
	}
	close(jobs)

	outcomes := make(chan outcome[R], len(items))
	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					outcomes <- outcome[R]{index: i, err: fmt.Errorf("item %d: %w", i, err)}
					continue
				}
				res, err := itemFunc(ctx, i, items[i])
				outcomes <- outcome[R]{index: i, result: res, err: err}
			}
		}()
	}
	wg.Wait()
	close(outcomes)

	results := make([]R, len(items))
	var errs []error
	for o := range outcomes {
		results[o.index] = o.result
		if o.err != nil {
			errs = append(errs, o.err)
		}
	}
	return results, errs
}
