package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the default number of concurrent workers
const DefaultConcurrency = 4

// BulkResult represents the outcome of a single bulk operation
type BulkResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	err     error
}

// runBulkOperation runs operation for every id with bounded parallelism.
// Individual failures are recorded, never abort the batch. Results keep the
// order of ids.
func runBulkOperation(
	ctx context.Context,
	ids []string,
	concurrency int64,
	progress io.Writer,
	operation func(ctx context.Context, id string) error,
) []BulkResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	sem := semaphore.NewWeighted(concurrency)
	results := make([]BulkResult, len(ids))
	var mu sync.Mutex
	var done int64
	total := len(ids)

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			results[i] = BulkResult{ID: id}
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i].err = err
				results[i].Error = err.Error()
				return nil
			}
			defer sem.Release(1)

			if err := operation(ctx, id); err != nil {
				results[i].err = err
				results[i].Error = err.Error()
			} else {
				results[i].Success = true
			}

			if progress != nil {
				current := atomic.AddInt64(&done, 1)
				mu.Lock()
				_, _ = fmt.Fprintf(progress, "\rProcessed %d/%d", current, total)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if progress != nil && total > 0 {
		_, _ = fmt.Fprintln(progress)
	}
	return results
}

// countResults returns success and failure counts from bulk results
func countResults(results []BulkResult) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	return
}

// firstFailure returns the error of the first failed result.
func firstFailure(results []BulkResult) error {
	for _, r := range results {
		if !r.Success {
			return r.err
		}
	}
	return nil
}
