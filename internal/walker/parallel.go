package walker

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/corvid-labs/antislop/pkg/models"
	"github.com/corvid-labs/antislop/pkg/parser"
)

// ProcessingError pairs a file path with the error processing it produced.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// ProcessingErrors collects per-file errors from a parallel run without
// aborting the rest of the batch: a per-file IoError/DetectorTimeout is
// recorded, not fatal.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection; safe for concurrent use.
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors reports whether any error has been collected.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
	}
}

// Unwrap returns nil: ProcessingErrors aggregates many errors rather than
// wrapping a single cause.
func (e *ProcessingErrors) Unwrap() error { return nil }

// DefaultWorkerMultiplier is applied to runtime.NumCPU to size the worker
// pool for mixed I/O/CGO workloads (tree-sitter parsing crosses the cgo
// boundary).
const DefaultWorkerMultiplier = 2

// ProgressFunc is invoked once per completed file, regardless of outcome.
type ProgressFunc func(path string)

// MapFiles runs fn over items concurrently on a pool sized to
// runtime.NumCPU * DefaultWorkerMultiplier, each goroutine owning its own
// *parser.Parser (tree-sitter parsers are not safe for concurrent reuse).
// ctx cancellation stops accepting new work without discarding results
// already produced by in-flight files.
func MapFiles[T any](ctx context.Context, items []models.FileWorkItem, onProgress ProgressFunc, fn func(*parser.Parser, models.FileWorkItem) (T, error)) ([]T, *ProcessingErrors) {
	if len(items) == 0 {
		return nil, nil
	}

	maxWorkers := runtime.NumCPU() * DefaultWorkerMultiplier
	results := make([]T, 0, len(items))
	errs := &ProcessingErrors{}
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxWorkers).WithContext(ctx)
	for _, item := range items {
		p.Go(func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				errs.Add(item.AbsolutePath, ctx.Err())
				if onProgress != nil {
					onProgress(item.AbsolutePath)
				}
				return nil
			default:
			}

			psr := parser.New()
			defer psr.Close()

			result, err := fn(psr, item)
			if onProgress != nil {
				onProgress(item.AbsolutePath)
			}
			if err != nil {
				errs.Add(item.AbsolutePath, err)
				return nil
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	_ = p.Wait()

	if !errs.HasErrors() {
		return results, nil
	}
	return results, errs
}
