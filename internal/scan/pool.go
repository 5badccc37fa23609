package scan

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/docfind/docfind/internal/errors"
	"github.com/docfind/docfind/internal/index"
)

// PoolSize returns the worker count for document processing: three
// quarters of the CPUs, at least 2 and at most 8. override wins when
// positive.
func PoolSize(override int) int {
	if override > 0 {
		return override
	}
	n := int(math.Round(float64(runtime.NumCPU()) * 0.75))
	if n < 2 {
		n = 2
	}
	if n > 8 {
		n = 8
	}
	return n
}

// runBatch processes one batch of files concurrently. The returned
// slice is index-aligned with paths so aggregation order never depends
// on worker scheduling: results[i] belongs to paths[i], with nil for a
// file that failed. A worker panic becomes an error for that file
// rather than crashing the scan.
func runBatch(ctx context.Context, paths []string, workers int, process func(context.Context, string) (*index.Document, error)) ([]*index.Document, []error) {
	results := make([]*index.Document, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = errors.Newf(errors.ErrCodeWorker,
						"worker panic processing %s: %v", path, r)
				}
			}()
			doc, err := process(gctx, path)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = doc
			return nil
		})
	}

	// Workers never return errors through the group; failures stay
	// per-file in errs.
	if err := g.Wait(); err != nil {
		for i := range errs {
			if errs[i] == nil && results[i] == nil {
				errs[i] = fmt.Errorf("batch aborted: %w", err)
			}
		}
	}
	return results, errs
}
