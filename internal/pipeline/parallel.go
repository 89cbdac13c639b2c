package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ProcessUnits runs the pass over several unit payloads concurrently.
// Every unit carries its own declaration table and accessor registry, so
// units never contend; jobs <= 0 uses the machine's CPU count. Results
// keep the order of paths for deterministic reporting.
func ProcessUnits(ctx context.Context, paths []string, jobs int, opts Options) ([]*UnitResult, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results := make([]*UnitResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := opts.ProcessUnit(path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
