package domain

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/reveal/internal/adapter"
	"github.com/mouse-blink/reveal/internal/model"
)

// Workflow drives checker runs for the standalone CLI. Unlike the
// in-session path, the CLI has no shared state between adapters, so they
// may run concurrently and individual failures are reported per checker
// instead of aborting the whole run.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) ([]CheckerResult, error)
}

// RunArgs selects what to check and how to cache it.
type RunArgs struct {
	Dir      string
	Exclude  []string
	CacheDir string
	UseCache bool
}

// CheckerResult is one adapter's outcome: its populated result table, or
// the error that stopped it.
type CheckerResult struct {
	Checker string
	Table   model.ResultTable
	Err     error
}

type workflow struct {
	adapters []adapter.Adapter
}

// NewWorkflow builds a Workflow over the given adapters.
func NewWorkflow(adapters ...adapter.Adapter) Workflow {
	return &workflow{adapters: adapters}
}

// Run discovers the test files, consults the disk cache, and invokes every
// remaining adapter concurrently. The returned slice always has one entry
// per adapter, in adapter order; the error aggregates the first failure.
func (w *workflow) Run(ctx context.Context, args RunArgs) ([]CheckerResult, error) {
	files, err := DiscoverTestFiles(args.Dir, args.Exclude)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no test files found in %s", args.Dir)
	}

	var (
		cache     *adapter.TableCache
		inputHash string
	)

	if args.UseCache && args.CacheDir != "" {
		cache, err = adapter.OpenTableCache(args.CacheDir)
		if err != nil {
			return nil, err
		}

		inputHash, err = adapter.HashFiles(files)
		if err != nil {
			return nil, err
		}
	}

	results := make([]CheckerResult, len(w.adapters))

	var g errgroup.Group

	for i, a := range w.adapters {
		results[i].Checker = a.ID()

		if cache != nil {
			table, hit, err := cache.Get(a.ID(), inputHash)
			if err != nil {
				return nil, err
			}

			if hit {
				results[i].Table = table
				continue
			}
		}

		i, a := i, a

		g.Go(func() error {
			if err := a.RunTypecheckerOn(ctx, files); err != nil {
				results[i].Err = err
				return err
			}

			results[i].Table = a.Table()

			if cache != nil {
				return cache.Put(a.ID(), inputHash, a.Table())
			}

			return nil
		})
	}

	err = g.Wait()

	return results, err
}
