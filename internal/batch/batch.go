// Package batch evaluates a compiled program over many records in
// parallel. Grounded on the teacher's worker-pool idiom
// (internal/concurrency/concurrency.go's WorkerPool/Job/JobResult), but
// since a filter.Program is not safe for concurrent evaluation (its value
// slots are per-evaluation scratch), each worker here compiles its own
// clone rather than sharing one Program across goroutines.
package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"vcffilter/internal/filter"
	"vcffilter/internal/record"
	"vcffilter/internal/schema"
)

// Result is one record's outcome.
type Result struct {
	Index      int
	SitePass   bool
	SamplePass []bool
	Err        error
}

// Summary tallies a batch run.
type Summary struct {
	Total  int
	Passed int
	Failed int
	Errors int
}

// Run evaluates expr against every record in recs using workers workers,
// each with its own compiled Program clone. Results are returned in input
// order. A compile error aborts immediately since every worker would hit
// the same one.
func Run(ctx context.Context, sch schema.Schema, expr string, recs []record.Record, workers int) ([]Result, Summary, error) {
	if workers < 1 {
		workers = 1
	}
	if len(recs) == 0 {
		return nil, Summary{}, nil
	}

	// One compiled program per worker: a cheap way to hand each goroutine
	// a private set of scratch slots without synchronising on one Program.
	programs := make([]*filter.Program, workers)
	for i := range programs {
		p, err := filter.Compile(sch, expr)
		if err != nil {
			return nil, Summary{}, fmt.Errorf("batch: compile: %w", err)
		}
		programs[i] = p
	}
	defer func() {
		for _, p := range programs {
			filter.Destroy(p)
		}
	}()

	results := make([]Result, len(recs))
	g, gctx := errgroup.WithContext(ctx)

	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range recs {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		prog := programs[w]
		g.Go(func() error {
			for i := range jobs {
				site, samples, err := filter.Evaluate(prog, recs[i])
				results[i] = Result{Index: i, SitePass: site, SamplePass: samples, Err: err}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, summarize(results), err
	}
	return results, summarize(results), nil
}

func summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Errors++
		case r.SitePass:
			s.Passed++
		default:
			s.Failed++
		}
	}
	return s
}
