package worker

import (
	"context"
	"sync"
)

// Pool fans search-run analyses out across a fixed number of goroutines.
// A pool is built per batch and drained by a single Analyze call.
type Pool struct {
	analyzer Analyzer
	workers  int
}

// NewPool sizes a pool for the given analyzer. Sizes below one are
// clamped to a single worker.
func NewPool(analyzer Analyzer, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		analyzer: analyzer,
		workers:  workers,
	}
}

// Analyze runs every path through the analyzer and returns one result per
// path, in completion order. A failed analysis comes back with its error
// set rather than stopping the batch. When the context is canceled, paths
// not yet handed to a worker come back with the context error.
func (p *Pool) Analyze(ctx context.Context, paths []string) []*AnalyzeResult {
	queue := make(chan string)
	results := make(chan *AnalyzeResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range queue {
				results <- p.analyzeOne(ctx, path)
			}
		}()
	}

	fed := 0
feed:
	for _, path := range paths {
		select {
		case queue <- path:
			fed++
		case <-ctx.Done():
			break feed
		}
	}
	close(queue)
	wg.Wait()
	close(results)

	out := make([]*AnalyzeResult, 0, len(paths))
	for res := range results {
		out = append(out, res)
	}
	for _, path := range paths[fed:] {
		out = append(out, &AnalyzeResult{Path: path, Error: ctx.Err()})
	}
	return out
}

func (p *Pool) analyzeOne(ctx context.Context, path string) *AnalyzeResult {
	run, err := p.analyzer.AnalyzeFile(ctx, path)
	if err != nil {
		return &AnalyzeResult{Path: path, Error: err}
	}
	return &AnalyzeResult{Path: path, Run: run}
}
