package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/pipeline"
)

// Analyzer defines the interface for analyzing one search-run file
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*pipeline.RunResult, error)
}

// AnalyzeResult carries the outcome of analyzing one search-run file.
// Exactly one of Run and Error is set.
type AnalyzeResult struct {
	Path  string
	Run   *pipeline.RunResult
	Error error
}

// BatchProcessor processes multiple search-run files concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessPaths analyzes multiple search-run files concurrently. Each file
// is one job; failures come back in the results rather than stopping the
// batch.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*AnalyzeResult {
	if len(paths) == 0 {
		return []*AnalyzeResult{}
	}

	return NewPool(b.analyzer, b.concurrency).Analyze(ctx, paths)
}

// ProcessDir analyzes every search-run file in a directory
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*AnalyzeResult, error) {
	paths, err := ListRunFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list search runs: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ListRunFiles returns the search-run documents (.json) in a directory,
// sorted by name
func ListRunFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(paths)
	return paths, nil
}
