package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/handiism/keyshift/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

// FileResult pairs one input file with its conversion outcome. Exactly
// one of Result and Err is set.
type FileResult struct {
	Path   string
	Result *pipeline.Result
	Err    error
}

// Request describes a batch conversion.
type Request struct {
	Inputs    []string
	OutputDir string
	TargetKey string
	SourceKey string
	Overwrite bool
}

// Runner executes batches against one pipeline.
type Runner struct {
	pipeline *pipeline.Pipeline
	jobs     int
}

// NewRunner creates a Runner executing up to jobs conversions
// concurrently. Values below one fall back to sequential execution.
func NewRunner(p *pipeline.Pipeline, jobs int) *Runner {
	if jobs < 1 {
		jobs = 1
	}
	return &Runner{pipeline: p, jobs: jobs}
}

// ConvertAll transposes every input file. Results come back in input
// order. Per-file failures are recorded in the corresponding
// FileResult; a missing tool aborts the whole batch with an error.
func (r *Runner) ConvertAll(ctx context.Context, req Request) ([]FileResult, error) {
	// Fail fast before any file is touched.
	if err := r.pipeline.CheckTools(ctx); err != nil {
		return nil, err
	}

	results := make([]FileResult, len(req.Inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)

	for i, input := range req.Inputs {
		i, input := i, input
		g.Go(func() error {
			result, err := r.pipeline.ConvertKey(ctx, pipeline.Job{
				InputPath: input,
				OutputDir: req.OutputDir,
				TargetKey: req.TargetKey,
				SourceKey: req.SourceKey,
				Overwrite: req.Overwrite,
			})
			results[i] = FileResult{Path: input, Result: result, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DetectAndLog runs key detection on every input and writes one
// "path,key" line per file to logPath. Detection misses log as
// "path,Unknown" and processing errors as "path,Error". The log file
// is truncated at the start of the batch.
func (r *Runner) DetectAndLog(ctx context.Context, inputs []string, logPath string) error {
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	for _, input := range inputs {
		key, ok, err := r.pipeline.DetectKey(ctx, input)
		label := key
		switch {
		case err != nil:
			label = "Error"
		case !ok:
			label = "Unknown"
		}
		if _, err := fmt.Fprintf(logFile, "%s,%s\n", input, label); err != nil {
			return fmt.Errorf("writing log file: %w", err)
		}
	}

	return nil
}

// CollectInputs expands a path into the list of supported audio files
// it names: a file is returned as is, a directory is scanned one level
// deep for .mp3/.wav entries, sorted by name.
func CollectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var inputs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".mp3", ".wav":
			inputs = append(inputs, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(inputs)

	return inputs, nil
}
