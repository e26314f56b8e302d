package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	exam2pdf "github.com/alnah/go-exam2pdf"
	"github.com/alnah/go-exam2pdf/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrReadExam    = errors.New("failed to read exam file")
	ErrWriteOutput = errors.New("failed to write output file")
	ErrBuilderInit = errors.New("failed to initialize exam builder")
)

// BuildOutcome holds the result of building a single exam file.
// ExamPath names the paper; KeyPath is empty when the key was skipped.
type BuildOutcome struct {
	InputPath string
	ExamPath  string
	KeyPath   string
	Err       error
	Duration  time.Duration
}

// progressFunc is called after each file finishes, under the batch's own
// synchronization. May be nil.
type progressFunc func(succeeded, failed int)

// buildBatch processes exam files concurrently using the builder pool.
func buildBatch(ctx context.Context, pool Pool, exams []ExamToBuild, params *buildParams, progress progressFunc) []BuildOutcome {
	if len(exams) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(exams) {
		concurrency = len(exams)
	}

	results := make([]BuildOutcome, len(exams))
	var wg sync.WaitGroup
	jobs := make(chan int, len(exams))

	var mu sync.Mutex
	var succeeded, failed int
	record := func(idx int, outcome BuildOutcome) {
		results[idx] = outcome
		if progress == nil {
			return
		}
		mu.Lock()
		if outcome.Err != nil {
			failed++
		} else {
			succeeded++
		}
		progress(succeeded, failed)
		mu.Unlock()
	}

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			builder, err := pool.Acquire()
			if err != nil {
				// Builder creation failed, mark remaining jobs as failed
				for idx := range jobs {
					record(idx, BuildOutcome{
						InputPath: exams[idx].InputPath,
						Err:       fmt.Errorf("%w: %v", ErrBuilderInit, err),
					})
				}
				return
			}
			defer pool.Release(builder)

			for idx := range jobs {
				if ctx.Err() != nil {
					record(idx, BuildOutcome{
						InputPath: exams[idx].InputPath,
						Err:       ctx.Err(),
					})
					continue
				}
				record(idx, buildFile(ctx, builder, exams[idx], params))
			}
		}()
	}

	for i := range exams {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// buildFile processes a single exam file and returns the outcome.
func buildFile(ctx context.Context, builder CLIBuilder, e ExamToBuild, params *buildParams) BuildOutcome {
	start := time.Now()
	outcome := BuildOutcome{
		InputPath: e.InputPath,
		ExamPath:  e.ExamPath,
		KeyPath:   e.KeyPath,
	}
	if params.skipKey {
		outcome.KeyPath = ""
	}
	done := func(err error) BuildOutcome {
		outcome.Err = err
		outcome.Duration = time.Since(start)
		return outcome
	}

	content, err := os.ReadFile(e.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return done(fmt.Errorf("%w: %v", ErrReadExam, err))
	}

	exam, err := exam2pdf.ParseExam(content)
	if err != nil {
		return done(err)
	}

	outDir := filepath.Dir(e.ExamPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return done(fmt.Errorf("creating output directory: %w", err))
	}

	result, err := builder.Build(ctx, exam2pdf.Input{
		Exam:      exam,
		SourceDir: filepath.Dir(e.InputPath),
		Footer:    params.footer,
		Page:      params.page,
		Shuffle:   params.shuffle,
		HTMLOnly:  params.htmlOnly,
		SkipKey:   params.skipKey,
	})
	if err != nil {
		return done(err)
	}

	// Write HTML output if requested (--html or --html-only)
	if params.htmlOnly || params.htmlOutput {
		if err := writeHTML(htmlOutputPath(e.ExamPath), result.ExamHTML); err != nil {
			return done(err)
		}
		if !params.skipKey {
			if err := writeHTML(htmlOutputPath(e.KeyPath), result.KeyHTML); err != nil {
				return done(err)
			}
		}
		// For --html-only, report the HTML paths instead
		if params.htmlOnly {
			outcome.ExamPath = htmlOutputPath(e.ExamPath)
			if !params.skipKey {
				outcome.KeyPath = htmlOutputPath(e.KeyPath)
			}
			return done(nil)
		}
	}

	// Write PDFs (unless --html-only). Atomic: a rename publishes the
	// finished bytes, never a truncated file under the final name.
	if err := fileutil.WriteFileAtomic(e.ExamPath, result.ExamPDF, filePermissions); err != nil {
		return done(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}
	if !params.skipKey {
		if err := fileutil.WriteFileAtomic(e.KeyPath, result.KeyPDF, filePermissions); err != nil {
			return done(fmt.Errorf("%w: %v", ErrWriteOutput, err))
		}
	}

	return done(nil)
}

// writeHTML writes an HTML intermediate next to its PDF.
func writeHTML(path string, html []byte) error {
	if err := fileutil.WriteFileAtomic(path, html, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed builds.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed builds.
func countResults(results []BuildOutcome) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs per-file build results using the provided
// writers. The batch summary line is the caller's job.
func printResultsWithWriter(results []BuildOutcome, quiet, verbose bool, env *Environment) ResultSummary {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		created := r.ExamPath
		if r.KeyPath != "" {
			created += ", " + r.KeyPath
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, created, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", created)
		}
	}

	return countResults(results)
}
