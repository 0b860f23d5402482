package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	mdpress "github.com/alnah/go-mdpress"
	"github.com/alnah/go-mdpress/internal/hints"
	"github.com/alnah/go-mdpress/internal/pipeline"
)

const (
	dirPermissions  = 0o750
	filePermissions = 0o644 // outputs are meant to be shared
)

// Sentinel errors for reading sources and writing outputs.
var (
	ErrReadSource = errors.New("reading source document")
	ErrWritePDF   = errors.New("writing PDF")
	ErrWriteHTML  = errors.New("writing HTML")
)

// fileResult is what happened to one job.
type fileResult struct {
	Source  string
	Output  string
	Err     error
	Elapsed time.Duration

	Encoding           string
	DiagramsSummarized int
}

// runJobs converts every job, at most pool.Size() at a time. Results come
// back in job order whatever order the conversions finish in. A failed job
// does not stop the others; a canceled ctx fails the jobs not yet started.
func runJobs(ctx context.Context, pool Pool, jobs []job, params *conversionParams) []fileResult {
	if len(jobs) == 0 {
		return nil
	}

	results := make([]fileResult, len(jobs))
	var g errgroup.Group
	g.SetLimit(max(1, min(pool.Size(), len(jobs))))
	for i, j := range jobs {
		g.Go(func() error {
			results[i] = runJob(ctx, pool, j, params)
			return nil
		})
	}
	_ = g.Wait() // jobs report through results
	return results
}

// runJob borrows a converter for the length of one job.
func runJob(ctx context.Context, pool Pool, j job, params *conversionParams) fileResult {
	if err := ctx.Err(); err != nil {
		return fileResult{Source: j.Source, Err: err}
	}
	conv, release, err := pool.Acquire(ctx)
	if err != nil {
		return fileResult{Source: j.Source, Err: fmt.Errorf("starting converter: %w", err)}
	}
	defer release()
	return convertFile(ctx, conv, j, params)
}

// convertFile reads one source, converts it and writes the outputs.
func convertFile(ctx context.Context, conv CLIConverter, j job, params *conversionParams) fileResult {
	start := time.Now()
	res := fileResult{Source: j.Source, Output: j.PDF}
	done := func(err error) fileResult {
		res.Err = err
		res.Elapsed = time.Since(start)
		return res
	}

	src, err := os.ReadFile(j.Source) // #nosec G304 -- planned input
	if err != nil {
		return done(fmt.Errorf("%w: %v", ErrReadSource, err))
	}
	if err := os.MkdirAll(filepath.Dir(j.PDF), dirPermissions); err != nil {
		return done(fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory()))
	}

	out, err := conv.Convert(ctx, mdpress.Input{
		Source:   src,
		Footer:   params.footer,
		Page:     params.page,
		HTMLOnly: params.htmlOnly,
	})
	if err != nil {
		return done(err)
	}
	res.Encoding = out.Encoding
	res.DiagramsSummarized = out.DiagramsSummarized

	if params.htmlOnly || params.htmlOutput {
		// #nosec G306 -- shared output
		if err := os.WriteFile(j.HTML(), out.HTML, filePermissions); err != nil {
			return done(fmt.Errorf("%w: %v", ErrWriteHTML, err))
		}
		if params.htmlOnly {
			res.Output = j.HTML()
			return done(nil)
		}
	}

	// #nosec G306 -- shared output
	if err := os.WriteFile(j.PDF, out.PDF, filePermissions); err != nil {
		return done(fmt.Errorf("%w: %v", ErrWritePDF, err))
	}
	return done(nil)
}

// report prints one line per job plus warnings for lossy conversions, and
// returns the first failure in job order along with the failure count.
func report(results []fileResult, quiet, verbose bool, mmdc string, env *Environment) (int, error) {
	var failed int
	var first error
	for _, r := range results {
		if r.Err != nil {
			failed++
			if first == nil {
				first = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.Source, r.Err, hintFor(r.Err))
			continue
		}
		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.Source, r.Output, r.Elapsed.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.Output)
		}
		if r.Encoding == string(pipeline.EncodingGBK) {
			fmt.Fprintf(env.Stderr, "warning: %s is not UTF-8, read as GBK%s\n", r.Source, hints.ForInputDecoding())
		}
		if r.DiagramsSummarized > 0 {
			fmt.Fprintf(env.Stderr, "warning: %s: %d diagram(s) shown as text%s\n",
				r.Source, r.DiagramsSummarized, hints.ForDiagramRenderer(mmdc))
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return failed, first
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, mdpress.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, mdpress.ErrStyleNotFound):
		return hints.ForStyleNotFound(mdpress.StyleNames())
	}
	return ""
}
