package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sniff/internal/cache"
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/fixer"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/tokenizer"
)

// FileResult is the outcome of checking one file. Err is set when the file
// could not be read or tokenized; it is not a violation.
type FileResult struct {
	Path        string
	Diagnostics []lint.Diagnostic
	Cached      bool
	Err         error
}

// Count returns the number of diagnostics with the given severity.
func (r FileResult) Count(sev lint.Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Summary totals a check run.
type Summary struct {
	Files    int
	Errors   int
	Warnings int
	Fixable  int
	Failed   int
	Cached   int
}

// Summarize totals results.
func Summarize(results []FileResult) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
		}
		if r.Cached {
			s.Cached++
		}
		s.Errors += r.Count(lint.SeverityError)
		s.Warnings += r.Count(lint.SeverityWarning)
		s.Fixable += len(fixer.Fixable(r.Diagnostics))
	}
	return s
}

// File tokenizes src as the content of path with the configured tab width.
func (e *Engine) File(path, src string) (*source.File, error) {
	return tokenizer.NewFile(path, src, e.fileOpts...)
}

// Lint analyzes src as the content of path.
func (e *Engine) Lint(path, src string) ([]lint.Diagnostic, error) {
	f, err := e.File(path, src)
	if err != nil {
		return nil, err
	}
	return e.analyzer.Analyze(f), nil
}

// Supports reports whether path has one of the configured extensions.
func (e *Engine) Supports(path string) bool {
	return hasExtension(path, extensionSet(e.settings.Extensions))
}

// Check lints files in parallel, each file on its own goroutine. Results
// keep the order of files. With the cache open, unchanged files reuse their
// stored diagnostics and the run is recorded.
func (e *Engine) Check(ctx context.Context, files []string) ([]FileResult, error) {
	runID := ""
	if e.store != nil {
		run, err := e.store.StartRun(ctx, e.configHash)
		if err != nil {
			e.logger.Warn("cache unavailable", slog.String("error", err.Error()))
		} else {
			runID = run.ID
		}
	}

	results := make([]FileResult, len(files))
	var hits atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.checkFile(gctx, path, runID)
			if results[i].Cached {
				hits.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if runID != "" {
		if err := e.store.CompleteRun(ctx, runID, len(files), int(hits.Load())); err != nil {
			e.logger.Warn("failed to record run", slog.String("error", err.Error()))
		}
	}
	e.logger.Debug("check complete", slog.Int("files", len(files)), slog.Int64("cached", hits.Load()))
	return results, nil
}

func (e *Engine) checkFile(ctx context.Context, path, runID string) FileResult {
	res := FileResult{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	src := string(data)

	key := cache.Key{Content: cache.ContentHash(src), Config: e.configHash}
	cachePath := absPath(path)
	if e.store != nil {
		diags, ok, err := e.store.Get(ctx, cachePath, key)
		switch {
		case err != nil:
			e.logger.Warn("cache read failed", slog.String("path", path), slog.String("error", err.Error()))
		case ok:
			res.Diagnostics = diags
			res.Cached = true
			return res
		}
	}

	res.Diagnostics, res.Err = e.Lint(path, src)
	if res.Err == nil && e.store != nil {
		if err := e.store.Put(ctx, cachePath, key, runID, res.Diagnostics); err != nil {
			e.logger.Warn("cache write failed", slog.String("path", path), slog.String("error", err.Error()))
		}
	}
	return res
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// FixResult is the outcome of fixing one file. Result is nil when Err is set,
// except for fixer.ErrNoConvergence, where it holds the best text reached.
type FixResult struct {
	Path   string
	Result *fixer.Result
	Err    error
}

// FixSource fixes src as the content of path.
func (e *Engine) FixSource(ctx context.Context, path, src string) (*fixer.Result, error) {
	return e.fixer.Fix(ctx, path, src)
}

// Fix fixes files in parallel. With write set, changed files are rewritten
// in place, keeping their permissions; text that did not converge is
// written too.
func (e *Engine) Fix(ctx context.Context, files []string, write bool) ([]FixResult, error) {
	results := make([]FixResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.fixFile(gctx, path, write)
			if errors.Is(results[i].Err, context.Canceled) {
				return results[i].Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) fixFile(ctx context.Context, path string, write bool) FixResult {
	res := FixResult{Path: path}
	info, err := os.Stat(path)
	if err != nil {
		res.Err = err
		return res
	}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}

	res.Result, res.Err = e.fixer.Fix(ctx, path, string(data))
	if res.Err != nil && !errors.Is(res.Err, fixer.ErrNoConvergence) {
		res.Result = nil
		return res
	}
	if errors.Is(res.Err, fixer.ErrNoConvergence) {
		e.logger.Warn("fixes did not converge", slog.String("path", path), slog.Int("passes", res.Result.Passes))
	}

	if write && res.Result.Changed() {
		if err := os.WriteFile(path, []byte(res.Result.Fixed), info.Mode().Perm()); err != nil {
			res.Err = fmt.Errorf("write %s: %w", path, err)
		}
	}
	return res
}
