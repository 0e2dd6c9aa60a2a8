package fixer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/tokenizer"
)

// MaxPasses bounds the analyze/apply loop.
const MaxPasses = 50

// ErrNoConvergence is returned when fixable violations remain after the
// last pass. The result still holds the best text reached.
var ErrNoConvergence = errors.New("fixes did not converge")

// Result is the outcome of fixing one file.
type Result struct {
	Path     string
	Original string
	Fixed    string
	Passes   int
	Applied  int
	Skipped  int

	// Remaining are the diagnostics of the final text.
	Remaining []lint.Diagnostic
}

// Changed reports whether fixing altered the text.
func (r *Result) Changed() bool {
	return r.Original != r.Fixed
}

// Fixer repeatedly analyzes and rewrites a file until it is clean.
type Fixer struct {
	analyzer  *lint.Analyzer
	maxPasses int
	fileOpts  []source.Option
	logger    *slog.Logger
}

// Option configures a Fixer.
type Option func(*Fixer)

// WithMaxPasses overrides MaxPasses.
func WithMaxPasses(n int) Option {
	return func(f *Fixer) { f.maxPasses = n }
}

// WithFileOptions passes options to every source.File the fixer builds.
func WithFileOptions(opts ...source.Option) Option {
	return func(f *Fixer) { f.fileOpts = opts }
}

// WithLogger sets the fixer's logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fixer) { f.logger = l }
}

// New returns a Fixer driven by analyzer.
func New(analyzer *lint.Analyzer, opts ...Option) *Fixer {
	f := &Fixer{
		analyzer:  analyzer,
		maxPasses: MaxPasses,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fix tokenizes src, applies every fixable diagnostic and repeats until no
// fixable diagnostic remains. Conflicting changesets are deferred to the next
// pass. It returns ErrNoConvergence when the pass limit is reached first.
func (fx *Fixer) Fix(ctx context.Context, path, src string) (*Result, error) {
	result := &Result{Path: path, Original: src, Fixed: src}

	for result.Passes < fx.maxPasses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, err := tokenizer.NewFile(path, result.Fixed, fx.fileOpts...)
		if err != nil {
			return nil, err
		}
		diags := fx.analyzer.Analyze(f)
		fixable := Fixable(diags)
		if len(fixable) == 0 {
			result.Remaining = diags
			return result, nil
		}

		result.Passes++
		out, applied, skipped := Apply(f, fixable)
		result.Applied += len(applied)

		fx.logger.Debug("fix pass",
			slog.String("path", path),
			slog.Int("pass", result.Passes),
			slog.Int("applied", len(applied)),
			slog.Int("skipped", len(skipped)))

		if len(applied) == 0 {
			// Nothing applicable is left; the remaining fixes are broken.
			result.Skipped += len(skipped)
			result.Remaining = diags
			return result, nil
		}
		result.Fixed = out
	}

	f, err := tokenizer.NewFile(path, result.Fixed, fx.fileOpts...)
	if err != nil {
		return nil, err
	}
	result.Remaining = fx.analyzer.Analyze(f)
	if left := Fixable(result.Remaining); len(left) > 0 {
		result.Skipped += len(left)
		return result, fmt.Errorf("%s: %w after %d passes (%d fixable left)", path, ErrNoConvergence, result.Passes, len(left))
	}
	return result, nil
}

// Fixable returns the diagnostics that carry a fix.
func Fixable(diags []lint.Diagnostic) []lint.Diagnostic {
	var out []lint.Diagnostic
	for _, d := range diags {
		if d.Fixable() {
			out = append(out, d)
		}
	}
	return out
}
