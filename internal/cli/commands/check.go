package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sniff/internal/cli/output"
	"github.com/leapstack-labs/sniff/internal/engine"
	"github.com/leapstack-labs/sniff/pkg/core"
	"github.com/leapstack-labs/sniff/pkg/lint"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	LintOptions
	Severity string // minimum severity reported: error, warning
	Watch    bool   // re-check changed files until interrupted
}

// NewCheckCommand creates the check command.
func NewCheckCommand(version string) *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:     "check [paths...]",
		Aliases: []string{"lint"},
		Short:   "Check PHP and JavaScript files against the coding standard",
		Long: `Check files for coding standard violations.

Directories are walked for files with the configured extensions, skipping
ignored paths. Files named explicitly are always checked.

The command exits with status 1 when errors remain. Warnings are reported
but do not fail the run.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check the working directory
  sniff check

  # Check specific paths
  sniff check src/ lib/helpers.php

  # Only report errors
  sniff check --severity error

  # Run a single rule
  sniff check --rule CodingStandard.WhiteSpace.CommaSpacing

  # Disable one code of a rule
  sniff check --disable CodingStandard.Commenting.InlineComment.WrongStyle

  # Reuse results for unchanged files
  sniff check --cache

  # Re-check files as they change
  sniff check --watch src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts, version)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Severity, "severity", "warning", "Minimum severity to report: error, warning")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch paths and re-check changed files")
	cmd.Flags().Bool("cache", false, "Cache results of unchanged files")
	cmd.Flags().String("cache-path", "", "Path to the cache database")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions, version string) error {
	threshold, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("invalid severity %q: want error or warning", opts.Severity)
	}

	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	eng, err := newEngine(cmd, cc, &opts.LintOptions, version)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	if opts.Watch {
		return watchCheck(cmd.Context(), cc, eng, args, threshold)
	}

	files, err := eng.Discover(args)
	if err != nil {
		return err
	}
	results, err := eng.Check(cmd.Context(), files)
	if err != nil {
		return err
	}
	if renderCheckResults(cc.Renderer, results, threshold) {
		return ErrIssuesFound
	}
	return nil
}

// watchCheck checks once, then re-checks changed files until ctx is done.
func watchCheck(ctx context.Context, cc *CommandContext, eng *engine.Engine, roots []string, threshold lint.Severity) error {
	w, err := eng.NewWatcher(roots)
	if err != nil {
		return err
	}

	files, err := eng.Discover(roots)
	if err != nil {
		_ = w.Close()
		return err
	}
	results, err := eng.Check(ctx, files)
	if err != nil {
		_ = w.Close()
		return err
	}
	renderCheckResults(cc.Renderer, results, threshold)

	r := cc.Renderer
	r.StatusLine("watch", "waiting for changes", strings.Join(roots, " "))
	return w.Run(ctx, func(paths []string) {
		var existing []string
		for _, p := range paths {
			if _, err := os.Stat(p); err == nil {
				existing = append(existing, p)
			}
		}
		results, err := eng.Check(ctx, existing)
		if err != nil {
			if ctx.Err() == nil {
				r.Warn(err.Error())
			}
			return
		}
		renderCheckResults(r, results, threshold)
	})
}

// filterBySeverity drops diagnostics less severe than threshold.
func filterBySeverity(results []engine.FileResult, threshold lint.Severity) []engine.FileResult {
	out := make([]engine.FileResult, len(results))
	for i, res := range results {
		out[i] = res
		out[i].Diagnostics = nil
		for _, d := range res.Diagnostics {
			if d.Severity <= threshold {
				out[i].Diagnostics = append(out[i].Diagnostics, d)
			}
		}
	}
	return out
}

// renderCheckResults prints results and reports whether errors or failed
// files remain.
func renderCheckResults(r *output.Renderer, results []engine.FileResult, threshold lint.Severity) bool {
	results = filterBySeverity(results, threshold)
	summary := engine.Summarize(results)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		_ = r.JSON(checkJSON(results, summary))
	case output.ModeMarkdown:
		renderCheckMarkdown(r, results, summary)
	default:
		renderCheckText(r, results, summary)
	}
	return summary.Errors > 0 || summary.Failed > 0
}

func hasIssues(res engine.FileResult) bool {
	return res.Err != nil || len(res.Diagnostics) > 0
}

func checkJSON(results []engine.FileResult, s engine.Summary) output.LintOutput {
	out := output.LintOutput{
		Summary: output.LintSummary{
			Files:    s.Files,
			Errors:   s.Errors,
			Warnings: s.Warnings,
			Fixable:  s.Fixable,
			Cached:   s.Cached,
		},
		Files: []output.LintFileResult{},
	}
	for _, res := range results {
		if !hasIssues(res) {
			continue
		}
		out.Summary.FilesWithIssues++
		file := output.LintFileResult{
			Path:        res.Path,
			Errors:      res.Count(lint.SeverityError),
			Warnings:    res.Count(lint.SeverityWarning),
			Diagnostics: []output.LintDiagnostic{},
		}
		if res.Err != nil {
			file.Error = res.Err.Error()
		}
		for _, d := range res.Diagnostics {
			file.Diagnostics = append(file.Diagnostics, output.LintDiagnostic{
				Source:   d.Source,
				RuleID:   d.RuleID,
				Code:     d.Code,
				Severity: d.Severity.String(),
				Message:  d.Message,
				Line:     d.Pos.Line,
				Column:   d.Pos.Column,
				Fixable:  d.Fixable(),
			})
		}
		out.Files = append(out.Files, file)
	}
	return out
}

func renderCheckText(r *output.Renderer, results []engine.FileResult, s engine.Summary) {
	styles := r.Styles()
	for _, res := range results {
		if !hasIssues(res) {
			continue
		}
		r.Println(styles.Path.Render(res.Path))
		if res.Err != nil {
			r.Printf("  %s  %s\n", styles.Error.Render("failed "), res.Err)
		}
		for _, d := range res.Diagnostics {
			fix := ""
			if d.Fixable() {
				fix = styles.Muted.Render(" [fixable]")
			}
			r.Printf("  %s  %s  %s  %s%s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column))),
				severityStyle(r, d.Severity),
				d.Message,
				styles.Muted.Render(d.Source),
				fix,
			)
		}
		r.Println("")
	}
	printCheckSummary(r, results, s)
}

func renderCheckMarkdown(r *output.Renderer, results []engine.FileResult, s engine.Summary) {
	for _, res := range results {
		if !hasIssues(res) {
			continue
		}
		r.Header(2, res.Path)
		if res.Err != nil {
			r.Printf("> failed: %s\n\n", res.Err)
		}
		if len(res.Diagnostics) > 0 {
			rows := make([][]string, 0, len(res.Diagnostics))
			for _, d := range res.Diagnostics {
				rows = append(rows, []string{
					fmt.Sprint(d.Pos.Line),
					fmt.Sprint(d.Pos.Column),
					d.Severity.String(),
					d.Message,
					"`" + d.Source + "`",
				})
			}
			r.Table([]string{"Line", "Column", "Severity", "Message", "Source"}, rows)
			r.Println("")
		}
	}
	printCheckSummary(r, results, s)
}

func printCheckSummary(r *output.Renderer, results []engine.FileResult, s engine.Summary) {
	if s.Errors+s.Warnings+s.Failed == 0 {
		r.Success(fmt.Sprintf("No issues found in %s", plural(s.Files, "file")))
		return
	}

	withIssues := 0
	for _, res := range results {
		if hasIssues(res) {
			withIssues++
		}
	}
	line := fmt.Sprintf("Found %s and %s in %d of %s",
		plural(s.Errors, "error"), plural(s.Warnings, "warning"), withIssues, plural(s.Files, "file"))
	if s.Failed > 0 {
		line += fmt.Sprintf(", %d could not be checked", s.Failed)
	}
	if s.Fixable > 0 {
		line += fmt.Sprintf(" (%d fixable with 'sniff fix')", s.Fixable)
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println("**Summary:** " + line)
		return
	}
	r.Println(line)
}

func severityStyle(r *output.Renderer, sev lint.Severity) string {
	switch sev {
	case lint.SeverityError:
		return r.Styles().Error.Render("error  ")
	case lint.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}

// plural formats n with word, adding "s" or "es" unless n is 1.
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	if strings.HasSuffix(word, "s") || strings.HasSuffix(word, "x") {
		return fmt.Sprintf("%d %ses", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
