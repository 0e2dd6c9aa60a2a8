package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sniff/internal/cli/output"
	"github.com/leapstack-labs/sniff/internal/engine"
	"github.com/leapstack-labs/sniff/pkg/lint/fixer"
)

// FixOptions holds options for the fix command.
type FixOptions struct {
	LintOptions
	Diff bool // print a unified diff instead of writing files
}

// NewFixCommand creates the fix command.
func NewFixCommand(version string) *cobra.Command {
	opts := &FixOptions{}
	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Fix violations in place",
		Long: `Apply the automatic fixes of fixable violations.

Each file is analyzed and rewritten repeatedly until no fixable violation is
left. Violations without a fix are left for 'sniff check' to report.

With --diff nothing is written; a unified diff of the changes is printed
instead. The command exits with status 1 when a file could not be fixed.`,
		Example: `  # Fix the working directory
  sniff fix

  # Preview changes
  sniff fix --diff src/

  # Apply a single rule's fixes
  sniff fix --rule CodingStandard.Arrays.Array`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, opts, version)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.Diff, "diff", false, "Print a unified diff instead of writing files")

	return cmd
}

func runFix(cmd *cobra.Command, args []string, opts *FixOptions, version string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	eng, err := newEngine(cmd, cc, &opts.LintOptions, version)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	files, err := eng.Discover(args)
	if err != nil {
		return err
	}
	results, err := eng.Fix(cmd.Context(), files, !opts.Diff)
	if err != nil {
		return err
	}

	out, err := buildFixOutput(results, opts.Diff)
	if err != nil {
		return err
	}
	renderFixResults(cc.Renderer, out, opts.Diff)

	for _, f := range out.Files {
		if f.Error != "" {
			return ErrIssuesFound
		}
	}
	return nil
}

func buildFixOutput(results []engine.FixResult, withDiff bool) (output.FixOutput, error) {
	out := output.FixOutput{
		Summary: output.FixSummary{Files: len(results)},
		Files:   []output.FixFileResult{},
	}
	for _, res := range results {
		file := output.FixFileResult{Path: res.Path}
		if res.Err != nil {
			file.Error = res.Err.Error()
		}
		if res.Result != nil {
			file.Passes = res.Result.Passes
			file.Applied = res.Result.Applied
			file.Remaining = len(res.Result.Remaining)
			out.Summary.Applied += file.Applied
			out.Summary.Remaining += file.Remaining
			if res.Result.Changed() {
				out.Summary.Fixed++
			}
			if withDiff && res.Result.Changed() {
				d, err := fixer.Diff(res.Path, res.Result.Original, res.Result.Fixed)
				if err != nil {
					return out, err
				}
				st, err := fixer.DiffStats(d)
				if err != nil {
					return out, err
				}
				file.Diff = d
				out.Summary.Added += st.Added
				out.Summary.Removed += st.Removed
			}
		}
		if file.Error == "" && (res.Result == nil || !res.Result.Changed()) {
			continue
		}
		out.Files = append(out.Files, file)
	}
	return out, nil
}

func renderFixResults(r *output.Renderer, out output.FixOutput, withDiff bool) {
	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		_ = r.JSON(out)
		return
	}

	for _, f := range out.Files {
		switch {
		case withDiff && f.Diff != "":
			if mode == output.ModeMarkdown {
				r.Printf("```diff\n%s```\n\n", f.Diff)
			} else {
				r.Printf("%s\n", f.Diff)
			}
		case f.Applied > 0 && !withDiff:
			r.StatusLine(f.Path, "fixed", fmt.Sprintf("%s in %s, %d left", plural(f.Applied, "fix"), plural(f.Passes, "pass"), f.Remaining))
		}
		if f.Error != "" {
			r.StatusLine(f.Path, r.Styles().Error.Render("failed"), f.Error)
		}
	}

	s := out.Summary
	switch {
	case withDiff:
		r.Success(fmt.Sprintf("%d of %s would change (+%d -%d)", s.Fixed, plural(s.Files, "file"), s.Added, s.Removed))
	default:
		r.Success(fmt.Sprintf("Fixed %d of %s", s.Fixed, plural(s.Files, "file")))
	}
}
