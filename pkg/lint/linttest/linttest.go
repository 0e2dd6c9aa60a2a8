// Package linttest runs rules against fixtures the way the rule packages'
// tests expect: per-line error and warning counts, fixed output, and
// idempotence of the fix.
package linttest

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sniff/internal/testutil"
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/fixer"
	"github.com/leapstack-labs/sniff/pkg/tokenizer"
)

// DefaultPath is the fixture file name when a case sets none.
const DefaultPath = "test.php"

// Case is one fixture for a rule.
type Case struct {
	Name string

	// Path selects the language by extension. Defaults to DefaultPath.
	Path   string
	Source string

	// Errors and Warnings map line numbers to the expected count.
	Errors   map[int]int
	Warnings map[int]int

	// Fixed is the expected output of fixing Source. Empty skips the
	// comparison; set NoFix to assert the source is left untouched.
	Fixed string
	NoFix bool

	// Options are rule options layered over the rule defaults.
	Options map[string]any

	// Disabled lists codes of the rule to disable.
	Disabled []string
}

// Counts tallies diagnostics per line by severity.
func Counts(diags []lint.Diagnostic) (errors, warnings map[int]int) {
	errors = make(map[int]int)
	warnings = make(map[int]int)
	for _, d := range diags {
		if d.Severity == lint.SeverityError {
			errors[d.Pos.Line]++
		} else {
			warnings[d.Pos.Line]++
		}
	}
	return errors, warnings
}

// Analyzer builds an analyzer running only ruleID from the global registry.
func Analyzer(t testing.TB, ruleID string, opts map[string]any, disabled ...string) *lint.Analyzer {
	t.Helper()
	cfg := lint.NewConfig().Select(ruleID)
	if opts != nil {
		cfg.SetRuleOptions(ruleID, opts)
	}
	for _, code := range disabled {
		cfg.Disable(ruleID + "." + code)
	}
	a, err := lint.NewAnalyzer(cfg, lint.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	return a
}

// Analyze runs ruleID over src and returns its diagnostics.
func Analyze(t testing.TB, ruleID, path, src string, opts map[string]any) []lint.Diagnostic {
	t.Helper()
	f, err := tokenizer.NewFile(path, src)
	require.NoError(t, err)
	return Analyzer(t, ruleID, opts).Analyze(f)
}

// Run checks every case against ruleID.
func Run(t *testing.T, ruleID string, cases []Case) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			RunCase(t, ruleID, tc)
		})
	}
}

// RunCase checks a single case.
func RunCase(t *testing.T, ruleID string, tc Case) {
	t.Helper()
	path := tc.Path
	if path == "" {
		path = DefaultPath
	}

	a := Analyzer(t, ruleID, tc.Options, tc.Disabled...)
	f, err := tokenizer.NewFile(path, tc.Source)
	require.NoError(t, err)

	diags := a.Analyze(f)
	errs, warns := Counts(diags)
	if diff := cmp.Diff(tc.Errors, errs, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("errors per line mismatch (-want +got):\n%s\n%s", diff, describe(diags))
	}
	if diff := cmp.Diff(tc.Warnings, warns, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("warnings per line mismatch (-want +got):\n%s\n%s", diff, describe(diags))
	}

	if tc.Fixed == "" && !tc.NoFix {
		return
	}

	fx := fixer.New(a, fixer.WithLogger(testutil.NewTestLogger(t)))
	res, err := fx.Fix(context.Background(), path, tc.Source)
	require.NoError(t, err)

	want := tc.Fixed
	if tc.NoFix {
		want = tc.Source
	}
	if diff := cmp.Diff(want, res.Fixed); diff != "" {
		t.Errorf("fixed output mismatch (-want +got):\n%s", diff)
	}

	AssertIdempotent(t, a, path, res.Fixed)
}

// AssertIdempotent fails when fixing src changes it or leaves fixable
// violations behind.
func AssertIdempotent(t testing.TB, a *lint.Analyzer, path, src string) {
	t.Helper()
	res, err := fixer.New(a).Fix(context.Background(), path, src)
	require.NoError(t, err)
	if res.Changed() {
		t.Errorf("fixing fixed output changed it again:\n%s", res.Fixed)
	}
	if left := fixer.Fixable(res.Remaining); len(left) > 0 {
		t.Errorf("fixable violations remain after fixing:\n%s", describe(left))
	}
}

func describe(diags []lint.Diagnostic) string {
	out := "diagnostics:"
	for _, d := range diags {
		out += "\n  " + d.Pos.String() + " " + d.Severity.String() + " " + d.Source + ": " + d.Message
	}
	return out
}
