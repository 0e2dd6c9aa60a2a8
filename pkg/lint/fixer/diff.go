package fixer

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"
)

// Diff renders a unified diff between before and after. It returns an empty
// string when they are equal.
func Diff(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	return out, nil
}

// Stats counts the lines a diff adds and removes.
type Stats struct {
	Added   int
	Removed int
}

// DiffStats parses a unified diff produced by Diff.
func DiffStats(unified string) (Stats, error) {
	if unified == "" {
		return Stats{}, nil
	}
	fd, err := diff.ParseFileDiff([]byte(unified))
	if err != nil {
		return Stats{}, fmt.Errorf("parse diff: %w", err)
	}
	st := fd.Stat()
	return Stats{
		Added:   int(st.Added + st.Changed),
		Removed: int(st.Deleted + st.Changed),
	}, nil
}
