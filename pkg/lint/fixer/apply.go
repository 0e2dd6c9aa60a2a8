// Package fixer applies the changesets carried by diagnostics and repeats
// analysis until no fixable violation remains.
package fixer

import (
	"strings"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/source"
)

// SkipReason explains why a changeset was not applied.
type SkipReason int

const (
	// SkipConflict means the changeset touches a token another changeset
	// already changed in this pass. It is retried on the next pass.
	SkipConflict SkipReason = iota

	// SkipNoEdits means the changeset is empty.
	SkipNoEdits

	// SkipOutOfRange means an edit references a token that does not exist.
	SkipOutOfRange
)

// String returns a human-readable description of the skip reason.
func (r SkipReason) String() string {
	switch r {
	case SkipConflict:
		return "conflicts with another fix"
	case SkipNoEdits:
		return "no edits in fix"
	case SkipOutOfRange:
		return "edit outside the token stream"
	default:
		return "unknown reason"
	}
}

// Applied records a changeset that was applied.
type Applied struct {
	Source      string
	Description string
	Ptr         int
	Edits       []lint.Edit
}

// Skipped records a changeset that was not applied.
type Skipped struct {
	Source string
	Reason SkipReason
	Ptr    int
}

// Apply reduces the changesets of diags over the tokens of f and returns the
// rewritten text. Changesets are taken in order; each is applied whole or
// skipped whole. Diagnostics without a fix are ignored.
func Apply(f *source.File, diags []lint.Diagnostic) (string, []Applied, []Skipped) {
	content := make([]string, f.Len())
	for i, tok := range f.Tokens() {
		content[i] = tok.Content
	}
	touched := make(map[int]bool)

	var applied []Applied
	var skipped []Skipped
	for _, d := range diags {
		if d.Fix == nil {
			continue
		}
		if len(d.Fix.Edits) == 0 {
			skipped = append(skipped, Skipped{Source: d.Source, Reason: SkipNoEdits, Ptr: d.Ptr})
			continue
		}
		if reason, ok := canApply(f, d.Fix, touched); !ok {
			skipped = append(skipped, Skipped{Source: d.Source, Reason: reason, Ptr: d.Ptr})
			continue
		}

		for _, e := range d.Fix.Edits {
			switch e.Op {
			case lint.Replace:
				content[e.Index] = e.Text
			case lint.Delete:
				content[e.Index] = ""
			case lint.InsertBefore:
				content[e.Index] = e.Text + content[e.Index]
			case lint.InsertAfter:
				content[e.Index] += e.Text
			}
		}
		for _, i := range d.Fix.Tokens() {
			touched[i] = true
		}
		applied = append(applied, Applied{
			Source:      d.Source,
			Description: d.Fix.Description,
			Ptr:         d.Ptr,
			Edits:       d.Fix.Edits,
		})
	}

	return strings.Join(content, ""), applied, skipped
}

func canApply(f *source.File, fix *lint.Fix, touched map[int]bool) (SkipReason, bool) {
	for _, i := range fix.Tokens() {
		if !f.Valid(i) {
			return SkipOutOfRange, false
		}
		if touched[i] {
			return SkipConflict, false
		}
	}
	return 0, true
}
