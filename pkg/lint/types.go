package lint

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/sniff/pkg/core"
	"github.com/leapstack-labs/sniff/pkg/token"
)

// Severity is re-exported so rule packages need a single import.
type Severity = core.Severity

// Severity levels for diagnostics.
const (
	SeverityError   = core.SeverityError
	SeverityWarning = core.SeverityWarning
)

// RuleInfo is re-exported for tooling that lists rules.
type RuleInfo = core.RuleInfo

// BasePrefix marks shared base rules. They are registered so standard rules
// can extend them but only run when explicitly enabled.
const BasePrefix = "Generic."

// =============================================================================
// Rule Definitions
// =============================================================================

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the Pass handed to Check.
type RuleDef struct {
	ID          string           // Unique identifier, e.g., "CodingStandard.Arrays.Array"
	Name        string           // Short name, e.g., "Array"
	Group       string           // Category, e.g., "Arrays", "WhiteSpace"
	Description string           // Human-readable description
	Severity    Severity         // Default severity, used for listing and overrides
	Register    []token.Kind     // Token kinds the rule is dispatched for
	Languages   []token.Language // nil/empty means PHP only
	Check       CheckFunc        // The check function

	// Extends names a rule whose check Pass.Parent runs. Requires lists rules
	// that must be registered for this one to be usable.
	Extends  string
	Requires []string

	// Options holds default option values; configured options override them.
	Options map[string]any

	// Fixable reports whether any code of the rule carries a fix.
	Fixable bool

	// Custom marks rules loaded from user Starlark files.
	Custom bool

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Code showing the anti-pattern
	GoodExample string // Code showing the correct pattern
}

// CheckFunc inspects the token at p.Ptr and reports through p.
type CheckFunc func(p *Pass)

// IsBase reports whether the rule is a shared base rule.
func (r RuleDef) IsBase() bool {
	return strings.HasPrefix(r.ID, BasePrefix)
}

// Supports reports whether the rule runs for files of lang.
func (r RuleDef) Supports(lang token.Language) bool {
	if len(r.Languages) == 0 {
		return lang == token.PHP
	}
	for _, l := range r.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Info extracts metadata from a rule for documentation/tooling.
func (r RuleDef) Info() core.RuleInfo {
	info := core.RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		Extends:         r.Extends,
		Requires:        r.Requires,
		Fixable:         r.Fixable,
		Base:            r.IsBase(),
		Custom:          r.Custom,
		Rationale:       r.Rationale,
		BadExample:      r.BadExample,
		GoodExample:     r.GoodExample,
	}
	for _, k := range r.Register {
		info.Kinds = append(info.Kinds, k.String())
	}
	for _, l := range r.Languages {
		info.Languages = append(info.Languages, string(l))
	}
	for key := range r.Options {
		info.ConfigKeys = append(info.ConfigKeys, key)
	}
	slices.Sort(info.ConfigKeys)
	return info
}

// =============================================================================
// Diagnostics
// =============================================================================

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string
	Code     string // rule-scoped code, e.g., "NoLastComma"
	Source   string // RuleID + "." + Code
	Severity Severity
	Message  string
	Pos      token.Position
	Ptr      int  // index of the reported token
	Fix      *Fix // nil when the violation is not fixable

	DocumentationURL string
}

// Fixable reports whether the diagnostic carries a fix.
func (d Diagnostic) Fixable() bool {
	return d.Fix != nil && len(d.Fix.Edits) > 0
}

// =============================================================================
// Fixes
// =============================================================================

// Op is the kind of a token edit.
type Op int

// Edit operations.
const (
	InsertBefore Op = iota
	InsertAfter
	Replace
	Delete
)

// String returns the name of the operation.
func (o Op) String() string {
	switch o {
	case InsertBefore:
		return "insert-before"
	case InsertAfter:
		return "insert-after"
	case Replace:
		return "replace"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Edit is one change to the token at Index.
type Edit struct {
	Op    Op
	Index int
	Text  string // unused for Delete
}

// Fix is a changeset: its edits are applied together or not at all.
type Fix struct {
	Description string
	Edits       []Edit
}

// Tokens returns the distinct token indices the fix touches.
func (f *Fix) Tokens() []int {
	if f == nil {
		return nil
	}
	seen := make(map[int]bool, len(f.Edits))
	out := make([]int, 0, len(f.Edits))
	for _, e := range f.Edits {
		if !seen[e.Index] {
			seen[e.Index] = true
			out = append(out, e.Index)
		}
	}
	return out
}
