package controlstructures

import (
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(AssignmentInCondition)
}

// AssignmentInCondition forbids assignments inside if and elseif conditions.
var AssignmentInCondition = lint.RuleDef{
	ID:          "CodingStandard.ControlStructures.AssignmentInCondition",
	Name:        "controlstructures.assignment_in_condition",
	Group:       "controlstructures",
	Description: "Conditions must not assign.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.IF, token.ELSEIF},
	Check:       checkAssignmentInCondition,
	Rationale:   "An assignment in a condition is easily mistaken for a comparison.",
	BadExample: `if ($user = find($id)) {
}`,
	GoodExample: `$user = find($id);
if ($user !== null) {
}`,
}

func checkAssignmentInCondition(p *lint.Pass) {
	f := p.File
	tok := f.Token(p.Ptr)
	if !tok.HasParens() {
		return
	}
	eq := f.FindNext(token.Of(token.EQUAL), tok.ParenOpener, source.Until(tok.ParenCloser))
	if eq < 0 {
		return
	}
	p.Error(eq, "Forbidden", `Assignment in "%s" control structure is forbidden`, tok.Content)
}
