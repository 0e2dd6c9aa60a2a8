package formatting

import (
	"strconv"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(SpaceOperator)
}

// SpaceOperator requires exactly one space before an assignment operator when
// any whitespace precedes it. Operators written without a leading space are
// left alone.
var SpaceOperator = lint.RuleDef{
	ID:          "CodingStandard.Formatting.SpaceOperator",
	Name:        "formatting.space_operator",
	Group:       "formatting",
	Description: "Assignment operators are preceded by a single space.",
	Severity:    lint.SeverityError,
	Register:    assignmentKinds(),
	Check:       checkSpaceOperator,
	Fixable:     true,
	BadExample: `$a    = 1;
$long = 2;`,
	GoodExample: `$a = 1;
$long = 2;`,
}

func assignmentKinds() []token.Kind {
	var kinds []token.Kind
	for _, k := range token.Kinds() {
		if token.Assignment.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func checkSpaceOperator(p *lint.Pass) {
	f := p.File
	ws := f.Token(p.Ptr - 1)
	if ws.Kind != token.WHITESPACE {
		return
	}

	const msg = `Expected 1 space before "%s"; %s found`
	op := f.Token(p.Ptr).Content
	switch {
	case scan.EndsLine(ws.Content):
		p.FixableError(p.Ptr, "SpacingBefore", msg, op, "newline").Replace(p.Ptr-1, " ")
	case f.Token(p.Ptr-2).Line != f.Token(p.Ptr).Line:
		// An indented operator on a continuation line joins the line above.
		brk := f.Token(p.Ptr - 2)
		if brk.Kind != token.WHITESPACE || !scan.EndsLine(brk.Content) {
			p.Error(p.Ptr, "SpacingBefore", msg, op, "newline")
			return
		}
		p.FixableError(p.Ptr, "SpacingBefore", msg, op, "newline").
			Delete(p.Ptr-2).
			Replace(p.Ptr-1, " ")
	case ws.Length != 1:
		p.FixableError(p.Ptr, "SpacingBefore", msg, op, strconv.Itoa(ws.Length)).Replace(p.Ptr-1, " ")
	}
}
