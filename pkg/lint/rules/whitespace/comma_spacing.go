package whitespace

import (
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(CommaSpacing)
}

// CommaSpacing requires no whitespace before a comma and exactly one space
// after it. A comma may end a line; a comma before a closing parenthesis is
// not followed by a space.
var CommaSpacing = lint.RuleDef{
	ID:          "CodingStandard.WhiteSpace.CommaSpacing",
	Name:        "whitespace.comma_spacing",
	Group:       "whitespace",
	Description: "Commas are followed by one space and not preceded by any.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.COMMA},
	Check:       checkCommaSpacing,
	Fixable:     true,
	BadExample:  "foo($a ,$b);",
	GoodExample: "foo($a, $b);",
}

func checkCommaSpacing(p *lint.Pass) {
	checkBeforeComma(p)
	checkAfterComma(p)
}

func checkBeforeComma(p *lint.Pass) {
	f := p.File
	prev := f.Token(p.Ptr - 1)
	if prev.Content == "(" {
		return
	}
	// list(, , $c) keeps the space between skipped elements
	if prev.Kind == token.WHITESPACE && f.Token(p.Ptr-2).Kind != token.COMMA {
		p.FixableError(p.Ptr, "Before", "Space found before comma").Delete(p.Ptr - 1)
	}
}

func checkAfterComma(p *lint.Pass) {
	f := p.File
	if !f.Valid(p.Ptr + 1) {
		return
	}
	next := f.Token(p.Ptr + 1)
	if next.Content == ")" {
		return
	}

	switch {
	case next.Kind != token.WHITESPACE:
		p.FixableError(p.Ptr, "After", "No space found after comma").InsertAfter(p.Ptr, " ")
	case scan.EndsLine(next.Content):
	case next.Length == 1:
		if f.Token(p.Ptr+2).Content == ")" {
			p.FixableError(p.Ptr, "After", "Space found after comma").Delete(p.Ptr + 1)
		}
	default:
		p.FixableError(p.Ptr, "After", "Expected 1 space after comma; %d found", next.Length).
			Replace(p.Ptr+1, " ")
	}
}
