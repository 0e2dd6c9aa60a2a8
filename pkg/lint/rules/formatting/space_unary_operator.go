package formatting

import (
	"strings"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(SpaceUnaryOperator)
}

// SpaceUnaryOperator forbids whitespace between ++ or -- and its operand.
var SpaceUnaryOperator = lint.RuleDef{
	ID:          "CodingStandard.Formatting.SpaceUnaryOperator",
	Name:        "formatting.space_unary_operator",
	Group:       "formatting",
	Description: "Increment and decrement operators hug their operand.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.INC, token.DEC},
	Check:       checkSpaceUnaryOperator,
	Fixable:     true,
	BadExample: `$i ++;
-- $j;`,
	GoodExample: `$i++;
--$j;`,
}

// postfixEnds are the tokens that may follow a postfix operator.
var postfixEnds = token.Of(
	token.SEMICOLON,
	token.CLOSE_PARENTHESIS,
	token.CLOSE_SQUARE_BRACKET,
	token.CLOSE_SHORT_ARRAY,
	token.COMMA,
)

func checkSpaceUnaryOperator(p *lint.Pass) {
	f := p.File
	before := f.Token(p.Ptr - 1)
	after := f.Token(p.Ptr + 1)

	postfix := strings.HasPrefix(before.Content, "$")
	if next := f.NextNonWhitespace(p.Ptr + 1); next >= 0 && postfixEnds.Has(f.Token(next).Kind) {
		postfix = true
	}

	if postfix {
		if before.Kind == token.WHITESPACE && !scan.EndsLine(before.Content) && !scan.IsIndent(f, p.Ptr-1) {
			p.FixableError(p.Ptr, "ExtraSpaceBefore", "There must not be a single space before an unary operator statement").
				Delete(p.Ptr - 1)
		}
		return
	}
	if after.Kind == token.WHITESPACE && !scan.EndsLine(after.Content) {
		p.FixableError(p.Ptr, "ExtraSpaceAfter", "A unary operator statement must not followed by a single space").
			Delete(p.Ptr + 1)
	}
}
