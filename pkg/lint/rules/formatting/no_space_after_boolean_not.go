package formatting

import (
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(NoSpaceAfterBooleanNot)
}

// NoSpaceAfterBooleanNot forbids whitespace after the ! operator.
var NoSpaceAfterBooleanNot = lint.RuleDef{
	ID:          "CodingStandard.Formatting.NoSpaceAfterBooleanNot",
	Name:        "formatting.no_space_after_boolean_not",
	Group:       "formatting",
	Description: "A boolean not operator is not followed by a space.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.BOOLEAN_NOT},
	Check:       checkNoSpaceAfterBooleanNot,
	Fixable:     true,
	BadExample:  `if (! $a) {}`,
	GoodExample: `if (!$a) {}`,
}

func checkNoSpaceAfterBooleanNot(p *lint.Pass) {
	if p.File.Token(p.Ptr+1).Kind != token.WHITESPACE {
		return
	}
	p.FixableError(p.Ptr, "SpaceFound", "A boolean not operator must not be followed by a space").
		Delete(p.Ptr + 1)
}
