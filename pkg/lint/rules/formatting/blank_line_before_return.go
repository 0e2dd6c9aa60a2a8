package formatting

import (
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(BlankLineBeforeReturn)
}

// BlankLineBeforeReturn requires one blank line before a return statement,
// or none when the return opens its block. A comment directly above the
// return, at the same column, belongs to it. A return on the same line as
// the preceding code is reported with -1 blank lines.
var BlankLineBeforeReturn = lint.RuleDef{
	ID:          "CodingStandard.Formatting.BlankLineBeforeReturn",
	Name:        "formatting.blank_line_before_return",
	Group:       "formatting",
	Description: "Return statements are separated from the code before them by a blank line.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.RETURN},
	Languages:   []token.Language{token.PHP, token.JS},
	Check:       checkBlankLineBeforeReturn,
	Fixable:     true,
	BadExample: `$a = compute();
return $a;`,
	GoodExample: `$a = compute();

return $a;`,
}

func checkBlankLineBeforeReturn(p *lint.Pass) {
	f := p.File
	prev := f.PrevNonEmpty(p.Ptr - 1)
	if prev < 0 {
		return
	}

	leading := scan.LeadingLine(f, p.Ptr, prev)
	prevLine := scan.LastLine(f.Token(prev))
	blank := leading - (prevLine + 1)

	expected := 1
	if f.Token(prev).ScopeOpener == prev {
		expected = 0
	}
	if blank == expected {
		return
	}

	const msg = "Expected %d blank line before return statement; %d found"
	// A return sharing its line with the code before it has no safe fix.
	if blank < 0 {
		p.Error(p.Ptr, "BlankLineBeforeReturn", msg, expected, blank)
		return
	}
	lead := f.FirstOnLine(p.Ptr)
	if leading != f.Token(p.Ptr).Line {
		lead = f.FirstOnLine(f.FindPrevious(token.Of(token.COMMENT), p.Ptr-1))
	}

	if blank < expected {
		fix := p.FixableError(p.Ptr, "BlankLineBeforeReturn", msg, expected, blank)
		fix.NewlineBefore(lead)
		return
	}

	drop := scan.TokensBetweenLines(f, prev+1, lead, prevLine+expected, leading)
	for _, i := range drop {
		if f.Token(i).Kind != token.WHITESPACE {
			p.Error(p.Ptr, "BlankLineBeforeReturn", msg, expected, blank)
			return
		}
	}
	fix := p.FixableError(p.Ptr, "BlankLineBeforeReturn", msg, expected, blank)
	for _, i := range drop {
		fix.Delete(i)
	}
}
