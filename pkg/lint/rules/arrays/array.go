package arrays

import (
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(Array)
}

// Array checks the layout of array() declarations: no space after the
// keyword, nothing between the parentheses of an empty array, a trailing
// comma on multi-line arrays and none on single-line ones.
var Array = lint.RuleDef{
	ID:          "CodingStandard.Arrays.Array",
	Name:        "arrays.array",
	Group:       "arrays",
	Description: "Array declarations are tight on one line and comma-terminated across lines.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.ARRAY},
	Check:       checkArray,
	Fixable:     true,
	Rationale:   "A trailing comma on multi-line arrays keeps diffs to one line when items are appended.",
	BadExample: `$a = array (1, 2, );
$b = array(
    'x' => 1,
    'y' => 2
);`,
	GoodExample: `$a = array(1, 2);
$b = array(
    'x' => 1,
    'y' => 2,
);`,
}

func checkArray(p *lint.Pass) {
	f := p.File
	tok := f.Token(p.Ptr)
	start := tok.ParenOpener
	if start == token.NoIndex {
		// array used as a type hint
		return
	}
	end := f.Token(start).ParenCloser

	if start != p.Ptr+1 {
		fix := p.FixableError(p.Ptr, "SpaceAfterKeyword",
			"There must be no space between the Array keyword and the opening parenthesis")
		for _, i := range scan.DeleteRange(p.Ptr+1, start) {
			fix.Delete(i)
		}
	}

	content := f.NextNonWhitespace(start+1, source.Until(end+1))
	if content == end && end-start != 1 {
		fix := p.FixableError(p.Ptr, "SpaceInEmptyArray",
			"Empty array declaration must have no space between the parentheses")
		for _, i := range scan.DeleteRange(start+1, end) {
			fix.Delete(i)
		}
		return
	}

	last := f.PrevNonEmpty(end-1, source.Until(p.Ptr))
	if last == start {
		return
	}

	inline := f.Token(start).Line == f.Token(end).Line
	lastTok := f.Token(last)

	if !inline {
		if lastTok.Kind != token.COMMA {
			p.FixableWarning(last, "NoLastComma",
				"A comma should follow the last multiline array item. Found: %s", lastTok.Content).
				InsertAfter(last, ",")
		}
		return
	}

	if lastTok.Kind == token.COMMA {
		p.FixableWarning(last, "LastComma",
			"Comma not allowed after last value in single-line array declaration").
			Delete(last)
		return
	}

	if content != start+1 {
		fix := p.FixableError(p.Ptr, "SpaceAfterOpen", "Space found after opening parenthesis of Array")
		for _, i := range scan.DeleteRange(start+1, content) {
			fix.Delete(i)
		}
	}
	if last != end-1 {
		fix := p.FixableError(p.Ptr, "SpaceBeforeClose", "Space found before closing parenthesis of Array")
		for _, i := range scan.DeleteRange(last+1, end) {
			fix.Delete(i)
		}
	}
}
