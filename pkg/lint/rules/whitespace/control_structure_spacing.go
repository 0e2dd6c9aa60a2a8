package whitespace

import (
	"strings"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(ControlStructureSpacing)
}

// ControlStructureSpacing checks the padding inside control structure
// conditions and the blank lines around control structure bodies. A block
// that opens or closes an enclosing block or case body hugs it; otherwise a
// blank line separates it from the surrounding code. A comment directly above
// or below a block, at the same column, belongs to it.
var ControlStructureSpacing = lint.RuleDef{
	ID:          "CodingStandard.WhiteSpace.ControlStructureSpacing",
	Name:        "whitespace.control_structure_spacing",
	Group:       "whitespace",
	Description: "Conditions are padded and control structures are set apart by blank lines.",
	Severity:    lint.SeverityError,
	Register: []token.Kind{
		token.IF, token.WHILE, token.FOREACH, token.FOR,
		token.SWITCH, token.DO, token.ELSE, token.ELSEIF,
	},
	Languages: []token.Language{token.PHP, token.JS},
	Check:     checkControlStructureSpacing,
	Fixable:   true,
	Options: map[string]any{
		"required_spaces_after_open":   1,
		"required_spaces_before_close": 1,
	},
	BadExample: `$a = 1;
if ($a) {

    $b = 2;
}
$c = 3;`,
	GoodExample: `$a = 1;

if ( $a ) {
    $b = 2;
}

$c = 3;`,
}

func checkControlStructureSpacing(p *lint.Pass) {
	checkParenPadding(p)
	if !p.File.Token(p.Ptr).HasScope() {
		return
	}
	checkBodyEdges(p)
	checkLeadingContent(p)
	checkTrailingContent(p)
}

func checkParenPadding(p *lint.Pass) {
	f := p.File
	tok := f.Token(p.Ptr)
	if !tok.HasParens() || tok.ParenOwner != p.Ptr {
		return
	}
	opener, closer := tok.ParenOpener, tok.ParenCloser

	after := lint.GetIntOption(p.Options, "required_spaces_after_open", 1)
	if ws := f.Token(opener + 1); !(ws.Kind == token.WHITESPACE && scan.EndsLine(ws.Content)) {
		found := 0
		if ws.Kind == token.WHITESPACE {
			found = ws.Length
		}
		if found != after {
			fix := p.FixableError(opener+1, "SpacingAfterOpenBrace",
				"Expected %d spaces after %q opening bracket; %d found", after, tok.Content, found)
			pad(fix, opener, opener+1, found > 0, after, false)
		}
	}

	if f.Token(opener).Line != f.Token(closer).Line {
		return
	}
	before := lint.GetIntOption(p.Options, "required_spaces_before_close", 1)
	found := 0
	if ws := f.Token(closer - 1); ws.Kind == token.WHITESPACE {
		found = ws.Length
	}
	if found != before {
		fix := p.FixableError(closer-1, "SpaceBeforeCloseBrace",
			"Expected %d spaces before %q closing bracket; %d found", before, tok.Content, found)
		pad(fix, closer, closer-1, found > 0, before, true)
	}
}

// pad sets the whitespace next to the bracket at anchor to want spaces. ws is
// the index of the existing whitespace token when present is set.
func pad(fix *lint.FixBuilder, anchor, ws int, present bool, want int, before bool) {
	spaces := strings.Repeat(" ", max(want, 0))
	switch {
	case present && want <= 0:
		fix.Delete(ws)
	case present:
		fix.Replace(ws, spaces)
	case before:
		fix.InsertBefore(anchor, spaces)
	default:
		fix.InsertAfter(anchor, spaces)
	}
}

func checkBodyEdges(p *lint.Pass) {
	f := p.File
	tok := f.Token(p.Ptr)
	opener, closer := tok.ScopeOpener, tok.ScopeCloser

	first := f.NextNonWhitespace(opener + 1)
	if first < 0 {
		return
	}
	openLine, firstLine := f.Token(opener).Line, f.Token(first).Line
	if blank := firstLine - (openLine + 1); blank > 0 {
		fix := p.FixableError(opener, "SpacingBeforeOpen",
			"Expected 0 blank lines at start of %q control structure; %d found", tok.Content, blank)
		for _, i := range scan.TokensBetweenLines(f, opener+1, first, openLine, firstLine) {
			fix.Delete(i)
		}
	}

	if first == closer {
		return
	}
	last := f.PrevNonWhitespace(closer - 1)
	lastLine, closeLine := scan.LastLine(f.Token(last)), f.Token(closer).Line
	if blank := closeLine - 1 - lastLine; blank > 0 {
		fix := p.FixableError(closer, "SpacingAfterClose",
			"Expected 0 blank lines at end of %q control structure; %d found", tok.Content, blank)
		for _, i := range scan.TokensBetweenLines(f, last+1, closer, lastLine, closeLine) {
			fix.Delete(i)
		}
	}
}

func checkLeadingContent(p *lint.Pass) {
	f := p.File
	tok := f.Token(p.Ptr)
	lead := f.PrevNonEmpty(p.Ptr - 1)
	if lead < 0 || f.Token(lead).Kind == token.OPEN_TAG {
		return
	}

	leading := scan.LeadingLine(f, p.Ptr, lead)
	leadLine := scan.LastLine(f.Token(lead))

	hugs := f.Token(lead).Kind == token.OPEN_CURLY_BRACKET || insideCase(f, lead) ||
		(tok.Is(token.ELSE, token.ELSEIF) && ownedBy(f, lead, token.IF, token.ELSEIF))
	if !hugs {
		if leadLine == leading-1 {
			p.FixableError(p.Ptr, "NoLineBeforeOpen", "No blank line found before %q control structure", tok.Content).
				NewlineBefore(lineStart(f, p.Ptr, leading))
		}
		return
	}

	if ownedBy(f, lead, token.FUNCTION) || closureBody(f, p.Ptr, lead) {
		return
	}
	blank := leading - 1 - leadLine
	if blank <= 0 {
		return
	}
	const msg = "Expected 0 blank lines before %q control structure; %d found"
	removeLines(p, p.Ptr, "LineBeforeOpen", lead+1, lineStart(f, p.Ptr, leading), leadLine, leading,
		msg, tok.Content, blank)
}

func checkTrailingContent(p *lint.Pass) {
	f := p.File
	tok := f.Token(p.Ptr)
	closer := tok.ScopeCloser

	trail := f.NextNonEmpty(closer + 1)
	if tok.Kind == token.DO && trail >= 0 && f.Token(trail).Kind == token.WHILE && f.Token(trail).HasParens() {
		// do { } while ( ); continues after the semicolon
		if end := f.NextNonEmpty(f.Token(trail).ParenCloser + 1); end >= 0 {
			trail = f.NextNonEmpty(end + 1)
		}
	}
	if trail < 0 || f.Token(trail).Kind == token.CLOSE_TAG {
		return
	}

	trailing := scan.TrailingLine(f, closer, trail)
	next := f.Token(trail)

	if next.Kind == token.CLOSE_CURLY_BRACKET || insideCase(f, trail) {
		if ownedBy(f, trail, token.FUNCTION) || closureBody(f, p.Ptr, trail) {
			return
		}
		blank := next.Line - (trailing + 1)
		if blank <= 0 {
			return
		}
		const msg = "Expected 0 blank lines after %q control structure; %d found"
		removeLines(p, closer, "LineAfterClose", closer+1, trail, trailing, next.Line, msg, tok.Content, blank)
		return
	}

	if next.Line != trailing+1 || next.Is(token.ELSE, token.ELSEIF) {
		return
	}
	p.FixableError(closer, "NoLineAfterClose", "No blank line found after %q control structure", tok.Content).
		NewlineBefore(f.FirstOnLine(trail))
}

// removeLines reports a fixable error whose fix drops the lines strictly
// between after and before, when they hold nothing but whitespace.
func removeLines(p *lint.Pass, at int, code string, from, to, after, before int, format string, args ...any) {
	drop := scan.TokensBetweenLines(p.File, from, to, after, before)
	for _, i := range drop {
		if p.File.Token(i).Kind != token.WHITESPACE {
			p.Error(at, code, format, args...)
			return
		}
	}
	fix := p.FixableError(at, code, format, args...)
	for _, i := range drop {
		fix.Delete(i)
	}
}

// lineStart returns the first token of line, which is ptr's line or the line
// of the comment directly above it.
func lineStart(f *source.File, ptr, line int) int {
	if line == f.Token(ptr).Line {
		return f.FirstOnLine(ptr)
	}
	return f.FirstOnLine(f.FindPrevious(token.Of(token.COMMENT), ptr-1))
}

// ownedBy reports whether the scope token at ptr belongs to one of kinds.
func ownedBy(f *source.File, ptr int, kinds ...token.Kind) bool {
	owner := f.Token(ptr).ScopeCondition
	return owner != token.NoIndex && f.Token(owner).Is(kinds...)
}

func insideCase(f *source.File, ptr int) bool {
	return ownedBy(f, ptr, token.CASE, token.DEFAULT)
}

// closureBody reports whether the brace at brace belongs to a closure that is
// itself nested in a function or an expression, where function rules apply.
func closureBody(f *source.File, ptr, brace int) bool {
	if !ownedBy(f, brace, token.CLOSURE) {
		return false
	}
	return f.HasCondition(ptr, token.FUNCTION, token.CLOSURE) || len(f.Token(ptr).NestedParens) > 0
}
