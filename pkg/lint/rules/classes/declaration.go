package classes

import (
	"strings"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(ClassDeclaration)
}

// ClassDeclaration checks where the braces of a class, interface or trait
// body go: the opening brace on the line after the declaration, the closing
// brace alone on its line at the declaration's indent, and one blank line
// after the body.
var ClassDeclaration = lint.RuleDef{
	ID:          "CodingStandard.Classes.ClassDeclaration",
	Name:        "classes.declaration",
	Group:       "classes",
	Description: "Class bodies open on their own line and are followed by one blank line.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.CLASS, token.INTERFACE, token.TRAIT},
	Check:       checkClassDeclaration,
	Fixable:     true,
	BadExample: `class Foo {
    public $a;

    }
function bar() {}`,
	GoodExample: `class Foo
{
    public $a;
}

function bar() {}`,
}

func checkClassDeclaration(p *lint.Pass) {
	f := p.File
	tok := f.Token(p.Ptr)
	if prev := f.PrevNonEmpty(p.Ptr - 1); prev >= 0 && f.Token(prev).Kind == token.NEW {
		return
	}
	if tok.ScopeOpener == token.NoIndex || tok.ScopeCloser == token.NoIndex {
		return
	}

	kind := strings.ToLower(tok.Content)
	indent := 0
	if tok.Level > 0 {
		indent = f.LineIndent(p.Ptr)
	}
	checkKeywordIndent(p, kind)
	checkOpenBrace(p, kind, indent)
	checkCloseBrace(p, indent)
	checkAfterCloseBrace(p, kind)
}

func checkKeywordIndent(p *lint.Pass, kind string) {
	f := p.File
	if f.Token(p.Ptr).Level > 0 || !scan.IsIndent(f, p.Ptr-1) {
		return
	}
	spaces := f.Width(f.Token(p.Ptr - 1).Content)
	p.FixableError(p.Ptr, "SpaceBeforeKeyword", "Expected 0 spaces before %s keyword; %d found", kind, spaces).
		Delete(p.Ptr - 1)
}

func checkOpenBrace(p *lint.Pass, kind string, indent int) {
	f := p.File
	opener := f.Token(p.Ptr).ScopeOpener
	prev := f.PrevNonWhitespace(opener - 1)
	prevLine := scan.LastLine(f.Token(prev))
	line := f.Token(opener).Line

	switch {
	case line == prevLine:
		fix := p.FixableError(opener, "OpenBraceNewLine",
			"Opening brace of a %s must be on the line after the definition", kind)
		for _, i := range scan.DeleteRange(prev+1, opener) {
			fix.Delete(i)
		}
		fix.InsertBefore(opener, fix.EOL()+scan.Padding(indent, false, 0))
	case line > prevLine+1:
		fix := p.FixableError(opener, "OpenBraceNewLine",
			"Opening brace of a %s must be on the line after the definition; %d blank lines found",
			kind, line-prevLine-1)
		for _, i := range scan.TokensBetweenLines(f, prev+1, opener, prevLine, line) {
			fix.Delete(i)
		}
	}
}

func checkCloseBrace(p *lint.Pass, indent int) {
	f := p.File
	closer := f.Token(p.Ptr).ScopeCloser
	line := f.Token(closer).Line
	last := f.PrevNonWhitespace(closer - 1)
	lastLine := scan.LastLine(f.Token(last))

	if lastLine == line {
		fix := p.FixableError(closer, "CloseBraceSameLine", "Closing brace must be on a line by itself")
		for _, i := range scan.DeleteRange(last+1, closer) {
			fix.Delete(i)
		}
		fix.InsertBefore(closer, fix.EOL()+scan.Padding(indent, false, 0))
		return
	}

	if blank := line - lastLine - 1; blank > 0 {
		fix := p.FixableError(closer, "NewLineBeforeCloseBrace",
			"Expected 0 blank lines before closing brace; %d found", blank)
		for _, i := range scan.TokensBetweenLines(f, last+1, closer, lastLine, line) {
			fix.Delete(i)
		}
	}

	found := 0
	if scan.IsIndent(f, closer-1) {
		found = f.Width(f.Token(closer - 1).Content)
	}
	if found != indent {
		fix := p.FixableError(closer, "SpaceBeforeCloseBrace",
			"Expected %d spaces before closing brace; %d found", indent, found)
		if found == 0 {
			fix.InsertBefore(closer, scan.Padding(indent, false, 0))
		} else {
			fix.Replace(closer-1, scan.Padding(indent, false, 0))
		}
	}
}

func checkAfterCloseBrace(p *lint.Pass, kind string) {
	f := p.File
	anchor := f.Token(p.Ptr).ScopeCloser
	if c := f.NextNonWhitespace(anchor + 1); c >= 0 && f.Token(c).Kind == token.COMMENT &&
		f.Token(c).Line == f.Token(anchor).Line {
		// a trailing "// end class" comment belongs to the brace
		anchor = c
	}

	next := f.NextNonWhitespace(anchor + 1)
	if next < 0 || f.Token(next).Is(token.CLOSE_CURLY_BRACKET, token.CLOSE_TAG) {
		return
	}

	anchorLine := scan.LastLine(f.Token(anchor))
	diff := max(f.Token(next).Line-anchorLine-1, 0)
	if diff == 1 {
		return
	}

	fix := p.FixableError(f.Token(p.Ptr).ScopeCloser, "NewlinesAfterCloseBrace",
		"Closing brace of a %s must be followed by a single blank line; found %d", kind, diff)
	for i := anchor + 1; i < next; i++ {
		if !scan.IsIndent(f, i) {
			fix.Delete(i)
		}
	}
	eol := fix.EOL()
	if scan.EndsLine(f.Token(anchor).Content) {
		fix.InsertAfter(anchor, eol)
	} else {
		fix.InsertAfter(anchor, eol+eol)
	}
}
