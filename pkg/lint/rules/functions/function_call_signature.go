package functions

import (
	"strings"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(FunctionCallSignature)
}

// FunctionCallSignature checks function call parentheses. Single-line calls
// have no space inside the parentheses; multi-line calls put each argument on
// its own line, indented one level, with the closing parenthesis alone on
// the last line.
var FunctionCallSignature = lint.RuleDef{
	ID:          "CodingStandard.Functions.FunctionCallSignature",
	Name:        "functions.function_call_signature",
	Group:       "functions",
	Description: "Function calls are formatted consistently on one or many lines.",
	Severity:    lint.SeverityError,
	Register: []token.Kind{
		token.STRING,
		token.VARIABLE,
		token.ISSET,
		token.UNSET,
		token.EMPTY,
	},
	Languages: []token.Language{token.PHP, token.JS},
	Check:     checkFunctionCallSignature,
	Fixable:   true,
	Options: map[string]any{
		"indent":                   4,
		"tab_indent":               false,
		"allow_multiple_arguments": false,
	},
	BadExample: `$a = foo ( $b, $c );
bar($d,
    $e);`,
	GoodExample: `$a = foo($b, $c);
bar(
    $d,
    $e
);`,
}

type callOptions struct {
	Indent                 int  `option:"indent"`
	TabIndent              bool `option:"tab_indent"`
	AllowMultipleArguments bool `option:"allow_multiple_arguments"`
}

// declarations precede names that are declared rather than called.
var declarations = token.Of(token.FUNCTION, token.CLASS, token.INTERFACE, token.TRAIT, token.NEW)

func checkFunctionCallSignature(p *lint.Pass) {
	f := p.File
	open := f.NextNonEmpty(p.Ptr + 1)
	if open < 0 || f.Token(open).Kind != token.OPEN_PARENTHESIS || f.Token(open).ParenCloser < 0 {
		return
	}
	prev := f.FindPrevious(token.Empty.With(token.BITWISE_AND), p.Ptr-1, source.Excluding())
	if prev >= 0 && declarations.Has(f.Token(prev).Kind) {
		return
	}
	closer := f.Token(open).ParenCloser

	if open != p.Ptr+1 {
		fix := p.FixableError(p.Ptr, "SpaceBeforeOpenBracket", "Space before opening parenthesis of function call prohibited")
		for i := p.Ptr + 1; i < open; i++ {
			fix.Delete(i)
		}
	}

	opts := callOptions{Indent: 4}
	if err := lint.DecodeOptions(p.Options, &opts); err != nil {
		opts = callOptions{Indent: 4}
	}

	if isMultiLineCall(f, open, closer) {
		checkMultiLineCall(p, open, closer, opts)
		return
	}
	checkSingleLineCall(p, open, closer)
}

// isMultiLineCall reports whether the call lays its arguments out over
// several lines. A call whose last argument merely spans lines, such as a
// closure, is still a single-line call.
func isMultiLineCall(f *source.File, open, closer int) bool {
	first := f.NextNonEmpty(open + 1)
	if first < 0 || first == closer {
		return f.Token(closer).Line != f.Token(open).Line
	}
	if f.Token(first).Line != f.Token(open).Line {
		return true
	}

	for i := first; i < closer; i++ {
		tok := f.Token(i)
		switch {
		case tok.Kind == token.OPEN_PARENTHESIS && tok.ParenCloser > i:
			i = tok.ParenCloser
		case tok.BracketOpener == i && tok.BracketCloser > i:
			i = tok.BracketCloser
		case tok.Kind == token.COMMA:
			next := f.NextNonEmpty(i+1, source.Until(closer))
			if next >= 0 && f.Token(next).Line != tok.Line {
				return true
			}
		}
	}

	last := f.PrevNonEmpty(closer-1, source.Until(open+1))
	return last >= 0 && scan.LastLine(f.Token(last)) != f.Token(closer).Line
}

func checkSingleLineCall(p *lint.Pass, open, closer int) {
	f := p.File
	if closer == open+1 {
		return
	}

	if f.Token(open+1).Kind == token.WHITESPACE {
		p.FixableError(open, "SpaceAfterOpenBracket", "Space after opening parenthesis of function call prohibited").
			Delete(open + 1)
	}

	if before := f.Token(closer - 1); before.Kind == token.WHITESPACE && closer-1 != open+1 {
		found := len(strings.TrimLeft(before.Content, "\r\n"))
		if found > 0 && !scan.IsIndent(f, closer-1) {
			p.FixableError(closer, "SpaceBeforeCloseBracket", "Expected 0 spaces before closing bracket; %d found", found).
				Delete(closer - 1)
		}
	}
}

func checkMultiLineCall(p *lint.Pass, open, closer int, opts callOptions) {
	f := p.File
	tabWidth := f.TabWidth()
	if tabWidth <= 0 {
		tabWidth = 4
	}
	pad := func(n int) string { return scan.Padding(n, opts.TabIndent, tabWidth) }

	fnIndent := 0
	if first := f.FirstOnLine(p.Ptr); f.Token(first).Kind == token.WHITESPACE {
		fnIndent = f.Width(f.Token(first).Content)
	}

	if after := f.Token(open + 1); !scan.EndsLine(after.Content) && after.Kind != token.COMMENT {
		fix := p.FixableError(p.Ptr, "ContentAfterOpenBracket", "Opening parenthesis of a multi-line function call must be the last content on the line")
		if after.Kind == token.WHITESPACE {
			fix.Replace(open+1, fix.EOL()+pad(fnIndent+opts.Indent))
		} else {
			fix.InsertAfter(open, fix.EOL()+pad(fnIndent+opts.Indent))
		}
	}

	if prev := f.PrevNonWhitespace(closer - 1); prev > open && scan.LastLine(f.Token(prev)) == f.Token(closer).Line {
		fix := p.FixableError(closer, "CloseBracketLine", "Closing parenthesis of a multi-line function call must be on a line by itself")
		fix.InsertBefore(closer, fix.EOL()+pad(fnIndent))
	}

	lastLine := f.Token(open).Line
	exact := true
	exactEnd := -1
	for i := open + 1; i < closer; i++ {
		cur := f.Token(i)
		if i == exactEnd {
			exact = true
		}

		if cur.Line != lastLine {
			checkLineIndent(p, i, closer, fnIndent, exact, opts, pad)
		}
		lastLine = scan.LastLine(cur)

		if !exact {
			continue
		}
		switch {
		case cur.Kind == token.CLOSURE && cur.ScopeCloser > i:
			exact, exactEnd = false, cur.ScopeCloser
		case cur.Kind == token.OPEN_SHORT_ARRAY && cur.BracketCloser > i:
			exact, exactEnd = false, cur.BracketCloser
		case cur.Kind == token.OPEN_CURLY_BRACKET && cur.BracketCloser > i && f.Language() == token.JS:
			exact, exactEnd = false, cur.BracketCloser
		case cur.Kind == token.DOC_COMMENT_OPEN_TAG && cur.CommentCloser > i:
			exact, exactEnd = false, cur.CommentCloser
		case cur.Kind == token.OPEN_PARENTHESIS && cur.ParenCloser > i:
			exact, exactEnd = false, cur.ParenCloser
		case cur.Kind == token.COMMA && !opts.AllowMultipleArguments:
			checkOneArgumentPerLine(p, i, closer, pad(fnIndent+opts.Indent))
		}
	}
}

func checkLineIndent(p *lint.Pass, i, closer, fnIndent int, exact bool, opts callOptions, pad func(int) string) {
	f := p.File
	cur := f.Token(i)

	code := i
	if cur.Kind == token.WHITESPACE {
		code = f.NextNonWhitespace(i+1, source.Until(closer+1))
		if code < 0 || f.Token(code).Line != cur.Line {
			if exact {
				p.FixableError(i, "EmptyLine", "Empty lines are not allowed in multi-line function calls").Delete(i)
			}
			return
		}
	}
	if f.Token(code).Kind == token.OBJECT_OPERATOR {
		return
	}

	expected := fnIndent + opts.Indent
	if f.Token(code).Line == f.Token(closer).Line && code == closer {
		expected = fnIndent
	}

	found := 0
	switch {
	case cur.Kind == token.WHITESPACE:
		found = f.Width(cur.Content)
	case cur.Kind == token.COMMENT && f.Token(i-1).Kind == token.COMMENT:
		found = len(cur.Content) - len(strings.TrimLeft(cur.Content, " \t"))
	}
	if found >= expected && (!exact || found == expected) {
		return
	}

	fix := p.FixableError(i, "Indent", "Multi-line function call not indented correctly; expected %d spaces but found %d", expected, found)
	switch {
	case found == 0:
		fix.InsertBefore(i, pad(expected))
	case cur.Kind == token.COMMENT:
		fix.Replace(i, pad(expected)+strings.TrimLeft(cur.Content, " \t"))
	default:
		fix.Replace(i, pad(expected))
	}
}

func checkOneArgumentPerLine(p *lint.Pass, comma, closer int, indent string) {
	f := p.File
	next := f.FindNext(token.Of(token.WHITESPACE, token.COMMENT), comma+1, source.Until(closer), source.Excluding())
	if next < 0 || f.Token(next).Line != f.Token(comma).Line {
		return
	}

	fix := p.FixableError(next, "MultipleArguments", "Only one argument is allowed per line in a multi-line function call")
	for x := next - 1; x > comma && f.Token(x).Kind == token.WHITESPACE; x-- {
		fix.Delete(x)
	}
	fix.InsertBefore(next, fix.EOL()+indent)
}
