package controlstructures

import (
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(MultiLineCondition)
}

// MultiLineCondition checks if and elseif conditions that span lines: each
// continuation line is indented one level and starts with a boolean operator,
// and the closing parenthesis sits on its own line one space from the brace.
var MultiLineCondition = lint.RuleDef{
	ID:          "CodingStandard.ControlStructures.MultiLineCondition",
	Name:        "controlstructures.multi_line_condition",
	Group:       "controlstructures",
	Description: "Wrapped conditions start each line with a boolean operator.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.IF, token.ELSEIF},
	Check:       checkMultiLineCondition,
	Fixable:     true,
	Options: map[string]any{
		"indent":     4,
		"tab_indent": false,
	},
	BadExample: `if ($a &&
  $b) {
}`,
	GoodExample: `if ($a
    && $b
) {
}`,
}

type multiLineOptions struct {
	Indent    int  `option:"indent"`
	TabIndent bool `option:"tab_indent"`
}

func checkMultiLineCondition(p *lint.Pass) {
	f := p.File
	tok := f.Token(p.Ptr)
	if !tok.HasParens() {
		return
	}
	opener, closer := tok.ParenOpener, tok.ParenCloser
	if f.Token(opener).Line == f.Token(closer).Line {
		return
	}

	opts := multiLineOptions{Indent: 4}
	if err := lint.DecodeOptions(p.Options, &opts); err != nil {
		opts = multiLineOptions{Indent: 4}
	}
	tabWidth := f.TabWidth()
	if tabWidth <= 0 {
		tabWidth = 4
	}

	statementIndent := 0
	if first := f.FirstOnLine(p.Ptr); f.Token(first).Kind == token.WHITESPACE {
		statementIndent = f.Width(f.Token(first).Content)
	}

	lastLine := f.Token(opener).Line
	closeLine := f.Token(closer).Line
	for i := opener + 1; i < closer; i++ {
		cur := f.Token(i)
		if cur.Line != lastLine {
			lastLine = cur.Line
			if cur.Kind == token.WHITESPACE && scan.EndsLine(cur.Content) {
				continue
			}

			expected := statementIndent + opts.Indent
			if cur.Line == closeLine {
				if next := f.NextNonWhitespace(i); next != closer {
					fix := p.FixableError(closer, "CloseBracketNewLine", "Closing parenthesis of a multi-line IF statement must be on a new line")
					fix.InsertBefore(closer, fix.EOL()+scan.Padding(statementIndent, opts.TabIndent, tabWidth))
				} else {
					expected = statementIndent
				}
			}

			found := 0
			if cur.Kind == token.WHITESPACE {
				found = f.Width(cur.Content)
			}
			if found != expected {
				fix := p.FixableError(i, "Alignment", "Multi-line IF statement not indented correctly; expected %d spaces but found %d", expected, found)
				pad := scan.Padding(expected, opts.TabIndent, tabWidth)
				switch {
				case found == 0 && cur.Kind != token.WHITESPACE:
					fix.InsertBefore(i, pad)
				case expected == 0:
					fix.Delete(i)
				default:
					fix.Replace(i, pad)
				}
			}

			if cur.Line != closeLine {
				checkStartsWithBoolean(p, i, opener, expected, opts, tabWidth)
			}
		}

		if cur.Kind == token.STRING {
			next := f.NextNonWhitespace(i + 1)
			if next >= 0 && f.Token(next).Kind == token.OPEN_PARENTHESIS && f.Token(next).ParenCloser > i {
				i = f.Token(next).ParenCloser
				lastLine = f.Token(i).Line
			}
		}
	}

	checkBraceAfterCondition(p, closer)
}

func checkStartsWithBoolean(p *lint.Pass, i, opener, expected int, opts multiLineOptions, tabWidth int) {
	f := p.File
	next := f.NextNonWhitespace(i)
	if next < 0 || token.Boolean.Has(f.Token(next).Kind) {
		return
	}

	const msg = "Each line in a multi-line IF statement must begin with a boolean operator"
	prev := f.PrevNonWhitespace(i-1, source.Until(opener))
	if prev < 0 || !token.Boolean.Has(f.Token(prev).Kind) {
		p.Error(i, "StartWithBoolean", msg)
		return
	}

	// Move the operator ending the line above to the start of this one.
	fix := p.FixableError(i, "StartWithBoolean", msg)
	for x := prev + 1; x < next; x++ {
		fix.Delete(x)
	}
	if f.Token(prev-1).Kind == token.WHITESPACE {
		fix.Replace(prev-1, fix.EOL())
	} else {
		fix.InsertAfter(prev-1, fix.EOL())
	}
	fix.InsertBefore(prev, scan.Padding(expected, opts.TabIndent, tabWidth))
	fix.InsertAfter(prev, " ")
}

func checkBraceAfterCondition(p *lint.Pass, closer int) {
	f := p.File
	if f.Token(p.Ptr).ScopeOpener < 0 {
		return
	}

	after := f.Token(closer + 1)
	switch {
	case after.Kind != token.WHITESPACE:
		p.FixableError(closer, "SpaceBeforeOpenBrace",
			"There must be a single space between the closing parenthesis and the opening brace of a multi-line IF statement; found 0 spaces").
			InsertAfter(closer, " ")
	case scan.EndsLine(after.Content):
		p.FixableError(closer+1, "SpaceBeforeOpenBrace",
			"There must be a single space between the closing parenthesis and the opening brace of a multi-line IF statement; found newline").
			Replace(closer+1, " ")
	case after.Content != " ":
		p.FixableError(closer+1, "SpaceBeforeOpenBrace",
			"There must be a single space between the closing parenthesis and the opening brace of a multi-line IF statement; found %d spaces", len(after.Content)).
			Replace(closer+1, " ")
	}

	if next := f.NextNonWhitespace(closer + 1); next >= 0 && !f.Token(next).Is(token.OPEN_CURLY_BRACKET, token.COLON) {
		p.Error(next, "NoSpaceBeforeOpenBrace",
			"There must be a single space between the closing parenthesis and the opening brace of a multi-line IF statement")
	}
}
