package controlstructures

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(ControlSignature)
}

// ControlSignature checks the signature of control structures:
//
//	if (...) {EOL
//	}EOLelseif (...) {EOL
//	}EOLelse {EOL
//	do {EOL...} while (...);EOL
//	try {EOL
//	}EOLcatch (...) {EOL
//
// and likewise for while, for, foreach and switch.
var ControlSignature = lint.RuleDef{
	ID:          "CodingStandard.ControlStructures.ControlSignature",
	Name:        "controlstructures.control_signature",
	Group:       "controlstructures",
	Description: "Control structure keywords, conditions and braces are spaced consistently.",
	Severity:    lint.SeverityError,
	Register: []token.Kind{
		token.IF,
		token.ELSEIF,
		token.ELSE,
		token.WHILE,
		token.FOR,
		token.FOREACH,
		token.SWITCH,
		token.DO,
		token.TRY,
		token.CATCH,
	},
	Languages: []token.Language{token.PHP, token.JS},
	Check:     checkControlSignature,
	Fixable:   true,
	BadExample: `if($a){ $b = 1;
} else {
}`,
	GoodExample: `if ($a) {
    $b = 1;
}
else {
}`,
}

func checkControlSignature(p *lint.Pass) {
	f := p.File
	tok := f.Token(p.Ptr)
	keyword := strings.ToLower(tok.Content)

	if tok.Is(token.ELSE, token.ELSEIF, token.CATCH) {
		checkOnNewLine(p, keyword)
	}

	anchor := p.Ptr
	if tok.HasParens() {
		checkSpaceAfterKeyword(p, keyword)
		anchor = tok.ParenCloser
	}

	if tok.ScopeOpener < 0 || f.Token(tok.ScopeOpener).Kind != token.OPEN_CURLY_BRACKET {
		return
	}
	checkSpaceBeforeBrace(p, anchor, tok.ScopeOpener)
	checkNewlineAfterBrace(p, tok.ScopeOpener, tok.ScopeCloser)
}

func checkSpaceAfterKeyword(p *lint.Pass, keyword string) {
	f := p.File
	opener := f.Token(p.Ptr).ParenOpener
	switch {
	case opener == p.Ptr+1:
		p.FixableError(p.Ptr, "SpaceAfterKeyword", "Expected 1 space after %s keyword; 0 found", keyword).
			InsertAfter(p.Ptr, " ")
	case opener == p.Ptr+2 && f.Token(p.Ptr+1).Kind == token.WHITESPACE && f.Token(p.Ptr+1).Content != " ":
		p.FixableError(p.Ptr, "SpaceAfterKeyword", "Expected 1 space after %s keyword; %s found", keyword, describeSpace(f.Token(p.Ptr+1).Content)).
			Replace(p.Ptr+1, " ")
	}
}

func checkSpaceBeforeBrace(p *lint.Pass, anchor, brace int) {
	f := p.File
	if brace == anchor+1 {
		p.FixableError(brace, "SpaceBeforeBrace", "Expected 1 space before opening brace; 0 found").
			InsertAfter(anchor, " ")
		return
	}

	gap := f.TokensAsString(anchor+1, brace-anchor-1)
	if gap == " " || strings.Trim(gap, " \t\r\n") != "" {
		return
	}
	fix := p.FixableError(brace, "SpaceBeforeBrace", "Expected 1 space before opening brace; %s found", describeSpace(gap))
	fix.Replace(anchor+1, " ")
	for i := anchor + 2; i < brace; i++ {
		fix.Delete(i)
	}
}

func checkNewlineAfterBrace(p *lint.Pass, brace, closer int) {
	f := p.File
	next := f.Token(brace + 1)
	if scan.EndsLine(next.Content) || next.Kind == token.COMMENT {
		return
	}
	if next.Kind == token.WHITESPACE && f.Token(brace+2).Kind == token.COMMENT {
		return
	}

	indent := f.LineIndent(p.Ptr)
	content := f.NextNonWhitespace(brace + 1)
	if content != closer {
		indent += 4
	}
	fix := p.FixableError(brace, "NewlineAfterBrace", "Expected newline after opening brace")
	pad := fix.EOL() + strings.Repeat(" ", indent)
	if next.Kind == token.WHITESPACE {
		fix.Replace(brace+1, pad)
		return
	}
	fix.InsertAfter(brace, pad)
}

// checkOnNewLine requires else, elseif and catch to start the line after the
// closing brace of the previous block.
func checkOnNewLine(p *lint.Pass, keyword string) {
	f := p.File
	prev := f.PrevNonWhitespace(p.Ptr - 1)
	if prev < 0 || f.Token(prev).Kind != token.CLOSE_CURLY_BRACKET {
		return
	}
	if f.Token(p.Ptr).Line == f.Token(prev).Line+1 {
		return
	}

	fix := p.FixableError(p.Ptr, "ElseOnNewLine", `Expected "%s" on the line after the closing brace`, keyword)
	pad := ""
	if first := f.FirstOnLine(prev); scan.IsIndent(f, first) {
		pad = f.Token(first).Content
	}
	if p.Ptr == prev+1 {
		fix.InsertAfter(prev, fix.EOL()+pad)
		return
	}
	fix.Replace(prev+1, fix.EOL()+pad)
	for i := prev + 2; i < p.Ptr; i++ {
		fix.Delete(i)
	}
}

func describeSpace(s string) string {
	if strings.ContainsAny(s, "\r\n") {
		return "newline"
	}
	return strconv.Itoa(len(s))
}
