package stringrules

import (
	"strings"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(ConcatenationSpacing)
}

// ConcatenationSpacing requires whitespace on both sides of the concat
// operator. Any amount is accepted, including a line break.
var ConcatenationSpacing = lint.RuleDef{
	ID:          "CodingStandard.Strings.ConcatenationSpacing",
	Name:        "strings.concatenation_spacing",
	Group:       "strings",
	Description: "The concat operator is surrounded by spaces.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.STRING_CONCAT},
	Check:       checkConcatenationSpacing,
	Fixable:     true,
	BadExample:  "$a = 'Hello, '.$name;",
	GoodExample: "$a = 'Hello, ' . $name;",
}

const excerpt = 5

var escapeEOL = strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\n`)

func checkConcatenationSpacing(p *lint.Pass) {
	f := p.File
	op := f.Token(p.Ptr).Content
	var found, expected strings.Builder

	before := f.Token(p.Ptr - 1)
	missingBefore := before.Kind != token.WHITESPACE
	if missingBefore {
		text := "..." + tail(before.Content)
		found.WriteString(text + op)
		expected.WriteString(text + " " + op)
	} else {
		text := "..." + tail(f.Token(p.Ptr-2).Content) + before.Content + op
		found.WriteString(text)
		expected.WriteString(text)
	}

	after := f.Token(p.Ptr + 1)
	missingAfter := after.Kind != token.WHITESPACE
	if missingAfter {
		text := head(after.Content) + "..."
		found.WriteString(text)
		expected.WriteString(" " + text)
	} else {
		text := after.Content + head(f.Token(p.Ptr+2).Content) + "..."
		found.WriteString(text)
		expected.WriteString(text)
	}

	if !missingBefore && !missingAfter {
		return
	}
	fix := p.FixableError(p.Ptr, "Missing", "Concat operator must be surrounded by spaces. Found \"%s\"; expected \"%s\"",
		escapeEOL.Replace(found.String()), escapeEOL.Replace(expected.String()))
	if missingBefore {
		fix.InsertBefore(p.Ptr, " ")
	}
	if missingAfter {
		fix.InsertAfter(p.Ptr, " ")
	}
}

func tail(s string) string {
	r := []rune(s)
	return string(r[max(0, len(r)-excerpt):])
}

func head(s string) string {
	r := []rune(s)
	return string(r[:min(excerpt, len(r))])
}
