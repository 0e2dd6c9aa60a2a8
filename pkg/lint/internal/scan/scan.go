// Package scan holds token and text helpers shared by the rule packages.
package scan

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

var whitespace = token.Of(token.WHITESPACE)

// Whitespace is the set holding only whitespace tokens.
func Whitespace() token.Set { return whitespace }

// EndsLine reports whether s ends with a line terminator.
func EndsLine(s string) bool {
	return strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\r")
}

// IsIndent reports whether the token at i is the leading whitespace of its
// line: a whitespace token that starts a line and does not end it.
func IsIndent(f *source.File, i int) bool {
	tok := f.Token(i)
	if tok.Kind != token.WHITESPACE || EndsLine(tok.Content) {
		return false
	}
	return i == 0 || EndsLine(f.Token(i-1).Content)
}

// Padding returns width columns of indentation, using tabs of tabWidth
// columns for as much of it as possible when tabs is set.
func Padding(width int, tabs bool, tabWidth int) string {
	if width <= 0 {
		return ""
	}
	if !tabs || tabWidth <= 0 {
		return strings.Repeat(" ", width)
	}
	return strings.Repeat("\t", width/tabWidth) + strings.Repeat(" ", width%tabWidth)
}

// UpperFirst reports whether s starts with an upper-case letter.
func UpperFirst(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

// Title returns a word with its first letter upper-cased, as used for scope
// names in messages ("private" becomes "Private"). A Caser is stateful and
// not safe for concurrent use.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

// DeleteRange is the list of token indices in [from, to).
func DeleteRange(from, to int) []int {
	if to <= from {
		return nil
	}
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

var (
	legalChars     = regexp.MustCompile(`[^a-zA-Z0-9]`)
	strictFirst    = regexp.MustCompile(`^[a-z]`)
	acronymFirst   = regexp.MustCompile(`^([A-Z]{2,}|[a-z])`)
	privateStrict  = regexp.MustCompile(`^_[a-z]`)
	privateAcronym = regexp.MustCompile(`^_([A-Z]{2,}|[a-z])`)
	classFirst     = regexp.MustCompile(`^[A-Z]`)
)

// IsCamelCaps reports whether name is in camel caps format. Class names start
// upper-case; other names start lower-case, or with an acronym when strict is
// off, and private names carry one leading underscore. Strict mode forbids
// two upper-case letters in a row.
func IsCamelCaps(name string, classFormat, public, strict bool) bool {
	var first *regexp.Regexp
	switch {
	case classFormat:
		first = classFirst
	case public && strict:
		first = strictFirst
	case public:
		first = acronymFirst
	case strict:
		first = privateStrict
	default:
		first = privateAcronym
	}
	if !first.MatchString(name) {
		return false
	}
	if name != "" && legalChars.MatchString(name[1:]) {
		return false
	}
	if !strict {
		return true
	}

	runes := []rune(name)
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && unicode.IsUpper(runes[i-1]) {
			return false
		}
	}
	return true
}

// LeadingLine returns the line a statement at ptr visually starts on: the
// line of a comment directly above it at the same column, else ptr's own line.
// prev bounds the backward search for the comment.
func LeadingLine(f *source.File, ptr, prev int) int {
	tok := f.Token(ptr)
	c := f.FindPrevious(token.Of(token.COMMENT), ptr-1, source.Until(prev))
	if c < 0 {
		return tok.Line
	}
	if ct := f.Token(c); ct.Line == tok.Line-1 && ct.Column == tok.Column {
		return ct.Line
	}
	return tok.Line
}

// TrailingLine is the forward counterpart of LeadingLine: the line of a
// comment directly below ptr at the same column, else ptr's own line.
func TrailingLine(f *source.File, ptr, next int) int {
	tok := f.Token(ptr)
	c := f.FindNext(token.Of(token.COMMENT), ptr+1, source.Until(next))
	if c < 0 {
		return tok.Line
	}
	if ct := f.Token(c); ct.Line == tok.Line+1 && ct.Column == tok.Column {
		return ct.Line
	}
	return tok.Line
}

// LastLine returns the line a token ends on.
func LastLine(tok token.Token) int {
	n := strings.Count(strings.TrimRight(tok.Content, "\r\n"), "\n")
	return tok.Line + n
}

// Truncate shortens s to n bytes for use in messages.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// TokensBetweenLines returns the indices in [from, to) of tokens starting on a
// line strictly between after and before. Fixes use it to drop blank lines.
func TokensBetweenLines(f *source.File, from, to, after, before int) []int {
	var out []int
	for i := max(from, 0); i < to && i < f.Len(); i++ {
		if line := f.Token(i).Line; line > after && line < before {
			out = append(out, i)
		}
	}
	return out
}

// InBlockComment reports whether the comment token at i continues a /* */
// comment started on an earlier line.
func InBlockComment(f *source.File, i int) bool {
	for j := i - 1; j >= 0; j-- {
		prev := f.Token(j)
		if prev.Kind != token.COMMENT || strings.Contains(prev.Content, "*/") || !EndsLine(prev.Content) {
			return false
		}
		if token.StyleOf(prev.Content) == token.BlockComment {
			return true
		}
	}
	return false
}

// LineEnding returns the line terminator s ends with, if any.
func LineEnding(s string) string {
	switch {
	case strings.HasSuffix(s, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(s, "\n"):
		return "\n"
	case strings.HasSuffix(s, "\r"):
		return "\r"
	}
	return ""
}
