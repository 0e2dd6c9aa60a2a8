package source

import "github.com/leapstack-labs/sniff/pkg/token"

type searchOpts struct {
	end      int
	hasEnd   bool
	exclude  bool
	value    string
	hasValue bool
	local    bool
}

// SearchOption narrows a FindNext or FindPrevious scan.
type SearchOption func(*searchOpts)

// Until bounds the scan. FindNext stops before end; FindPrevious stops after
// examining end.
func Until(end int) SearchOption {
	return func(o *searchOpts) {
		o.end = end
		o.hasEnd = true
	}
}

// Excluding inverts the kind test: the scan matches tokens NOT in the set.
func Excluding() SearchOption {
	return func(o *searchOpts) { o.exclude = true }
}

// WithValue additionally requires the token content to equal v.
func WithValue(v string) SearchOption {
	return func(o *searchOpts) {
		o.value = v
		o.hasValue = true
	}
}

// Local stops the scan at the end of the current statement.
func Local() SearchOption {
	return func(o *searchOpts) { o.local = true }
}

func (f *File) matches(i int, kinds token.Set, o *searchOpts) bool {
	tok := f.tokens[i]
	if kinds.Has(tok.Kind) == o.exclude {
		return false
	}
	return !o.hasValue || tok.Content == o.value
}

// FindNext returns the index of the first token at or after start matching
// kinds, or -1.
func (f *File) FindNext(kinds token.Set, start int, opts ...SearchOption) int {
	o := searchOpts{end: len(f.tokens)}
	for _, opt := range opts {
		opt(&o)
	}
	end := min(o.end, len(f.tokens))

	for i := max(start, 0); i < end; i++ {
		if f.matches(i, kinds, &o) {
			return i
		}
		if o.local && f.tokens[i].Kind == token.SEMICOLON {
			break
		}
	}
	return -1
}

// FindPrevious returns the index of the first token at or before start
// matching kinds, scanning backward, or -1. A local scan jumps over balanced
// scopes, brackets and parentheses and stops at a semicolon.
func (f *File) FindPrevious(kinds token.Set, start int, opts ...SearchOption) int {
	o := searchOpts{}
	for _, opt := range opts {
		opt(&o)
	}
	end := max(o.end, 0)

	for i := min(start, len(f.tokens)-1); i >= end; i-- {
		if f.matches(i, kinds, &o) {
			return i
		}
		if !o.local {
			continue
		}
		tok := f.tokens[i]
		switch {
		case tok.ScopeOpener != token.NoIndex && tok.ScopeCloser == i && tok.ScopeOpener < i:
			i = tok.ScopeOpener
		case tok.BracketOpener != token.NoIndex && tok.BracketCloser == i && tok.BracketOpener < i:
			i = tok.BracketOpener
		case tok.ParenOpener != token.NoIndex && tok.ParenCloser == i && tok.ParenOpener < i:
			i = tok.ParenOpener
		case tok.Kind == token.SEMICOLON:
			return -1
		}
	}
	return -1
}

var whitespace = token.Of(token.WHITESPACE)

// NextNonEmpty returns the first non-whitespace, non-comment token at or after start.
func (f *File) NextNonEmpty(start int, opts ...SearchOption) int {
	return f.FindNext(token.Empty, start, append(opts, Excluding())...)
}

// PrevNonEmpty returns the first non-whitespace, non-comment token at or before start.
func (f *File) PrevNonEmpty(start int, opts ...SearchOption) int {
	return f.FindPrevious(token.Empty, start, append(opts, Excluding())...)
}

// NextNonWhitespace returns the first non-whitespace token at or after start.
func (f *File) NextNonWhitespace(start int, opts ...SearchOption) int {
	return f.FindNext(whitespace, start, append(opts, Excluding())...)
}

// PrevNonWhitespace returns the first non-whitespace token at or before start.
func (f *File) PrevNonWhitespace(start int, opts ...SearchOption) int {
	return f.FindPrevious(whitespace, start, append(opts, Excluding())...)
}

// FirstOnLine returns the index of the first token on ptr's line.
func (f *File) FirstOnLine(ptr int) int {
	if !f.Valid(ptr) {
		return -1
	}
	line := f.tokens[ptr].Line
	i := ptr
	for i > 0 && f.tokens[i-1].Line == line {
		i--
	}
	return i
}

// LineIndent returns the width of the leading whitespace on ptr's line.
func (f *File) LineIndent(ptr int) int {
	first := f.FirstOnLine(ptr)
	if first < 0 || f.tokens[first].Kind != token.WHITESPACE {
		return 0
	}
	return f.Width(trimEOL(f.tokens[first].Content))
}

// StatementStart returns the first non-empty token of the statement holding ptr.
func (f *File) StatementStart(ptr int) int {
	boundary := f.FindPrevious(token.Of(
		token.SEMICOLON,
		token.OPEN_CURLY_BRACKET,
		token.CLOSE_CURLY_BRACKET,
		token.OPEN_TAG,
		token.COLON,
	), ptr-1, Local())
	start := f.NextNonEmpty(boundary + 1)
	if start < 0 || start > ptr {
		return ptr
	}
	return start
}

func trimEOL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
