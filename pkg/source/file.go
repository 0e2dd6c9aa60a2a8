// Package source provides the read-only view of a tokenized file that rules
// query: indexed token lookup, bounded forward and backward searches and a
// handful of declaration helpers.
package source

import (
	"strings"

	"github.com/leapstack-labs/sniff/pkg/token"
)

// File is an immutable tokenized source file. Rules must treat the tokens it
// returns as read-only.
type File struct {
	path     string
	lang     token.Language
	content  string
	eol      string
	tokens   []token.Token
	tabWidth int
}

// Option configures a File.
type Option func(*File)

// WithTabWidth sets the width used when measuring indentation that contains
// tabs. Zero leaves tabs counted as one column.
func WithTabWidth(n int) Option {
	return func(f *File) {
		f.tabWidth = n
	}
}

// New wraps tokens produced from content.
func New(path string, lang token.Language, content string, tokens []token.Token, opts ...Option) *File {
	f := &File{
		path:    path,
		lang:    lang,
		content: content,
		eol:     detectEOL(content),
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func detectEOL(content string) string {
	idx := strings.IndexByte(content, '\n')
	if idx > 0 && content[idx-1] == '\r' {
		return "\r\n"
	}
	if idx < 0 && strings.Contains(content, "\r") {
		return "\r"
	}
	return "\n"
}

// Path returns the path the file was loaded from.
func (f *File) Path() string { return f.path }

// Language returns the language the file was tokenized as.
func (f *File) Language() token.Language { return f.lang }

// Content returns the original source text.
func (f *File) Content() string { return f.content }

// EOL returns the file's line terminator.
func (f *File) EOL() string { return f.eol }

// TabWidth returns the configured tab width, or zero.
func (f *File) TabWidth() int { return f.tabWidth }

// Len returns the number of tokens.
func (f *File) Len() int { return len(f.tokens) }

// Token returns the token at index i. Out-of-range indices yield a zero
// ILLEGAL token whose index fields are unset, so callers can probe
// neighbours without bounds checks.
func (f *File) Token(i int) token.Token {
	if i < 0 || i >= len(f.tokens) {
		return token.New(token.ILLEGAL, "", 0, 0, -1)
	}
	return f.tokens[i]
}

// Tokens returns the token slice. It must not be modified.
func (f *File) Tokens() []token.Token { return f.tokens }

// Valid reports whether i indexes a token.
func (f *File) Valid(i int) bool {
	return i >= 0 && i < len(f.tokens)
}

// TokensAsString concatenates the content of length tokens starting at start.
func (f *File) TokensAsString(start, length int) string {
	var b strings.Builder
	end := min(start+length, len(f.tokens))
	for i := max(start, 0); i < end; i++ {
		b.WriteString(f.tokens[i].Content)
	}
	return b.String()
}

// Width measures s in columns, expanding tabs to the configured tab width.
func (f *File) Width(s string) int {
	n := 0
	for _, r := range s {
		if r == '\t' && f.tabWidth > 0 {
			n += f.tabWidth - (n % f.tabWidth)
			continue
		}
		n++
	}
	return n
}
