package commenting

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(InlineComment)
}

// InlineComment checks // comments: one space after the slashes, capitalised
// text ending in punctuation, no blank line below a standalone comment, and
// no # or inline doc block comments.
var InlineComment = lint.RuleDef{
	ID:          "CodingStandard.Commenting.InlineComment",
	Name:        "commenting.inline_comment",
	Group:       "commenting",
	Description: "Inline comments use //, read as sentences and hug the code they describe.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.COMMENT, token.DOC_COMMENT_OPEN_TAG},
	Languages:   []token.Language{token.PHP, token.JS},
	Check:       checkInlineComment,
	Fixable:     true,
	Options: map[string]any{
		"allowed_closers": ".!?",
	},
	BadExample: `#check the cache

$a = cache();`,
	GoodExample: `// Check the cache.
$a = cache();`,
}

// docOwners are the declarations an ordinary doc block may precede.
var docOwners = token.Of(
	token.CLASS,
	token.INTERFACE,
	token.TRAIT,
	token.FUNCTION,
	token.CLOSURE,
	token.PUBLIC,
	token.PRIVATE,
	token.PROTECTED,
	token.FINAL,
	token.STATIC,
	token.ABSTRACT,
	token.CONST,
	token.VAR,
)

// jsAssignment is skipped when looking for a function assigned to a name.
var jsAssignment = token.Empty.With(token.EQUAL, token.STRING, token.OBJECT_OPERATOR, token.VAR)

var closerNames = map[rune]string{
	'.': "full-stops",
	'!': "exclamation marks",
	'?': "question marks",
	',': "commas",
	';': "semicolons",
}

func checkInlineComment(p *lint.Pass) {
	f := p.File
	tok := f.Token(p.Ptr)

	if tok.Kind == token.DOC_COMMENT_OPEN_TAG {
		checkInlineDocBlock(p)
		return
	}
	if scan.InBlockComment(f, p.Ptr) {
		return
	}

	switch token.StyleOf(tok.Content) {
	case token.HashComment:
		p.FixableError(p.Ptr, "WrongStyle", `Perl-style comments are not allowed; use "// Comment" instead`).
			Replace(p.Ptr, "// "+strings.TrimLeft(tok.Content, "# \t"))
		return
	case token.BlockComment:
		return
	}

	prev := f.PrevNonWhitespace(p.Ptr - 1)
	if prev >= 0 && f.Token(prev).Line == tok.Line && isBlockEnd(p, prev) {
		return
	}

	comment := strings.TrimRightFunc(tok.Content, unicode.IsSpace)
	body := comment[2:]
	if strings.TrimSpace(body) != "" {
		spaces := len(body) - len(strings.TrimLeft(body, " \t"))
		fixed := "// " + strings.TrimLeft(tok.Content, "/\t ")
		switch {
		case spaces == 0:
			p.FixableError(p.Ptr, "NoSpaceBefore", `No space before comment text; expected "// %s" but found "%s"`,
				strings.TrimLeft(body, "/ \t"), comment).
				Replace(p.Ptr, fixed)
		case spaces > 1:
			p.FixableError(p.Ptr, "SpacingBefore",
				"%d spaces found before inline comment line; use block comment if you need indentation", spaces).
				Replace(p.Ptr, fixed)
		}
	}

	// The rest looks at a block of comments on consecutive lines as a whole,
	// once, from its last line.
	if next := f.FindNext(token.Of(token.COMMENT), p.Ptr+1); next >= 0 && f.Token(next).Line == tok.Line+1 {
		return
	}
	top := p.Ptr
	for {
		above := f.FindPrevious(token.Of(token.COMMENT), top-1)
		if above < 0 || f.Token(above).Line != f.Token(top).Line-1 || token.StyleOf(f.Token(above).Content) != token.SlashComment {
			break
		}
		top = above
	}

	var text strings.Builder
	for i := top; i <= p.Ptr; i++ {
		if c := f.Token(i); c.Kind == token.COMMENT && len(c.Content) >= 2 {
			text.WriteString(strings.TrimSpace(c.Content[2:]))
		}
	}

	if text.Len() == 0 {
		fix := p.FixableError(p.Ptr, "Empty", "Blank comments are not allowed")
		before := f.Token(p.Ptr - 1)
		if before.Kind == token.WHITESPACE && !scan.EndsLine(before.Content) {
			fix.Delete(p.Ptr - 1)
		}
		if scan.IsIndent(f, p.Ptr-1) || scan.EndsLine(before.Content) {
			fix.Delete(p.Ptr)
		} else {
			fix.Replace(p.Ptr, scan.LineEnding(tok.Content))
		}
		return
	}

	s := text.String()
	if r, _ := utf8.DecodeRuneInString(s); unicode.IsLetter(r) && !unicode.IsUpper(r) {
		p.Error(top, "NotCapital", "Inline comments must start with a capital letter or digit")
	}

	closers := lint.GetStringOption(p.Options, "allowed_closers", ".!?")
	if last, _ := utf8.DecodeLastRuneInString(s); !strings.ContainsRune(closers, last) {
		p.Error(p.Ptr, "InvalidEndChar", "Inline comments must end in %s", describeClosers(closers))
	}

	if prev >= 0 && f.Token(prev).Line < tok.Line {
		checkSpacingAfter(p)
	}
}

// isBlockEnd reports whether the content before a trailing comment closes a
// block, as in "} // end if" or "}, // end object".
func isBlockEnd(p *lint.Pass, prev int) bool {
	f := p.File
	switch f.Token(prev).Kind {
	case token.CLOSE_CURLY_BRACKET:
		return true
	case token.COMMA, token.SEMICOLON:
		before := f.PrevNonWhitespace(prev - 1)
		return before >= 0 && f.Token(before).Kind == token.CLOSE_CURLY_BRACKET
	}
	return false
}

func checkSpacingAfter(p *lint.Pass) {
	f := p.File
	line := f.Token(p.Ptr).Line + 1
	seen := false
	for i := p.Ptr + 1; i < f.Len(); i++ {
		tok := f.Token(i)
		if tok.Line > line {
			break
		}
		if tok.Line == line {
			if tok.Kind != token.WHITESPACE {
				return
			}
			seen = true
		}
	}
	next := f.NextNonWhitespace(p.Ptr + 1)
	if !seen || next < 0 {
		return
	}

	fix := p.FixableError(p.Ptr, "SpacingAfter", "There must be no blank line following an inline comment")
	for i := p.Ptr + 1; i < next && f.Token(i).Line < f.Token(next).Line; i++ {
		fix.Delete(i)
	}
}

func checkInlineDocBlock(p *lint.Pass) {
	f := p.File
	next := f.NextNonEmpty(p.Ptr + 1)
	if next >= 0 && docOwners.Has(f.Token(next).Kind) {
		return
	}
	if f.Language() == token.JS && next >= 0 {
		// A block comment may document a function or object assigned to a name.
		target := f.FindNext(jsAssignment, next, source.Excluding())
		if target >= 0 && f.Token(target).Is(token.FUNCTION, token.CLOSURE, token.OPEN_CURLY_BRACKET) {
			return
		}
	}
	if prev := f.PrevNonEmpty(p.Ptr - 1); prev >= 0 && f.Token(prev).Kind == token.OPEN_TAG {
		return
	}
	if isTypeComment(f, p.Ptr) {
		return
	}
	p.Error(p.Ptr, "DocBlock", `Inline doc block comments are not allowed; use "/* Comment */" or "// Comment" instead`)
}

func describeClosers(closers string) string {
	var names []string
	for _, r := range closers {
		if name, ok := closerNames[r]; ok {
			names = append(names, name)
		} else {
			names = append(names, `"`+string(r)+`"`)
		}
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}
