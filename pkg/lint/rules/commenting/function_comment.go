package commenting

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(FunctionComment)
}

// FunctionComment checks the content of function doc blocks: the short
// description, @return $this and @throws tags on functions that never throw.
var FunctionComment = lint.RuleDef{
	ID:          "CodingStandard.Commenting.FunctionComment",
	Name:        "commenting.function_comment",
	Group:       "commenting",
	Description: "Function doc blocks describe the function accurately.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.FUNCTION},
	Check:       checkFunctionComment,
	Fixable:     true,
	Options: map[string]any{
		"event_class_pattern": "EventHandler",
		"event_method_prefix": "On",
	},
	Rationale: "Event handler descriptions may start with a [bracketed] event name; everything else reads as a sentence.",
	BadExample: `/**
 * returns self.
 *
 * @return $this
 * @throws Exception
 */
public function reset()
{
    return $this;
}`,
	GoodExample: `/**
 * Returns self.
 *
 * @return static
 */
public function reset()
{
    return $this;
}`,
}

var docFiller = token.Of(token.DOC_COMMENT_WHITESPACE, token.DOC_COMMENT_STAR)

func checkFunctionComment(p *lint.Pass) {
	f := p.File
	end := f.FindPrevious(token.MethodPrefixes.With(token.WHITESPACE), p.Ptr-1, source.Excluding())
	if end < 0 || f.Token(end).Kind != token.DOC_COMMENT_CLOSE_TAG {
		return
	}
	start := f.Token(end).CommentOpener
	tags := f.Token(start).CommentTags

	for _, tag := range tags {
		if f.Token(tag).Content != "@return" {
			continue
		}
		if typ := f.Token(tag + 2); typ.Kind == token.DOC_COMMENT_STRING {
			if fields := strings.Fields(typ.Content); len(fields) > 0 && fields[0] == "$this" {
				p.Error(tag, "InvalidThisReturn", `Function return type "%s" is invalid, please use "static" or "self" instead`, fields[0])
			}
		}
		break
	}

	short := f.FindNext(docFiller, start+1, source.Until(end), source.Excluding())
	if short >= 0 && f.Token(short).Kind == token.DOC_COMMENT_STRING {
		checkShort(p, short)
	}

	checkThrows(p, tags)
}

func checkShort(p *lint.Pass, short int) {
	f := p.File
	isEvent := false
	if class := f.Condition(p.Ptr, token.CLASS, token.INTERFACE, token.TRAIT); class >= 0 {
		pattern := lint.GetStringOption(p.Options, "event_class_pattern", "EventHandler")
		prefix := lint.GetStringOption(p.Options, "event_method_prefix", "On")
		isEvent = strings.Contains(f.DeclarationName(class), pattern) &&
			strings.HasPrefix(f.DeclarationName(p.Ptr), prefix)
	}

	r, _ := utf8.DecodeRuneInString(f.Token(short).Content)
	switch {
	case isEvent && !unicode.IsUpper(r) && r != '[':
		p.Error(short, "EventShortNotCapital", "Event comment short description must start with a capital letter or an [")
	case !isEvent && !unicode.IsUpper(r):
		p.Error(short, "NonEventShortNotCapital", "Doc comment short description must start with a capital letter")
	}
}

func checkThrows(p *lint.Pass, tags []int) {
	f := p.File
	fn := f.Token(p.Ptr)
	if !fn.HasScope() {
		return
	}
	if f.FindNext(token.Of(token.THROW), fn.ScopeOpener, source.Until(fn.ScopeCloser)) >= 0 {
		return
	}

	const msg = "@throws tag found, but no exceptions are thrown by the function"
	for _, tag := range tags {
		if f.Token(tag).Content != "@throws" {
			continue
		}

		// The fix removes the whole tag line, from the line break ending the
		// line above up to the tag's own line break.
		stop := -1
		switch {
		case f.Token(tag+2).Kind == token.DOC_COMMENT_STRING:
			stop = tag + 3
		case isDocNewline(f.Token(tag + 1)):
			stop = tag + 1
		}
		from := -1
		if f.Token(tag-2).Kind == token.DOC_COMMENT_STAR {
			switch {
			case isDocNewline(f.Token(tag - 3)):
				from = tag - 3
			case f.Token(tag-3).Kind == token.DOC_COMMENT_WHITESPACE && isDocNewline(f.Token(tag-4)):
				from = tag - 4
			}
		}

		if stop < 0 || from < 0 {
			p.Error(tag, "ExcessiveThrows", msg)
			continue
		}
		fix := p.FixableError(tag, "ExcessiveThrows", msg)
		for i := from; i < stop; i++ {
			fix.Delete(i)
		}
	}
}

func isDocNewline(tok token.Token) bool {
	return tok.Kind == token.DOC_COMMENT_WHITESPACE && strings.ContainsAny(tok.Content, "\r\n")
}
