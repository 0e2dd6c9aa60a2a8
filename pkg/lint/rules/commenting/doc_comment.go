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
	lint.Register(GenericDocComment)
	lint.Register(DocComment)
}

// GenericDocComment checks the layout shared by all doc blocks: the open and
// close tags on their own lines, a capitalised short description, and one
// blank line before the tags.
var GenericDocComment = lint.RuleDef{
	ID:          "Generic.Commenting.DocComment",
	Name:        "generic.commenting.doc_comment",
	Group:       "commenting",
	Description: "Doc blocks keep their tags on their own lines and start with a short description.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.DOC_COMMENT_OPEN_TAG},
	Languages:   []token.Language{token.PHP, token.JS},
	Check:       checkDocComment,
	Fixable:     true,
}

// DocComment applies the generic doc block checks, except to one-line type
// annotations such as /** @var Foo $foo */.
var DocComment = lint.RuleDef{
	ID:          "CodingStandard.Commenting.DocComment",
	Name:        "commenting.doc_comment",
	Group:       "commenting",
	Description: "Doc blocks follow basic formatting; one-line @var annotations are exempt.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.DOC_COMMENT_OPEN_TAG},
	Languages:   []token.Language{token.PHP, token.JS},
	Extends:     GenericDocComment.ID,
	Check:       checkCodingStandardDocComment,
	Fixable:     true,
	Rationale:   "Inline type annotations help IDEs and are written on one line by convention.",
	BadExample: `/** returns the name
  @return string */`,
	GoodExample: `/**
 * Returns the name.
 *
 * @return string
 */`,
}

var docContent = token.Of(token.DOC_COMMENT_STRING, token.DOC_COMMENT_TAG)

func checkCodingStandardDocComment(p *lint.Pass) {
	f := p.File
	closer := f.Token(p.Ptr).CommentCloser
	if f.Token(closer).Line == f.Token(p.Ptr).Line && isTypeComment(f, p.Ptr) {
		return
	}
	p.Parent()
}

func checkDocComment(p *lint.Pass) {
	f := p.File
	open := f.Token(p.Ptr)
	closer := open.CommentCloser
	if closer <= p.Ptr {
		return
	}

	short := f.FindNext(docContent, p.Ptr+1, source.Until(closer))
	if short < 0 {
		p.Error(p.Ptr, "Empty", "Doc comment is empty")
		return
	}

	pad := strings.Repeat(" ", open.Column-1)
	if scan.IsIndent(f, p.Ptr-1) {
		pad = f.Token(p.Ptr - 1).Content
	}

	if f.Token(short).Line == open.Line {
		fix := p.FixableError(p.Ptr, "ContentAfterOpen", "The open comment tag must be the only content on the line")
		for _, i := range scan.DeleteRange(p.Ptr+1, short) {
			fix.Delete(i)
		}
		fix.InsertBefore(short, fix.EOL()+pad+" * ")
	}

	last := f.FindPrevious(docContent, closer-1, source.Until(p.Ptr))
	if last >= 0 && scan.LastLine(f.Token(last)) == f.Token(closer).Line {
		fix := p.FixableError(closer, "ContentBeforeClose", "The close comment tag must be the only content on the line")
		for _, i := range scan.DeleteRange(last+1, closer) {
			fix.Delete(i)
		}
		fix.InsertBefore(closer, fix.EOL()+pad+" ")
	}

	if f.Token(short).Kind == token.DOC_COMMENT_TAG {
		p.Error(p.Ptr, "MissingShort", "Missing short description in doc comment")
		return
	}

	if r, _ := utf8.DecodeRuneInString(f.Token(short).Content); unicode.IsLower(r) {
		p.Error(short, "ShortNotCapital", "Doc comment short description must start with a capital letter")
	}

	checkSpacingBeforeTags(p, pad)
}

func checkSpacingBeforeTags(p *lint.Pass, pad string) {
	f := p.File
	tags := f.Token(p.Ptr).CommentTags
	if len(tags) == 0 {
		return
	}
	first := tags[0]
	prev := f.FindPrevious(docContent, first-1, source.Until(p.Ptr))
	if prev < 0 {
		return
	}
	prevLine := scan.LastLine(f.Token(prev))
	tagLine := f.Token(first).Line
	if tagLine == prevLine {
		return
	}

	blank := tagLine - prevLine - 1
	if blank == 1 {
		return
	}
	fix := p.FixableError(first, "SpacingBeforeTags", "There must be exactly one blank line before the tags in a doc comment")
	if blank == 0 {
		fix.InsertAfter(prev, fix.EOL()+pad+" *")
		return
	}
	for _, i := range scan.TokensBetweenLines(f, prev+1, first, prevLine+1, tagLine) {
		fix.Delete(i)
	}
}
