package commenting

import (
	"strings"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(TypeComment)
}

const typeTag = "@var"

const typeFormat = `Type comment must be in "/** %s ClassName $variable_name */" format`

// TypeComment checks one-line type annotations: the /** @var Type $name */
// form, the spacing inside it, and its placement next to the variable it
// describes.
var TypeComment = lint.RuleDef{
	ID:          "CodingStandard.Commenting.TypeComment",
	Name:        "commenting.type_comment",
	Group:       "commenting",
	Description: "Type comments read /** @var ClassName $variable */ and sit above the variable.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.COMMENT, token.DOC_COMMENT_OPEN_TAG},
	Languages:   []token.Language{token.PHP},
	Check:       checkTypeComment,
	Fixable:     true,
	Rationale:   "IDEs only pick up type hints written as a doc block with the type before the variable.",
	BadExample: `$foo = bar();
/* @type $foo Foo */`,
	GoodExample: `/** @var Foo $foo */
$foo = bar();`,
}

func checkTypeComment(p *lint.Pass) {
	if p.File.Token(p.Ptr).Kind == token.COMMENT {
		checkTypeBlockComment(p)
		return
	}
	checkTypeDocBlock(p)
}

func isTypeTag(s string) bool {
	return strings.Contains(s, typeTag) || strings.Contains(s, "@type")
}

func isVariableName(s string) bool {
	return strings.HasPrefix(s, "$")
}

// checkTypeBlockComment turns /* @var ... */ and /**@var ...*/, which are
// not doc blocks, into one.
func checkTypeBlockComment(p *lint.Pass) {
	text := p.File.Token(p.Ptr).Content
	if !strings.HasPrefix(text, "/*") || !strings.HasSuffix(text, "*/") || !isTypeTag(text) {
		return
	}
	p.FixableError(p.Ptr, "WrongStyle", typeFormat, typeTag).
		Replace(p.Ptr, "/** "+strings.Trim(text, " /*")+" */")
}

// typeAnnotation is the content of a one-line type doc block laid out as
// open tag, whitespace, tag, whitespace, string.
type typeAnnotation struct {
	contentPtr  int
	content     string
	class       string
	variable    string
	description string
}

func parseTypeAnnotation(f *source.File, opener int) (typeAnnotation, bool) {
	layout := []token.Kind{
		token.DOC_COMMENT_WHITESPACE,
		token.DOC_COMMENT_TAG,
		token.DOC_COMMENT_WHITESPACE,
		token.DOC_COMMENT_STRING,
	}
	closer := f.Token(opener).CommentCloser
	for i, kind := range layout {
		at := opener + 1 + i
		if at >= closer || f.Token(at).Kind != kind {
			return typeAnnotation{}, false
		}
	}

	a := typeAnnotation{contentPtr: opener + 4, content: f.Token(opener + 4).Content}
	parts := strings.Fields(a.content)
	if len(parts) == 0 {
		return typeAnnotation{}, false
	}
	a.class = parts[0]
	if len(parts) > 1 {
		a.variable = parts[1]
	}
	if len(parts) > 2 {
		a.description = strings.Join(parts[2:], " ")
	}
	return a, true
}

func checkTypeDocBlock(p *lint.Pass) {
	f := p.File
	closer := f.Token(p.Ptr).CommentCloser
	if closer <= p.Ptr || f.Token(closer).Line != f.Token(p.Ptr).Line {
		return
	}
	tags := f.Token(p.Ptr).CommentTags
	if len(tags) == 0 || !isTypeTag(f.Token(tags[0]).Content) {
		return
	}

	a, ok := parseTypeAnnotation(f, p.Ptr)
	if !ok {
		leading := f.Token(p.Ptr+1).Kind == token.DOC_COMMENT_WHITESPACE
		trailing := f.Token(closer-1).Kind == token.DOC_COMMENT_WHITESPACE
		if leading && trailing {
			p.Error(tags[0], "WrongStyle", typeFormat, typeTag)
			return
		}
		fix := p.FixableError(p.Ptr, "WrongStyle", typeFormat, typeTag)
		if !leading {
			fix.InsertBefore(p.Ptr+1, " ")
		}
		if !trailing {
			fix.InsertAfter(closer-1, " ")
		}
		return
	}

	checkTypeContent(p, tags[0], a)
	checkTypePlacement(p, a)
}

func checkTypeContent(p *lint.Pass, tag int, a typeAnnotation) {
	f := p.File
	name := f.Token(tag).Content
	if name != typeTag {
		p.FixableError(tag, "WrongTag", `Type comment must use "%s" tag; "%s" used`, typeTag, name).
			Replace(tag, typeTag)
	}

	if n := f.Token(p.Ptr + 1).Length; n != 1 {
		p.FixableError(tag, "SpaceBeforeTag", `There must be 1 space before "%s" tag; %d found`, name, n).
			Replace(p.Ptr+1, " ")
	}
	if n := f.Token(p.Ptr + 3).Length; n != 1 {
		p.FixableError(tag, "SpaceAfterTag", `There must be 1 space between "%s" tag and class name; %d found`, name, n).
			Replace(p.Ptr+3, " ")
	}

	if a.variable == "" {
		if isVariableName(a.class) {
			p.Error(a.contentPtr, "TypeMissing", "Type comment missing type: /** %s ______ %s */", typeTag, a.class)
		} else {
			p.Error(a.contentPtr, "VariableMissing", "Type comment missing variable: /** %s %s ______ */", typeTag, a.class)
		}
		return
	}

	classFirst := !isVariableName(a.class)
	variableSecond := isVariableName(a.variable)
	if classFirst != variableSecond {
		p.Error(tag, "WrongStyle", typeFormat, typeTag)
		return
	}

	parts := []string{a.class, a.variable}
	if !classFirst {
		parts = []string{a.variable, a.class}
	}
	if a.description != "" {
		parts = append(parts, a.description)
	}
	if want := strings.Join(parts, " "); a.content != want {
		p.FixableError(a.contentPtr, "WrongOrder", `Wrong type and variable spacing/order. Expected: "%s"`, want).
			Replace(a.contentPtr, want)
	}
}

// checkTypePlacement wants the annotation directly above the variable it
// names, separated from any earlier statement by a blank line.
func checkTypePlacement(p *lint.Pass, a typeAnnotation) {
	if !isVariableName(a.variable) {
		return
	}
	checkTypeAfterVariable(p, a)
	checkTypeBeforeVariable(p, a)
}

func checkTypeAfterVariable(p *lint.Pass, a typeAnnotation) {
	f := p.File
	end := f.PrevNonWhitespace(p.Ptr - 1)
	if end < 0 || f.Token(end).Kind != token.SEMICOLON {
		return
	}
	assign := f.FindPrevious(token.Of(token.EQUAL), end-1, source.Local())
	if assign < 0 {
		return
	}
	v := f.PrevNonWhitespace(assign - 1)
	if v < 0 || f.Token(v).Kind != token.VARIABLE || f.Token(v).Content != a.variable {
		return
	}

	const msg = "Type comment must be placed before variable declaration"
	if f.Token(v).Line == f.Token(p.Ptr).Line {
		p.Error(p.Ptr, "AfterVariable", msg)
		return
	}

	fix := p.FixableError(p.Ptr, "AfterVariable", msg)
	var moved strings.Builder
	for i := f.FirstOnLine(p.Ptr); i < f.Len() && f.Token(i).Line == f.Token(p.Ptr).Line; i++ {
		moved.WriteString(f.Token(i).Content)
		fix.Delete(i)
	}
	fix.InsertBefore(f.FirstOnLine(v), moved.String())
}

func checkTypeBeforeVariable(p *lint.Pass, a typeAnnotation) {
	f := p.File
	open := f.Token(p.Ptr)
	v := f.NextNonWhitespace(open.CommentCloser + 1)
	if v < 0 || f.Token(v).Kind != token.VARIABLE || f.Token(v).Line != open.Line+1 {
		return
	}
	if found := f.Token(v).Content; found != a.variable {
		p.Error(a.contentPtr, "VariableMismatch", `Type comment variable mismatch, expected "%s"; found: "%s"`, found, a.variable)
		return
	}

	end := f.PrevNonWhitespace(p.Ptr - 1)
	if end < 0 || f.Token(end).Kind != token.SEMICOLON || f.Token(end).Line < open.Line-1 {
		return
	}
	p.FixableError(p.Ptr, "EmptyLineAbove", "There must be at least 1 empty line above type comment").
		Newline(end)
}
