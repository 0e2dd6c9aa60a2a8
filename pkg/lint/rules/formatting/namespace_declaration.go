package formatting

import (
	"strings"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(NamespaceDeclaration)
}

// NamespaceDeclaration requires a fixed number of blank lines after a
// namespace statement.
var NamespaceDeclaration = lint.RuleDef{
	ID:          "CodingStandard.Formatting.NamespaceDeclaration",
	Name:        "formatting.namespace_declaration",
	Group:       "formatting",
	Description: "A namespace declaration is followed by two blank lines.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.NAMESPACE},
	Check:       checkNamespaceDeclaration,
	Fixable:     true,
	Options: map[string]any{
		"empty_line_count": 2,
	},
	BadExample: `namespace Acme\Shop;
use Acme\Cart;`,
	GoodExample: `namespace Acme\Shop;


use Acme\Cart;`,
}

func checkNamespaceDeclaration(p *lint.Pass) {
	f := p.File
	if next := f.Token(p.Ptr + 1); next.Kind == token.NS_SEPARATOR {
		return
	}
	end := f.FindNext(token.Of(token.SEMICOLON, token.OPEN_CURLY_BRACKET), p.Ptr+1)
	if end < 0 || f.Token(end).Kind != token.SEMICOLON {
		return
	}
	if c := f.NextNonWhitespace(end + 1); c >= 0 && f.Token(c).Kind == token.COMMENT && f.Token(c).Line == f.Token(end).Line {
		end = c
	}

	next := f.NextNonWhitespace(end + 1)
	if next < 0 {
		return
	}
	want := lint.GetIntOption(p.Options, "empty_line_count", 2)
	endLine := scan.LastLine(f.Token(end))
	found := f.Token(next).Line - (endLine + 1)
	if found == want {
		return
	}

	fix := p.FixableError(p.Ptr, "LineAfter", "Expected %d blank lines after namespace declaration; %d found", want, found)
	last := next
	if scan.IsIndent(f, next-1) {
		last = next - 1
	}
	for i := end + 1; i < last; i++ {
		fix.Delete(i)
	}
	breaks := want + 1
	if scan.EndsLine(f.Token(end).Content) {
		breaks--
	}
	fix.InsertAfter(end, strings.Repeat(fix.EOL(), breaks))
}
