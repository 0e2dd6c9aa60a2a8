package formatting

import (
	"strings"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(ItemAssignment)
}

// ItemAssignment requires spaces on both sides of the => operator.
var ItemAssignment = lint.RuleDef{
	ID:          "CodingStandard.Formatting.ItemAssignment",
	Name:        "formatting.item_assignment",
	Group:       "formatting",
	Description: "The item assignment operator => is surrounded by spaces.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.DOUBLE_ARROW},
	Check:       checkItemAssignment,
	Fixable:     true,
	BadExample:  `$a = array('x'=>1, 'y' =>	2);`,
	GoodExample: `$a = array('x' => 1, 'y' => 2);`,
}

func checkItemAssignment(p *lint.Pass) {
	f := p.File
	before := f.Token(p.Ptr - 1)
	switch {
	case before.Kind != token.WHITESPACE:
		p.FixableError(p.Ptr, "SpaceBefore", "Whitespace must prefix the item assignment operator =>").
			InsertBefore(p.Ptr, " ")
	case !onlySpaces(before.Content):
		reportTabs(p, p.Ptr-1, "SpacesOnlyBefore", "Spaces must be used to prefix the item assignment operator =>")
	}

	after := f.Token(p.Ptr + 1)
	switch {
	case after.Kind != token.WHITESPACE:
		p.FixableError(p.Ptr, "SpaceAfter", "Whitespace must follow the item assignment operator =>").
			InsertAfter(p.Ptr, " ")
	case !onlySpaces(after.Content):
		reportTabs(p, p.Ptr+1, "SpacesOnlyAfter", "Spaces must be used to follow the item assignment operator =>")
	}
}

// reportTabs reports whitespace holding tabs or a line break. Tabs are
// expanded to spaces; a line break is left for the author to resolve.
func reportTabs(p *lint.Pass, ws int, code, msg string) {
	content := p.File.Token(ws).Content
	if strings.ContainsAny(content, "\r\n") {
		p.Error(p.Ptr, code, msg)
		return
	}
	p.FixableError(p.Ptr, code, msg).Replace(ws, strings.Repeat(" ", p.File.Width(content)))
}

func onlySpaces(s string) bool {
	return strings.Count(s, " ") == len(s)
}
