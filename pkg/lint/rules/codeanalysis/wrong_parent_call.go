package codeanalysis

import (
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(WrongParentCall)
}

// WrongParentCall flags parent:: calls to a method other than the one being
// defined, which usually means a copy-paste error in an override.
var WrongParentCall = lint.RuleDef{
	ID:          "CodingStandard.CodeAnalysis.WrongParentCall",
	Name:        "codeanalysis.wrong_parent_call",
	Group:       "codeanalysis",
	Description: "parent:: calls inside a method call the same method.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.PARENT},
	Check:       checkWrongParentCall,
	BadExample: `public function save()
{
    parent::load();
}`,
	GoodExample: `public function save()
{
    parent::save();
}`,
}

func checkWrongParentCall(p *lint.Pass) {
	f := p.File
	fn := f.Condition(p.Ptr, token.FUNCTION)
	if fn < 0 || f.Token(p.Ptr+1).Kind != token.DOUBLE_COLON {
		return
	}

	method := f.NextNonEmpty(p.Ptr + 2)
	if method < 0 || f.Token(method).Kind != token.STRING {
		return
	}
	if call := f.NextNonEmpty(method + 1); call < 0 || f.Token(call).Kind != token.OPEN_PARENTHESIS {
		// constant or static property
		return
	}

	if f.Token(method).Content != f.DeclarationName(fn) {
		p.Error(p.Ptr, "WrongName", "Method name mismatch in parent:: call")
	}
}
