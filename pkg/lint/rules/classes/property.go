package classes

import (
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(PropertyDeclaration)
}

// PropertyDeclaration checks property declarations: visibility is spelled out
// on the same line, var is not used and each statement declares one property.
var PropertyDeclaration = lint.RuleDef{
	ID:          "CodingStandard.Classes.PropertyDeclaration",
	Name:        "classes.property",
	Group:       "classes",
	Description: "Properties declare their visibility, one per statement, without var.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.VARIABLE},
	Check:       checkProperty,
	Fixable:     true,
	BadExample:  "var $a, $b;",
	GoodExample: "public $a;\npublic $b;",
}

var propertyStart = token.ScopeModifiers.With(token.VARIABLE, token.VAR, token.SEMICOLON)

func checkProperty(p *lint.Pass) {
	f := p.File
	if !f.IsMemberVar(p.Ptr) {
		return
	}

	prev := f.FindPrevious(propertyStart, p.Ptr-1)
	if prev >= 0 && f.Token(prev).Kind == token.VARIABLE {
		// later property of a grouped declaration
		return
	}

	if prev >= 0 && f.Token(prev).Kind == token.VAR {
		p.FixableError(p.Ptr, "VarUsed", "The var keyword must not be used to declare a property").
			Replace(prev, "public")
	}

	for i := p.Ptr + 1; i < f.Len(); i++ {
		tok := f.Token(i)
		if tok.Kind == token.SEMICOLON {
			break
		}
		if tok.Kind == token.VARIABLE && len(tok.NestedParens) == 0 {
			p.Error(p.Ptr, "Multiple", "There must not be more than one property declared per statement")
			break
		}
	}

	start := f.StatementStart(p.Ptr)
	modifier := f.FindPrevious(token.ScopeModifiers, p.Ptr-1, source.Until(start))
	if modifier < 0 || f.Token(modifier).Line != f.Token(p.Ptr).Line {
		p.Error(p.Ptr, "ScopeMissing", "Visibility must be declared on property %q", f.Token(p.Ptr).Content)
	}
}
