package classes

import (
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(ClassNamespace)
}

// ClassNamespace requires every class, interface and trait to be declared
// after a namespace statement.
var ClassNamespace = lint.RuleDef{
	ID:          "CodingStandard.Classes.ClassNamespace",
	Name:        "classes.namespace",
	Group:       "classes",
	Description: "Each class, interface and trait is declared in a namespace.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.CLASS, token.INTERFACE, token.TRAIT},
	Check:       checkClassNamespace,
	BadExample:  "<?php\nclass Foo\n{\n}",
	GoodExample: "<?php\nnamespace Vendor;\n\nclass Foo\n{\n}",
}

func checkClassNamespace(p *lint.Pass) {
	f := p.File
	if f.FindPrevious(token.Of(token.NAMESPACE), p.Ptr-1) >= 0 {
		return
	}
	p.Error(p.Ptr, "MissingNamespace",
		"Each %s must be in a namespace of at least one level (a top-level vendor name)", f.Token(p.Ptr).Content)
}
