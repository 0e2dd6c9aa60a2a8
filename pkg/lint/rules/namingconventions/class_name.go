package namingconventions

import (
	"strings"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(ValidClassName)
}

// ValidClassName requires the Abstract name prefix exactly on abstract classes.
var ValidClassName = lint.RuleDef{
	ID:          "CodingStandard.NamingConventions.ValidClassName",
	Name:        "naming.class",
	Group:       "naming",
	Description: "Abstract classes, and only they, are prefixed with Abstract.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.CLASS},
	Check:       checkClassName,
	BadExample:  "abstract class Base {}",
	GoodExample: "abstract class AbstractBase {}",
}

func checkClassName(p *lint.Pass) {
	name := p.File.DeclarationName(p.Ptr)
	if name == "" {
		return
	}

	abstract := p.File.ClassProperties(p.Ptr).IsAbstract
	prefixed := strings.HasPrefix(name, "Abstract")
	switch {
	case abstract && !prefixed:
		p.Error(p.Ptr, "AbstractWrongName", "Abstract class name %q is not prefixed with \"Abstract\"", name)
	case !abstract && prefixed:
		p.Error(p.Ptr, "AbstractMissingModifier", "Non-abstract class name %q is prefixed with \"Abstract\"", name)
	}
}
