package namingconventions

import (
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(ValidInterfaceName)
	lint.Register(ValidTraitName)
}

// ValidInterfaceName requires interface names like IStorage.
var ValidInterfaceName = lint.RuleDef{
	ID:          "CodingStandard.NamingConventions.ValidInterfaceName",
	Name:        "naming.interface",
	Group:       "naming",
	Description: "Interface names start with I followed by an upper-case letter.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.INTERFACE},
	Check:       prefixCheck('I', "Interface"),
	BadExample:  "interface Storage {}",
	GoodExample: "interface IStorage {}",
}

// ValidTraitName requires trait names like TCacheable.
var ValidTraitName = lint.RuleDef{
	ID:          "CodingStandard.NamingConventions.ValidTraitName",
	Name:        "naming.trait",
	Group:       "naming",
	Description: "Trait names start with T followed by an upper-case letter.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.TRAIT},
	Check:       prefixCheck('T', "Trait"),
	BadExample:  "trait Cacheable {}",
	GoodExample: "trait TCacheable {}",
}

func prefixCheck(prefix rune, kind string) func(*lint.Pass) {
	return func(p *lint.Pass) {
		name := p.File.DeclarationName(p.Ptr)
		if name == "" {
			return
		}
		if !hasPrefixLetter(name, prefix) {
			p.Error(p.Ptr, "WrongPrefix", "%s name is not prefixed with %q", kind, string(prefix))
		}
	}
}

// hasPrefixLetter reports whether name is prefix followed by a letter that is
// not lower-case.
func hasPrefixLetter(name string, prefix rune) bool {
	first, n := utf8.DecodeRuneInString(name)
	if first != prefix {
		return false
	}
	second, _ := utf8.DecodeRuneInString(name[n:])
	return second != utf8.RuneError && unicode.ToLower(second) != second
}
