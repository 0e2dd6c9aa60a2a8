package controlstructures

import (
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(ElseIf)
}

// ElseIf requires the elseif keyword over else if.
var ElseIf = lint.RuleDef{
	ID:          "CodingStandard.ControlStructures.ElseIf",
	Name:        "controlstructures.else_if",
	Group:       "controlstructures",
	Description: `Use "elseif" in place of "else if".`,
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.ELSE},
	Check:       checkElseIf,
	Fixable:     true,
	BadExample: `if ($a) {
} else if ($b) {
}`,
	GoodExample: `if ($a) {
} elseif ($b) {
}`,
}

func checkElseIf(p *lint.Pass) {
	f := p.File
	next := f.NextNonWhitespace(p.Ptr+1, source.Local())
	if next < 0 || f.Token(next).Kind != token.IF {
		return
	}
	fix := p.FixableError(next, "NotAllowed", `Use "elseif" in place of "else if"`)
	fix.Replace(p.Ptr, "elseif")
	for i := p.Ptr + 1; i <= next; i++ {
		fix.Delete(i)
	}
}
