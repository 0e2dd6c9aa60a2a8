package classes

import (
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(ClassCreateInstance)
}

// ClassCreateInstance requires parentheses after the class name of a new
// expression, with nothing between the name and the parenthesis.
var ClassCreateInstance = lint.RuleDef{
	ID:          "CodingStandard.Classes.ClassCreateInstance",
	Name:        "classes.create_instance",
	Group:       "classes",
	Description: "Constructor calls always include parentheses.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.NEW},
	Check:       checkCreateInstance,
	Fixable:     true,
	BadExample:  `$a = new Foo;`,
	GoodExample: `$a = new Foo();`,
}

// className holds the kinds that make up the class expression after new.
var className = token.Of(
	token.WHITESPACE,
	token.NS_SEPARATOR,
	token.STRING,
	token.VARIABLE,
	token.SELF,
	token.STATIC,
	token.PARENT,
	token.DOUBLE_COLON,
	token.OBJECT_OPERATOR,
)

func checkCreateInstance(p *lint.Pass) {
	f := p.File
	end := f.FindNext(className, p.Ptr+1, source.Excluding())
	if end < 0 {
		end = f.Len()
	}
	if f.Token(end).Kind == token.CLASS {
		// anonymous class
		return
	}
	last := f.PrevNonWhitespace(end - 1)
	if last <= p.Ptr {
		return
	}

	if f.Token(end).Kind != token.OPEN_PARENTHESIS {
		p.FixableError(p.Ptr, "MissingParentheses", "Calling class constructors must always include parentheses").
			InsertAfter(last, "()")
		return
	}

	if last != end-1 {
		fix := p.FixableError(end-1, "SpaceBeforeParentheses",
			"Between the class name and the opening parenthesis spaces are not welcome")
		for _, i := range scan.DeleteRange(last+1, end) {
			fix.Delete(i)
		}
	}
}
