package php

import (
	"strings"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(GenericNoSilencedErrors)
	lint.Register(NoSilencedErrors)
}

// GenericNoSilencedErrors reports the error control operator. With the error
// option set it reports an error instead of a warning.
var GenericNoSilencedErrors = lint.RuleDef{
	ID:          "Generic.PHP.NoSilencedErrors",
	Name:        "generic.php.no_silenced_errors",
	Group:       "php",
	Description: "Errors are handled rather than silenced with @.",
	Severity:    lint.SeverityWarning,
	Register:    []token.Kind{token.ASPERAND},
	Check:       checkSilencedErrors,
	Options: map[string]any{
		"error": false,
	},
}

// NoSilencedErrors extends the generic rule to allow
// @trigger_error(..., E_USER_DEPRECATED), the usual way to raise a
// deprecation notice that callers may not have a handler for.
var NoSilencedErrors = lint.RuleDef{
	ID:          "CodingStandard.PHP.NoSilencedErrors",
	Name:        "php.no_silenced_errors",
	Group:       "php",
	Description: "Errors are not silenced, except for deprecation notices.",
	Severity:    lint.SeverityWarning,
	Register:    []token.Kind{token.ASPERAND},
	Extends:     GenericNoSilencedErrors.ID,
	Check:       checkCodingStandardSilencedErrors,
	Options: map[string]any{
		"error": false,
	},
	BadExample:  "$data = @file_get_contents($path);",
	GoodExample: "@trigger_error('Use bar() instead', E_USER_DEPRECATED);",
}

const contextTokens = 4

func checkSilencedErrors(p *lint.Pass) {
	f := p.File
	end := f.FindNext(token.Of(token.SEMICOLON, token.COMMA), p.Ptr+1)
	if end < 0 {
		end = f.Len()
	}
	length := min(contextTokens, end-p.Ptr)
	found := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(f.TokensAsString(p.Ptr, length)) + "..."

	if lint.GetBoolOption(p.Options, "error", false) {
		p.Error(p.Ptr, "Forbidden", "Silencing errors is forbidden; found: %s", found)
		return
	}
	p.Warning(p.Ptr, "Discouraged", "Silencing errors is discouraged; found: %s", found)
}

func checkCodingStandardSilencedErrors(p *lint.Pass) {
	if deprecationNotice(p.File, p.Ptr) {
		return
	}
	p.Parent()
}

// deprecationNotice reports whether the operator at ptr silences a
// trigger_error call whose last argument is E_USER_DEPRECATED.
func deprecationNotice(f *source.File, ptr int) bool {
	name, open := f.Token(ptr+1), f.Token(ptr+2)
	if name.Kind != token.STRING || name.Content != "trigger_error" ||
		open.Kind != token.OPEN_PARENTHESIS || open.ParenCloser == token.NoIndex {
		return false
	}
	last := f.PrevNonEmpty(open.ParenCloser-1, source.Until(ptr+3))
	if last < 0 {
		return false
	}
	tok := f.Token(last)
	return tok.Kind == token.STRING && tok.Content == "E_USER_DEPRECATED"
}
