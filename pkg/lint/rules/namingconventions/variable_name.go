package namingconventions

import (
	"regexp"
	"slices"
	"strings"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(ValidVariableName)
}

// ValidVariableName checks variable names. Local variables are snake caps;
// properties, static references and object members are camel caps, with a
// leading underscore exactly on private properties.
var ValidVariableName = lint.RuleDef{
	ID:          "CodingStandard.NamingConventions.ValidVariableName",
	Name:        "naming.variable",
	Group:       "naming",
	Description: "Local variables use snake caps; members use camel caps.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.VARIABLE, token.DOUBLE_QUOTED_STRING},
	Check:       checkVariableName,
	Options: map[string]any{
		"member_exceptions": []string{},
	},
	Rationale:   "Member exceptions list legacy member names accepted as camel caps.",
	BadExample:  "$userName = 1;\n$this->user_name = $userName;",
	GoodExample: "$user_name = 1;\n$this->userName = $user_name;",
}

var reservedVars = []string{
	"_SERVER",
	"_GET",
	"_POST",
	"_REQUEST",
	"_SESSION",
	"_ENV",
	"_COOKIE",
	"_FILES",
	"GLOBALS",
	"http_response_header",
	"HTTP_RAW_POST_DATA",
	"php_errormsg",
}

var embeddedVar = regexp.MustCompile(`[^\\]\$\{?([a-zA-Z_\x{80}-\x{10FFFF}][a-zA-Z0-9_\x{80}-\x{10FFFF}]*)`)

type variableNames struct {
	exceptions []string
}

func (v variableNames) camelCaps(name string, public bool) bool {
	if slices.Contains(v.exceptions, name) {
		return true
	}
	return scan.IsCamelCaps(name, false, public, false)
}

func snakeCaps(name string) bool {
	return strings.ToLower(name) == name
}

func checkVariableName(p *lint.Pass) {
	v := variableNames{exceptions: lint.GetStringSliceOption(p.Options, "member_exceptions", nil)}
	if p.File.Token(p.Ptr).Kind == token.DOUBLE_QUOTED_STRING {
		v.checkString(p)
		return
	}
	if props, ok := p.File.MemberProperties(p.Ptr); ok {
		v.checkMember(p, props.Scope)
		return
	}
	v.checkVariable(p)
}

func (v variableNames) checkVariable(p *lint.Pass) {
	f := p.File
	name := strings.TrimLeft(f.Token(p.Ptr).Content, "$")
	if name == "" || slices.Contains(reservedVars, name) {
		return
	}

	if op := f.NextNonWhitespace(p.Ptr + 1); op >= 0 && f.Token(op).Kind == token.OBJECT_OPERATOR {
		member := f.NextNonWhitespace(op + 1)
		if member >= 0 && f.Token(member).Kind == token.STRING {
			bracket := f.NextNonWhitespace(member + 1)
			if bracket < 0 || f.Token(bracket).Kind != token.OPEN_PARENTHESIS {
				// visibility is unknown here, so a leading underscore is allowed
				memberName := f.Token(member).Content
				if !v.camelCaps(strings.TrimPrefix(memberName, "_"), true) {
					p.Error(member, "MemberNotCamelCaps", "Member variable %q is not in valid camel caps format", memberName)
				}
			}
		}
	}

	static := false
	if prev := f.PrevNonWhitespace(p.Ptr - 1); prev >= 0 && f.Token(prev).Kind == token.DOUBLE_COLON {
		static = true
	}

	if static {
		if !v.camelCaps(strings.TrimPrefix(name, "_"), true) {
			p.Error(p.Ptr, "NotCamelCaps", "Variable %q is not in valid camel caps format", name)
		}
		return
	}
	if !snakeCaps(name) {
		p.Error(p.Ptr, "NotSnakeCaps", "Variable %q is not in valid snake caps format", name)
	}
}

func (v variableNames) checkMember(p *lint.Pass, scope string) {
	name := strings.TrimLeft(p.File.Token(p.Ptr).Content, "$")
	public := scope != "private"
	underscore := strings.HasPrefix(name, "_")

	switch {
	case public && underscore:
		p.Error(p.Ptr, "PublicHasUnderscore", "%s member variable %q must not contain a leading underscore",
			scan.Title(scope), name)
		return
	case !public && !underscore:
		p.Error(p.Ptr, "PrivateNoUnderscore", "Private member variable %q must contain a leading underscore", name)
		return
	}

	if !v.camelCaps(name, public) {
		p.Error(p.Ptr, "MemberNotCamelCaps", "%s member variable %q is not in valid camel caps format",
			scan.Title(scope), name)
	}
}

func (v variableNames) checkString(p *lint.Pass) {
	f := p.File
	inClass := f.HasCondition(p.Ptr, token.CLASS, token.INTERFACE, token.TRAIT)
	for _, m := range embeddedVar.FindAllStringSubmatch(f.Token(p.Ptr).Content, -1) {
		name := m[1]
		if slices.Contains(reservedVars, name) {
			continue
		}
		if inClass {
			if !v.camelCaps(strings.TrimPrefix(name, "_"), true) {
				p.Error(p.Ptr, "StringNotCamelCaps", "Variable in string %q is not in valid camel caps format", name)
			}
			continue
		}
		if !snakeCaps(name) {
			p.Error(p.Ptr, "StringNotSnakeCaps", "Variable in string %q is not in valid snake caps format", name)
		}
	}
}
