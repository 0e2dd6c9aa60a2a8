package namingconventions

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/internal/scan"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func init() {
	lint.Register(ValidFunctionName)
}

// ValidFunctionName checks method names: double underscores only on magic
// methods, a single underscore exactly on private methods, camel caps
// otherwise. Functions outside a class, interface or trait are not checked.
var ValidFunctionName = lint.RuleDef{
	ID:          "CodingStandard.NamingConventions.ValidFunctionName",
	Name:        "naming.method",
	Group:       "naming",
	Description: "Method names are camel caps, private ones prefixed with an underscore.",
	Severity:    lint.SeverityError,
	Register:    []token.Kind{token.FUNCTION},
	Check:       checkFunctionName,
	Options: map[string]any{
		"exclusions":       map[string]any{},
		"param_exclusions": []any{},
	},
	Rationale:   "Exclusions map a class name pattern to method names that keep their legacy spelling; \"*\" excludes every non-private method.",
	BadExample:  "class Foo\n{\n    private function get_value() {}\n}",
	GoodExample: "class Foo\n{\n    private function _getValue() {}\n}",
}

var magicMethods = map[string]bool{
	"construct":  true,
	"destruct":   true,
	"call":       true,
	"callstatic": true,
	"get":        true,
	"set":        true,
	"isset":      true,
	"unset":      true,
	"sleep":      true,
	"wakeup":     true,
	"tostring":   true,
	"set_state":  true,
	"clone":      true,
	"invoke":     true,
	"debuginfo":  true,
}

type functionNameOptions struct {
	// Exclusions maps a class name regexp to excluded method names.
	Exclusions map[string][]string `option:"exclusions"`

	// ParamExclusions skip methods of matching classes by their signature.
	ParamExclusions []paramExclusion `option:"param_exclusions"`
}

// paramExclusion excludes methods of classes whose name contains Class, whose
// name starts with Prefix and which take the single parameter Param.
type paramExclusion struct {
	Class  string `option:"class"`
	Prefix string `option:"prefix"`
	Param  string `option:"param"`
}

func checkFunctionName(p *lint.Pass) {
	f := p.File
	scope := f.Condition(p.Ptr, token.CLASS, token.INTERFACE, token.TRAIT)
	if scope < 0 {
		return
	}
	name := f.DeclarationName(p.Ptr)
	if name == "" {
		return
	}
	class := f.DeclarationName(scope)
	full := class + "::" + name

	if strings.HasPrefix(name, "__") {
		if !magicMethods[strings.ToLower(name[2:])] {
			p.Error(p.Ptr, "MethodDoubleUnderscore",
				"Method name %q is invalid; only PHP magic methods should be prefixed with a double underscore", full)
		}
		return
	}

	// PHP4 style constructors and destructors
	if name == class || name == "_"+class {
		return
	}

	props := f.MethodProperties(p.Ptr)
	public := props.Scope != "private"
	underscore := strings.HasPrefix(name, "_")

	if !public && !underscore {
		p.Error(p.Ptr, "PrivateNoUnderscore", "Private method name %q must be prefixed with an underscore", full)
		return
	}
	if public && props.ScopeSpecified && underscore {
		p.Error(p.Ptr, "PublicUnderscore", "%s method name %q must not be prefixed with an underscore",
			scan.Title(props.Scope), full)
		return
	}

	test := name
	if !props.ScopeSpecified && underscore {
		test = name[1:]
	}

	var opts functionNameOptions
	if err := lint.DecodeOptions(p.Options, &opts); err != nil {
		opts = functionNameOptions{}
	}
	if opts.excluded(class, name, public) || opts.excludedByParams(class, name, methodParams(f, p.Ptr)) {
		return
	}

	if scan.IsCamelCaps(test, false, public, false) {
		return
	}
	if props.ScopeSpecified {
		p.Error(p.Ptr, "ScopeNotCamelCaps", "%s method name %q is not in camel caps format", scan.Title(props.Scope), full)
	} else {
		p.Error(p.Ptr, "NotCamelCaps", "Method name %q is not in camel caps format", full)
	}
}

func (o functionNameOptions) excluded(class, method string, public bool) bool {
	patterns := make([]string, 0, len(o.Exclusions))
	for pattern := range o.Exclusions {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	for _, pattern := range patterns {
		re := classPattern(pattern)
		if re == nil || !re.MatchString(class) {
			continue
		}
		methods := o.Exclusions[pattern]
		if (len(methods) > 0 && methods[0] == "*" && public) || slices.Contains(methods, method) {
			return true
		}
	}
	return false
}

func (o functionNameOptions) excludedByParams(class, method string, params []string) bool {
	if len(params) != 1 {
		return false
	}
	for _, ex := range o.ParamExclusions {
		if ex.Class == "" || !strings.Contains(class, ex.Class) {
			continue
		}
		if strings.HasPrefix(method, ex.Prefix) && params[0] == ex.Param {
			return true
		}
	}
	return false
}

var classPatterns sync.Map // string -> *regexp.Regexp, nil for invalid patterns

func classPattern(pattern string) *regexp.Regexp {
	if re, ok := classPatterns.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := regexp.Compile(pattern)
	classPatterns.Store(pattern, re)
	return re
}

// methodParams returns the parameter variable names of the function at ptr.
func methodParams(f *source.File, ptr int) []string {
	fn := f.Token(ptr)
	if !fn.HasParens() {
		return nil
	}
	depth := len(f.Token(fn.ParenOpener).NestedParens) + 1

	var out []string
	for i := fn.ParenOpener + 1; i < fn.ParenCloser; i++ {
		tok := f.Token(i)
		if tok.Kind != token.VARIABLE || len(tok.NestedParens) != depth {
			continue
		}
		// default values may reference other variables
		if prev := f.PrevNonEmpty(i - 1); prev >= 0 && f.Token(prev).Kind == token.EQUAL {
			continue
		}
		out = append(out, tok.Content)
	}
	return out
}
