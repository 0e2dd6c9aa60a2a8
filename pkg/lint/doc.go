// Package lint provides the token-dispatch rule engine.
//
// # Architecture
//
// A rule registers the token kinds it cares about and a check function. The
// Analyzer walks a source.File in token order and hands each token to every
// enabled rule registered for its kind. Rules inspect neighbouring tokens
// through the File's search primitives and report through the Pass:
//
//  1. Error / Warning record a violation with a rule-scoped code
//  2. FixableError / FixableWarning additionally return a FixBuilder whose
//     edits form one changeset (a Fix)
//
// Rules never modify the file. Fixes are applied by the fixer package, which
// reduces the emitted edits and re-analyzes until nothing fixable remains.
//
// # Rule Registration
//
// Rules are automatically registered via init() functions when their packages are imported:
//
//	import _ "github.com/leapstack-labs/sniff/pkg/lint/rules"
//
// Rule IDs have the form Standard.Group.Name. Rules of the configured standard
// (CodingStandard by default) run unless disabled. Shared base rules live
// under "Generic." and only run when enabled; standard rules extend them
// through RuleDef.Extends and call Pass.Parent to run the base check.
//
// # Using the Registry
//
//	rules := lint.GetAll()
//	rule, ok := lint.GetByID("CodingStandard.Arrays.Array")
//	groupRules := lint.GetByGroup("WhiteSpace")
//	jsRules := lint.GetByLanguage(token.JS)
//
// # Configuration
//
// Use Config to control which rules are enabled and their severity:
//
//	config := lint.NewConfig()
//	config.Disable("CodingStandard.Arrays.Array.NoLastComma")
//	config.SetSeverity("CodingStandard.Formatting.SpaceOperator", lint.SeverityWarning)
//	config.SetRuleOptions("CodingStandard.Commenting.InlineComment", map[string]any{"allowed_closers": ".!?:"})
//
//	analyzer, err := lint.NewAnalyzer(config)
//	diags := analyzer.Analyze(file)
//
// # Creating Custom Rules
//
//	var MyRule = lint.RuleDef{
//		ID:          "CodingStandard.Custom.NoEval",
//		Name:        "NoEval",
//		Group:       "Custom",
//		Description: "eval() is forbidden.",
//		Severity:    lint.SeverityError,
//		Register:    []token.Kind{token.STRING},
//		Check:       checkNoEval,
//	}
//
//	func init() {
//		lint.Register(MyRule)
//	}
package lint
