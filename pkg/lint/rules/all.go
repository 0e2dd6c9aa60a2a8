package rules

// Import all rule subpackages to register them with the global registry.
import (
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules/arrays"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules/classes"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules/codeanalysis"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules/commenting"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules/controlstructures"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules/formatting"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules/functions"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules/namingconventions"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules/php"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules/stringrules"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules/whitespace"
)
