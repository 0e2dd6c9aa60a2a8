package core

// LintConfig holds rule configuration as it appears in sniff.yaml.
type LintConfig struct {
	// Standard selects the rule prefix to run (default: CodingStandard)
	Standard string `koanf:"standard"`

	// Disabled contains rule IDs, or rule ID + "." + code, to disable
	Disabled []string `koanf:"disabled"`

	// Enabled opts base rules (Generic.*) into dispatch
	Enabled []string `koanf:"enabled"`

	// Severity maps rule ID to severity override (error, warning)
	Severity map[string]string `koanf:"severity"`

	// Rules contains rule-specific options
	Rules map[string]RuleOptions `koanf:"rules"`

	// CustomRules lists Starlark rule files to load
	CustomRules []string `koanf:"custom_rules"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any

// DefaultStandard is the rule prefix run when none is configured.
const DefaultStandard = "CodingStandard"
