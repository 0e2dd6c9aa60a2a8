package lint

import (
	"fmt"
	"maps"
	"strings"

	"github.com/leapstack-labs/sniff/pkg/core"
)

// Config controls which rules are enabled and their severity.
type Config struct {
	// Standard is the rule ID prefix dispatched by default
	Standard string

	// Disabled contains rule IDs, or rule ID + "." + code, to skip
	Disabled map[string]bool

	// Enabled opts base rules into dispatch
	Enabled map[string]bool

	// Only, when non-empty, restricts dispatch to these rule IDs
	Only map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]Severity

	// RuleOptions holds per-rule options, merged over rule defaults
	RuleOptions map[string]map[string]any
}

// NewConfig creates a default configuration running the default standard.
func NewConfig() *Config {
	return &Config{
		Standard:          core.DefaultStandard,
		Disabled:          make(map[string]bool),
		Enabled:           make(map[string]bool),
		Only:              make(map[string]bool),
		SeverityOverrides: make(map[string]Severity),
		RuleOptions:       make(map[string]map[string]any),
	}
}

// FromLintConfig converts the file configuration into a Config.
func FromLintConfig(lc core.LintConfig) (*Config, error) {
	c := NewConfig()
	if lc.Standard != "" {
		c.Standard = lc.Standard
	}
	for _, id := range lc.Disabled {
		c.Disable(id)
	}
	for _, id := range lc.Enabled {
		c.Enable(id)
	}
	for id, s := range lc.Severity {
		sev, ok := core.ParseSeverity(s)
		if !ok {
			return nil, fmt.Errorf("rule %s: invalid severity %q", id, s)
		}
		c.SetSeverity(id, sev)
	}
	for id, opts := range lc.Rules {
		c.SetRuleOptions(id, opts)
	}
	return c, nil
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.Disabled[ruleID]
}

// IsCodeDisabled returns true if the rule, or the single code of it, is disabled.
func (c *Config) IsCodeDisabled(ruleID, code string) bool {
	if c == nil {
		return false
	}
	return c.Disabled[ruleID] || c.Disabled[ruleID+"."+code]
}

// IsEnabled reports whether a registered rule is dispatched.
func (c *Config) IsEnabled(rule RuleDef) bool {
	if c.IsDisabled(rule.ID) {
		return false
	}
	if c != nil && len(c.Only) > 0 {
		return c.Only[rule.ID]
	}
	if c != nil && c.Enabled[rule.ID] {
		return true
	}
	if rule.IsBase() {
		return false
	}
	if rule.Custom {
		return true
	}
	standard := core.DefaultStandard
	if c != nil && c.Standard != "" {
		standard = c.Standard
	}
	return strings.HasPrefix(rule.ID, standard+".")
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID string, defaultSeverity Severity) Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[ruleID]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// GetRuleOptions returns the configured options of a rule merged over defaults.
func (c *Config) GetRuleOptions(ruleID string, defaults map[string]any) map[string]any {
	opts := make(map[string]any, len(defaults))
	maps.Copy(opts, defaults)
	if c != nil {
		maps.Copy(opts, c.RuleOptions[ruleID])
	}
	return opts
}

// Disable disables a rule, or a single code when given "Rule.ID.Code".
func (c *Config) Disable(id string) *Config {
	c.Disabled[id] = true
	return c
}

// Enable opts a rule into dispatch.
func (c *Config) Enable(ruleID string) *Config {
	c.Enabled[ruleID] = true
	return c
}

// Select restricts dispatch to the given rules.
func (c *Config) Select(ruleIDs ...string) *Config {
	for _, id := range ruleIDs {
		c.Only[id] = true
	}
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID string, severity Severity) *Config {
	c.SeverityOverrides[ruleID] = severity
	return c
}

// SetRuleOptions sets options for a rule.
func (c *Config) SetRuleOptions(ruleID string, opts map[string]any) *Config {
	c.RuleOptions[ruleID] = opts
	return c
}
