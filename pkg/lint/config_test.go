package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sniff/pkg/core"
	"github.com/leapstack-labs/sniff/pkg/lint"
)

func TestFromLintConfig(t *testing.T) {
	cfg, err := lint.FromLintConfig(core.LintConfig{
		Disabled: []string{"CodingStandard.Arrays.Array.NoLastComma", "CodingStandard.Classes.ClassNamespace"},
		Enabled:  []string{"Generic.PHP.NoSilencedErrors"},
		Severity: map[string]string{"CodingStandard.Formatting.SpaceOperator": "Warning"},
		Rules: map[string]core.RuleOptions{
			"CodingStandard.Formatting.NamespaceDeclaration": {"empty_line_count": 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, core.DefaultStandard, cfg.Standard)
	assert.True(t, cfg.IsDisabled("CodingStandard.Classes.ClassNamespace"))
	assert.False(t, cfg.IsDisabled("CodingStandard.Arrays.Array"))
	assert.True(t, cfg.IsCodeDisabled("CodingStandard.Arrays.Array", "NoLastComma"))
	assert.False(t, cfg.IsCodeDisabled("CodingStandard.Arrays.Array", "LastComma"))
	assert.True(t, cfg.IsCodeDisabled("CodingStandard.Classes.ClassNamespace", "MissingNamespace"))
	assert.True(t, cfg.Enabled["Generic.PHP.NoSilencedErrors"])
	assert.Equal(t, lint.SeverityWarning, cfg.GetSeverity("CodingStandard.Formatting.SpaceOperator", lint.SeverityError))
	assert.Equal(t, lint.SeverityError, cfg.GetSeverity("CodingStandard.Arrays.Array", lint.SeverityError))

	opts := cfg.GetRuleOptions("CodingStandard.Formatting.NamespaceDeclaration", map[string]any{"empty_line_count": 2, "x": true})
	assert.Equal(t, map[string]any{"empty_line_count": 1, "x": true}, opts)
}

func TestFromLintConfig_InvalidSeverity(t *testing.T) {
	_, err := lint.FromLintConfig(core.LintConfig{
		Severity: map[string]string{"CodingStandard.Arrays.Array": "fatal"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fatal")
}

func TestConfig_IsEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  *lint.Config
		rule lint.RuleDef
		want bool
	}{
		{"standard rule", lint.NewConfig(), lint.RuleDef{ID: "CodingStandard.Arrays.Array"}, true},
		{"base rule", lint.NewConfig(), lint.RuleDef{ID: "Generic.PHP.NoSilencedErrors"}, false},
		{"enabled base rule", lint.NewConfig().Enable("Generic.PHP.NoSilencedErrors"), lint.RuleDef{ID: "Generic.PHP.NoSilencedErrors"}, true},
		{"custom rule", lint.NewConfig(), lint.RuleDef{ID: "Acme.Custom.NoEval", Custom: true}, true},
		{"foreign standard", lint.NewConfig(), lint.RuleDef{ID: "Acme.Arrays.Array"}, false},
		{"disabled", lint.NewConfig().Disable("CodingStandard.Arrays.Array"), lint.RuleDef{ID: "CodingStandard.Arrays.Array"}, false},
		{"nil config", nil, lint.RuleDef{ID: "CodingStandard.Arrays.Array"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.IsEnabled(tt.rule))
		})
	}
}
