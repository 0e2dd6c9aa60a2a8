package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sniff/internal/testutil"
	"github.com/leapstack-labs/sniff/pkg/core"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFrom(dir, "", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultExtensions, cfg.Extensions)
	assert.Equal(t, core.DefaultStandard, cfg.Lint.Standard)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, filepath.Join(cfg.Root, DefaultCachePath), cfg.Cache.Path)
}

func TestLoadFrom_File(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
output: json
jobs: 4
cache:
  enabled: true
  path: tmp/results.db
lint:
  disabled:
    - CodingStandard.Arrays.Array.NoComma
  severity:
    CodingStandard.PHP.NoSilencedErrors: error
  rules:
    CodingStandard.Arrays.Array:
      indent: 2
  custom_rules:
    - rules/no_eval.star
`)

	sub := filepath.Join(dir, "src", "lib")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	cfg, err := LoadFrom(sub, "", nil)
	require.NoError(t, err)

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.File)
	assert.Equal(t, filepath.Dir(abs), cfg.Root)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 4, cfg.Jobs)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, filepath.Join(cfg.Root, "tmp", "results.db"), cfg.Cache.Path)

	assert.Equal(t, []string{"CodingStandard.Arrays.Array.NoComma"}, cfg.Lint.Disabled)
	assert.Equal(t, "error", cfg.Lint.Severity["CodingStandard.PHP.NoSilencedErrors"])
	require.Contains(t, cfg.Lint.Rules, "CodingStandard.Arrays.Array")
	assert.EqualValues(t, 2, cfg.Lint.Rules["CodingStandard.Arrays.Array"]["indent"])
	assert.Equal(t, []string{filepath.Join(cfg.Root, "rules", "no_eval.star")}, cfg.Lint.CustomRules)
}

func TestLoadFrom_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "output: text\njobs: 2\n")

	t.Setenv("SNIFF_OUTPUT", "markdown")
	t.Setenv("SNIFF_CACHE__ENABLED", "true")

	cfg, err := LoadFrom(dir, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Equal(t, 2, cfg.Jobs)
	assert.True(t, cfg.Cache.Enabled)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "auto", "")
	flags.Int("jobs", 0, "")
	flags.Bool("cache", false, "")
	flags.StringSlice("rule", nil, "")
	require.NoError(t, flags.Parse([]string{"--output=json", "--rule=CodingStandard.PHP.NoSilencedErrors"}))

	cfg, err = LoadFrom(dir, "", flags)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 2, cfg.Jobs, "unset flags keep lower layers")
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadFrom_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	path := filepath.Join(other, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("verbose: true\n"), 0o644))

	cfg, err := LoadFrom(dir, path, nil)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, other, cfg.Root)

	_, err = LoadFrom(dir, filepath.Join(other, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown output", "output: xml\n"},
		{"negative jobs", "jobs: -1\n"},
		{"negative tab width", "tab_width: -2\n"},
		{"bad severity", "lint:\n  severity:\n    CodingStandard.PHP.NoSilencedErrors: fatal\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.body)
			_, err := LoadFrom(dir, "", nil)
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestFindUpward(t *testing.T) {
	dir := t.TempDir()
	deep := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	assert.Empty(t, FindUpward(deep))

	alt := filepath.Join(dir, "a", FileNameAlt)
	require.NoError(t, os.WriteFile(alt, []byte("{}\n"), 0o644))
	assert.Equal(t, alt, FindUpward(deep))
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	l := testutil.NewTestLogger(t)
	assert.Same(t, l, GetLogger(WithLogger(context.Background(), l)))
}

func TestFromContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	cfg := &Config{Jobs: 2}
	assert.Same(t, cfg, FromContext(WithConfig(context.Background(), cfg)))
}
