package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sniff/internal/config"
	"github.com/leapstack-labs/sniff/internal/testutil"
	"github.com/leapstack-labs/sniff/pkg/lint"
)

const commaRule = "CodingStandard.WhiteSpace.CommaSpacing"

const (
	dirtySrc = "<?php\nfoo($a,$b);\n"
	cleanSrc = "<?php\nfoo($a, $b);\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func settings(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(dir, "", nil)
	require.NoError(t, err)
	return cfg
}

func newEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = testutil.NewTestLogger(t)
	}
	e, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestNew_Errors(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)

	cfg := settings(t, t.TempDir())
	_, err = New(context.Background(), Config{Settings: cfg, Select: []string{"CodingStandard.Nope.Nope"}})
	require.ErrorIs(t, err, lint.ErrUnknownRule)

	cfg.Lint.CustomRules = []string{filepath.Join(t.TempDir(), "missing.star")}
	_, err = New(context.Background(), Config{Settings: cfg})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestEngine_Check(t *testing.T) {
	dir := t.TempDir()
	dirty := writeFile(t, dir, "dirty.php", dirtySrc)
	clean := writeFile(t, dir, "clean.php", cleanSrc)
	broken := writeFile(t, dir, "broken.php", "<?php\n/* open")

	e := newEngine(t, Config{Settings: settings(t, dir), Select: []string{commaRule}})
	assert.Equal(t, []string{commaRule}, e.Rules())

	results, err := e.Check(context.Background(), []string{dirty, clean, broken})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, dirty, results[0].Path)
	require.Len(t, results[0].Diagnostics, 1)
	assert.Equal(t, 2, results[0].Diagnostics[0].Pos.Line)
	assert.Empty(t, results[1].Diagnostics)
	assert.Error(t, results[2].Err)

	assert.Equal(t, Summary{Files: 3, Errors: 1, Fixable: 1, Failed: 1}, Summarize(results))
}

func TestEngine_CheckDisable(t *testing.T) {
	dir := t.TempDir()
	dirty := writeFile(t, dir, "dirty.php", dirtySrc)

	e := newEngine(t, Config{
		Settings: settings(t, dir),
		Select:   []string{commaRule},
		Disable:  []string{commaRule + ".After"},
	})
	results, err := e.Check(context.Background(), []string{dirty})
	require.NoError(t, err)
	assert.Empty(t, results[0].Diagnostics)
}

func TestEngine_CheckCache(t *testing.T) {
	dir := t.TempDir()
	dirty := writeFile(t, dir, "dirty.php", dirtySrc)

	cfg := settings(t, dir)
	cfg.Cache.Enabled = true
	cfg.Cache.Path = filepath.Join(dir, ".sniff", "cache.db")

	first := newEngine(t, Config{Settings: cfg, Select: []string{commaRule}, Version: "test"})
	require.NotNil(t, first.Cache())
	results, err := first.Check(context.Background(), []string{dirty})
	require.NoError(t, err)
	assert.False(t, results[0].Cached)
	want := results[0].Diagnostics
	require.NoError(t, first.Close())

	second := newEngine(t, Config{Settings: cfg, Select: []string{commaRule}, Version: "test"})
	results, err = second.Check(context.Background(), []string{dirty})
	require.NoError(t, err)
	assert.True(t, results[0].Cached)
	assert.Equal(t, want, results[0].Diagnostics)

	run, err := second.Cache().LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, run.Files)
	assert.Equal(t, 1, run.Hits)

	// a different version invalidates stored results
	third := newEngine(t, Config{Settings: cfg, Select: []string{commaRule}, Version: "next"})
	assert.NotEqual(t, second.ConfigHash(), third.ConfigHash())
	results, err = third.Check(context.Background(), []string{dirty})
	require.NoError(t, err)
	assert.False(t, results[0].Cached)
}

func TestEngine_Fix(t *testing.T) {
	dir := t.TempDir()
	dirty := writeFile(t, dir, "dirty.php", dirtySrc)
	clean := writeFile(t, dir, "clean.php", cleanSrc)

	e := newEngine(t, Config{Settings: settings(t, dir), Select: []string{commaRule}})

	results, err := e.Fix(context.Background(), []string{dirty, clean}, false)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	assert.True(t, results[0].Result.Changed())
	assert.Equal(t, cleanSrc, results[0].Result.Fixed)
	assert.False(t, results[1].Result.Changed())

	data, err := os.ReadFile(dirty)
	require.NoError(t, err)
	assert.Equal(t, dirtySrc, string(data), "dry run must not write")

	_, err = e.Fix(context.Background(), []string{dirty}, true)
	require.NoError(t, err)
	data, err = os.ReadFile(dirty)
	require.NoError(t, err)
	assert.Equal(t, cleanSrc, string(data))
}

func TestEngine_FixCanceled(t *testing.T) {
	dir := t.TempDir()
	dirty := writeFile(t, dir, "dirty.php", dirtySrc)
	e := newEngine(t, Config{Settings: settings(t, dir), Select: []string{commaRule}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Fix(ctx, []string{dirty}, true)
	require.ErrorIs(t, err, context.Canceled)

	data, err := os.ReadFile(dirty)
	require.NoError(t, err)
	assert.Equal(t, dirtySrc, string(data))
}

const noTmpRule = `
def check(ctx):
    if ctx.token.content == "$tmp":
        ctx.error("Found", "Variable $tmp is too vague", fix = [("replace", ctx.ptr, "$temp")])

rule(id = "Acme.Vars.NoTmp", register = ["T_VARIABLE"], fixable = True, check = check)
`

func TestEngine_CustomRules(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules/acme.star", noTmpRule)
	path := writeFile(t, dir, "a.php", "<?php\n$tmp = 1;\n")

	cfg := settings(t, dir)
	cfg.Lint.CustomRules = []string{rules}
	e := newEngine(t, Config{Settings: cfg, Select: []string{"Acme.Vars.NoTmp"}})

	_, ok := e.Registry().GetByID("Acme.Vars.NoTmp")
	assert.True(t, ok)
	_, ok = lint.GetByID("Acme.Vars.NoTmp")
	assert.False(t, ok, "custom rules must not leak into the global registry")

	diags, err := e.Lint(path, "<?php\n$tmp = 1;\n")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "Acme.Vars.NoTmp.Found", diags[0].Source)

	res, err := e.FixSource(context.Background(), path, "<?php\n$tmp = 1;\n")
	require.NoError(t, err)
	assert.Equal(t, "<?php\n$temp = 1;\n", res.Fixed)
}
