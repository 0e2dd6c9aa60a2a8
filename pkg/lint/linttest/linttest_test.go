package linttest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/token"
)

func TestParseExpect(t *testing.T) {
	errs, warns, err := parseExpect("# comment\n3 error\n3 error\n\n5 warning 2\n7 error 3\n")
	require.NoError(t, err)
	assert.Equal(t, map[int]int{3: 2, 7: 3}, errs)
	assert.Equal(t, map[int]int{5: 2}, warns)

	for _, bad := range []string{"3\n", "x error\n", "3 fatal\n", "3 error x\n", "1 2 3 4\n"} {
		_, _, err := parseExpect(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty_array.txtar")
	data := `options:
  indent: 2
disabled: [NoLastComma]
-- code.js --
var a = 1;
-- expect --
1 warning
-- fixed --
var a = 2;
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	tc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "empty_array", tc.Name)
	assert.Equal(t, "code.js", tc.Path)
	assert.Equal(t, "var a = 1;\n", tc.Source)
	assert.Equal(t, "var a = 2;\n", tc.Fixed)
	assert.Equal(t, map[string]any{"indent": 2}, tc.Options)
	assert.Equal(t, []string{"NoLastComma"}, tc.Disabled)
	assert.Empty(t, tc.Errors)
	assert.Equal(t, map[int]int{1: 1}, tc.Warnings)

	missing := filepath.Join(dir, "missing.txtar")
	require.NoError(t, os.WriteFile(missing, []byte("-- test.php --\n<?php\n"), 0o644))
	_, err = Load(missing)
	assert.Error(t, err)
}

func TestCounts(t *testing.T) {
	errs, warns := Counts([]lint.Diagnostic{
		{Severity: lint.SeverityError, Pos: token.Position{Line: 2}},
		{Severity: lint.SeverityError, Pos: token.Position{Line: 2}},
		{Severity: lint.SeverityWarning, Pos: token.Position{Line: 4}},
	})
	assert.Equal(t, map[int]int{2: 2}, errs)
	assert.Equal(t, map[int]int{4: 1}, warns)
}
