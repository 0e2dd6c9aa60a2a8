package starlark

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/leapstack-labs/sniff/internal/testutil"
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/fixer"
	"github.com/leapstack-labs/sniff/pkg/token"
	"github.com/leapstack-labs/sniff/pkg/tokenizer"
)

const noTmp = `
def check(ctx):
    tok = ctx.token
    if tok.content == ctx.options["name"]:
        ctx.error("Found", "Variable %s is too vague" % tok.content, fix = [("replace", ctx.ptr, "$temp")])

rule(
    id = "Acme.Vars.NoTmp",
    description = "Forbids $tmp",
    register = ["T_VARIABLE"],
    options = {"name": "$tmp"},
    fixable = True,
    check = check,
)
`

const assignSpacing = `
def check(ctx):
    f = ctx.file
    nxt = f.next_non_empty(ctx.ptr + 1)
    tok = f.token(nxt)
    if tok == None or tok.content != "=" or f.language != "php":
        return
    if f.token(nxt - 1).kind != "T_WHITESPACE":
        ctx.warning("NoSpace", "Expected a space before =", ptr = nxt)

rule(id = "Acme.Vars.AssignSpacing", register = "VARIABLE", severity = "warning", check = check)
`

func analyze(t *testing.T, defs []lint.RuleDef, src string) ([]lint.Diagnostic, *lint.Analyzer) {
	t.Helper()
	reg := lint.NewRegistry()
	require.NoError(t, Register(reg, defs))
	a, err := lint.NewAnalyzer(nil, lint.WithRegistry(reg), lint.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	f, err := tokenizer.NewFile("a.php", src)
	require.NoError(t, err)
	return a.Analyze(f), a
}

func load(t *testing.T, src string, opts ...Option) []lint.RuleDef {
	t.Helper()
	defs, err := NewLoader(append(opts, WithLogger(testutil.NewTestLogger(t)))...).LoadSource("rules.star", []byte(src))
	require.NoError(t, err)
	return defs
}

func TestLoadSource_Declaration(t *testing.T) {
	defs := load(t, noTmp)
	require.Len(t, defs, 1)

	def := defs[0]
	assert.Equal(t, "Acme.Vars.NoTmp", def.ID)
	assert.Equal(t, "Vars/NoTmp", def.Name)
	assert.Equal(t, "Vars", def.Group)
	assert.Equal(t, "Forbids $tmp", def.Description)
	assert.Equal(t, []token.Kind{token.VARIABLE}, def.Register)
	assert.Equal(t, map[string]any{"name": "$tmp"}, def.Options)
	assert.Equal(t, lint.SeverityError, def.Severity)
	assert.True(t, def.Fixable)
	assert.True(t, def.Custom)
	assert.Nil(t, def.Languages)
}

func TestCustomRule_ReportAndFix(t *testing.T) {
	src := "<?php\n$tmp = 1;\necho $tmp;\n"
	diags, a := analyze(t, load(t, noTmp), src)

	require.Len(t, diags, 2)
	assert.Equal(t, "Acme.Vars.NoTmp.Found", diags[0].Source)
	assert.Equal(t, "Variable $tmp is too vague", diags[0].Message)
	assert.Equal(t, 2, diags[0].Pos.Line)
	assert.Equal(t, 3, diags[1].Pos.Line)
	assert.True(t, diags[0].Fixable())

	res, err := fixer.New(a).Fix(context.Background(), "a.php", src)
	require.NoError(t, err)
	assert.Equal(t, "<?php\n$temp = 1;\necho $temp;\n", res.Fixed)
}

func TestCustomRule_FileHelpers(t *testing.T) {
	diags, _ := analyze(t, load(t, assignSpacing), "<?php\n$a= 1;\n$b = 2;\n")

	require.Len(t, diags, 1)
	assert.Equal(t, lint.SeverityWarning, diags[0].Severity)
	assert.Equal(t, "NoSpace", diags[0].Code)
	assert.Equal(t, 2, diags[0].Pos.Line)
	assert.Equal(t, 3, diags[0].Pos.Column)
}

func TestCustomRule_Failures(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "fail builtin",
			src:  "def check(ctx):\n    fail(\"boom\")\n",
			want: "boom",
		},
		{
			name: "step limit",
			src:  "def check(ctx):\n    for i in range(100000000):\n        pass\n",
			want: "too many steps",
		},
		{
			name: "bad fix",
			src:  "def check(ctx):\n    ctx.error(\"X\", \"x\", fix = [(\"move\", 1)])\n",
			want: "unknown op",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.src + "rule(id = \"Acme.Vars.Broken\", register = [\"T_VARIABLE\"], check = check)\n"
			diags, _ := analyze(t, load(t, src, WithMaxSteps(10_000)), "<?php\n$a = 1;\n")

			require.Len(t, diags, 1)
			assert.Equal(t, InternalCode, diags[0].Code)
			assert.Equal(t, lint.SeverityWarning, diags[0].Severity)
			assert.Contains(t, diags[0].Message, tt.want)
		})
	}
}

func TestLoadSource_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", "def check(ctx)\n"},
		{"bad id", `rule(id = "NoTmp", register = ["T_VARIABLE"], check = print)`},
		{"unknown kind", `rule(id = "Acme.Vars.X", register = ["T_NOPE"], check = print)`},
		{"no kinds", `rule(id = "Acme.Vars.X", register = [], check = print)`},
		{"missing check", `rule(id = "Acme.Vars.X", register = ["T_VARIABLE"])`},
		{"bad severity", `rule(id = "Acme.Vars.X", register = ["T_VARIABLE"], check = print, severity = "fatal")`},
		{"bad language", `rule(id = "Acme.Vars.X", register = ["T_VARIABLE"], check = print, languages = ["go"])`},
		{"declared twice", "rule(id = \"Acme.Vars.X\", register = [\"T_VARIABLE\"], check = print)\n" +
			"rule(id = \"Acme.Vars.X\", register = [\"T_VARIABLE\"], check = print)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().LoadSource("rules.star", []byte(tt.src))
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, "rules.star", le.File)
		})
	}
}

func TestLoad_Files(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.star")
	b := filepath.Join(dir, "b.star")
	require.NoError(t, os.WriteFile(a, []byte(noTmp), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(assignSpacing), 0o644))

	defs, err := NewLoader().Load([]string{a, b})
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "Acme.Vars.NoTmp", defs[0].ID)
	assert.Equal(t, "Acme.Vars.AssignSpacing", defs[1].ID)

	_, err = NewLoader().Load([]string{filepath.Join(dir, "missing.star")})
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRegister_Duplicate(t *testing.T) {
	reg := lint.NewRegistry()
	defs := load(t, noTmp)
	require.NoError(t, Register(reg, defs))
	require.ErrorIs(t, Register(reg, defs), ErrDuplicateRule)
	assert.Equal(t, 1, reg.Count())
}

func TestParseEdits(t *testing.T) {
	edit := func(vals ...starlark.Value) starlark.Value { return starlark.Tuple(vals) }
	s := func(v string) starlark.Value { return starlark.String(v) }
	n := starlark.MakeInt

	got, err := parseEdits(starlark.NewList([]starlark.Value{
		edit(s("replace"), n(1), s("x")),
		edit(s("delete"), n(2)),
		edit(s("insert_before"), n(3), s("(")),
		edit(s("insert_after"), n(4), s(")")),
	}))
	require.NoError(t, err)
	assert.Equal(t, []lint.Edit{
		{Op: lint.Replace, Index: 1, Text: "x"},
		{Op: lint.Delete, Index: 2},
		{Op: lint.InsertBefore, Index: 3, Text: "("},
		{Op: lint.InsertAfter, Index: 4, Text: ")"},
	}, got)

	got, err = parseEdits(starlark.None)
	require.NoError(t, err)
	assert.Empty(t, got)

	bad := []starlark.Value{
		s("replace"),
		starlark.NewList([]starlark.Value{edit(s("replace"), n(1))}),
		starlark.NewList([]starlark.Value{edit(s("delete"), n(1), s("x"))}),
		starlark.NewList([]starlark.Value{edit(n(1), n(1))}),
		starlark.NewList([]starlark.Value{edit(s("replace"), s("1"), s("x"))}),
	}
	for _, v := range bad {
		_, err := parseEdits(v)
		assert.Error(t, err, v.String())
	}
}

func TestThreadPool(t *testing.T) {
	p := NewThreadPool(1, 0, nil)
	a := p.Get("a")
	b := p.Get("b")
	assert.NotSame(t, a, b)
	assert.Equal(t, "a", a.Name)

	p.Put(a)
	p.Put(b)
	assert.Equal(t, 1, p.Size())
	assert.Same(t, a, p.Get("c"))
	assert.Zero(t, p.Size())
}

func TestConvert(t *testing.T) {
	v, err := GoToStarlark(map[string]any{"list": []any{"a", 1, true}, "n": nil})
	require.NoError(t, err)

	back, err := ToGo(v)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"list": []any{"a", int64(1), true}, "n": nil}, back)

	_, err = GoToStarlark(struct{}{})
	assert.Error(t, err)
	_, err = ToGo(starlark.NewSet(0))
	assert.Error(t, err)
}
