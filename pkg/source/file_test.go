package source_test

import (
	"testing"

	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
	"github.com/leapstack-labs/sniff/pkg/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const classSrc = `<?php
namespace App;

abstract class Foo extends Bar
{
    public static $a, $b = array(1, 2);
    var $c;

    final protected static function baz($x)
    {
        if ($x) {
            return $x;
        }
    }
}
`

func load(t *testing.T, src string, opts ...source.Option) *source.File {
	t.Helper()
	f, err := tokenizer.NewFile("test.php", src, opts...)
	require.NoError(t, err)
	return f
}

func find(t *testing.T, f *source.File, kind token.Kind, content string) int {
	t.Helper()
	ptr := f.FindNext(token.Of(kind), 0, source.WithValue(content))
	require.GreaterOrEqual(t, ptr, 0, "no %s %q", kind, content)
	return ptr
}

func TestFile_Basics(t *testing.T) {
	f := load(t, "<?php\r\n$a = 1;\r\n")

	assert.Equal(t, "test.php", f.Path())
	assert.Equal(t, token.PHP, f.Language())
	assert.Equal(t, "\r\n", f.EOL())
	assert.Equal(t, "<?php\r\n$a = 1;\r\n", f.Content())
	assert.True(t, f.Valid(0))
	assert.False(t, f.Valid(f.Len()))

	// Out-of-range lookups are safe
	assert.Equal(t, token.ILLEGAL, f.Token(-1).Kind)
	assert.Equal(t, token.NoIndex, f.Token(f.Len()).ScopeOpener)

	assert.Equal(t, "$a = 1", f.TokensAsString(1, 5))
}

func TestFile_FindNext(t *testing.T) {
	f := load(t, "<?php\n$a = foo($b, $c);\n$d = 1;\n")

	eq := find(t, f, token.EQUAL, "=")

	tests := []struct {
		name  string
		kinds token.Set
		start int
		opts  []source.SearchOption
		want  string
	}{
		{"first variable after equal", token.Of(token.VARIABLE), eq, nil, "$b"},
		{"with value", token.Of(token.VARIABLE), eq, []source.SearchOption{source.WithValue("$c")}, "$c"},
		{"excluding whitespace", token.Of(token.WHITESPACE), eq + 1, []source.SearchOption{source.Excluding()}, "foo"},
		{"bounded", token.Of(token.VARIABLE), eq, []source.SearchOption{source.Until(eq + 2)}, ""},
		{"local stops at semicolon", token.Of(token.VARIABLE), eq, []source.SearchOption{source.WithValue("$d"), source.Local()}, ""},
		{"not local crosses statements", token.Of(token.VARIABLE), eq, []source.SearchOption{source.WithValue("$d")}, "$d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.FindNext(tt.kinds, tt.start, tt.opts...)
			if tt.want == "" {
				assert.Equal(t, -1, got)
				return
			}
			require.GreaterOrEqual(t, got, 0)
			assert.Equal(t, tt.want, f.Token(got).Content)
		})
	}
}

func TestFile_FindPrevious(t *testing.T) {
	f := load(t, "<?php\n$a = 1;\n$b = foo($c) + 2;\n")

	two := find(t, f, token.LNUMBER, "2")

	prev := f.FindPrevious(token.Of(token.VARIABLE), two)
	assert.Equal(t, "$c", f.Token(prev).Content)

	// A local scan jumps over the call's parentheses and stops at the semicolon
	prev = f.FindPrevious(token.Of(token.VARIABLE), two, source.Local())
	assert.Equal(t, "$b", f.Token(prev).Content)
	assert.Equal(t, -1, f.FindPrevious(token.Of(token.VARIABLE), two, source.Local(), source.WithValue("$a")))

	// Bounded scans examine the end index
	b := find(t, f, token.VARIABLE, "$b")
	assert.Equal(t, b, f.FindPrevious(token.Of(token.VARIABLE), two, source.Until(b), source.WithValue("$b")))
	assert.Equal(t, -1, f.FindPrevious(token.Of(token.VARIABLE), two, source.Until(b+1), source.WithValue("$b")))

	assert.Equal(t, "+", f.Token(f.PrevNonEmpty(two-1)).Content)
	assert.Equal(t, " ", f.Token(f.PrevNonWhitespace(two-1)+1).Content)
	assert.Equal(t, ";", f.Token(f.NextNonEmpty(two+1)).Content)
	assert.Equal(t, ";", f.Token(f.NextNonWhitespace(two+1)).Content)
}

func TestFile_Lines(t *testing.T) {
	f := load(t, "<?php\nif ($a) {\n\t  return 1;\n}\n", source.WithTabWidth(4))

	ret := find(t, f, token.RETURN, "return")
	first := f.FirstOnLine(ret)
	assert.Equal(t, token.WHITESPACE, f.Token(first).Kind)
	assert.Equal(t, 6, f.LineIndent(ret))
	assert.Equal(t, 4, f.TabWidth())
	assert.Equal(t, 8, f.Width("\t\t"))

	one := find(t, f, token.LNUMBER, "1")
	assert.Equal(t, ret, f.StatementStart(one))
}

func TestFile_Declarations(t *testing.T) {
	f := load(t, classSrc)

	class := find(t, f, token.CLASS, "class")
	fn := find(t, f, token.FUNCTION, "function")
	ret := find(t, f, token.RETURN, "return")

	assert.Equal(t, "Foo", f.DeclarationName(class))
	assert.Equal(t, "baz", f.DeclarationName(fn))
	assert.Equal(t, "", f.DeclarationName(ret))

	assert.True(t, f.HasCondition(ret, token.FUNCTION))
	assert.True(t, f.HasCondition(ret, token.CLASS, token.TRAIT))
	assert.False(t, f.HasCondition(ret, token.SWITCH))
	assert.Equal(t, class, f.Condition(ret, token.CLASS))

	last, ok := f.LastCondition(ret)
	require.True(t, ok)
	assert.Equal(t, token.IF, last.Kind)

	assert.Equal(t, source.ClassProperties{IsAbstract: true}, f.ClassProperties(class))
	assert.Equal(t, source.MethodProperties{
		Scope:          "protected",
		ScopeSpecified: true,
		IsFinal:        true,
		IsStatic:       true,
	}, f.MethodProperties(fn))
}

func TestFile_MemberProperties(t *testing.T) {
	f := load(t, classSrc)

	tests := []struct {
		variable string
		want     source.MemberProperties
		ok       bool
	}{
		{"$a", source.MemberProperties{Scope: "public", ScopeSpecified: true, IsStatic: true}, true},
		{"$b", source.MemberProperties{Scope: "public", ScopeSpecified: true, IsStatic: true}, true},
		{"$c", source.MemberProperties{Scope: "public", UsesVar: true}, true},
		{"$x", source.MemberProperties{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.variable, func(t *testing.T) {
			ptr := find(t, f, token.VARIABLE, tt.variable)
			got, ok := f.MemberProperties(ptr)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
