package tokenizer

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/sniff/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindsOf(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func indexOf(t *testing.T, tokens []token.Token, kind token.Kind, nth int) int {
	t.Helper()
	for i, tok := range tokens {
		if tok.Kind == kind {
			if nth == 0 {
				return i
			}
			nth--
		}
	}
	t.Fatalf("no %s token found", kind)
	return -1
}

func TestTokenize_RoundTrip(t *testing.T) {
	inputs := []string{
		"<?php\n$a = array(1, 2);\n",
		"<html>\n<?php echo $x; ?>\n</html>\n",
		"<?php\n/**\n * Doc.\n *\n * @param int $a\n */\nfunction foo($a) {\n    return $a ? 1 : 2;\n}\n",
		"<?php\n/* multi\n   line */\n# hash\n$s = \"a $b c\" . 'd';\n",
		"<?php\r\n$a = 1;\r\n",
		"<?php\n$x = <<<EOT\nhello $name\nEOT;\n",
	}

	for _, src := range inputs {
		tokens, err := Tokenize(src, token.PHP)
		require.NoError(t, err, src)

		var b strings.Builder
		for _, tok := range tokens {
			b.WriteString(tok.Content)
		}
		assert.Equal(t, src, b.String())
	}
}

func TestTokenize_Kinds(t *testing.T) {
	tokens, err := Tokenize("<?php\n$a = array(1, 2);\n", token.PHP)
	require.NoError(t, err)

	assert.Equal(t, []token.Kind{
		token.OPEN_TAG,
		token.VARIABLE,
		token.WHITESPACE,
		token.EQUAL,
		token.WHITESPACE,
		token.ARRAY,
		token.OPEN_PARENTHESIS,
		token.LNUMBER,
		token.COMMA,
		token.WHITESPACE,
		token.LNUMBER,
		token.CLOSE_PARENTHESIS,
		token.SEMICOLON,
		token.WHITESPACE,
	}, kindsOf(tokens))

	assert.Equal(t, "<?php\n", tokens[0].Content)
	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, 1, tokens[1].Column)
	assert.Equal(t, 6, tokens[5].Column)

	// array owns its parentheses
	assert.Equal(t, 6, tokens[5].ParenOpener)
	assert.Equal(t, 11, tokens[5].ParenCloser)
	assert.Equal(t, 5, tokens[6].ParenOwner)
	assert.Equal(t, []token.Pair{{Opener: 6, Closer: 11}}, tokens[7].NestedParens)
	assert.Empty(t, tokens[6].NestedParens)
}

func TestTokenize_WhitespaceNeverSpansLines(t *testing.T) {
	tokens, err := Tokenize("<?php\n\n\n  return;\n", token.PHP)
	require.NoError(t, err)

	assert.Equal(t, []token.Kind{
		token.OPEN_TAG,
		token.WHITESPACE,
		token.WHITESPACE,
		token.WHITESPACE,
		token.RETURN,
		token.SEMICOLON,
		token.WHITESPACE,
	}, kindsOf(tokens))
	assert.Equal(t, "\n", tokens[1].Content)
	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, "  ", tokens[3].Content)
	assert.Equal(t, 4, tokens[4].Line)
}

func TestTokenize_LineCommentKeepsNewline(t *testing.T) {
	tokens, err := Tokenize("<?php\n// Hi\n$a;", token.PHP)
	require.NoError(t, err)

	assert.Equal(t, token.COMMENT, tokens[1].Kind)
	assert.Equal(t, "// Hi\n", tokens[1].Content)
	assert.Equal(t, token.VARIABLE, tokens[2].Kind)
	assert.Equal(t, 3, tokens[2].Line)
}

func TestTokenize_BlockCommentSplitPerLine(t *testing.T) {
	tokens, err := Tokenize("<?php\n/* one\n   two */\n", token.PHP)
	require.NoError(t, err)

	assert.Equal(t, token.COMMENT, tokens[1].Kind)
	assert.Equal(t, "/* one\n", tokens[1].Content)
	assert.Equal(t, token.COMMENT, tokens[2].Kind)
	assert.Equal(t, "   two */", tokens[2].Content)
}

func TestTokenize_Scopes(t *testing.T) {
	src := "<?php\nclass Foo\n{\n    public function bar()\n    {\n        return 1;\n    }\n}\n"
	tokens, err := Tokenize(src, token.PHP)
	require.NoError(t, err)

	class := indexOf(t, tokens, token.CLASS, 0)
	function := indexOf(t, tokens, token.FUNCTION, 0)
	ret := indexOf(t, tokens, token.RETURN, 0)

	classOpen := indexOf(t, tokens, token.OPEN_CURLY_BRACKET, 0)
	fnOpen := indexOf(t, tokens, token.OPEN_CURLY_BRACKET, 1)

	assert.Equal(t, classOpen, tokens[class].ScopeOpener)
	assert.Equal(t, class, tokens[classOpen].ScopeCondition)
	assert.Equal(t, fnOpen, tokens[function].ScopeOpener)

	assert.Equal(t, []token.Condition{
		{Ptr: class, Kind: token.CLASS},
		{Ptr: function, Kind: token.FUNCTION},
	}, tokens[ret].Conditions)
	assert.Equal(t, 2, tokens[ret].Level)

	// Scope delimiters take the conditions outside them
	assert.Len(t, tokens[fnOpen].Conditions, 1)
	assert.Len(t, tokens[tokens[fnOpen].ScopeCloser].Conditions, 1)

	// The method name is a plain string
	name := function + 2
	assert.Equal(t, token.STRING, tokens[name].Kind)
	assert.Equal(t, "bar", tokens[name].Content)
	assert.Equal(t, function, tokens[name+1].ParenOwner)
}

func TestTokenize_ControlStructures(t *testing.T) {
	src := "<?php\nif ($a) {\n} else if ($b) {\n} else {\n}\ndo {\n} while ($c);\n"
	tokens, err := Tokenize(src, token.PHP)
	require.NoError(t, err)

	ifPtr := indexOf(t, tokens, token.IF, 0)
	elsePtr := indexOf(t, tokens, token.ELSE, 0)
	lastElse := indexOf(t, tokens, token.ELSE, 1)
	whilePtr := indexOf(t, tokens, token.WHILE, 0)
	doPtr := indexOf(t, tokens, token.DO, 0)

	assert.True(t, tokens[ifPtr].HasScope())
	assert.False(t, tokens[elsePtr].HasScope(), "else if has no scope of its own")
	assert.True(t, tokens[lastElse].HasScope())
	assert.True(t, tokens[doPtr].HasScope())
	assert.False(t, tokens[whilePtr].HasScope(), "do-while condition has no body")
	assert.True(t, tokens[whilePtr].HasParens())
}

func TestTokenize_CaseScopes(t *testing.T) {
	src := "<?php\nswitch ($a) {\ncase 1:\n    foo();\n    break;\ndefault:\n    bar();\n}\n"
	tokens, err := Tokenize(src, token.PHP)
	require.NoError(t, err)

	casePtr := indexOf(t, tokens, token.CASE, 0)
	colon := indexOf(t, tokens, token.COLON, 0)
	brk := indexOf(t, tokens, token.BREAK, 0)
	def := indexOf(t, tokens, token.DEFAULT, 0)

	assert.Equal(t, colon, tokens[casePtr].ScopeOpener)
	assert.Equal(t, brk, tokens[casePtr].ScopeCloser)
	assert.Equal(t, casePtr, tokens[brk].ScopeCondition)
	assert.Equal(t, casePtr, tokens[colon].ScopeCondition)

	// Default without a break only knows its opener
	assert.NotEqual(t, token.NoIndex, tokens[def].ScopeOpener)
	assert.Equal(t, token.NoIndex, tokens[def].ScopeCloser)

	call := indexOf(t, tokens, token.STRING, 0)
	last := tokens[call].Conditions[len(tokens[call].Conditions)-1]
	assert.Equal(t, token.CASE, last.Kind)
}

func TestTokenize_RefinedKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{
			name: "closure",
			src:  "<?php $f = function () {};",
			want: []token.Kind{token.CLOSURE},
		},
		{
			name: "ternary",
			src:  "<?php $a ? 1 : 2;",
			want: []token.Kind{token.INLINE_THEN, token.INLINE_ELSE},
		},
		{
			name: "short array and index",
			src:  "<?php $a = [1]; $a[0];",
			want: []token.Kind{token.OPEN_SHORT_ARRAY, token.CLOSE_SHORT_ARRAY, token.OPEN_SQUARE_BRACKET, token.CLOSE_SQUARE_BRACKET},
		},
		{
			name: "keyword as member",
			src:  "<?php $a->class; Foo::new();",
			want: []token.Kind{token.OBJECT_OPERATOR, token.STRING, token.STRING, token.DOUBLE_COLON, token.STRING},
		},
	}

	interesting := token.Of(
		token.CLOSURE, token.FUNCTION, token.INLINE_THEN, token.INLINE_ELSE, token.COLON,
		token.OPEN_SHORT_ARRAY, token.CLOSE_SHORT_ARRAY, token.OPEN_SQUARE_BRACKET,
		token.CLOSE_SQUARE_BRACKET, token.OBJECT_OPERATOR, token.DOUBLE_COLON, token.STRING,
		token.CLASS, token.NEW,
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.src, token.PHP)
			require.NoError(t, err)

			var got []token.Kind
			for _, tok := range tokens {
				if interesting.Has(tok.Kind) {
					got = append(got, tok.Kind)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_DocComment(t *testing.T) {
	src := "<?php\n/**\n * Short.\n *\n * @return int\n */\n"
	tokens, err := Tokenize(src, token.PHP)
	require.NoError(t, err)

	open := indexOf(t, tokens, token.DOC_COMMENT_OPEN_TAG, 0)
	closer := indexOf(t, tokens, token.DOC_COMMENT_CLOSE_TAG, 0)
	tag := indexOf(t, tokens, token.DOC_COMMENT_TAG, 0)
	str := indexOf(t, tokens, token.DOC_COMMENT_STRING, 0)

	assert.Equal(t, closer, tokens[open].CommentCloser)
	assert.Equal(t, open, tokens[closer].CommentOpener)
	assert.Equal(t, []int{tag}, tokens[open].CommentTags)
	assert.Equal(t, "@return", tokens[tag].Content)
	assert.Equal(t, "Short.", tokens[str].Content)
	assert.Equal(t, token.DOC_COMMENT_STAR, tokens[str-2].Kind)
}

func TestTokenize_DocCommentNeedsWhitespace(t *testing.T) {
	tokens, err := Tokenize("<?php\n/**@var Foo $foo*/\n/** @var Foo $foo */\n", token.PHP)
	require.NoError(t, err)

	c := indexOf(t, tokens, token.COMMENT, 0)
	assert.Equal(t, "/**@var Foo $foo*/", tokens[c].Content)

	open := indexOf(t, tokens, token.DOC_COMMENT_OPEN_TAG, 0)
	assert.Equal(t, 3, tokens[open].Line)
	assert.Equal(t, token.DOC_COMMENT_STRING, tokens[open+4].Kind)
	assert.Equal(t, "Foo $foo", tokens[open+4].Content)
}

func TestTokenize_Strings(t *testing.T) {
	tokens, err := Tokenize(`<?php 'a' "b" "c $d" "{$e}";`, token.PHP)
	require.NoError(t, err)

	var got []token.Kind
	for _, tok := range tokens {
		if token.Strings.Has(tok.Kind) {
			got = append(got, tok.Kind)
		}
	}
	assert.Equal(t, []token.Kind{
		token.CONSTANT_ENCAPSED_STRING,
		token.CONSTANT_ENCAPSED_STRING,
		token.DOUBLE_QUOTED_STRING,
		token.DOUBLE_QUOTED_STRING,
	}, got)
}

func TestTokenize_Unterminated(t *testing.T) {
	for _, src := range []string{"<?php 'abc", "<?php /* abc", "<?php /** abc"} {
		_, err := Tokenize(src, token.PHP)
		require.Error(t, err, src)
		assert.ErrorIs(t, err, ErrUnterminated)

		var lexErr *LexError
		require.ErrorAs(t, err, &lexErr)
		assert.Equal(t, 1, lexErr.Pos.Line)
	}
}

func TestTokenize_JavaScript(t *testing.T) {
	tokens, err := Tokenize("var a = b.c;\nreturn a;\n", token.JS)
	require.NoError(t, err)

	assert.Equal(t, token.VAR, tokens[0].Kind)
	dot := indexOf(t, tokens, token.OBJECT_OPERATOR, 0)
	assert.Equal(t, ".", tokens[dot].Content)
	assert.Equal(t, 2, tokens[indexOf(t, tokens, token.RETURN, 0)].Line)
	assert.NotContains(t, kindsOf(tokens), token.INLINE_HTML)
}

func TestNewFile(t *testing.T) {
	f, err := NewFile("app.js", "var a;\n")
	require.NoError(t, err)
	assert.Equal(t, token.JS, f.Language())

	f, err = NewFile("legacy.inc", "<?php\n$a;\n")
	require.NoError(t, err)
	assert.Equal(t, token.PHP, f.Language())

	_, err = NewFile("bad.php", "<?php 'oops")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnterminated)
	assert.Contains(t, err.Error(), "bad.php")

	assert.True(t, Supported("x.PHP"))
	assert.False(t, Supported("x.go"))
}
