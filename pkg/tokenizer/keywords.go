package tokenizer

import (
	"strings"

	"github.com/leapstack-labs/sniff/pkg/token"
)

// phpKeywords maps lowercase PHP keywords to their kinds. PHP keywords are
// case-insensitive.
var phpKeywords = map[string]token.Kind{
	"abstract":     token.ABSTRACT,
	"and":          token.LOGICAL_AND,
	"array":        token.ARRAY,
	"as":           token.AS,
	"break":        token.BREAK,
	"case":         token.CASE,
	"catch":        token.CATCH,
	"class":        token.CLASS,
	"clone":        token.CLONE,
	"const":        token.CONST,
	"continue":     token.CONTINUE,
	"declare":      token.DECLARE,
	"default":      token.DEFAULT,
	"do":           token.DO,
	"echo":         token.ECHO,
	"else":         token.ELSE,
	"elseif":       token.ELSEIF,
	"empty":        token.EMPTY,
	"extends":      token.EXTENDS,
	"false":        token.FALSE,
	"final":        token.FINAL,
	"finally":      token.FINALLY,
	"for":          token.FOR,
	"foreach":      token.FOREACH,
	"function":     token.FUNCTION,
	"global":       token.GLOBAL,
	"if":           token.IF,
	"implements":   token.IMPLEMENTS,
	"include":      token.INCLUDE,
	"include_once": token.INCLUDE,
	"instanceof":   token.INSTANCEOF,
	"interface":    token.INTERFACE,
	"isset":        token.ISSET,
	"namespace":    token.NAMESPACE,
	"new":          token.NEW,
	"null":         token.NULL,
	"or":           token.LOGICAL_OR,
	"parent":       token.PARENT,
	"print":        token.PRINT,
	"private":      token.PRIVATE,
	"protected":    token.PROTECTED,
	"public":       token.PUBLIC,
	"require":      token.REQUIRE,
	"require_once": token.REQUIRE,
	"return":       token.RETURN,
	"self":         token.SELF,
	"static":       token.STATIC,
	"switch":       token.SWITCH,
	"throw":        token.THROW,
	"trait":        token.TRAIT,
	"true":         token.TRUE,
	"try":          token.TRY,
	"unset":        token.UNSET,
	"use":          token.USE,
	"var":          token.VAR,
	"while":        token.WHILE,
	"xor":          token.LOGICAL_XOR,
	"yield":        token.YIELD,
}

// jsKeywords maps the JavaScript keywords rules care about. Case-sensitive.
var jsKeywords = map[string]token.Kind{
	"break":    token.BREAK,
	"case":     token.CASE,
	"catch":    token.CATCH,
	"continue": token.CONTINUE,
	"default":  token.DEFAULT,
	"do":       token.DO,
	"else":     token.ELSE,
	"false":    token.FALSE,
	"finally":  token.FINALLY,
	"for":      token.FOR,
	"function": token.FUNCTION,
	"if":       token.IF,
	"new":      token.NEW,
	"null":     token.NULL,
	"return":   token.RETURN,
	"switch":   token.SWITCH,
	"throw":    token.THROW,
	"true":     token.TRUE,
	"try":      token.TRY,
	"var":      token.VAR,
	"while":    token.WHILE,
}

// lookupIdent returns the keyword kind of word, or token.STRING.
func lookupIdent(word string, lang token.Language) token.Kind {
	if lang == token.JS {
		if k, ok := jsKeywords[word]; ok {
			return k
		}
		return token.STRING
	}
	if k, ok := phpKeywords[strings.ToLower(word)]; ok {
		return k
	}
	return token.STRING
}

type operator struct {
	text string
	kind token.Kind
}

// phpOperators is ordered longest first so the first prefix match wins.
var phpOperators = []operator{
	{"<=>", token.SPACESHIP},
	{"**=", token.POW_EQUAL},
	{"===", token.IS_IDENTICAL},
	{"!==", token.IS_NOT_IDENTICAL},
	{"<<=", token.SL_EQUAL},
	{">>=", token.SR_EQUAL},
	{"??=", token.COALESCE_EQUAL},
	{"==", token.IS_EQUAL},
	{"!=", token.IS_NOT_EQUAL},
	{"<>", token.IS_NOT_EQUAL},
	{"<=", token.IS_SMALLER_OR_EQUAL},
	{">=", token.IS_GREATER_OR_EQUAL},
	{"&&", token.BOOLEAN_AND},
	{"||", token.BOOLEAN_OR},
	{"??", token.COALESCE},
	{"++", token.INC},
	{"--", token.DEC},
	{"->", token.OBJECT_OPERATOR},
	{"::", token.DOUBLE_COLON},
	{"=>", token.DOUBLE_ARROW},
	{"+=", token.PLUS_EQUAL},
	{"-=", token.MINUS_EQUAL},
	{"*=", token.MUL_EQUAL},
	{"/=", token.DIV_EQUAL},
	{".=", token.CONCAT_EQUAL},
	{"%=", token.MOD_EQUAL},
	{"&=", token.AND_EQUAL},
	{"|=", token.OR_EQUAL},
	{"^=", token.XOR_EQUAL},
	{"<<", token.SL},
	{">>", token.SR},
	{"**", token.POW},
	{"=", token.EQUAL},
	{"<", token.LESS_THAN},
	{">", token.GREATER_THAN},
	{"!", token.BOOLEAN_NOT},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"*", token.MULTIPLY},
	{"/", token.DIVIDE},
	{"%", token.MODULUS},
	{".", token.STRING_CONCAT},
	{"&", token.BITWISE_AND},
	{"|", token.BITWISE_OR},
	{"^", token.BITWISE_XOR},
	{"~", token.BITWISE_NOT},
	{"@", token.ASPERAND},
	{"?", token.INLINE_THEN},
	{":", token.COLON},
	{"\\", token.NS_SEPARATOR},
	{",", token.COMMA},
	{";", token.SEMICOLON},
	{"(", token.OPEN_PARENTHESIS},
	{")", token.CLOSE_PARENTHESIS},
	{"[", token.OPEN_SQUARE_BRACKET},
	{"]", token.CLOSE_SQUARE_BRACKET},
	{"{", token.OPEN_CURLY_BRACKET},
	{"}", token.CLOSE_CURLY_BRACKET},
}

// jsOperators differs from PHP where the languages disagree: "." is member
// access and "+" concatenates.
var jsOperators = func() []operator {
	out := make([]operator, 0, len(phpOperators))
	for _, op := range phpOperators {
		switch op.text {
		case "->", "::", ".=", "<>", "\\":
			continue
		case ".":
			op.kind = token.OBJECT_OPERATOR
		}
		out = append(out, op)
	}
	return out
}()
