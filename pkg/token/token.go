// Package token defines the token model the rules operate on.
//
// Kind names mirror the PHP tokenizer's T_* names so rule code, configuration
// and Starlark rules can talk about tokens the way style guides do.
package token

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int32

//nolint:revive // ALL_CAPS names follow the T_* token naming convention
const (
	ILLEGAL Kind = iota

	// Markup and tags
	INLINE_HTML
	OPEN_TAG
	OPEN_TAG_WITH_ECHO
	CLOSE_TAG

	// Trivia
	WHITESPACE
	COMMENT
	DOC_COMMENT_OPEN_TAG
	DOC_COMMENT_CLOSE_TAG
	DOC_COMMENT_STAR
	DOC_COMMENT_WHITESPACE
	DOC_COMMENT_STRING
	DOC_COMMENT_TAG

	// Literals and names
	VARIABLE
	STRING // bare identifier
	CONSTANT_ENCAPSED_STRING
	DOUBLE_QUOTED_STRING
	LNUMBER
	DNUMBER

	// Keywords
	ABSTRACT
	ARRAY
	AS
	BREAK
	CASE
	CATCH
	CLASS
	CLONE
	CLOSURE
	CONST
	CONTINUE
	DECLARE
	DEFAULT
	DO
	ECHO
	ELSE
	ELSEIF
	EMPTY
	EXTENDS
	FALSE
	FINAL
	FINALLY
	FOR
	FOREACH
	FUNCTION
	GLOBAL
	IF
	IMPLEMENTS
	INCLUDE
	INSTANCEOF
	INTERFACE
	ISSET
	LOGICAL_AND
	LOGICAL_OR
	LOGICAL_XOR
	NAMESPACE
	NEW
	NULL
	PARENT
	PRINT
	PRIVATE
	PROTECTED
	PUBLIC
	REQUIRE
	RETURN
	SELF
	STATIC
	SWITCH
	THROW
	TRAIT
	TRUE
	TRY
	UNSET
	USE
	VAR
	WHILE
	YIELD

	// Assignment operators
	EQUAL
	PLUS_EQUAL
	MINUS_EQUAL
	MUL_EQUAL
	DIV_EQUAL
	CONCAT_EQUAL
	MOD_EQUAL
	POW_EQUAL
	AND_EQUAL
	OR_EQUAL
	XOR_EQUAL
	SL_EQUAL
	SR_EQUAL
	COALESCE_EQUAL

	// Comparison and logic
	IS_EQUAL
	IS_NOT_EQUAL
	IS_IDENTICAL
	IS_NOT_IDENTICAL
	LESS_THAN
	GREATER_THAN
	IS_SMALLER_OR_EQUAL
	IS_GREATER_OR_EQUAL
	SPACESHIP
	BOOLEAN_AND
	BOOLEAN_OR
	BOOLEAN_NOT
	COALESCE
	INLINE_THEN
	INLINE_ELSE

	// Arithmetic, bitwise and string operators
	PLUS
	MINUS
	MULTIPLY
	DIVIDE
	MODULUS
	POW
	STRING_CONCAT
	BITWISE_AND
	BITWISE_OR
	BITWISE_XOR
	BITWISE_NOT
	SL
	SR
	INC
	DEC
	ASPERAND

	// Punctuation
	OBJECT_OPERATOR
	DOUBLE_COLON
	DOUBLE_ARROW
	NS_SEPARATOR
	COMMA
	SEMICOLON
	COLON
	OPEN_PARENTHESIS
	CLOSE_PARENTHESIS
	OPEN_SQUARE_BRACKET
	CLOSE_SQUARE_BRACKET
	OPEN_SHORT_ARRAY
	CLOSE_SHORT_ARRAY
	OPEN_CURLY_BRACKET
	CLOSE_CURLY_BRACKET

	maxKind
)

// String returns the T_* name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("T_KIND(%d)", k)
}

// Lookup returns the kind for a T_* name.
func Lookup(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, int(maxKind)-1)
	for k := ILLEGAL + 1; k < maxKind; k++ {
		out = append(out, k)
	}
	return out
}

var kindNames = map[Kind]string{
	ILLEGAL:                  "T_ILLEGAL",
	INLINE_HTML:              "T_INLINE_HTML",
	OPEN_TAG:                 "T_OPEN_TAG",
	OPEN_TAG_WITH_ECHO:       "T_OPEN_TAG_WITH_ECHO",
	CLOSE_TAG:                "T_CLOSE_TAG",
	WHITESPACE:               "T_WHITESPACE",
	COMMENT:                  "T_COMMENT",
	DOC_COMMENT_OPEN_TAG:     "T_DOC_COMMENT_OPEN_TAG",
	DOC_COMMENT_CLOSE_TAG:    "T_DOC_COMMENT_CLOSE_TAG",
	DOC_COMMENT_STAR:         "T_DOC_COMMENT_STAR",
	DOC_COMMENT_WHITESPACE:   "T_DOC_COMMENT_WHITESPACE",
	DOC_COMMENT_STRING:       "T_DOC_COMMENT_STRING",
	DOC_COMMENT_TAG:          "T_DOC_COMMENT_TAG",
	VARIABLE:                 "T_VARIABLE",
	STRING:                   "T_STRING",
	CONSTANT_ENCAPSED_STRING: "T_CONSTANT_ENCAPSED_STRING",
	DOUBLE_QUOTED_STRING:     "T_DOUBLE_QUOTED_STRING",
	LNUMBER:                  "T_LNUMBER",
	DNUMBER:                  "T_DNUMBER",
	ABSTRACT:                 "T_ABSTRACT",
	ARRAY:                    "T_ARRAY",
	AS:                       "T_AS",
	BREAK:                    "T_BREAK",
	CASE:                     "T_CASE",
	CATCH:                    "T_CATCH",
	CLASS:                    "T_CLASS",
	CLONE:                    "T_CLONE",
	CLOSURE:                  "T_CLOSURE",
	CONST:                    "T_CONST",
	CONTINUE:                 "T_CONTINUE",
	DECLARE:                  "T_DECLARE",
	DEFAULT:                  "T_DEFAULT",
	DO:                       "T_DO",
	ECHO:                     "T_ECHO",
	ELSE:                     "T_ELSE",
	ELSEIF:                   "T_ELSEIF",
	EMPTY:                    "T_EMPTY",
	EXTENDS:                  "T_EXTENDS",
	FALSE:                    "T_FALSE",
	FINAL:                    "T_FINAL",
	FINALLY:                  "T_FINALLY",
	FOR:                      "T_FOR",
	FOREACH:                  "T_FOREACH",
	FUNCTION:                 "T_FUNCTION",
	GLOBAL:                   "T_GLOBAL",
	IF:                       "T_IF",
	IMPLEMENTS:               "T_IMPLEMENTS",
	INCLUDE:                  "T_INCLUDE",
	INSTANCEOF:               "T_INSTANCEOF",
	INTERFACE:                "T_INTERFACE",
	ISSET:                    "T_ISSET",
	LOGICAL_AND:              "T_LOGICAL_AND",
	LOGICAL_OR:               "T_LOGICAL_OR",
	LOGICAL_XOR:              "T_LOGICAL_XOR",
	NAMESPACE:                "T_NAMESPACE",
	NEW:                      "T_NEW",
	NULL:                     "T_NULL",
	PARENT:                   "T_PARENT",
	PRINT:                    "T_PRINT",
	PRIVATE:                  "T_PRIVATE",
	PROTECTED:                "T_PROTECTED",
	PUBLIC:                   "T_PUBLIC",
	REQUIRE:                  "T_REQUIRE",
	RETURN:                   "T_RETURN",
	SELF:                     "T_SELF",
	STATIC:                   "T_STATIC",
	SWITCH:                   "T_SWITCH",
	THROW:                    "T_THROW",
	TRAIT:                    "T_TRAIT",
	TRUE:                     "T_TRUE",
	TRY:                      "T_TRY",
	UNSET:                    "T_UNSET",
	USE:                      "T_USE",
	VAR:                      "T_VAR",
	WHILE:                    "T_WHILE",
	YIELD:                    "T_YIELD",
	EQUAL:                    "T_EQUAL",
	PLUS_EQUAL:               "T_PLUS_EQUAL",
	MINUS_EQUAL:              "T_MINUS_EQUAL",
	MUL_EQUAL:                "T_MUL_EQUAL",
	DIV_EQUAL:                "T_DIV_EQUAL",
	CONCAT_EQUAL:             "T_CONCAT_EQUAL",
	MOD_EQUAL:                "T_MOD_EQUAL",
	POW_EQUAL:                "T_POW_EQUAL",
	AND_EQUAL:                "T_AND_EQUAL",
	OR_EQUAL:                 "T_OR_EQUAL",
	XOR_EQUAL:                "T_XOR_EQUAL",
	SL_EQUAL:                 "T_SL_EQUAL",
	SR_EQUAL:                 "T_SR_EQUAL",
	COALESCE_EQUAL:           "T_COALESCE_EQUAL",
	IS_EQUAL:                 "T_IS_EQUAL",
	IS_NOT_EQUAL:             "T_IS_NOT_EQUAL",
	IS_IDENTICAL:             "T_IS_IDENTICAL",
	IS_NOT_IDENTICAL:         "T_IS_NOT_IDENTICAL",
	LESS_THAN:                "T_LESS_THAN",
	GREATER_THAN:             "T_GREATER_THAN",
	IS_SMALLER_OR_EQUAL:      "T_IS_SMALLER_OR_EQUAL",
	IS_GREATER_OR_EQUAL:      "T_IS_GREATER_OR_EQUAL",
	SPACESHIP:                "T_SPACESHIP",
	BOOLEAN_AND:              "T_BOOLEAN_AND",
	BOOLEAN_OR:               "T_BOOLEAN_OR",
	BOOLEAN_NOT:              "T_BOOLEAN_NOT",
	COALESCE:                 "T_COALESCE",
	INLINE_THEN:              "T_INLINE_THEN",
	INLINE_ELSE:              "T_INLINE_ELSE",
	PLUS:                     "T_PLUS",
	MINUS:                    "T_MINUS",
	MULTIPLY:                 "T_MULTIPLY",
	DIVIDE:                   "T_DIVIDE",
	MODULUS:                  "T_MODULUS",
	POW:                      "T_POW",
	STRING_CONCAT:            "T_STRING_CONCAT",
	BITWISE_AND:              "T_BITWISE_AND",
	BITWISE_OR:               "T_BITWISE_OR",
	BITWISE_XOR:              "T_BITWISE_XOR",
	BITWISE_NOT:              "T_BITWISE_NOT",
	SL:                       "T_SL",
	SR:                       "T_SR",
	INC:                      "T_INC",
	DEC:                      "T_DEC",
	ASPERAND:                 "T_ASPERAND",
	OBJECT_OPERATOR:          "T_OBJECT_OPERATOR",
	DOUBLE_COLON:             "T_DOUBLE_COLON",
	DOUBLE_ARROW:             "T_DOUBLE_ARROW",
	NS_SEPARATOR:             "T_NS_SEPARATOR",
	COMMA:                    "T_COMMA",
	SEMICOLON:                "T_SEMICOLON",
	COLON:                    "T_COLON",
	OPEN_PARENTHESIS:         "T_OPEN_PARENTHESIS",
	CLOSE_PARENTHESIS:        "T_CLOSE_PARENTHESIS",
	OPEN_SQUARE_BRACKET:      "T_OPEN_SQUARE_BRACKET",
	CLOSE_SQUARE_BRACKET:     "T_CLOSE_SQUARE_BRACKET",
	OPEN_SHORT_ARRAY:         "T_OPEN_SHORT_ARRAY",
	CLOSE_SHORT_ARRAY:        "T_CLOSE_SHORT_ARRAY",
	OPEN_CURLY_BRACKET:       "T_OPEN_CURLY_BRACKET",
	CLOSE_CURLY_BRACKET:      "T_CLOSE_CURLY_BRACKET",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// NoIndex marks an absent token reference.
const NoIndex = -1

// Condition is one enclosing scope of a token, outermost first.
type Condition struct {
	Ptr  int  // index of the scope owner
	Kind Kind // kind of the scope owner
}

// Pair holds the indices of a matched opener and closer.
type Pair struct {
	Opener int
	Closer int
}

// Token is one lexical unit of source text with its structural metadata.
// Index fields hold NoIndex when they do not apply.
type Token struct {
	Kind    Kind
	Content string
	Line    int // 1-based
	Column  int // 1-based
	Offset  int // 0-based byte offset into the source
	Length  int // rune length of Content

	// Level is the number of scopes enclosing the token.
	Level      int
	Conditions []Condition

	ParenOpener int
	ParenCloser int
	ParenOwner  int

	// NestedParens lists the parenthesis pairs enclosing the token, outermost first.
	NestedParens []Pair

	BracketOpener int
	BracketCloser int

	ScopeOpener    int
	ScopeCloser    int
	ScopeCondition int

	CommentOpener int
	CommentCloser int
	CommentTags   []int
}

// New returns a token with every structural index unset.
func New(kind Kind, content string, line, column, offset int) Token {
	return Token{
		Kind:           kind,
		Content:        content,
		Line:           line,
		Column:         column,
		Offset:         offset,
		Length:         len([]rune(content)),
		ParenOpener:    NoIndex,
		ParenCloser:    NoIndex,
		ParenOwner:     NoIndex,
		BracketOpener:  NoIndex,
		BracketCloser:  NoIndex,
		ScopeOpener:    NoIndex,
		ScopeCloser:    NoIndex,
		ScopeCondition: NoIndex,
		CommentOpener:  NoIndex,
		CommentCloser:  NoIndex,
	}
}

// Pos returns the token's start position.
func (t Token) Pos() Position {
	return Position{Line: t.Line, Column: t.Column, Offset: t.Offset}
}

// HasScope reports whether the token owns or delimits a braced scope.
func (t Token) HasScope() bool {
	return t.ScopeOpener != NoIndex && t.ScopeCloser != NoIndex
}

// HasParens reports whether the token owns or delimits a parenthesis pair.
func (t Token) HasParens() bool {
	return t.ParenOpener != NoIndex && t.ParenCloser != NoIndex
}

// Is reports whether the token's kind is one of kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// String returns a debug representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Content, t.Line, t.Column)
}
