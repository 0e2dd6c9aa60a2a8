package token

// Set is an unordered collection of kinds used by search primitives.
type Set map[Kind]struct{}

// Of builds a set from kinds.
func Of(kinds ...Kind) Set {
	s := make(Set, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is in the set.
func (s Set) Has(k Kind) bool {
	_, ok := s[k]
	return ok
}

// With returns a new set holding the kinds of s plus kinds.
func (s Set) With(kinds ...Kind) Set {
	out := make(Set, len(s)+len(kinds))
	for k := range s {
		out[k] = struct{}{}
	}
	for _, k := range kinds {
		out[k] = struct{}{}
	}
	return out
}

// Union returns a new set holding the kinds of every set.
func Union(sets ...Set) Set {
	out := make(Set)
	for _, s := range sets {
		for k := range s {
			out[k] = struct{}{}
		}
	}
	return out
}

// Predefined sets, named after the groups style rules reason about.
var (
	// Comments are the kinds that make up inline and doc comments.
	Comments = Of(
		COMMENT,
		DOC_COMMENT_OPEN_TAG,
		DOC_COMMENT_CLOSE_TAG,
		DOC_COMMENT_STAR,
		DOC_COMMENT_WHITESPACE,
		DOC_COMMENT_STRING,
		DOC_COMMENT_TAG,
	)

	// Empty are the kinds with no semantic weight.
	Empty = Comments.With(WHITESPACE)

	// Assignment operators, including the array item arrow.
	Assignment = Of(
		EQUAL,
		PLUS_EQUAL,
		MINUS_EQUAL,
		MUL_EQUAL,
		DIV_EQUAL,
		CONCAT_EQUAL,
		MOD_EQUAL,
		POW_EQUAL,
		AND_EQUAL,
		OR_EQUAL,
		XOR_EQUAL,
		SL_EQUAL,
		SR_EQUAL,
		COALESCE_EQUAL,
		DOUBLE_ARROW,
	)

	Equality = Of(
		IS_EQUAL,
		IS_NOT_EQUAL,
		IS_IDENTICAL,
		IS_NOT_IDENTICAL,
		IS_SMALLER_OR_EQUAL,
		IS_GREATER_OR_EQUAL,
	)

	Boolean = Of(
		BOOLEAN_AND,
		BOOLEAN_OR,
		LOGICAL_AND,
		LOGICAL_OR,
		LOGICAL_XOR,
	)

	ScopeModifiers = Of(PUBLIC, PRIVATE, PROTECTED)

	MethodPrefixes = ScopeModifiers.With(ABSTRACT, STATIC, FINAL)

	Strings = Of(CONSTANT_ENCAPSED_STRING, DOUBLE_QUOTED_STRING)

	// OOScopes are the declarations whose bodies hold members.
	OOScopes = Of(CLASS, INTERFACE, TRAIT)

	// Functions are the kinds that open a function body.
	Functions = Of(FUNCTION, CLOSURE)

	// Brackets are every opening and closing delimiter.
	Brackets = Of(
		OPEN_PARENTHESIS,
		CLOSE_PARENTHESIS,
		OPEN_SQUARE_BRACKET,
		CLOSE_SQUARE_BRACKET,
		OPEN_SHORT_ARRAY,
		CLOSE_SHORT_ARRAY,
		OPEN_CURLY_BRACKET,
		CLOSE_CURLY_BRACKET,
	)
)
