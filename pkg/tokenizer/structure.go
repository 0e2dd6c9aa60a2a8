package tokenizer

import "github.com/leapstack-labs/sniff/pkg/token"

// parenOwners are the kinds that own the parenthesis pair following them.
var parenOwners = token.Of(
	token.IF,
	token.ELSEIF,
	token.WHILE,
	token.FOR,
	token.FOREACH,
	token.SWITCH,
	token.CATCH,
	token.FUNCTION,
	token.CLOSURE,
	token.ARRAY,
	token.DECLARE,
)

// declarationScopes own a brace body that may follow a signature of any length.
var declarationScopes = token.Of(
	token.CLASS,
	token.INTERFACE,
	token.TRAIT,
	token.FUNCTION,
	token.CLOSURE,
	token.NAMESPACE,
)

// blockScopes own a brace body that must directly follow the keyword or its
// parenthesis pair.
var blockScopes = token.Of(
	token.IF,
	token.ELSEIF,
	token.ELSE,
	token.WHILE,
	token.FOR,
	token.FOREACH,
	token.SWITCH,
	token.DO,
	token.TRY,
	token.CATCH,
	token.FINALLY,
	token.DECLARE,
)

// caseClosers end the body of a case or default label.
var caseClosers = token.Of(token.BREAK, token.RETURN, token.CONTINUE, token.THROW)

// resolve fills in the structural metadata of a freshly lexed token stream.
// Passes run in dependency order: kinds are refined first because owner and
// scope detection depend on them.
func resolve(tokens []token.Token, lang token.Language) {
	refineKinds(tokens, lang)
	matchParens(tokens)
	matchBrackets(tokens)
	mapScopes(tokens)
	mapConditions(tokens)
}

func nextNonEmpty(tokens []token.Token, from int) int {
	for i := from; i < len(tokens); i++ {
		if !token.Empty.Has(tokens[i].Kind) {
			return i
		}
	}
	return token.NoIndex
}

func prevNonEmpty(tokens []token.Token, from int) int {
	for i := from; i >= 0; i-- {
		if !token.Empty.Has(tokens[i].Kind) {
			return i
		}
	}
	return token.NoIndex
}

// refineKinds resolves kinds that depend on context: closures, keywords used
// as member names, short arrays and the else branch of ternaries.
func refineKinds(tokens []token.Token, _ token.Language) {
	// Pending ternaries per bracket depth; a colon closes the innermost one.
	ternaries := []int{0}
	var squares []int

	for i := range tokens {
		tok := &tokens[i]
		prev := prevNonEmpty(tokens, i-1)

		if prev != token.NoIndex && tokens[prev].Is(token.OBJECT_OPERATOR, token.DOUBLE_COLON, token.FUNCTION) &&
			tok.Kind != token.STRING && tok.Kind != token.VARIABLE && isWord(tok.Content) {
			tok.Kind = token.STRING
		}

		switch tok.Kind {
		case token.FUNCTION:
			next := nextNonEmpty(tokens, i+1)
			if next != token.NoIndex && tokens[next].Kind == token.BITWISE_AND {
				next = nextNonEmpty(tokens, next+1)
			}
			if next != token.NoIndex && tokens[next].Content == "(" {
				tok.Kind = token.CLOSURE
			}
		case token.OPEN_SQUARE_BRACKET:
			if prev == token.NoIndex || !tokens[prev].Is(
				token.VARIABLE, token.STRING, token.CLOSE_PARENTHESIS, token.CLOSE_SQUARE_BRACKET,
				token.CLOSE_SHORT_ARRAY, token.CLOSE_CURLY_BRACKET, token.CONSTANT_ENCAPSED_STRING,
				token.DOUBLE_QUOTED_STRING, token.SELF, token.STATIC, token.PARENT,
			) {
				tok.Kind = token.OPEN_SHORT_ARRAY
			}
			squares = append(squares, i)
			ternaries = append(ternaries, 0)
		case token.CLOSE_SQUARE_BRACKET:
			if n := len(squares); n > 0 {
				if tokens[squares[n-1]].Kind == token.OPEN_SHORT_ARRAY {
					tok.Kind = token.CLOSE_SHORT_ARRAY
				}
				squares = squares[:n-1]
			}
			if len(ternaries) > 1 {
				ternaries = ternaries[:len(ternaries)-1]
			}
		case token.OPEN_PARENTHESIS:
			ternaries = append(ternaries, 0)
		case token.CLOSE_PARENTHESIS:
			if len(ternaries) > 1 {
				ternaries = ternaries[:len(ternaries)-1]
			}
		case token.INLINE_THEN:
			ternaries[len(ternaries)-1]++
		case token.COLON:
			if top := len(ternaries) - 1; ternaries[top] > 0 {
				ternaries[top]--
				tok.Kind = token.INLINE_ELSE
			}
		case token.SEMICOLON, token.OPEN_CURLY_BRACKET, token.CLOSE_CURLY_BRACKET:
			ternaries[len(ternaries)-1] = 0
		}
	}
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentChar(s[i], token.PHP) {
			return false
		}
	}
	return true
}

// matchParens pairs parentheses, assigns owners and records, for every token,
// the parenthesis pairs that enclose it.
func matchParens(tokens []token.Token) {
	var stack []int
	// Snapshots are shared between tokens; a new slice is built on every push
	// and pop so earlier snapshots never change.
	var nested []token.Pair

	for i := range tokens {
		switch tokens[i].Kind {
		case token.OPEN_PARENTHESIS:
			tokens[i].NestedParens = nested
			stack = append(stack, i)
			closer := findParenCloser(tokens, i)
			next := make([]token.Pair, len(nested), len(nested)+1)
			copy(next, nested)
			nested = append(next, token.Pair{Opener: i, Closer: closer})
			continue
		case token.CLOSE_PARENTHESIS:
			if n := len(stack); n > 0 {
				opener := stack[n-1]
				stack = stack[:n-1]
				nested = nested[: len(nested)-1 : len(nested)-1]

				tokens[opener].ParenOpener = opener
				tokens[opener].ParenCloser = i
				tokens[i].ParenOpener = opener
				tokens[i].ParenCloser = i

				if owner := parenOwnerOf(tokens, opener); owner != token.NoIndex {
					for _, idx := range []int{owner, opener, i} {
						tokens[idx].ParenOwner = owner
					}
					tokens[owner].ParenOpener = opener
					tokens[owner].ParenCloser = i
				}
			}
		}
		tokens[i].NestedParens = nested
	}
}

// findParenCloser scans ahead for the parenthesis closing the one at opener.
func findParenCloser(tokens []token.Token, opener int) int {
	depth := 0
	for i := opener; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case token.OPEN_PARENTHESIS:
			depth++
		case token.CLOSE_PARENTHESIS:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return token.NoIndex
}

func parenOwnerOf(tokens []token.Token, opener int) int {
	prev := prevNonEmpty(tokens, opener-1)
	if prev == token.NoIndex {
		return token.NoIndex
	}
	if parenOwners.Has(tokens[prev].Kind) {
		return prev
	}
	// function name(...) and function &name(...)
	if tokens[prev].Kind == token.STRING {
		before := prevNonEmpty(tokens, prev-1)
		if before != token.NoIndex && tokens[before].Kind == token.BITWISE_AND {
			before = prevNonEmpty(tokens, before-1)
		}
		if before != token.NoIndex && tokens[before].Kind == token.FUNCTION {
			return before
		}
	}
	return token.NoIndex
}

// matchBrackets pairs square, short array and curly brackets.
func matchBrackets(tokens []token.Token) {
	var stack []int
	for i := range tokens {
		switch tokens[i].Kind {
		case token.OPEN_SQUARE_BRACKET, token.OPEN_SHORT_ARRAY, token.OPEN_CURLY_BRACKET:
			stack = append(stack, i)
		case token.CLOSE_SQUARE_BRACKET, token.CLOSE_SHORT_ARRAY, token.CLOSE_CURLY_BRACKET:
			if n := len(stack); n > 0 {
				opener := stack[n-1]
				stack = stack[:n-1]
				tokens[opener].BracketOpener = opener
				tokens[opener].BracketCloser = i
				tokens[i].BracketOpener = opener
				tokens[i].BracketCloser = i
			}
		}
	}
}

// mapScopes links scope owners to the braces, or case labels, delimiting
// their bodies.
func mapScopes(tokens []token.Token) {
	for i := range tokens {
		kind := tokens[i].Kind
		switch {
		case kind == token.CASE || kind == token.DEFAULT:
			mapCaseScope(tokens, i)
			continue
		case !declarationScopes.Has(kind) && !blockScopes.Has(kind):
			continue
		}

		from := i + 1
		if tokens[i].ParenCloser != token.NoIndex && tokens[i].ParenOwner == i {
			from = tokens[i].ParenCloser + 1
		}

		opener := token.NoIndex
		if declarationScopes.Has(kind) {
			for j := from; j < len(tokens); j++ {
				if tokens[j].Kind == token.OPEN_CURLY_BRACKET {
					opener = j
					break
				}
				if tokens[j].Is(token.SEMICOLON, token.CLOSE_CURLY_BRACKET) {
					break
				}
			}
		} else if next := nextNonEmpty(tokens, from); next != token.NoIndex && tokens[next].Kind == token.OPEN_CURLY_BRACKET {
			opener = next
		}

		if opener == token.NoIndex || tokens[opener].BracketCloser == token.NoIndex {
			continue
		}
		closer := tokens[opener].BracketCloser
		for _, idx := range []int{i, opener, closer} {
			tokens[idx].ScopeOpener = opener
			tokens[idx].ScopeCloser = closer
			tokens[idx].ScopeCondition = i
		}
	}
}

// mapCaseScope links a case or default label to its colon and, when present,
// the statement that ends the case body.
func mapCaseScope(tokens []token.Token, label int) {
	opener := token.NoIndex
	for j := label + 1; j < len(tokens); j++ {
		if tokens[j].Is(token.COLON, token.SEMICOLON) && len(tokens[j].NestedParens) == len(tokens[label].NestedParens) {
			opener = j
			break
		}
		if tokens[j].Is(token.OPEN_CURLY_BRACKET, token.CLOSE_CURLY_BRACKET) {
			return
		}
	}
	if opener == token.NoIndex {
		return
	}

	closer := token.NoIndex
	for j := opener + 1; j < len(tokens); j++ {
		tok := tokens[j]
		if tok.Kind == token.OPEN_CURLY_BRACKET && tok.BracketCloser != token.NoIndex {
			j = tok.BracketCloser
			continue
		}
		if tok.Is(token.CASE, token.DEFAULT, token.CLOSE_CURLY_BRACKET) {
			break
		}
		if caseClosers.Has(tok.Kind) {
			closer = j
			break
		}
	}

	tokens[label].ScopeOpener = opener
	tokens[label].ScopeCondition = label
	tokens[opener].ScopeOpener = opener
	tokens[opener].ScopeCondition = label
	if closer == token.NoIndex {
		return
	}
	tokens[label].ScopeCloser = closer
	tokens[opener].ScopeCloser = closer
	if tokens[closer].ScopeCondition == token.NoIndex {
		tokens[closer].ScopeOpener = opener
		tokens[closer].ScopeCloser = closer
		tokens[closer].ScopeCondition = label
	}
}

// mapConditions records, for every token, the scopes strictly enclosing it.
func mapConditions(tokens []token.Token) {
	type open struct {
		cond   token.Condition
		closer int
	}
	var stack []open
	var conds []token.Condition

	for i := range tokens {
		popped := false
		for len(stack) > 0 && stack[len(stack)-1].closer == i {
			stack = stack[:len(stack)-1]
			popped = true
		}
		if popped {
			conds = make([]token.Condition, len(stack))
			for j, o := range stack {
				conds[j] = o.cond
			}
		}

		tokens[i].Conditions = conds
		tokens[i].Level = len(conds)

		tok := tokens[i]
		owner := tok.ScopeCondition
		if owner == token.NoIndex || tok.ScopeOpener != i || owner == i || tok.ScopeCloser == token.NoIndex {
			continue
		}
		stack = append(stack, open{
			cond:   token.Condition{Ptr: owner, Kind: tokens[owner].Kind},
			closer: tok.ScopeCloser,
		})
		next := make([]token.Condition, len(conds), len(conds)+1)
		copy(next, conds)
		conds = append(next, stack[len(stack)-1].cond)
	}
}
