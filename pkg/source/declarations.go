package source

import "github.com/leapstack-labs/sniff/pkg/token"

// DeclarationName returns the name declared by the class, interface, trait or
// function token at ptr. Closures and anonymous classes have no name.
func (f *File) DeclarationName(ptr int) string {
	tok := f.Token(ptr)
	if !tok.Is(token.CLASS, token.INTERFACE, token.TRAIT, token.FUNCTION) {
		return ""
	}
	next := f.NextNonEmpty(ptr + 1)
	if next >= 0 && f.tokens[next].Kind == token.BITWISE_AND {
		next = f.NextNonEmpty(next + 1)
	}
	if next < 0 || f.tokens[next].Kind != token.STRING {
		return ""
	}
	return f.tokens[next].Content
}

// HasCondition reports whether any scope enclosing ptr is owned by one of kinds.
func (f *File) HasCondition(ptr int, kinds ...token.Kind) bool {
	return f.Condition(ptr, kinds...) != -1
}

// Condition returns the innermost scope owner of one of kinds enclosing ptr, or -1.
func (f *File) Condition(ptr int, kinds ...token.Kind) int {
	conds := f.Token(ptr).Conditions
	for i := len(conds) - 1; i >= 0; i-- {
		for _, k := range kinds {
			if conds[i].Kind == k {
				return conds[i].Ptr
			}
		}
	}
	return -1
}

// LastCondition returns the innermost scope enclosing ptr.
func (f *File) LastCondition(ptr int) (token.Condition, bool) {
	conds := f.Token(ptr).Conditions
	if len(conds) == 0 {
		return token.Condition{}, false
	}
	return conds[len(conds)-1], true
}

// MethodProperties describes the modifiers of a function declaration.
type MethodProperties struct {
	Scope          string // public, private or protected
	ScopeSpecified bool
	IsAbstract     bool
	IsFinal        bool
	IsStatic       bool
}

// MethodProperties reads the modifiers preceding the function token at ptr.
func (f *File) MethodProperties(ptr int) MethodProperties {
	props := MethodProperties{Scope: "public"}
	for i := ptr - 1; i >= 0; i-- {
		tok := f.tokens[i]
		if token.Empty.Has(tok.Kind) {
			continue
		}
		switch tok.Kind {
		case token.PUBLIC, token.PRIVATE, token.PROTECTED:
			props.Scope = tok.Content
			props.ScopeSpecified = true
		case token.ABSTRACT:
			props.IsAbstract = true
		case token.FINAL:
			props.IsFinal = true
		case token.STATIC:
			props.IsStatic = true
		default:
			return props
		}
	}
	return props
}

// MemberProperties describes the modifiers of a class property.
type MemberProperties struct {
	Scope          string
	ScopeSpecified bool
	IsStatic       bool
	UsesVar        bool
}

// MemberProperties reads the modifiers of the property variable at ptr. It
// reports false when ptr is not a property of a class, interface or trait.
// For grouped declarations (public $a, $b) every variable shares the
// modifiers written before the first one.
func (f *File) MemberProperties(ptr int) (MemberProperties, bool) {
	if f.Token(ptr).Kind != token.VARIABLE || !f.IsMemberVar(ptr) {
		return MemberProperties{}, false
	}

	props := MemberProperties{Scope: "public"}
	start := f.StatementStart(ptr)
	for i := start; i < ptr; i++ {
		switch f.tokens[i].Kind {
		case token.PUBLIC, token.PRIVATE, token.PROTECTED:
			props.Scope = f.tokens[i].Content
			props.ScopeSpecified = true
		case token.STATIC:
			props.IsStatic = true
		case token.VAR:
			props.UsesVar = true
		}
	}
	return props, true
}

// IsMemberVar reports whether the variable at ptr declares a property: its
// innermost scope is a class, interface or trait body and it is not inside
// parentheses.
func (f *File) IsMemberVar(ptr int) bool {
	last, ok := f.LastCondition(ptr)
	if !ok || !token.OOScopes.Has(last.Kind) {
		return false
	}
	return len(f.Token(ptr).NestedParens) == 0
}

// ClassProperties describes the modifiers of a class declaration.
type ClassProperties struct {
	IsAbstract bool
	IsFinal    bool
}

// ClassProperties reads the modifiers preceding the class token at ptr.
func (f *File) ClassProperties(ptr int) ClassProperties {
	var props ClassProperties
	for i := ptr - 1; i >= 0; i-- {
		tok := f.tokens[i]
		if token.Empty.Has(tok.Kind) {
			continue
		}
		switch tok.Kind {
		case token.ABSTRACT:
			props.IsAbstract = true
		case token.FINAL:
			props.IsFinal = true
		default:
			return props
		}
	}
	return props
}
