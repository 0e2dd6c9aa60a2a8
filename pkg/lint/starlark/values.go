package starlark

import (
	"errors"
	"fmt"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

// lookupKind resolves a token kind by its T_* name; the prefix is optional.
func lookupKind(name string) (token.Kind, bool) {
	name = strings.ToUpper(name)
	if k, ok := token.Lookup(name); ok {
		return k, true
	}
	return token.Lookup("T_" + name)
}

func tokenValue(f *source.File, i int) starlark.Value {
	if !f.Valid(i) {
		return starlark.None
	}
	t := f.Token(i)
	return starlarkstruct.FromStringDict(starlark.String("token"), starlark.StringDict{
		"index":           starlark.MakeInt(i),
		"kind":            starlark.String(t.Kind.String()),
		"content":         starlark.String(t.Content),
		"line":            starlark.MakeInt(t.Line),
		"column":          starlark.MakeInt(t.Column),
		"paren_opener":    starlark.MakeInt(t.ParenOpener),
		"paren_closer":    starlark.MakeInt(t.ParenCloser),
		"paren_owner":     starlark.MakeInt(t.ParenOwner),
		"bracket_opener":  starlark.MakeInt(t.BracketOpener),
		"bracket_closer":  starlark.MakeInt(t.BracketCloser),
		"scope_opener":    starlark.MakeInt(t.ScopeOpener),
		"scope_closer":    starlark.MakeInt(t.ScopeCloser),
		"scope_condition": starlark.MakeInt(t.ScopeCondition),
	})
}

// fileValue exposes a source.File to Starlark.
type fileValue struct {
	f *source.File
}

var _ starlark.HasAttrs = (*fileValue)(nil)

func (v *fileValue) String() string        { return fmt.Sprintf("<file %s>", v.f.Path()) }
func (v *fileValue) Type() string          { return "file" }
func (v *fileValue) Freeze()               {}
func (v *fileValue) Truth() starlark.Bool  { return starlark.True }
func (v *fileValue) Hash() (uint32, error) { return 0, errors.New("unhashable type: file") }

var fileAttrs = []string{
	"eol", "find_next", "find_previous", "first_on_line", "language", "len",
	"next_non_empty", "path", "prev_non_empty", "token", "tokens_as_string",
}

func (v *fileValue) AttrNames() []string { return fileAttrs }

func (v *fileValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "path":
		return starlark.String(v.f.Path()), nil
	case "language":
		return starlark.String(strings.ToLower(string(v.f.Language()))), nil
	case "eol":
		return starlark.String(v.f.EOL()), nil
	case "len":
		return starlark.MakeInt(v.f.Len()), nil
	case "token":
		return starlark.NewBuiltin("token", v.token), nil
	case "find_next":
		return starlark.NewBuiltin("find_next", v.find(false)), nil
	case "find_previous":
		return starlark.NewBuiltin("find_previous", v.find(true)), nil
	case "next_non_empty":
		return starlark.NewBuiltin("next_non_empty", v.index(v.f.NextNonEmpty)), nil
	case "prev_non_empty":
		return starlark.NewBuiltin("prev_non_empty", v.index(v.f.PrevNonEmpty)), nil
	case "first_on_line":
		return starlark.NewBuiltin("first_on_line", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var i int
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &i); err != nil {
				return nil, err
			}
			return starlark.MakeInt(v.f.FirstOnLine(i)), nil
		}), nil
	case "tokens_as_string":
		return starlark.NewBuiltin("tokens_as_string", v.tokensAsString), nil
	}
	return nil, nil
}

func (v *fileValue) token(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var i int
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &i); err != nil {
		return nil, err
	}
	return tokenValue(v.f, i), nil
}

func (v *fileValue) tokensAsString(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var start, length int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "start", &start, "length", &length); err != nil {
		return nil, err
	}
	return starlark.String(v.f.TokensAsString(start, length)), nil
}

func (v *fileValue) index(fn func(int, ...source.SearchOption) int) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var i int
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &i); err != nil {
			return nil, err
		}
		return starlark.MakeInt(fn(i)), nil
	}
}

func (v *fileValue) find(backward bool) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			kinds   starlark.Value
			start   int
			until   = -1
			exclude bool
			value   starlark.Value = starlark.None
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"kinds", &kinds, "start", &start, "until?", &until, "exclude?", &exclude, "value?", &value); err != nil {
			return nil, err
		}
		set, err := kindSet(kinds)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}

		var opts []source.SearchOption
		if until >= 0 {
			opts = append(opts, source.Until(until))
		}
		if exclude {
			opts = append(opts, source.Excluding())
		}
		if s, ok := value.(starlark.String); ok {
			opts = append(opts, source.WithValue(string(s)))
		}
		if backward {
			return starlark.MakeInt(v.f.FindPrevious(set, start, opts...)), nil
		}
		return starlark.MakeInt(v.f.FindNext(set, start, opts...)), nil
	}
}

// kindSet builds a token set from a kind name or a list of them.
func kindSet(v starlark.Value) (token.Set, error) {
	var names []string
	switch x := v.(type) {
	case starlark.String:
		names = []string{string(x)}
	case starlark.Iterable:
		iter := x.Iterate()
		defer iter.Done()
		var item starlark.Value
		for iter.Next(&item) {
			s, ok := item.(starlark.String)
			if !ok {
				return nil, fmt.Errorf("token kind must be a string, got %s", item.Type())
			}
			names = append(names, string(s))
		}
	default:
		return nil, fmt.Errorf("want kind name or list of names, got %s", v.Type())
	}

	kinds := make([]token.Kind, 0, len(names))
	for _, name := range names {
		k, ok := lookupKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown token kind %q", name)
		}
		kinds = append(kinds, k)
	}
	return token.Of(kinds...), nil
}

// passValue is the ctx argument of a check call. It stops accepting
// reports once the call returns.
type passValue struct {
	p       *lint.Pass
	file    *fileValue
	options starlark.Value
}

var _ starlark.HasAttrs = (*passValue)(nil)

func newPassValue(p *lint.Pass) (*passValue, error) {
	opts, err := GoToStarlark(p.Options)
	if err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	if opts == starlark.None {
		opts = starlark.NewDict(0)
	}
	opts.Freeze()
	return &passValue{p: p, file: &fileValue{f: p.File}, options: opts}, nil
}

func (v *passValue) String() string        { return "<ctx>" }
func (v *passValue) Type() string          { return "ctx" }
func (v *passValue) Freeze()               {}
func (v *passValue) Truth() starlark.Bool  { return starlark.True }
func (v *passValue) Hash() (uint32, error) { return 0, errors.New("unhashable type: ctx") }

func (v *passValue) AttrNames() []string {
	return []string{"error", "file", "options", "ptr", "token", "warning"}
}

func (v *passValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "ptr":
		return starlark.MakeInt(v.p.Ptr), nil
	case "token":
		return tokenValue(v.p.File, v.p.Ptr), nil
	case "file":
		return v.file, nil
	case "options":
		return v.options, nil
	case "error":
		return starlark.NewBuiltin("error", v.report(lint.SeverityError)), nil
	case "warning":
		return starlark.NewBuiltin("warning", v.report(lint.SeverityWarning)), nil
	}
	return nil, nil
}

// done detaches the value from its pass.
func (v *passValue) done() { v.p = nil }

func (v *passValue) report(sev lint.Severity) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			code, message string
			ptr           starlark.Value = starlark.None
			fix           starlark.Value = starlark.None
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"code", &code, "message", &message, "ptr?", &ptr, "fix?", &fix); err != nil {
			return nil, err
		}
		if v.p == nil {
			return nil, fmt.Errorf("%s: called after the check returned", b.Name())
		}

		at := v.p.Ptr
		if ptr != starlark.None {
			n, err := starlark.AsInt32(ptr)
			if err != nil {
				return nil, fmt.Errorf("%s: ptr: %w", b.Name(), err)
			}
			at = n
		}

		edits, err := parseEdits(fix)
		if err != nil {
			return nil, fmt.Errorf("%s: fix: %w", b.Name(), err)
		}

		if len(edits) == 0 {
			if sev == lint.SeverityError {
				v.p.Error(at, code, "%s", message)
			} else {
				v.p.Warning(at, code, "%s", message)
			}
			return starlark.None, nil
		}

		var fb *lint.FixBuilder
		if sev == lint.SeverityError {
			fb = v.p.FixableError(at, code, "%s", message)
		} else {
			fb = v.p.FixableWarning(at, code, "%s", message)
		}
		for _, e := range edits {
			switch e.Op {
			case lint.Replace:
				fb.Replace(e.Index, e.Text)
			case lint.Delete:
				fb.Delete(e.Index)
			case lint.InsertBefore:
				fb.InsertBefore(e.Index, e.Text)
			case lint.InsertAfter:
				fb.InsertAfter(e.Index, e.Text)
			}
		}
		return starlark.None, nil
	}
}

var editOps = map[string]lint.Op{
	"replace":       lint.Replace,
	"delete":        lint.Delete,
	"insert_before": lint.InsertBefore,
	"insert_after":  lint.InsertAfter,
}

// parseEdits reads a list of (op, index[, text]) tuples.
func parseEdits(v starlark.Value) ([]lint.Edit, error) {
	if v == starlark.None {
		return nil, nil
	}
	seq, ok := v.(starlark.Indexable)
	if !ok {
		return nil, fmt.Errorf("want list of edits, got %s", v.Type())
	}

	edits := make([]lint.Edit, 0, seq.Len())
	for i := range seq.Len() {
		item, ok := seq.Index(i).(starlark.Indexable)
		if !ok || item.Len() < 2 || item.Len() > 3 {
			return nil, fmt.Errorf("edit %d: want (op, index[, text])", i)
		}
		name, ok := starlark.AsString(item.Index(0))
		if !ok {
			return nil, fmt.Errorf("edit %d: op must be a string", i)
		}
		op, ok := editOps[name]
		if !ok {
			return nil, fmt.Errorf("edit %d: unknown op %q", i, name)
		}
		index, err := starlark.AsInt32(item.Index(1))
		if err != nil {
			return nil, fmt.Errorf("edit %d: index: %w", i, err)
		}

		e := lint.Edit{Op: op, Index: index}
		switch {
		case op == lint.Delete && item.Len() == 2:
		case op != lint.Delete && item.Len() == 3:
			text, ok := starlark.AsString(item.Index(2))
			if !ok {
				return nil, fmt.Errorf("edit %d: text must be a string", i)
			}
			e.Text = text
		default:
			return nil, fmt.Errorf("edit %d: %s takes %s", i, name, arity(op))
		}
		edits = append(edits, e)
	}
	return edits, nil
}

func arity(op lint.Op) string {
	if op == lint.Delete {
		return "(op, index)"
	}
	return "(op, index, text)"
}
