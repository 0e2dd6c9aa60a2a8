package starlark

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"

	"github.com/leapstack-labs/sniff/pkg/core"
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/token"
)

// LoadError reports a rule file that could not be loaded.
type LoadError struct {
	File    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.File, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ErrDuplicateRule is returned when a custom rule reuses a registered ID.
var ErrDuplicateRule = errors.New("rule already registered")

// InternalCode is the code reported when a check call fails.
const InternalCode = "Internal"

// Loader executes rule files and turns their rule declarations into RuleDefs.
type Loader struct {
	logger   *slog.Logger
	pool     *ThreadPool
	maxSteps uint64
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger. Starlark print output is logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithMaxSteps bounds the execution steps of one check call.
func WithMaxSteps(n uint64) Option {
	return func(ld *Loader) { ld.maxSteps = n }
}

// NewLoader creates a loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{logger: slog.New(slog.DiscardHandler), maxSteps: DefaultMaxSteps}
	for _, opt := range opts {
		opt(l)
	}
	l.pool = NewThreadPool(0, l.maxSteps, l.logger)
	return l
}

// Load loads every file in order and returns their rules.
func (l *Loader) Load(paths []string) ([]lint.RuleDef, error) {
	var out []lint.RuleDef
	for _, path := range paths {
		defs, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, defs...)
	}
	return out, nil
}

// LoadFile loads the rules declared in one file.
func (l *Loader) LoadFile(path string) ([]lint.RuleDef, error) {
	src, err := os.ReadFile(path) //nolint:gosec // G304: rule files are listed in the user's config
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Err: err}
	}
	return l.LoadSource(path, src)
}

// LoadSource loads the rules declared in src, reporting errors against name.
func (l *Loader) LoadSource(name string, src []byte) ([]lint.RuleDef, error) {
	var defs []lint.RuleDef
	thread := &starlark.Thread{
		Name: "load:" + name,
		Print: func(_ *starlark.Thread, msg string) {
			l.logger.Debug(msg, slog.String("file", name))
		},
	}

	predeclared := starlark.StringDict{
		"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
		"rule": starlark.NewBuiltin("rule", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			def, err := l.declare(b, args, kwargs)
			if err != nil {
				return nil, err
			}
			defs = append(defs, def)
			return starlark.None, nil
		}),
	}

	if _, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, name, src, predeclared); err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			return nil, &LoadError{File: name, Message: evalErr.Backtrace()}
		}
		return nil, &LoadError{File: name, Message: "starlark error", Err: err}
	}

	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if seen[def.ID] {
			return nil, &LoadError{File: name, Message: fmt.Sprintf("rule %s declared twice", def.ID), Err: ErrDuplicateRule}
		}
		seen[def.ID] = true
	}
	l.logger.Debug("loaded custom rules", slog.String("file", name), slog.Int("count", len(defs)))
	return defs, nil
}

// declare builds a RuleDef from the arguments of a rule() call.
func (l *Loader) declare(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (lint.RuleDef, error) {
	var (
		id, name, description, severity, rationale string
		register                                   starlark.Value
		languages                                  *starlark.List
		options                                    *starlark.Dict
		check                                      starlark.Callable
		fixable                                    bool
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"id", &id,
		"register", &register,
		"check", &check,
		"name?", &name,
		"description?", &description,
		"severity?", &severity,
		"languages?", &languages,
		"options?", &options,
		"fixable?", &fixable,
		"rationale?", &rationale,
	); err != nil {
		return lint.RuleDef{}, err
	}

	_, group, short, ok := lint.SplitID(id)
	if !ok {
		return lint.RuleDef{}, fmt.Errorf("rule: id %q is not Standard.Group.Name", id)
	}
	if name == "" {
		name = group + "/" + short
	}

	def := lint.RuleDef{
		ID:          id,
		Name:        name,
		Group:       group,
		Description: description,
		Severity:    lint.SeverityError,
		Fixable:     fixable,
		Rationale:   rationale,
		Custom:      true,
	}
	if severity != "" {
		sev, ok := core.ParseSeverity(severity)
		if !ok {
			return lint.RuleDef{}, fmt.Errorf("rule %s: invalid severity %q", id, severity)
		}
		def.Severity = sev
	}

	set, err := kindSet(register)
	if err != nil {
		return lint.RuleDef{}, fmt.Errorf("rule %s: register: %w", id, err)
	}
	if len(set) == 0 {
		return lint.RuleDef{}, fmt.Errorf("rule %s: register names no token kinds", id)
	}
	for k := range set {
		def.Register = append(def.Register, k)
	}
	slices.Sort(def.Register)

	if languages != nil {
		for i := range languages.Len() {
			s, ok := starlark.AsString(languages.Index(i))
			if !ok {
				return lint.RuleDef{}, fmt.Errorf("rule %s: languages must be strings", id)
			}
			lang := token.Language(strings.ToUpper(s))
			if lang != token.PHP && lang != token.JS {
				return lint.RuleDef{}, fmt.Errorf("rule %s: unknown language %q", id, s)
			}
			def.Languages = append(def.Languages, lang)
		}
	}

	if options != nil {
		v, err := ToGo(options)
		if err != nil {
			return lint.RuleDef{}, fmt.Errorf("rule %s: options: %w", id, err)
		}
		def.Options = v.(map[string]any)
	}

	check.Freeze()
	def.Check = l.checkFunc(id, check)
	return def, nil
}

// checkFunc adapts a Starlark callable to a CheckFunc. Failures are logged
// and reported as an InternalCode warning; rules never return errors.
func (l *Loader) checkFunc(id string, fn starlark.Callable) lint.CheckFunc {
	return func(p *lint.Pass) {
		ctx, err := newPassValue(p)
		if err != nil {
			l.fail(p, id, err)
			return
		}
		defer ctx.done()

		thread := l.pool.Get(id)
		if _, err := starlark.Call(thread, fn, starlark.Tuple{ctx}, nil); err != nil {
			l.fail(p, id, err)
			return
		}
		l.pool.Put(thread)
	}
}

func (l *Loader) fail(p *lint.Pass, id string, err error) {
	l.logger.Warn("custom rule failed",
		slog.String("rule", id),
		slog.String("file", p.File.Path()),
		slog.Int("ptr", p.Ptr),
		slog.Any("error", err))
	p.Warning(p.Ptr, InternalCode, "Custom rule failed: %v", err)
}

// Register adds custom rules to reg. Unlike Registry.Register it returns an
// error for an ID that is already taken, since rule files are user input.
func Register(reg *lint.Registry, defs []lint.RuleDef) error {
	for _, def := range defs {
		if _, exists := reg.GetByID(def.ID); exists {
			return fmt.Errorf("%w: %s", ErrDuplicateRule, def.ID)
		}
	}
	for _, def := range defs {
		reg.Register(def)
	}
	return nil
}
