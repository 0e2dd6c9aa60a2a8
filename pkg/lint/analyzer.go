package lint

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

var (
	// ErrMissingCompanion is returned when an enabled rule extends or
	// requires a rule that is not registered.
	ErrMissingCompanion = errors.New("missing companion rule")

	// ErrUnknownRule is returned when configuration enables or selects a
	// rule that is not registered.
	ErrUnknownRule = errors.New("unknown rule")
)

// Analyzer dispatches tokens of a file to the enabled rules.
type Analyzer struct {
	config   *Config
	registry *Registry
	logger   *slog.Logger
	rules    []*activeRule
	byKind   map[token.Kind][]*activeRule
}

// activeRule is a rule resolved against configuration.
type activeRule struct {
	def     RuleDef
	parent  CheckFunc
	options map[string]any
	config  *Config
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithRegistry resolves rules from r instead of the global registry.
func WithRegistry(r *Registry) AnalyzerOption {
	return func(a *Analyzer) { a.registry = r }
}

// WithLogger sets the analyzer's logger.
func WithLogger(l *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) { a.logger = l }
}

// NewAnalyzer resolves the rules enabled by config. It fails with
// ErrMissingCompanion when an enabled rule's Extends or Requires target is
// not registered, and with ErrUnknownRule when config names a rule that does
// not exist.
func NewAnalyzer(config *Config, opts ...AnalyzerOption) (*Analyzer, error) {
	if config == nil {
		config = NewConfig()
	}
	a := &Analyzer{
		config:   config,
		registry: globalRegistry,
		logger:   slog.Default(),
		byKind:   make(map[token.Kind][]*activeRule),
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.checkConfig(); err != nil {
		return nil, err
	}

	var errs []error
	for _, def := range a.registry.GetAll() {
		if !config.IsEnabled(def) {
			continue
		}
		rule, err := a.resolve(def)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		a.rules = append(a.rules, rule)
		for _, k := range def.Register {
			a.byKind[k] = append(a.byKind[k], rule)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	a.logger.Debug("analyzer ready", slog.Int("rules", len(a.rules)))
	return a, nil
}

func (a *Analyzer) checkConfig() error {
	var errs []error
	for _, set := range []map[string]bool{a.config.Enabled, a.config.Only} {
		for id := range set {
			if _, ok := a.registry.GetByID(id); !ok {
				errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownRule, id))
			}
		}
	}
	for id := range a.config.RuleOptions {
		if _, ok := a.registry.GetByID(id); !ok {
			a.logger.Warn("options configured for unknown rule", slog.String("rule", id))
		}
	}
	return errors.Join(errs...)
}

func (a *Analyzer) resolve(def RuleDef) (*activeRule, error) {
	rule := &activeRule{def: def, config: a.config}

	defaults := def.Options
	if def.Extends != "" {
		base, ok := a.registry.GetByID(def.Extends)
		if !ok {
			return nil, fmt.Errorf("%w: %s extends %s", ErrMissingCompanion, def.ID, def.Extends)
		}
		rule.parent = base.Check
		defaults = make(map[string]any, len(base.Options)+len(def.Options))
		maps.Copy(defaults, base.Options)
		maps.Copy(defaults, def.Options)
	}
	for _, req := range def.Requires {
		if _, ok := a.registry.GetByID(req); !ok {
			return nil, fmt.Errorf("%w: %s requires %s", ErrMissingCompanion, def.ID, req)
		}
	}

	rule.options = a.config.GetRuleOptions(def.ID, defaults)
	return rule, nil
}

// Rules returns the IDs of the rules the analyzer dispatches.
func (a *Analyzer) Rules() []string {
	ids := make([]string, 0, len(a.rules))
	for _, r := range a.rules {
		ids = append(ids, r.def.ID)
	}
	return ids
}

// Analyze runs the enabled rules over f. Each token is handed, in file order,
// to every rule registered for its kind that supports the file's language.
// Diagnostics are sorted by line, column and source.
func (a *Analyzer) Analyze(f *source.File) []Diagnostic {
	var diagnostics []Diagnostic
	report := func(d Diagnostic) {
		diagnostics = append(diagnostics, d)
	}

	lang := f.Language()
	skip := make(map[*activeRule]int)

	for i := 0; i < f.Len(); i++ {
		for _, rule := range a.byKind[f.Token(i).Kind] {
			if !rule.def.Supports(lang) || i < skip[rule] {
				continue
			}
			pass := &Pass{
				File:    f,
				Ptr:     i,
				Options: rule.options,
				rule:    rule,
				report:  report,
			}
			rule.def.Check(pass)
			if pass.skipTo > i {
				skip[rule] = pass.skipTo
			}
		}
	}

	SortDiagnostics(diagnostics)
	a.logger.Debug("analyzed file",
		slog.String("path", f.Path()),
		slog.Int("tokens", f.Len()),
		slog.Int("diagnostics", len(diagnostics)))
	return diagnostics
}

// SortDiagnostics orders diagnostics by position, then source.
func SortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Pos.Line, b.Pos.Line),
			cmp.Compare(a.Pos.Column, b.Pos.Column),
			cmp.Compare(a.Source, b.Source),
		)
	})
}
