// Package engine runs the rule set over files on disk. It ties together the
// configuration, the analyzer with any custom Starlark rules, the result cache
// and the fixer, and is shared by the CLI and the language server.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/leapstack-labs/sniff/internal/cache"
	"github.com/leapstack-labs/sniff/internal/config"
	"github.com/leapstack-labs/sniff/pkg/core"
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/lint/fixer"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules" // register the rule set
	"github.com/leapstack-labs/sniff/pkg/lint/starlark"
	"github.com/leapstack-labs/sniff/pkg/source"
)

// Engine checks and fixes files with one resolved rule configuration.
type Engine struct {
	settings *config.Config
	registry *lint.Registry
	analyzer *lint.Analyzer
	fixer    *fixer.Fixer
	fileOpts []source.Option
	store    *cache.Store
	logger   *slog.Logger

	configHash string
	jobs       int
}

// Config holds engine configuration.
type Config struct {
	// Settings is the loaded configuration. Required.
	Settings *config.Config

	// Select restricts the run to these rule IDs.
	Select []string

	// Disable lists rule IDs, or rule ID + "." + code, to skip on top of
	// the configured ones.
	Disable []string

	// Version is mixed into the cache key so upgrades invalidate results.
	Version string

	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// hashInput is everything besides the rule list that changes diagnostics.
type hashInput struct {
	Lint        core.LintConfig `json:"lint"`
	Disable     []string        `json:"disable"`
	TabWidth    int             `json:"tab_width"`
	CustomRules []string        `json:"custom_rules"`
}

// New resolves the rules enabled by cfg and opens the cache when enabled.
// The caller must Close the engine.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.Settings == nil {
		return nil, errors.New("engine: no settings")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	settings := cfg.Settings

	lintCfg, err := lint.FromLintConfig(settings.Lint)
	if err != nil {
		return nil, fmt.Errorf("lint config: %w", err)
	}
	for _, id := range cfg.Disable {
		if id = strings.TrimSpace(id); id != "" {
			lintCfg.Disable(id)
		}
	}
	if ids := trimAll(cfg.Select); len(ids) > 0 {
		lintCfg.Select(ids...)
	}

	reg, ruleHashes, err := LoadRegistry(settings.Lint.CustomRules, logger)
	if err != nil {
		return nil, err
	}

	analyzer, err := lint.NewAnalyzer(lintCfg, lint.WithRegistry(reg), lint.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("build analyzer: %w", err)
	}

	var fileOpts []source.Option
	if settings.TabWidth > 0 {
		fileOpts = append(fileOpts, source.WithTabWidth(settings.TabWidth))
	}

	hash, err := cache.ConfigHash(cfg.Version, analyzer.Rules(), hashInput{
		Lint:        settings.Lint,
		Disable:     trimAll(cfg.Disable),
		TabWidth:    settings.TabWidth,
		CustomRules: ruleHashes,
	})
	if err != nil {
		return nil, err
	}

	jobs := settings.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	e := &Engine{
		settings:   settings,
		registry:   reg,
		analyzer:   analyzer,
		fixer:      fixer.New(analyzer, fixer.WithLogger(logger), fixer.WithFileOptions(fileOpts...)),
		fileOpts:   fileOpts,
		logger:     logger,
		configHash: hash,
		jobs:       jobs,
	}

	if settings.Cache.Enabled {
		store, err := cache.Open(ctx, settings.Cache.Path, cache.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		e.store = store
	}

	logger.Debug("engine ready",
		slog.Int("rules", len(analyzer.Rules())),
		slog.Int("jobs", jobs),
		slog.Bool("cache", e.store != nil))
	return e, nil
}

// LoadRegistry returns the global registry, or a copy of it extended with
// the rules declared in the given Starlark files. The second result holds
// the content hash of each file.
func LoadRegistry(paths []string, logger *slog.Logger) (*lint.Registry, []string, error) {
	if len(paths) == 0 {
		return lint.Default(), nil, nil
	}

	defs, err := starlark.NewLoader(starlark.WithLogger(logger)).Load(paths)
	if err != nil {
		return nil, nil, fmt.Errorf("load custom rules: %w", err)
	}
	reg := lint.Default().Clone()
	if err := starlark.Register(reg, defs); err != nil {
		return nil, nil, fmt.Errorf("register custom rules: %w", err)
	}

	hashes := make([]string, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("read custom rules: %w", err)
		}
		hashes = append(hashes, cache.ContentHash(string(data)))
	}
	logger.Debug("loaded custom rules", slog.Int("files", len(paths)), slog.Int("rules", len(defs)))
	return reg, hashes, nil
}

func trimAll(ids []string) []string {
	var out []string
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// Close releases the cache, if open.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Settings returns the configuration the engine was built from.
func (e *Engine) Settings() *config.Config { return e.settings }

// Registry returns the registry rules were resolved from, including custom
// rules.
func (e *Engine) Registry() *lint.Registry { return e.registry }

// Analyzer returns the resolved analyzer.
func (e *Engine) Analyzer() *lint.Analyzer { return e.analyzer }

// Rules returns the IDs of the rules that run.
func (e *Engine) Rules() []string { return e.analyzer.Rules() }

// ConfigHash identifies the rule configuration in the cache.
func (e *Engine) ConfigHash() string { return e.configHash }

// Cache returns the result cache, or nil when caching is off.
func (e *Engine) Cache() *cache.Store { return e.store }
