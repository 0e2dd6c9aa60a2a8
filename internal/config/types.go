// Package config loads sniff configuration. Settings come from defaults,
// sniff.yaml (searched upward from the working directory), SNIFF_*
// environment variables and command-line flags, in increasing precedence.
//
// Keys are separated with "/" rather than "." because rule IDs, which key the
// severity and rules maps, contain dots.
package config

import "github.com/leapstack-labs/sniff/pkg/core"

// LintConfig is an alias for the shared lint configuration.
type LintConfig = core.LintConfig

// RuleOptions is an alias for the shared rule options type.
type RuleOptions = core.RuleOptions

// Config holds all sniff configuration.
type Config struct {
	// Root is the directory paths in the file are relative to: the config
	// file's directory, or the working directory when there is none.
	Root string `koanf:"-"`

	// File is the config file that was loaded, empty when none was found.
	File string `koanf:"-"`

	Verbose      bool     `koanf:"verbose"`
	OutputFormat string   `koanf:"output"`
	Jobs         int      `koanf:"jobs"`
	TabWidth     int      `koanf:"tab_width"`
	Extensions   []string `koanf:"extensions"`
	Ignore       []string `koanf:"ignore"`

	Cache CacheConfig `koanf:"cache"`
	Lint  LintConfig  `koanf:"lint"`
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}
