package config

import "github.com/leapstack-labs/sniff/pkg/core"

// File names searched for, in order.
const (
	FileName    = "sniff.yaml"
	FileNameAlt = "sniff.yml"
)

// Default configuration values.
const (
	DefaultOutput    = "auto"
	DefaultCachePath = ".sniff/cache.db"

	// EnvPrefix prefixes environment overrides. A double underscore descends
	// into a section: SNIFF_CACHE__ENABLED sets cache/enabled.
	EnvPrefix = "SNIFF_"
)

// OutputFormats lists the accepted values of the output setting.
var OutputFormats = []string{"auto", "text", "markdown", "json"}

// DefaultExtensions are the file extensions checked when none are configured.
var DefaultExtensions = []string{"php", "inc", "js"}

// DefaultIgnore are path patterns skipped when walking directories.
var DefaultIgnore = []string{"vendor", "node_modules", ".git"}

func defaults() map[string]any {
	return map[string]any{
		"verbose":       false,
		"output":        DefaultOutput,
		"jobs":          0,
		"tab_width":     0,
		"extensions":    DefaultExtensions,
		"ignore":        DefaultIgnore,
		"cache/enabled": false,
		"cache/path":    DefaultCachePath,
		"lint/standard": core.DefaultStandard,
	}
}
