package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sniff/internal/cli/output"
	"github.com/leapstack-labs/sniff/internal/config"
	"github.com/leapstack-labs/sniff/pkg/core"
)

// starterConfig is the sniff.yaml written by init.
type starterConfig struct {
	Output     string       `yaml:"output"`
	Extensions []string     `yaml:"extensions"`
	Ignore     []string     `yaml:"ignore"`
	TabWidth   int          `yaml:"tab_width"`
	Cache      starterCache `yaml:"cache"`
	Lint       starterLint  `yaml:"lint"`
}

type starterCache struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type starterLint struct {
	Standard    string                    `yaml:"standard"`
	Disabled    []string                  `yaml:"disabled"`
	Enabled     []string                  `yaml:"enabled"`
	Severity    map[string]string         `yaml:"severity"`
	Rules       map[string]map[string]any `yaml:"rules"`
	CustomRules []string                  `yaml:"custom_rules"`
}

var starterComments = map[string]string{
	"output":     "Output format: auto, text, markdown or json",
	"extensions": "File extensions checked when walking directories",
	"ignore":     "Names or slash separated paths skipped when walking",
	"tab_width":  "Expand tabs to this many columns when measuring indentation (0 keeps tabs as one column)",
	"cache":      "Reuse results of unchanged files between runs",
	"lint":       "Rule selection. Disable rules or single codes (Rule.ID.Code), opt base rules in,\noverride severities and set rule options. custom_rules lists Starlark rule files.",
}

func defaultStarterConfig() starterConfig {
	return starterConfig{
		Output:     config.DefaultOutput,
		Extensions: config.DefaultExtensions,
		Ignore:     config.DefaultIgnore,
		Cache:      starterCache{Path: config.DefaultCachePath},
		Lint: starterLint{
			Standard: core.DefaultStandard,
			Disabled: []string{},
			Enabled:  []string{},
			Severity: map[string]string{},
			Rules: map[string]map[string]any{
				"CodingStandard.WhiteSpace.ControlStructureSpacing": {
					"required_spaces_after_open":   1,
					"required_spaces_before_close": 1,
				},
			},
			CustomRules: []string{},
		},
	}
}

// renderStarterConfig encodes cfg as commented YAML.
func renderStarterConfig(cfg starterConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if len(doc.Content) > 0 {
		doc.Content[0].HeadComment = "sniff configuration"
		m := doc.Content[0]
		for i := 0; i+1 < len(m.Content); i += 2 {
			if c, ok := starterComments[m.Content[i].Value]; ok {
				m.Content[i].HeadComment = c
			}
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter sniff.yaml",
		Long: `Write a sniff.yaml holding the default settings, ready to edit.

The file is searched for upward from the working directory by every other
command, so it is usually placed at the repository root.`,
		Example: `  # Initialize in current directory
  sniff init

  # Initialize in another directory
  sniff init path/to/project

  # Force overwrite existing config
  sniff init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			mode := output.ModeAuto
			if cfg := config.FromContext(cmd.Context()); cfg != nil {
				mode = output.Mode(cfg.OutputFormat)
			}
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	data, err := renderStarterConfig(defaultStarterConfig())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config files are world readable
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	r.StatusLine(config.FileName, "created", path)
	r.Success("Initialized sniff configuration")
	return nil
}
