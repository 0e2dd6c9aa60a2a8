package commands

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sniff/internal/cli/output"
	"github.com/leapstack-labs/sniff/internal/config"
	"github.com/leapstack-labs/sniff/internal/engine"
	"github.com/leapstack-labs/sniff/pkg/lint"
)

// ErrIssuesFound is returned when a command finishes with violations or
// failures left, so that the process exits non-zero without an error message.
var ErrIssuesFound = errors.New("issues found")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer set up by the
// root command. Commands run on their own, as in tests, load the config of
// the working directory.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		var err error
		if cfg, err = config.Load("", cmd.Flags()); err != nil {
			return nil, err
		}
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}, nil
}

// LintOptions holds the rule selection shared by check and fix.
type LintOptions struct {
	Rules   []string // run only these rule IDs
	Disable []string // rule IDs or rule ID + "." + code to skip
}

func (o *LintOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&o.Rules, "rule", nil, "Run only these rules (comma separated IDs)")
	cmd.Flags().StringSliceVar(&o.Disable, "disable", nil, "Rules or rule codes to disable")
	cmd.Flags().Int("jobs", 0, "Files processed in parallel (default: number of CPUs)")
	_ = cmd.RegisterFlagCompletionFunc("rule", completeRuleIDs)
	_ = cmd.RegisterFlagCompletionFunc("disable", completeRuleIDs)
}

// newEngine builds an engine for cc and the rule selection in opts.
func newEngine(cmd *cobra.Command, cc *CommandContext, opts *LintOptions, version string) (*engine.Engine, error) {
	return engine.New(cmd.Context(), engine.Config{
		Settings: cc.Cfg,
		Select:   opts.Rules,
		Disable:  opts.Disable,
		Version:  version,
		Logger:   cc.Logger,
	})
}

func completeRuleIDs(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var ids []string
	for _, r := range lint.GetAll() {
		if strings.HasPrefix(r.ID, toComplete) {
			ids = append(ids, r.ID+"\t"+r.Description)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
