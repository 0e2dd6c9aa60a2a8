package commands

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sniff/internal/cli/output"
	"github.com/leapstack-labs/sniff/internal/engine"
	"github.com/leapstack-labs/sniff/pkg/core"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // filter by group
	Fixable bool   // only rules with automatic fixes
	Long    bool   // show full documentation
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available rules",
		Long: `List the rules sniff knows about, including custom rules from the
configuration, or show the documentation of one rule.

Base rules (Generic.*) only run when extended by another rule or enabled
explicitly in sniff.yaml.`,
		Example: `  # List all rules
  sniff rules

  # Show details for a specific rule
  sniff rules CodingStandard.Arrays.Array

  # List rules in the Commenting group
  sniff rules --group Commenting

  # Only rules with automatic fixes, as JSON
  sniff rules --fixable -o json`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeRuleIDs(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			reg, _, err := engine.LoadRegistry(cc.Cfg.Lint.CustomRules, cc.Logger)
			if err != nil {
				return err
			}
			rules := make([]core.RuleInfo, 0, reg.Count())
			for _, def := range reg.GetAll() {
				rules = append(rules, def.Info())
			}

			if len(args) > 0 {
				return showRule(cc.Renderer, rules, args[0])
			}
			return listRules(cc.Renderer, filterRules(rules, opts), opts.Long)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVar(&opts.Fixable, "fixable", false, "Only list rules with automatic fixes")
	cmd.Flags().BoolVarP(&opts.Long, "long", "l", false, "Show full documentation")

	return cmd
}

func filterRules(rules []core.RuleInfo, opts *RulesOptions) []core.RuleInfo {
	return slices.DeleteFunc(rules, func(r core.RuleInfo) bool {
		if opts.Group != "" && !strings.EqualFold(r.Group, opts.Group) {
			return true
		}
		return opts.Fixable && !r.Fixable
	})
}

func listRules(r *output.Renderer, rules []core.RuleInfo, long bool) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, rules)
	case output.ModeMarkdown:
		listRulesMarkdown(r, rules, long)
	default:
		listRulesText(r, rules, long)
	}
	return nil
}

func ruleRows(rules []core.RuleInfo) [][]string {
	rows := make([][]string, 0, len(rules))
	for _, rule := range rules {
		kind := ""
		switch {
		case rule.Base:
			kind = "base"
		case rule.Custom:
			kind = "custom"
		}
		rows = append(rows, []string{
			rule.ID,
			rule.DefaultSeverity.String(),
			yesNo(rule.Fixable),
			strings.Join(rule.Languages, ", "),
			kind,
			truncateOneLine(rule.Description, 60),
		})
	}
	return rows
}

var ruleHeader = []string{"ID", "Severity", "Fixable", "Languages", "Kind", "Description"}

// listRulesText outputs rules as a table.
func listRulesText(r *output.Renderer, rules []core.RuleInfo, long bool) {
	styles := r.Styles()

	r.Println(styles.Header1.Render(fmt.Sprintf("Rules (%d)", len(rules))))
	r.Println("")

	if !long {
		r.Table(ruleHeader, ruleRows(rules))
		r.Println("")
		r.Println(styles.Muted.Render("Use 'sniff rules <rule-id>' for detailed documentation"))
		return
	}

	currentGroup := ""
	for _, rule := range rules {
		if rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println(styles.Header2.Render(currentGroup))
		}
		r.Printf("  %s  %s\n", styles.Bold.Render(rule.ID), getSeverityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()))
		r.Println(styles.Muted.Render("      " + rule.Description))
		if rule.Rationale != "" {
			r.Println(styles.Muted.Render("      Why: " + truncateOneLine(rule.Rationale, 80)))
		}
		r.Println("")
	}
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []core.RuleInfo, long bool) {
	r.Header(1, "Rules")

	if !long {
		r.Table(ruleHeader, ruleRows(rules))
		return
	}

	currentGroup := ""
	for _, rule := range rules {
		if rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println("")
			r.Header(2, currentGroup)
		}
		r.Printf("- **%s** (`%s`): %s\n", rule.ID, rule.DefaultSeverity.String(), rule.Description)
		if rule.Rationale != "" {
			r.Println("  > " + rule.Rationale)
		}
	}
	r.Println("")
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []core.RuleInfo `json:"rules"`
	Count struct {
		Total   int `json:"total"`
		Fixable int `json:"fixable"`
		Base    int `json:"base"`
		Custom  int `json:"custom"`
	} `json:"count"`
}

// listRulesJSON outputs rules in JSON format.
func listRulesJSON(r *output.Renderer, rules []core.RuleInfo) error {
	out := RulesJSONOutput{Rules: rules}
	if out.Rules == nil {
		out.Rules = []core.RuleInfo{}
	}
	for _, rule := range rules {
		if rule.Fixable {
			out.Count.Fixable++
		}
		if rule.Base {
			out.Count.Base++
		}
		if rule.Custom {
			out.Count.Custom++
		}
	}
	out.Count.Total = len(rules)
	return r.JSON(out)
}

func showRule(r *output.Renderer, rules []core.RuleInfo, ruleID string) error {
	i := slices.IndexFunc(rules, func(ri core.RuleInfo) bool { return ri.ID == ruleID })
	if i < 0 {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	rule := &rules[i]

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		showRuleMarkdown(r, rule)
	default:
		showRuleText(r, rule)
	}
	return nil
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *core.RuleInfo) {
	styles := r.Styles()

	r.Println(styles.Header1.Render(rule.ID))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), getSeverityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()))
	r.Printf("  %s: %s\n", styles.Bold.Render("Fixable"), yesNo(rule.Fixable))
	if len(rule.Languages) > 0 {
		r.Printf("  %s: %s\n", styles.Bold.Render("Languages"), strings.Join(rule.Languages, ", "))
	}
	if rule.Extends != "" {
		r.Printf("  %s: %s\n", styles.Bold.Render("Extends"), rule.Extends)
	}
	if len(rule.Kinds) > 0 {
		r.Printf("  %s: %s\n", styles.Bold.Render("Tokens"), strings.Join(rule.Kinds, ", "))
	}
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *core.RuleInfo) {
	r.Header(1, rule.ID)
	r.Printf("**Group:** %s | **Severity:** `%s` | **Fixable:** %s\n\n", rule.Group, rule.DefaultSeverity.String(), yesNo(rule.Fixable))
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Header(2, "Why This Matters")
		r.Println(rule.Rationale)
		r.Println("")
	}

	lang := "php"
	if len(rule.Languages) == 1 && rule.Languages[0] == "JS" {
		lang = "js"
	}
	if rule.BadExample != "" {
		r.Header(2, "Bad Example")
		r.Printf("```%s\n%s\n```\n\n", lang, rule.BadExample)
	}
	if rule.GoodExample != "" {
		r.Header(2, "Good Example")
		r.Printf("```%s\n%s\n```\n\n", lang, rule.GoodExample)
	}

	if len(rule.ConfigKeys) > 0 {
		r.Header(2, "Configuration")
		r.Printf("Options: `%s`\n\n", strings.Join(rule.ConfigKeys, "`, `"))
	}
}

func getSeverityStyle(styles *output.Styles, sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return styles.Error
	case core.SeverityWarning:
		return styles.Warning
	default:
		return styles.Muted
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// truncateOneLine returns the first line of s, cut to max runes.
func truncateOneLine(s string, limit int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}
