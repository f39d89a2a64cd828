package commands

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlprobe/internal/cli/output"
	"github.com/leapstack-labs/sqlprobe/pkg/determinism"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
	_ "github.com/leapstack-labs/sqlprobe/pkg/lint/rules" // register rules
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show full documentation
	Format  string // Output format
}

// RulesCatalog is the structured form of the rule listing.
type RulesCatalog struct {
	Rules       []lint.RuleInfo         `json:"rules" yaml:"rules"`
	Determinism []determinism.IssueType `json:"determinism_checks" yaml:"determinism_checks"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [code]",
		Short: "List available lint rules",
		Long: `List all lint rules with their documentation, and the determinism
checks that run alongside them.

Rules are listed in evaluation order and organized by group (e.g. joins,
performance). Use --verbose to see the rationale for each rule, or pass a
rule code for examples.`,
		Example: `  # List all rules
  sqlprobe rules

  # Show details for a specific rule
  sqlprobe rules IMPLICIT_JOIN

  # List rules in the joins group
  sqlprobe rules --group joins

  # Output as JSON
  sqlprobe rules --format json`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeRuleCodes(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	r := NewCommandContextWithoutEngine(cmd, opts.Format).Renderer

	var rules []lint.RuleInfo
	for _, rule := range lint.AllRules() {
		if opts.Group != "" && !strings.EqualFold(rule.Group, opts.Group) {
			continue
		}
		rules = append(rules, rule)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		if rules == nil {
			rules = []lint.RuleInfo{}
		}
		return r.Data(RulesCatalog{Rules: rules, Determinism: determinism.AllIssueTypes()})
	case output.ModeMarkdown:
		return listRulesMarkdown(r, byGroup(rules), opts.Verbose)
	default:
		return listRulesText(r, byGroup(rules), opts.Verbose)
	}
}

// byGroup orders rules by group, keeping evaluation order within a group.
func byGroup(rules []lint.RuleInfo) []lint.RuleInfo {
	out := slices.Clone(rules)
	slices.SortStableFunc(out, func(a, b lint.RuleInfo) int {
		return cmp.Compare(a.Group, b.Group)
	})
	return out
}

// listRulesText displays rules in styled text format.
func listRulesText(r *output.Renderer, rules []lint.RuleInfo, verbose bool) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Lint Rules (%d)", len(rules))))
	r.Println("")

	currentGroup := ""
	for _, rule := range rules {
		if rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println(styles.Bold.Render("  " + r.Title(currentGroup)))
		}

		sevStyle := styles.Severity(rule.DefaultSeverity)
		r.Printf("    %-22s %s - %s\n",
			styles.Bold.Render(string(rule.Code)),
			sevStyle.Render(rule.DefaultSeverity.String()),
			rule.Name)

		if verbose {
			r.Println(styles.Muted.Render("        " + rule.Description))
			if rule.Rationale != "" {
				r.Println(styles.Muted.Render("        Why: " + truncateOneLine(rule.Rationale, 80)))
			}
			r.Println("")
		}
	}

	r.Println("")
	r.Println(styles.Header2.Render("Determinism Checks"))
	for _, t := range determinism.AllIssueTypes() {
		r.Println("    " + string(t))
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'sqlprobe rules <code>' for detailed documentation"))
	r.Println("")
	return nil
}

// listRulesMarkdown displays rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []lint.RuleInfo, verbose bool) error {
	r.Println("# Lint Rules")
	r.Println("")

	currentGroup := ""
	for _, rule := range rules {
		if rule.Group != currentGroup {
			if currentGroup != "" {
				r.Println("")
			}
			currentGroup = rule.Group
			r.Println("## " + r.Title(currentGroup))
			r.Println("")
		}

		r.Printf("- **%s** - %s (`%s`)\n", rule.Code, rule.Name, rule.DefaultSeverity.String())
		if verbose {
			r.Println("  " + rule.Description)
			if rule.Rationale != "" {
				r.Println("  > " + rule.Rationale)
			}
		}
	}
	r.Println("")

	r.Println("## Determinism Checks")
	r.Println("")
	for _, t := range determinism.AllIssueTypes() {
		r.Printf("- `%s`\n", t)
	}
	r.Println("")
	return nil
}

func showRule(cmd *cobra.Command, code string, opts *RulesOptions) error {
	r := NewCommandContextWithoutEngine(cmd, opts.Format).Renderer

	c, ok := lint.ParseCode(code)
	if !ok {
		return fmt.Errorf("unknown rule %q", code)
	}
	def, ok := lint.GetByCode(c)
	if !ok {
		return fmt.Errorf("rule %s is not registered", c)
	}
	rule := lint.GetRuleInfo(def)

	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		return r.Data(rule)
	case output.ModeMarkdown:
		return showRuleMarkdown(r, &rule)
	default:
		return showRuleText(r, &rule)
	}
}

// showRuleText displays detailed rule info in styled text format.
func showRuleText(r *output.Renderer, rule *lint.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.Code, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), rule.DefaultSeverity.String())
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

	return nil
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *lint.RuleInfo) error {
	r.Printf("# %s - %s\n\n", rule.Code, rule.Name)
	r.Printf("**Group:** %s | **Severity:** `%s`\n\n", rule.Group, rule.DefaultSeverity.String())
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println("## Bad Example")
		r.Println("")
		r.Println(output.FormatCodeBlock("sql", rule.BadExample))
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println("## Good Example")
		r.Println("")
		r.Println(output.FormatCodeBlock("sql", rule.GoodExample))
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Printf("Options: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}

	return nil
}
