package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlprobe/internal/cli/output"
	"github.com/leapstack-labs/sqlprobe/pkg/determinism"
	"github.com/leapstack-labs/sqlprobe/pkg/parser"
)

// DeterminismOptions holds options for the determinism command.
type DeterminismOptions struct {
	SQL        string // Inline SQL instead of a file
	Format     string // Output format override
	Plan       bool   // Print a remediation plan
	ShowSQL    bool   // Print the DQ check query of each issue
	TieBreaker string // Column recommended by the plan
}

// NewDeterminismCommand creates the determinism command.
func NewDeterminismCommand() *cobra.Command {
	opts := &DeterminismOptions{}
	cmd := &cobra.Command{
		Use:   "determinism [file|-]",
		Short: "Find constructs whose results are not reproducible",
		Long: `Flag SQL whose result set or row order can change between runs:
window functions without a unique ORDER BY, LIMIT or DISTINCT without
ORDER BY, and volatile functions such as RANDOM() or NOW().

Window issues carry tie-breaker suggestions and a data-quality query that
finds the rows whose order is ambiguous. --plan turns the issues into a
list of recommended changes.`,
		Example: `  # Check a model
  sqlprobe determinism models/ranked.sql

  # Remediation plan with DQ checks
  sqlprobe determinism models/ranked.sql --plan

  # Inline SQL
  sqlprobe determinism --sql "SELECT * FROM orders LIMIT 10"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeterminism(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SQL, "sql", "", "SQL statement to analyze")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().BoolVar(&opts.Plan, "plan", false, "Print a remediation plan")
	cmd.Flags().BoolVar(&opts.ShowSQL, "show-sql", false, "Print DQ check queries")
	cmd.Flags().StringVar(&opts.TieBreaker, "tie-breaker", determinism.DefaultTieBreakerColumn, "Tie-breaker column used in the plan")

	return cmd
}

func runDeterminism(cmd *cobra.Command, args []string, opts *DeterminismOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd, opts.Format)
	r := cmdCtx.Renderer

	detCfg, err := cmdCtx.Cfg.ToDeterminismConfig()
	if err != nil {
		return err
	}

	name, sql, err := readSQL(cmd, args, opts.SQL)
	if err != nil {
		return err
	}
	stmt, err := parser.ParseWithOptions(sql, parser.Options{ANSI: cmdCtx.Cfg.Parser.ANSIQuotes})
	if err != nil {
		return fmt.Errorf("%s: parse error: %w", name, err)
	}

	analyzer := determinism.NewAnalyzer(detCfg).OnFault(func(check string, recovered any) {
		cmdCtx.Logger.Debug("determinism check failed", "check", check, "panic", recovered)
	})
	issues := analyzer.Analyze(stmt)

	if !opts.Plan {
		if r.EffectiveMode().Structured() {
			return r.Data(issues)
		}
		r.Header(1, name)
		renderIssues(r, issues, opts.ShowSQL)
		return nil
	}

	plan := determinism.Plan(issues, determinism.PlanOptions{
		TieBreakerColumn:  opts.TieBreaker,
		MonitoringColumns: true,
	})
	if r.EffectiveMode().Structured() {
		return r.Data(plan)
	}
	r.Header(1, name)
	renderIssues(r, plan.Issues, false)
	renderPlan(r, plan)
	return nil
}

func renderPlan(r *output.Renderer, plan *determinism.Remediation) {
	r.Header(2, "Remediation")
	if len(plan.Recommendations) == 0 {
		r.Success("Nothing to change")
		return
	}
	for i, rec := range plan.Recommendations {
		r.Printf("%d. %s\n", i+1, rec)
	}
	r.Println("")

	if plan.DQChecks != "" {
		r.Header(2, "DQ Checks")
		renderSQL(r, plan.DQChecks)
	}
	if plan.DQColumns != "" {
		r.Header(2, "DQ Monitoring Columns")
		renderSQL(r, plan.DQColumns)
	}
}

func renderSQL(r *output.Renderer, sql string) {
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatCodeBlock("sql", sql))
		r.Println("")
		return
	}
	for _, line := range strings.Split(strings.TrimRight(sql, "\n"), "\n") {
		r.Println("  " + r.Styles().Code.Render(line))
	}
	r.Println("")
}
