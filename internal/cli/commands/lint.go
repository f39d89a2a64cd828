package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlprobe/internal/cli/output"
	"github.com/leapstack-labs/sqlprobe/internal/engine"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

// errLintIssues is returned when findings at or above the threshold exist,
// so the process exits non-zero.
var errLintIssues = errors.New("lint issues found")

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format   string   // Output format override
	Disable  []string // Rule codes to disable
	Severity string   // Minimum severity: error, warning, info
	Rules    []string // Run only specific rules
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...|-]",
		Short: "Run lint rules on SQL files",
		Long: `Check SQL files for anti-patterns such as SELECT *, implicit joins,
cartesian products, leading-wildcard LIKE patterns and aggregates
without GROUP BY.

Rules can be disabled or re-levelled in sqlprobe.yaml under "lint".
The command exits with status 1 when a finding at or above --severity
remains.`,
		Example: `  # Lint every .sql file in the project
  sqlprobe lint

  # Lint a directory as JSON
  sqlprobe lint ./models -o json

  # Disable specific rules
  sqlprobe lint --disable SELECT_STAR,MISSING_ALIAS

  # Only fail on errors
  sqlprobe lint --severity error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule codes to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "info", "Minimum severity to report: error, warning, info")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("rule", completeRuleCodes)
	_ = cmd.RegisterFlagCompletionFunc("disable", completeRuleCodes)

	return cmd
}

func completeRuleCodes(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	var codes []string
	for _, c := range lint.AllCodes() {
		codes = append(codes, string(c))
	}
	return codes, cobra.ShellCompDirectiveNoFileComp
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd, opts.Format)
	r := cmdCtx.Renderer

	threshold, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("invalid severity %q (expected error, warning or info)", opts.Severity)
	}

	analysisOpts, err := cmdCtx.Cfg.AnalysisOptions()
	if err != nil {
		return err
	}
	if err := applyLintFlags(analysisOpts.Lint, opts); err != nil {
		return err
	}
	eng := engine.New(engine.Config{
		Analysis:    analysisOpts,
		Concurrency: cmdCtx.Cfg.Concurrency,
		Logger:      cmdCtx.Logger,
	})

	var summary *engine.Summary
	if isStdin(args) {
		name, sql, err := readSQL(cmd, args, "")
		if err != nil {
			return err
		}
		summary = engine.Summarize([]engine.FileResult{eng.AnalyzeSource(name, sql)})
	} else {
		files, err := eng.Discover(analysisPaths(args, cmdCtx.Cfg))
		if err != nil {
			return err
		}
		if summary, err = eng.AnalyzeFiles(contextOf(cmd), files); err != nil {
			return err
		}
	}

	results := filterBySeverity(summary, threshold)
	if renderLintResults(r, results, summary.FilesAnalyzed) {
		return errLintIssues
	}
	return nil
}

// applyLintFlags layers command-line rule selection over the configured rules.
func applyLintFlags(cfg *lint.Config, opts *LintOptions) error {
	for _, name := range opts.Disable {
		code, ok := lint.ParseCode(strings.TrimSpace(name))
		if !ok {
			return fmt.Errorf("unknown rule %q", name)
		}
		cfg.Disable(code)
	}
	if len(opts.Rules) == 0 {
		return nil
	}

	only := make(map[lint.Code]bool)
	for _, name := range opts.Rules {
		code, ok := lint.ParseCode(strings.TrimSpace(name))
		if !ok {
			return fmt.Errorf("unknown rule %q", name)
		}
		only[code] = true
	}
	for _, code := range lint.AllCodes() {
		if !only[code] {
			cfg.Disable(code)
		}
	}
	return nil
}

func filterBySeverity(s *engine.Summary, threshold core.Severity) []output.LintFileResult {
	var out []output.LintFileResult
	for _, f := range s.Files {
		var diags []lint.Diagnostic
		for _, d := range f.Report.Diagnostics {
			if d.Severity.AtLeast(threshold) {
				diags = append(diags, d)
			}
		}
		if len(diags) > 0 {
			out = append(out, output.LintFileResult{Path: f.Path, Diagnostics: diags})
		}
	}
	return out
}

// renderLintResults writes the findings and reports whether any exist.
func renderLintResults(r *output.Renderer, results []output.LintFileResult, filesAnalyzed int) bool {
	summary := output.LintSummary{FilesAnalyzed: filesAnalyzed}
	for _, res := range results {
		for _, d := range res.Diagnostics {
			summary.Add(d.Severity)
		}
	}

	if r.EffectiveMode().Structured() {
		files := results
		if files == nil {
			files = []output.LintFileResult{}
		}
		_ = r.Data(output.LintOutput{Files: files, Summary: summary})
		return summary.TotalIssues > 0
	}

	if len(results) == 0 {
		r.Success(fmt.Sprintf("No lint issues found (%d files)", filesAnalyzed))
		return false
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	for _, res := range results {
		if markdown {
			r.Println(output.FormatHeader(2, res.Path))
			r.Println("")
		} else {
			r.Println(r.Styles().Bold.Render(res.Path))
		}
		for _, d := range res.Diagnostics {
			renderDiagnostic(r, d)
		}
		r.Println("")
	}

	line := fmt.Sprintf("%d issues in %d files (%d errors, %d warnings, %d info)",
		summary.TotalIssues, len(results), summary.Errors, summary.Warnings, summary.Info)
	if summary.Errors > 0 {
		r.Error(line)
	} else {
		r.Warning(line)
	}
	return true
}
