package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlprobe/internal/cli/output"
	"github.com/leapstack-labs/sqlprobe/internal/engine"
	"github.com/leapstack-labs/sqlprobe/pkg/analysis"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/determinism"
	"github.com/leapstack-labs/sqlprobe/pkg/lineage"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

// =============================================================================
// Shared section renderers (text and markdown)
// =============================================================================

func severityLabel(r *output.Renderer, sev core.Severity) string {
	if r.EffectiveMode() == output.ModeMarkdown {
		return "`" + sev.String() + "`"
	}
	return r.Styles().Severity(sev).Render(fmt.Sprintf("%-7s", sev.String()))
}

func renderLineage(r *output.Renderer, cols []lineage.ColumnLineage, sources, ctes []string) {
	r.Header(2, "Lineage")
	if len(cols) == 0 {
		r.Muted("No output columns")
		r.Println("")
		return
	}

	rows := make([][]string, 0, len(cols))
	for _, c := range cols {
		refs := make([]string, len(c.SourceColumns))
		for i := range c.SourceColumns {
			refs[i] = c.SourceTables[i] + "." + c.SourceColumns[i]
		}
		rows = append(rows, []string{
			c.Target(),
			string(c.MappingType),
			strings.Join(refs, ", "),
			truncateOneLine(c.Expression, 60),
		})
	}
	r.Table([]string{"Target", "Mapping", "Sources", "Expression"}, rows)
	r.Println("")

	if len(sources) > 0 {
		r.Println(output.FormatKeyValue("Source tables", strings.Join(sources, ", ")))
	}
	if len(ctes) > 0 {
		r.Println(output.FormatKeyValue("CTEs", strings.Join(ctes, ", ")))
	}
	if len(sources) > 0 || len(ctes) > 0 {
		r.Println("")
	}
}

func renderDiagnostics(r *output.Renderer, diags []lint.Diagnostic) {
	r.Header(2, "Diagnostics")
	if len(diags) == 0 {
		r.Success("No lint issues found")
		r.Println("")
		return
	}
	for _, d := range diags {
		renderDiagnostic(r, d)
	}
	r.Println("")
}

func renderDiagnostic(r *output.Renderer, d lint.Diagnostic) {
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Printf("- %s **%s** %s\n", severityLabel(r, d.Severity), d.Type, d.Message)
		if d.Suggestion != "" {
			r.Printf("  - Suggestion: %s\n", d.Suggestion)
		}
		return
	}
	styles := r.Styles()
	r.Printf("  %s %s  %s\n", severityLabel(r, d.Severity), styles.Bold.Render(string(d.Type)), d.Message)
	if d.Suggestion != "" {
		r.Println(styles.Muted.Render("          → " + d.Suggestion))
	}
}

func renderIssues(r *output.Renderer, issues []determinism.Issue, showSQL bool) {
	r.Header(2, "Determinism")
	if len(issues) == 0 {
		r.Success("No determinism issues found")
		r.Println("")
		return
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	styles := r.Styles()
	for _, is := range issues {
		if markdown {
			r.Printf("- %s **%s** %s\n", severityLabel(r, is.Severity), is.Type, is.Message)
			r.Printf("  - Location: %s\n", is.Location)
			r.Printf("  - Suggestion: %s\n", is.Suggestion)
			if len(is.TieBreakerColumns) > 0 {
				r.Printf("  - Tie-breakers: `%s`\n", strings.Join(is.TieBreakerColumns, "`, `"))
			}
		} else {
			r.Printf("  %s %s  %s\n", severityLabel(r, is.Severity), styles.Bold.Render(string(is.Type)), is.Message)
			r.Println(styles.Muted.Render("          at " + is.Location))
			r.Println(styles.Muted.Render("          → " + is.Suggestion))
			if len(is.TieBreakerColumns) > 0 {
				r.Println(styles.Muted.Render("          tie-breakers: " + strings.Join(is.TieBreakerColumns, ", ")))
			}
		}
		if showSQL && is.DQCheckSQL != "" {
			r.Println("")
			if markdown {
				r.Println(output.FormatCodeBlock("sql", is.DQCheckSQL))
			} else {
				for _, line := range strings.Split(is.DQCheckSQL, "\n") {
					r.Println("          " + styles.Code.Render(line))
				}
			}
		}
	}
	r.Println("")
}

func renderReport(r *output.Renderer, name string, report *analysis.Report) {
	r.Header(1, name)
	if report.Failed() {
		r.Error("parse error: " + report.ParseError)
		r.Println("")
	}
	renderLineage(r, report.Lineage, report.Sources, report.CTEs)
	renderDiagnostics(r, report.Diagnostics)
	renderIssues(r, report.Issues, false)
}

func renderSummary(r *output.Renderer, s *engine.Summary) {
	r.Header(1, "Summary")
	r.Println(output.FormatKeyValue("Files analyzed", s.FilesAnalyzed))
	r.Println(output.FormatKeyValue("Diagnostics", s.TotalDiagnostics))
	r.Println(output.FormatKeyValue("Determinism issues", s.TotalIssues))
	if s.ParseErrors > 0 {
		r.Println(output.FormatKeyValue("Parse errors", s.ParseErrors))
	}
	if len(s.ByType) == 0 {
		r.Println("")
		return
	}
	r.Println("")

	rows := make([][]string, 0, len(s.ByType))
	for _, code := range findingOrder(s.ByType) {
		rows = append(rows, []string{code, fmt.Sprint(s.ByType[code])})
	}
	r.Table([]string{"Finding", "Count"}, rows)
	r.Println("")
}

// findingOrder lists the keys of byType in rule order, then check order.
func findingOrder(byType map[string]int) []string {
	var order []string
	for _, c := range lint.AllCodes() {
		order = append(order, string(c))
	}
	for _, t := range determinism.AllIssueTypes() {
		order = append(order, string(t))
	}
	order = append(order, string(lint.CodeParseError))

	var out []string
	for _, k := range order {
		if byType[k] > 0 {
			out = append(out, k)
		}
	}
	return out
}
