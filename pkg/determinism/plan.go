package determinism

import (
	"fmt"
	"strings"
)

// DefaultTieBreakerColumn is the column Plan recommends adding to window
// ORDER BY clauses.
const DefaultTieBreakerColumn = "_row_hash"

// PlanOptions controls remediation output.
type PlanOptions struct {
	// TieBreakerColumn is named in window recommendations.
	TieBreakerColumn string
	// MonitoringColumns includes the DQ column template when any window
	// issue was found.
	MonitoringColumns bool
}

// DefaultPlanOptions returns the options used by the CLI.
func DefaultPlanOptions() PlanOptions {
	return PlanOptions{
		TieBreakerColumn:  DefaultTieBreakerColumn,
		MonitoringColumns: true,
	}
}

// Remediation is the set of changes that would make a statement
// deterministic.
type Remediation struct {
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
	DQChecks        string   `json:"dq_checks,omitempty" yaml:"dq_checks,omitempty"`
	DQColumns       string   `json:"dq_column_template,omitempty" yaml:"dq_column_template,omitempty"`
	Issues          []Issue  `json:"issues" yaml:"issues"`
}

// Plan builds a remediation from issues. Window ordering issues recommend
// adding the tie-breaker column and contribute their DQ queries; LIMIT
// issues recommend an ORDER BY.
func Plan(issues []Issue, opts PlanOptions) *Remediation {
	if opts.TieBreakerColumn == "" {
		opts.TieBreakerColumn = DefaultTieBreakerColumn
	}

	r := &Remediation{
		Recommendations: []string{},
		Issues:          issues,
	}
	var checks []string
	window := false
	for _, issue := range issues {
		switch {
		case issue.Type.IsWindow():
			window = true
			r.Recommendations = append(r.Recommendations,
				fmt.Sprintf("Add %s to ORDER BY in %s", opts.TieBreakerColumn, issue.Location))
			if issue.DQCheckSQL != "" {
				checks = append(checks, issue.DQCheckSQL)
			}
		case issue.Type == LimitNoOrder:
			r.Recommendations = append(r.Recommendations, "Add ORDER BY clause before LIMIT")
		}
	}

	r.DQChecks = strings.Join(checks, "\n\n")
	if opts.MonitoringColumns && window {
		r.DQColumns = MonitoringColumns
	}
	return r
}
