package rules

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	MissingGroupBy.Check = checkMissingGroupBy
	lint.Register(MissingGroupBy)
}

// MissingGroupBy flags select lists that mix aggregates and bare columns
// without a GROUP BY.
var MissingGroupBy = lint.RuleDef{
	Code:        lint.CodeMissingGroupBy,
	Name:        "correctness.missing_group_by",
	Group:       "correctness",
	Description: "Aggregate mixed with non-aggregated columns and no GROUP BY.",
	Severity:    core.SeverityError,

	Rationale: `Without GROUP BY, the bare column has no single value per result row.
Strict engines reject the query; lenient ones return an arbitrary value.`,

	BadExample: `SELECT region, SUM(amount) FROM sales`,

	GoodExample: `SELECT region, SUM(amount) FROM sales GROUP BY region`,
}

func checkMissingGroupBy(stmt *ast.Statement, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, sel := range ast.Selects(stmt) {
		if sel.GroupBy != nil {
			continue
		}
		var bare []string
		aggregated := false
		for _, item := range sel.Items {
			if col, ok := item.Expr.(*ast.Column); ok {
				bare = append(bare, col.Text())
				continue
			}
			if ast.ContainsGroupingAggregate(item.Expr) {
				aggregated = true
			}
		}
		if !aggregated || len(bare) == 0 {
			continue
		}
		diags = append(diags, MissingGroupBy.New(
			fmt.Sprintf("Aggregate mixed with non-aggregated columns (%s) but no GROUP BY", strings.Join(bare, ", ")),
			fmt.Sprintf("Add GROUP BY %s", strings.Join(bare, ", ")),
		))
	}
	return diags
}
