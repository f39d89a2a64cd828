package rules

import (
	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	DistinctStar.Check = checkDistinctStar
	lint.Register(DistinctStar)
}

// DistinctStar flags SELECT DISTINCT *.
var DistinctStar = lint.RuleDef{
	Code:        lint.CodeDistinctStar,
	Name:        "structure.distinct_star",
	Group:       "structure",
	Description: "SELECT DISTINCT over every column.",
	Severity:    core.SeverityWarning,

	Rationale: `DISTINCT * deduplicates on every column the table happens to have.
It usually hides a join fan-out and gets more expensive as columns are added.`,

	BadExample: `SELECT DISTINCT * FROM order_lines`,

	GoodExample: `SELECT DISTINCT order_id, product_id FROM order_lines`,
}

func checkDistinctStar(stmt *ast.Statement, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, sel := range ast.Selects(stmt) {
		if !sel.Distinct {
			continue
		}
		for _, item := range sel.Items {
			if _, ok := item.Expr.(*ast.Star); ok {
				diags = append(diags, DistinctStar.New(
					"SELECT DISTINCT * deduplicates on every column",
					"List the columns that define a unique row, or fix the join that produces duplicates",
				))
				break
			}
		}
	}
	return diags
}
