package rules

import (
	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	SelectStar.Check = checkSelectStar
	lint.Register(SelectStar)
}

// SelectStar flags every * in a select list.
var SelectStar = lint.RuleDef{
	Code:        lint.CodeSelectStar,
	Name:        "structure.select_star",
	Group:       "structure",
	Description: "SELECT * instead of an explicit column list.",
	Severity:    core.SeverityWarning,

	Rationale: `A star expands to whatever columns the table has at run time. Adding,
removing or reordering columns upstream silently changes the query's output and
reads more data than needed.`,

	BadExample: `SELECT * FROM orders`,

	GoodExample: `SELECT id, customer_id, amount FROM orders`,
}

func checkSelectStar(stmt *ast.Statement, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	ast.Walk(stmt, func(n ast.Node) bool {
		if _, ok := n.(*ast.Star); ok {
			diags = append(diags, SelectStar.New(
				"SELECT * detected - explicit column list recommended",
				"Replace * with explicit column names for better maintainability and performance",
			))
		}
		return true
	})
	return diags
}
