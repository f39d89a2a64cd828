package rules

import (
	"fmt"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	FunctionInWhere.Check = checkFunctionInWhere
	lint.Register(FunctionInWhere)
}

// FunctionInWhere flags WHERE predicates that wrap a column in a function call.
var FunctionInWhere = lint.RuleDef{
	Code:        lint.CodeFunctionInWhere,
	Name:        "performance.function_in_where",
	Group:       "performance",
	Description: "Function applied directly to a column in WHERE.",
	Severity:    core.SeverityInfo,

	Rationale: `Wrapping an indexed column in a function makes the predicate
non-SARGable: the index on that column can no longer be used.`,

	BadExample: `SELECT id FROM orders WHERE YEAR(created_at) = 2024`,

	GoodExample: `SELECT id FROM orders
WHERE created_at >= '2024-01-01' AND created_at < '2025-01-01'`,
}

func checkFunctionInWhere(stmt *ast.Statement, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	ast.Walk(stmt, func(n ast.Node) bool {
		w, ok := n.(*ast.Where)
		if !ok {
			return true
		}
		inspectLevel(w.Cond, func(n ast.Node) bool {
			fn, ok := n.(*ast.FunctionCall)
			if !ok {
				return true
			}
			for _, arg := range fn.Args {
				col, ok := arg.(*ast.Column)
				if !ok {
					continue
				}
				diags = append(diags, FunctionInWhere.New(
					fmt.Sprintf("Function %s() applied to column %s in WHERE clause", fn.Name, col.Text()),
					"Rewrite the predicate so the bare column is compared, allowing index use",
				))
				break
			}
			return true
		})
		return true
	})
	return diags
}
