package rules

import (
	"fmt"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	OrderByNumber.Check = checkOrderByNumber
	lint.Register(OrderByNumber)
}

// OrderByNumber flags positional ORDER BY references.
var OrderByNumber = lint.RuleDef{
	Code:        lint.CodeOrderByNumber,
	Name:        "convention.order_by_number",
	Group:       "convention",
	Description: "ORDER BY refers to a column by position.",
	Severity:    core.SeverityWarning,

	Rationale: `Positional references break silently when the select list is edited:
ORDER BY 2 starts sorting by a different column without any error.`,

	BadExample: `SELECT name, created_at FROM users ORDER BY 2`,

	GoodExample: `SELECT name, created_at FROM users ORDER BY created_at`,
}

func checkOrderByNumber(stmt *ast.Statement, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	check := func(specs []*ast.OrderSpec) {
		for _, spec := range specs {
			lit, ok := spec.Expr.(*ast.Literal)
			if !ok || lit.Type != ast.LiteralInt {
				continue
			}
			diags = append(diags, OrderByNumber.New(
				fmt.Sprintf("ORDER BY uses column number (%s) instead of name", lit.Value),
				"Use column name for clarity and maintainability",
			))
		}
	}

	ast.Walk(stmt, func(n ast.Node) bool {
		switch q := n.(type) {
		case *ast.Select:
			check(q.OrderBy)
		case *ast.SetOperation:
			check(q.OrderBy)
		}
		return true
	})
	return diags
}
