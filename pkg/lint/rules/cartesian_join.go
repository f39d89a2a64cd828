package rules

import (
	"fmt"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	CartesianJoin.Check = checkCartesianJoin
	lint.Register(CartesianJoin)
}

// CartesianJoin flags joins with no condition that are not written as CROSS JOIN.
var CartesianJoin = lint.RuleDef{
	Code:        lint.CodeCartesianJoin,
	Name:        "joins.cartesian_join",
	Group:       "joins",
	Description: "Join without ON or USING that is not an explicit CROSS JOIN.",
	Severity:    core.SeverityWarning,

	Rationale: `A join with no condition pairs every row with every other row. When that
is intended, CROSS JOIN says so; otherwise a condition is missing.`,

	BadExample: `SELECT o.id, c.name FROM orders o JOIN customers c`,

	GoodExample: `SELECT o.id, c.name FROM orders o JOIN customers c ON o.customer_id = c.id`,
}

func checkCartesianJoin(stmt *ast.Statement, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, sel := range ast.Selects(stmt) {
		for _, j := range joinsOf(sel.From) {
			if j.HasCondition() || j.Type == ast.JoinCross {
				continue
			}
			// A comma list joined through WHERE is reported by IMPLICIT_JOIN.
			if j.Type == ast.JoinComma && sel.Where != nil {
				continue
			}
			diags = append(diags, CartesianJoin.New(
				fmt.Sprintf("Join to %s has no join condition - produces a Cartesian product", refName(j.Right)),
				"Add an ON or USING condition, or write CROSS JOIN if the product is intended",
			))
		}
	}
	return diags
}

func refName(ref ast.TableRef) string {
	switch r := ref.(type) {
	case *ast.Table:
		if r.Alias != "" {
			return r.QualifiedName() + " " + r.Alias
		}
		return r.QualifiedName()
	case *ast.DerivedTable:
		if r.Alias != "" {
			return "subquery " + r.Alias
		}
		return "subquery"
	}
	return "joined table"
}
