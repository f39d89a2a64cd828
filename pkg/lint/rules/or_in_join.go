package rules

import (
	"fmt"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	OrInJoin.Check = checkOrInJoin
	lint.Register(OrInJoin)
}

// OrInJoin flags OR inside a join condition.
var OrInJoin = lint.RuleDef{
	Code:        lint.CodeOrInJoin,
	Name:        "performance.or_in_join",
	Group:       "performance",
	Description: "Join condition contains OR.",
	Severity:    core.SeverityWarning,

	Rationale: `OR in a join condition prevents hash and merge joins and usually falls
back to a nested loop. It can also match rows more than once.`,

	BadExample: `SELECT * FROM a JOIN b ON a.id = b.a_id OR a.code = b.a_code`,

	GoodExample: `SELECT * FROM a JOIN b ON a.id = b.a_id
UNION
SELECT * FROM a JOIN b ON a.code = b.a_code`,
}

func checkOrInJoin(stmt *ast.Statement, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, j := range ast.Joins(stmt) {
		if j.On == nil || !containsOr(j.On) {
			continue
		}
		diags = append(diags, OrInJoin.New(
			fmt.Sprintf("OR in join condition to %s", refName(j.Right)),
			"Split the join into separate queries combined with UNION, or normalize the keys",
		))
	}
	return diags
}

func containsOr(e ast.Expr) bool {
	found := false
	inspectLevel(e, func(n ast.Node) bool {
		if b, ok := n.(*ast.BinaryOp); ok && b.Op == "OR" {
			found = true
		}
		return !found
	})
	return found
}
