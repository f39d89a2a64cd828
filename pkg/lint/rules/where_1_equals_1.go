package rules

import (
	"regexp"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	Where1Equals1.Check = checkWhere1Equals1
	lint.Register(Where1Equals1)
}

// Where1Equals1 flags the 1=1 placeholder left by dynamic SQL builders.
var Where1Equals1 = lint.RuleDef{
	Code:        lint.CodeWhere1Equals1,
	Name:        "convention.where_1_equals_1",
	Group:       "convention",
	Description: "WHERE clause contains a 1=1 tautology.",
	Severity:    core.SeverityInfo,

	Rationale: `1=1 is a string-building convenience. In a checked-in model it is noise
that hides the real predicates.`,

	BadExample: `SELECT id FROM orders WHERE 1=1 AND status = 'open'`,

	GoodExample: `SELECT id FROM orders WHERE status = 'open'`,
}

var oneEqualsOne = regexp.MustCompile(`(^|[^\w.])1\s*=\s*1([^\w.]|$)`)

func checkWhere1Equals1(stmt *ast.Statement, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	ast.Walk(stmt, func(n ast.Node) bool {
		w, ok := n.(*ast.Where)
		if !ok || w.Cond == nil {
			return true
		}
		// Text matching is limited to conditions without subqueries so a
		// nested WHERE is reported once, by its own clause.
		textMatch := !hasSubquery(w.Cond) && oneEqualsOne.MatchString(w.Cond.Text())
		if textMatch || hasOneEqualsOne(w.Cond) {
			diags = append(diags, Where1Equals1.New(
				"WHERE 1=1 pattern detected",
				"Remove if not needed for dynamic SQL generation",
			))
		}
		return true
	})
	return diags
}

func hasOneEqualsOne(cond ast.Expr) bool {
	found := false
	inspectLevel(cond, func(n ast.Node) bool {
		b, ok := n.(*ast.BinaryOp)
		if ok && b.Op == "=" && isIntOne(b.Left) && isIntOne(b.Right) {
			found = true
		}
		return !found
	})
	return found
}

func isIntOne(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit.Type == ast.LiteralInt && lit.Value == "1"
}
