package rules

import (
	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	ImplicitJoin.Check = checkImplicitJoin
	lint.Register(ImplicitJoin)
}

// ImplicitJoin flags comma-separated FROM lists in the outermost query.
var ImplicitJoin = lint.RuleDef{
	Code:        lint.CodeImplicitJoin,
	Name:        "joins.implicit_join",
	Group:       "joins",
	Description: "Comma-separated FROM list instead of explicit JOINs.",
	Severity:    core.SeverityWarning,

	Rationale: `Implicit joins mix join conditions into WHERE, which makes missing
conditions easy to overlook and the intended join type unclear.`,

	BadExample: `SELECT o.id, c.name FROM orders o, customers c WHERE o.customer_id = c.id`,

	GoodExample: `SELECT o.id, c.name FROM orders o JOIN customers c ON o.customer_id = c.id`,
}

func checkImplicitJoin(stmt *ast.Statement, _ map[string]any) []lint.Diagnostic {
	if stmt == nil {
		return nil
	}
	sel := ast.MainSelect(stmt.Body)
	if sel == nil || sel.From == nil {
		return nil
	}

	tables := tableCount(sel.From)
	if tables < 2 {
		return nil
	}

	explicit, commas := 0, 0
	for _, j := range sel.From.Joins {
		if j.Type == ast.JoinComma {
			commas++
		} else {
			explicit++
		}
	}
	if commas == 0 || explicit >= tables-1 {
		return nil
	}

	return []lint.Diagnostic{ImplicitJoin.New(
		"Implicit join (comma-separated FROM) detected",
		"Use explicit JOIN syntax for clarity",
	)}
}
