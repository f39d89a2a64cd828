package rules

import (
	"fmt"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	NestedSubquery.Check = checkNestedSubquery
	lint.Register(NestedSubquery)
}

// NestedSubquery flags deeply nested subqueries.
var NestedSubquery = lint.RuleDef{
	Code:        lint.CodeNestedSubquery,
	Name:        "structure.nested_subquery",
	Group:       "structure",
	Description: "Subqueries nested three or more levels deep.",
	Severity:    core.SeverityInfo,
	ConfigKeys:  []string{"max_depth"},

	Rationale: `Deep nesting is hard to read and test. Each level can usually become a
named CTE.`,

	BadExample: `SELECT * FROM (SELECT * FROM (SELECT * FROM (SELECT id FROM t) a) b) c`,

	GoodExample: `WITH a AS (SELECT id FROM t)
SELECT id FROM a`,
}

type nestedSubqueryOptions struct {
	MaxDepth int `mapstructure:"max_depth"`
}

func checkNestedSubquery(stmt *ast.Statement, opts map[string]any) []lint.Diagnostic {
	o := nestedSubqueryOptions{MaxDepth: 3}
	if err := lint.DecodeOptions(opts, &o); err != nil || o.MaxDepth < 1 {
		o.MaxDepth = 3
	}

	depth := ast.SubqueryDepth(stmt)
	if depth < o.MaxDepth {
		return nil
	}
	return []lint.Diagnostic{NestedSubquery.New(
		fmt.Sprintf("Subqueries nested %d levels deep", depth),
		"Refactor nested subqueries into CTEs for readability",
	)}
}
