package rules

import (
	"fmt"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	UnionColumnMismatch.Check = checkUnionColumnMismatch
	lint.Register(UnionColumnMismatch)
}

// UnionColumnMismatch flags set operations whose operands have different column counts.
var UnionColumnMismatch = lint.RuleDef{
	Code:        lint.CodeUnionColumnMismatch,
	Name:        "correctness.union_column_mismatch",
	Group:       "correctness",
	Description: "Set operation operands select different numbers of columns.",
	Severity:    core.SeverityError,

	Rationale: `UNION, INTERSECT and EXCEPT require every operand to have the same number
of columns. A mismatch fails at run time.`,

	BadExample: `SELECT id, name, email FROM customers
UNION ALL
SELECT id, name FROM suppliers`,

	GoodExample: `SELECT id, name, email FROM customers
UNION ALL
SELECT id, name, contact_email FROM suppliers`,
}

func checkUnionColumnMismatch(stmt *ast.Statement, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic

	// A chain a UNION b UNION c is one left-deep tree; only its root is
	// checked, against its first operand.
	inner := make(map[*ast.SetOperation]bool)
	ast.Walk(stmt, func(n ast.Node) bool {
		op, ok := n.(*ast.SetOperation)
		if !ok || inner[op] {
			return true
		}
		markChain(op, inner)

		branches := ast.Branches(op)
		if len(branches) < 2 {
			return true
		}
		first := columnCount(branches[0])
		for i := 1; i < len(branches); i++ {
			count := columnCount(branches[i])
			if first <= 0 || count <= 0 || count == first {
				continue
			}
			diags = append(diags, UnionColumnMismatch.New(
				fmt.Sprintf("%s operands select different column counts: first query has %d columns, query %d has %d",
					op.Op, first, i+1, count),
				"Make every query in the set operation select the same number of columns",
			))
		}
		return true
	})
	return diags
}

func markChain(op *ast.SetOperation, inner map[*ast.SetOperation]bool) {
	for _, side := range []ast.Query{op.Left, op.Right} {
		if child, ok := side.(*ast.SetOperation); ok && child != nil {
			inner[child] = true
			markChain(child, inner)
		}
	}
}

// columnCount returns the select-list length. A star counts as one item.
func columnCount(sel *ast.Select) int {
	return len(sel.Items)
}
