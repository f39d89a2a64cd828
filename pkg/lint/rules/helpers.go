package rules

import (
	"strings"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
)

// joinsOf returns the joins of a FROM clause, including those inside
// parenthesized join groups but not those inside derived tables.
func joinsOf(from *ast.From) []*ast.Join {
	if from == nil {
		return nil
	}
	var out []*ast.Join
	if nj, ok := from.Source.(*ast.NestedJoin); ok {
		out = append(out, joinsOf(nj.From)...)
	}
	for _, j := range from.Joins {
		out = append(out, j)
		if nj, ok := j.Right.(*ast.NestedJoin); ok {
			out = append(out, joinsOf(nj.From)...)
		}
	}
	return out
}

// tableCount counts the table references a FROM clause lists directly.
func tableCount(from *ast.From) int {
	if from == nil || from.Source == nil {
		return 0
	}
	return 1 + len(from.Joins)
}

// inspectLevel walks e without entering subqueries.
func inspectLevel(e ast.Node, fn func(ast.Node) bool) {
	ast.Walk(e, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.Subquery, *ast.DerivedTable:
			return false
		}
		return fn(n)
	})
}

// itemName is the output name of a select item, or "" for an unnamed
// expression or a star.
func itemName(item *ast.SelectItem) string {
	if item.Alias != "" {
		return item.Alias
	}
	if c, ok := item.Expr.(*ast.Column); ok {
		return c.Name
	}
	return ""
}

func initial(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToLower(name[:1])
}

func hasSubquery(e ast.Node) bool {
	found := false
	ast.Walk(e, func(n ast.Node) bool {
		if _, ok := n.(*ast.Subquery); ok {
			found = true
		}
		return !found
	})
	return found
}
