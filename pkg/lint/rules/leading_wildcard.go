package rules

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	LeadingWildcard.Check = checkLeadingWildcard
	lint.Register(LeadingWildcard)
}

// LeadingWildcard flags LIKE patterns that start with %.
var LeadingWildcard = lint.RuleDef{
	Code:        lint.CodeLeadingWildcard,
	Name:        "performance.leading_wildcard",
	Group:       "performance",
	Description: "LIKE pattern starts with a wildcard.",
	Severity:    core.SeverityInfo,

	Rationale: `A pattern that starts with % cannot use a B-tree index and forces a
scan of every row.`,

	BadExample: `SELECT id FROM customers WHERE email LIKE '%@example.com'`,

	GoodExample: `SELECT id FROM customers WHERE email_domain = 'example.com'`,
}

func checkLeadingWildcard(stmt *ast.Statement, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	ast.Walk(stmt, func(n ast.Node) bool {
		b, ok := n.(*ast.BinaryOp)
		if !ok || (b.Op != "LIKE" && b.Op != "NOT LIKE") {
			return true
		}
		lit, ok := b.Right.(*ast.Literal)
		if !ok || lit.Type != ast.LiteralString || !strings.HasPrefix(lit.Value, "%") {
			return true
		}
		diags = append(diags, LeadingWildcard.New(
			fmt.Sprintf("LIKE pattern '%s' starts with a wildcard - index cannot be used", lit.Value),
			"Anchor the pattern at the start, or use a full-text or reverse index",
		))
		return true
	})
	return diags
}
