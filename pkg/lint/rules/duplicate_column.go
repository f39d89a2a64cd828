package rules

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	DuplicateColumn.Check = checkDuplicateColumn
	lint.Register(DuplicateColumn)
}

// DuplicateColumn flags select lists that produce the same output name twice.
var DuplicateColumn = lint.RuleDef{
	Code:        lint.CodeDuplicateColumn,
	Name:        "structure.duplicate_column",
	Group:       "structure",
	Description: "Same output column name appears more than once in a select list.",
	Severity:    core.SeverityWarning,

	Rationale: `Duplicate output names are rejected by most table writers and make
references from outer queries ambiguous.`,

	BadExample: `SELECT o.id, c.id FROM orders o JOIN customers c ON o.customer_id = c.id`,

	GoodExample: `SELECT o.id AS order_id, c.id AS customer_id
FROM orders o JOIN customers c ON o.customer_id = c.id`,
}

func checkDuplicateColumn(stmt *ast.Statement, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, sel := range ast.Selects(stmt) {
		counts := make(map[string]int)
		for _, item := range sel.Items {
			name := itemName(item)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			counts[key]++
			if counts[key] == 2 {
				diags = append(diags, DuplicateColumn.New(
					fmt.Sprintf("Column '%s' appears more than once in the select list", name),
					"Alias one of the columns so every output name is unique",
				))
			}
		}
	}
	return diags
}
