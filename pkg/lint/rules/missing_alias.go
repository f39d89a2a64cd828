package rules

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	MissingAlias.Check = checkMissingAlias
	lint.Register(MissingAlias)
}

// MissingAlias flags unaliased tables in queries that reference several tables.
var MissingAlias = lint.RuleDef{
	Code:        lint.CodeMissingAlias,
	Name:        "aliasing.missing_alias",
	Group:       "aliasing",
	Description: "Table without an alias in a multi-table query.",
	Severity:    core.SeverityInfo,
	ConfigKeys:  []string{"min_tables"},

	Rationale: `With several tables in scope, short aliases keep column qualifiers
readable and make it obvious which table each column comes from.`,

	BadExample: `SELECT orders.id, customers.name
FROM orders JOIN customers ON orders.customer_id = customers.id`,

	GoodExample: `SELECT o.id, c.name
FROM orders o JOIN customers c ON o.customer_id = c.id`,
}

type missingAliasOptions struct {
	MinTables int `mapstructure:"min_tables"`
}

func checkMissingAlias(stmt *ast.Statement, opts map[string]any) []lint.Diagnostic {
	o := missingAliasOptions{MinTables: 2}
	if err := lint.DecodeOptions(opts, &o); err != nil || o.MinTables < 1 {
		o.MinTables = 2
	}

	ctes := make(map[string]bool)
	for _, name := range ast.CTENames(stmt) {
		ctes[strings.ToLower(name)] = true
	}
	var tables []*ast.Table
	for _, t := range ast.Tables(stmt) {
		if t.Schema == "" && ctes[strings.ToLower(t.Name)] {
			continue
		}
		tables = append(tables, t)
	}
	if len(tables) < o.MinTables {
		return nil
	}

	var diags []lint.Diagnostic
	for _, t := range tables {
		if t.Alias != "" {
			continue
		}
		diags = append(diags, MissingAlias.New(
			fmt.Sprintf("Table '%s' has no alias in multi-table query", t.Name),
			fmt.Sprintf("Add alias: %s AS %s", t.Name, initial(t.Name)),
		))
	}
	return diags
}
