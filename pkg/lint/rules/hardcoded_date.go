package rules

import (
	"fmt"
	"regexp"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

func init() {
	HardcodedDate.Check = checkHardcodedDate
	lint.Register(HardcodedDate)
}

// HardcodedDate flags string literals that look like dates.
var HardcodedDate = lint.RuleDef{
	Code:        lint.CodeHardcodedDate,
	Name:        "convention.hardcoded_date",
	Group:       "convention",
	Description: "Date literal hardcoded in the query.",
	Severity:    core.SeverityInfo,

	Rationale: `Hardcoded dates go stale and make a model behave differently depending
on when it runs. Parameters or date functions keep the intent explicit.`,

	BadExample: `SELECT id FROM orders WHERE created_at >= '2024-01-01'`,

	GoodExample: `SELECT id FROM orders WHERE created_at >= :start_date`,
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([ T].*)?$`), // YYYY-MM-DD
	regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),          // MM/DD/YYYY
	regexp.MustCompile(`^\d{8}$`),                      // YYYYMMDD
}

func checkHardcodedDate(stmt *ast.Statement, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	ast.Walk(stmt, func(n ast.Node) bool {
		lit, ok := n.(*ast.Literal)
		if !ok || !lit.IsString() || !looksLikeDate(lit.Value) {
			return true
		}
		diags = append(diags, HardcodedDate.New(
			fmt.Sprintf("Hardcoded date '%s' detected", lit.Value),
			"Use a parameter or a date function so the query does not go stale",
		))
		return true
	})
	return diags
}

func looksLikeDate(s string) bool {
	for _, re := range datePatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
