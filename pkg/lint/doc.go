// Package lint runs quality and anti-pattern rules over a parsed statement.
//
// # Architecture
//
// The root package holds the shared contracts: diagnostic codes, the
// Diagnostic record, the RuleDef definition, an ordered registry and the
// Analyzer. The rules themselves live in pkg/lint/rules and register
// through init() functions when that package is imported:
//
//	import _ "github.com/leapstack-labs/sqlprobe/pkg/lint/rules"
//
// # Running rules
//
//	analyzer := lint.NewAnalyzer(lint.NewConfig())
//	for _, d := range analyzer.Analyze(stmt) {
//	    fmt.Printf("%s %s: %s\n", d.Severity, d.Type, d.Message)
//	}
//
// Rules run in a fixed order and results keep that order. Every rule is
// isolated: a rule that panics contributes zero findings and the rest of
// the batch still runs.
//
// # Configuration
//
//	config := lint.NewConfig()
//	config.Disable(lint.CodeWhere1Equals1)
//	config.SetSeverity(lint.CodeSelectStar, core.SeverityError)
//	config.SetRuleOptions(lint.CodeNestedSubquery, map[string]any{"max_depth": 4})
//
// Rule options are decoded into typed structs with DecodeOptions.
package lint
