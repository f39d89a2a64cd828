package lint

import (
	"github.com/leapstack-labs/sqlprobe/pkg/ast"
)

// FaultHandler is told about a rule that panicked. The rule's findings for
// that statement are dropped.
type FaultHandler func(code Code, recovered any)

// Analyzer runs the registered rules against parsed statements.
type Analyzer struct {
	config  *Config
	onFault FaultHandler
	rules   []RuleDef // nil = use the global registry
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// NewAnalyzerWithRules creates an analyzer that runs the given rules, in
// the given order, instead of the registry.
func NewAnalyzerWithRules(config *Config, rules []RuleDef) *Analyzer {
	a := NewAnalyzer(config)
	a.rules = rules
	return a
}

// OnFault installs a handler for rules that panic.
func (a *Analyzer) OnFault(fn FaultHandler) *Analyzer {
	a.onFault = fn
	return a
}

// Analyze runs every enabled rule against the statement and returns the
// findings in rule order.
func (a *Analyzer) Analyze(stmt *ast.Statement) []Diagnostic {
	diagnostics := []Diagnostic{}
	if stmt == nil {
		return diagnostics
	}

	rules := a.rules
	if rules == nil {
		rules = GetAll()
	}

	for _, rule := range rules {
		if a.config.IsDisabled(rule.Code) {
			continue
		}

		diags := a.run(rule, stmt)

		for i := range diags {
			diags[i].Severity = a.config.GetSeverity(rule.Code, diags[i].Severity)
		}
		diagnostics = append(diagnostics, diags...)
	}
	return diagnostics
}

// run executes one rule. A panic inside the rule yields no findings.
func (a *Analyzer) run(rule RuleDef, stmt *ast.Statement) (diags []Diagnostic) {
	if rule.Check == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			diags = nil
			if a.onFault != nil {
				a.onFault(rule.Code, r)
			}
		}
	}()
	return rule.Check(stmt, a.config.GetRuleOptions(rule.Code))
}
