package lint

import (
	"strings"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
)

// =============================================================================
// Codes
// =============================================================================

// Code identifies the kind of a diagnostic.
type Code string

// Diagnostic codes in rule evaluation order.
const (
	CodeSelectStar          Code = "SELECT_STAR"
	CodeMissingAlias        Code = "MISSING_ALIAS"
	CodeOrderByNumber       Code = "ORDER_BY_NUMBER"
	CodeImplicitJoin        Code = "IMPLICIT_JOIN"
	CodeWhere1Equals1       Code = "WHERE_1_EQUALS_1"
	CodeDistinctStar        Code = "DISTINCT_STAR"
	CodeCartesianJoin       Code = "CARTESIAN_JOIN"
	CodeDuplicateColumn     Code = "DUPLICATE_COLUMN"
	CodeNestedSubquery      Code = "NESTED_SUBQUERY"
	CodeUnionColumnMismatch Code = "UNION_COLUMN_MISMATCH"
	CodeLeadingWildcard     Code = "LEADING_WILDCARD"
	CodeFunctionInWhere     Code = "FUNCTION_IN_WHERE"
	CodeOrInJoin            Code = "OR_IN_JOIN"
	CodeHardcodedDate       Code = "HARDCODED_DATE"
	CodeMissingGroupBy      Code = "MISSING_GROUP_BY"

	// CodeParseError is reported instead of rule findings when the SQL
	// text could not be parsed.
	CodeParseError Code = "PARSE_ERROR"
)

var ruleCodes = []Code{
	CodeSelectStar,
	CodeMissingAlias,
	CodeOrderByNumber,
	CodeImplicitJoin,
	CodeWhere1Equals1,
	CodeDistinctStar,
	CodeCartesianJoin,
	CodeDuplicateColumn,
	CodeNestedSubquery,
	CodeUnionColumnMismatch,
	CodeLeadingWildcard,
	CodeFunctionInWhere,
	CodeOrInJoin,
	CodeHardcodedDate,
	CodeMissingGroupBy,
}

// AllCodes returns the rule codes in evaluation order. PARSE_ERROR is not
// a rule and is not included.
func AllCodes() []Code {
	out := make([]Code, len(ruleCodes))
	copy(out, ruleCodes)
	return out
}

// ParseCode looks up a code by name, ignoring case.
func ParseCode(s string) (Code, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(CodeParseError)) {
		return CodeParseError, true
	}
	for _, c := range ruleCodes {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

func orderOf(c Code) int {
	for i, rc := range ruleCodes {
		if rc == c {
			return i
		}
	}
	return len(ruleCodes)
}

// =============================================================================
// Diagnostics
// =============================================================================

// Diagnostic is a single finding.
type Diagnostic struct {
	Type       Code          `json:"type" yaml:"type"`
	Severity   core.Severity `json:"severity" yaml:"severity"`
	Message    string        `json:"message" yaml:"message"`
	Suggestion string        `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// =============================================================================
// Rule Definitions
// =============================================================================

// CheckFunc inspects a statement and returns its findings. Options carries
// the rule's configured options and may be nil.
type CheckFunc func(stmt *ast.Statement, opts map[string]any) []Diagnostic

// RuleDef is a data-driven rule definition. Rules are stateless: all
// context comes through the Check parameters.
type RuleDef struct {
	Code        Code          // Diagnostic code the rule emits
	Name        string        // Human-readable name, e.g. "structure.select_star"
	Group       string        // Category: "structure", "joins", "performance", "correctness"
	Description string        // One-line description
	Severity    core.Severity // Default severity
	Check       CheckFunc
	ConfigKeys  []string // Option keys the rule accepts

	Rationale   string
	BadExample  string
	GoodExample string
}

// New builds a finding of this rule at its default severity.
func (r RuleDef) New(message, suggestion string) Diagnostic {
	return Diagnostic{
		Type:       r.Code,
		Severity:   r.Severity,
		Message:    message,
		Suggestion: suggestion,
	}
}
