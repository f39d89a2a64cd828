package determinism

import "github.com/leapstack-labs/sqlprobe/pkg/core"

// IssueType identifies the kind of a determinism finding.
type IssueType string

// Issue types.
const (
	WindowNoOrder        IssueType = "WINDOW_NO_ORDER"
	WindowNonUniqueOrder IssueType = "WINDOW_NON_UNIQUE_ORDER"
	FirstLastNoOrder     IssueType = "FIRST_LAST_NO_ORDER"
	LagLeadNoOrder       IssueType = "LAG_LEAD_NO_ORDER"
	LimitNoOrder         IssueType = "LIMIT_NO_ORDER"
	VolatileFunction     IssueType = "VOLATILE_FUNCTION"
	DistinctNoOrder      IssueType = "DISTINCT_NO_ORDER"
	ParseError           IssueType = "PARSE_ERROR"
)

// AllIssueTypes lists every check type. PARSE_ERROR is not a check and is
// not included.
func AllIssueTypes() []IssueType {
	return []IssueType{
		WindowNoOrder,
		WindowNonUniqueOrder,
		FirstLastNoOrder,
		LagLeadNoOrder,
		LimitNoOrder,
		VolatileFunction,
		DistinctNoOrder,
	}
}

// IsWindow reports whether t is produced by the window check.
func (t IssueType) IsWindow() bool {
	switch t {
	case WindowNoOrder, WindowNonUniqueOrder, FirstLastNoOrder, LagLeadNoOrder:
		return true
	}
	return false
}

// Issue is a single determinism finding.
type Issue struct {
	Type              IssueType     `json:"issue_type" yaml:"issue_type"`
	Severity          core.Severity `json:"severity" yaml:"severity"`
	Message           string        `json:"message" yaml:"message"`
	Location          string        `json:"location" yaml:"location"`
	Suggestion        string        `json:"suggestion" yaml:"suggestion"`
	TieBreakerColumns []string      `json:"tie_breaker_columns" yaml:"tie_breaker_columns"`
	DQCheckSQL        string        `json:"dq_check_sql,omitempty" yaml:"dq_check_sql,omitempty"`
}
