package lint

import "github.com/leapstack-labs/sqlprobe/pkg/core"

// RuleInfo provides metadata about a rule for documentation and tooling.
type RuleInfo struct {
	Code            Code          `json:"code" yaml:"code"`
	Name            string        `json:"name" yaml:"name"`
	Group           string        `json:"group" yaml:"group"`
	Description     string        `json:"description" yaml:"description"`
	DefaultSeverity core.Severity `json:"default_severity" yaml:"default_severity"`
	ConfigKeys      []string      `json:"config_keys,omitempty" yaml:"config_keys,omitempty"`
	Rationale       string        `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	BadExample      string        `json:"bad_example,omitempty" yaml:"bad_example,omitempty"`
	GoodExample     string        `json:"good_example,omitempty" yaml:"good_example,omitempty"`
}

// GetRuleInfo extracts metadata from a RuleDef.
func GetRuleInfo(r RuleDef) RuleInfo {
	return RuleInfo{
		Code:            r.Code,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		ConfigKeys:      r.ConfigKeys,
		Rationale:       r.Rationale,
		BadExample:      r.BadExample,
		GoodExample:     r.GoodExample,
	}
}

// AllRules returns metadata for every registered rule in evaluation order.
func AllRules() []RuleInfo {
	defs := GetAll()
	out := make([]RuleInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, GetRuleInfo(d))
	}
	return out
}
