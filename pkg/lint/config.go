package lint

import "github.com/leapstack-labs/sqlprobe/pkg/core"

// Config controls which rules are enabled, their severity and their options.
type Config struct {
	// DisabledRules contains rule codes to skip
	DisabledRules map[Code]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[Code]core.Severity

	// RuleOptions carries per-rule option maps
	RuleOptions map[Code]map[string]any
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[Code]bool),
		SeverityOverrides: make(map[Code]core.Severity),
		RuleOptions:       make(map[Code]map[string]any),
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(code Code) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[code]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(code Code, defaultSeverity core.Severity) core.Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[code]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// GetRuleOptions returns the options configured for a rule, or nil.
func (c *Config) GetRuleOptions(code Code) map[string]any {
	if c == nil {
		return nil
	}
	return c.RuleOptions[code]
}

// Disable disables a rule by code.
func (c *Config) Disable(code Code) *Config {
	c.DisabledRules[code] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(code Code, severity core.Severity) *Config {
	c.SeverityOverrides[code] = severity
	return c
}

// SetRuleOptions replaces the options for a rule.
func (c *Config) SetRuleOptions(code Code, opts map[string]any) *Config {
	c.RuleOptions[code] = opts
	return c
}
