// Package config provides configuration management for the sqlprobe CLI.
//
// Values are layered with koanf: built-in defaults, then sqlprobe.yaml,
// then SQLPROBE_ environment variables, then explicitly set flags.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlprobe/pkg/analysis"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/determinism"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
	"github.com/leapstack-labs/sqlprobe/pkg/parser"
)

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool              `koanf:"verbose"`
	OutputFormat string            `koanf:"output"`
	Concurrency  int               `koanf:"concurrency"`
	Parser       ParserConfig      `koanf:"parser"`
	Lint         LintConfig        `koanf:"lint"`
	Determinism  DeterminismConfig `koanf:"determinism"`

	// ProjectRoot is the directory the config file was found in, or the CWD.
	ProjectRoot string `koanf:"-"`
}

// ParserConfig controls how SQL text is read.
type ParserConfig struct {
	ANSIQuotes bool `koanf:"ansi_quotes"`
}

// LintConfig holds lint rule settings keyed by diagnostic code.
type LintConfig struct {
	Disabled []string                  `koanf:"disabled"`
	Severity map[string]string         `koanf:"severity"`
	Rules    map[string]map[string]any `koanf:"rules"`
}

// DeterminismConfig holds determinism check settings.
type DeterminismConfig struct {
	Disabled         []string `koanf:"disabled"`
	TablePlaceholder string   `koanf:"table_placeholder"`
}

// Default configuration values.
const (
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultConcurrency = 4
)

// defaults returns the lowest-precedence layer.
func defaults() map[string]any {
	return map[string]any{
		"verbose":                       false,
		"output":                        DefaultOutput,
		"concurrency":                   DefaultConcurrency,
		"parser.ansi_quotes":            true,
		"lint.disabled":                 []string{},
		"determinism.disabled":          []string{},
		"determinism.table_placeholder": determinism.DefaultTablePlaceholder,
	}
}

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		Concurrency:  DefaultConcurrency,
		Parser:       ParserConfig{ANSIQuotes: true},
		Determinism:  DeterminismConfig{TablePlaceholder: determinism.DefaultTablePlaceholder},
	}
}

// ToLintConfig converts the lint section into a lint.Config.
func (c *Config) ToLintConfig() (*lint.Config, error) {
	out := lint.NewConfig()
	for _, name := range c.Lint.Disabled {
		code, ok := lint.ParseCode(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("lint.disabled: unknown rule %q", name)
		}
		out.Disable(code)
	}
	for name, sev := range c.Lint.Severity {
		code, ok := lint.ParseCode(name)
		if !ok {
			return nil, fmt.Errorf("lint.severity: unknown rule %q", name)
		}
		s, ok := core.ParseSeverity(sev)
		if !ok {
			return nil, fmt.Errorf("lint.severity.%s: invalid severity %q", name, sev)
		}
		out.SetSeverity(code, s)
	}
	for name, opts := range c.Lint.Rules {
		code, ok := lint.ParseCode(name)
		if !ok {
			return nil, fmt.Errorf("lint.rules: unknown rule %q", name)
		}
		out.SetRuleOptions(code, opts)
	}
	return out, nil
}

// ToDeterminismConfig converts the determinism section into a determinism.Config.
func (c *Config) ToDeterminismConfig() (*determinism.Config, error) {
	out := &determinism.Config{
		Disabled:         make(map[determinism.IssueType]bool),
		TablePlaceholder: c.Determinism.TablePlaceholder,
	}
	for _, name := range c.Determinism.Disabled {
		t, ok := parseIssueType(name)
		if !ok {
			return nil, fmt.Errorf("determinism.disabled: unknown check %q", name)
		}
		out.Disabled[t] = true
	}
	return out, nil
}

// AnalysisOptions builds the options for an analysis.Analyzer.
func (c *Config) AnalysisOptions() (analysis.Options, error) {
	lintCfg, err := c.ToLintConfig()
	if err != nil {
		return analysis.Options{}, err
	}
	detCfg, err := c.ToDeterminismConfig()
	if err != nil {
		return analysis.Options{}, err
	}
	return analysis.Options{
		Parser:      parser.Options{ANSI: c.Parser.ANSIQuotes},
		Lint:        lintCfg,
		Determinism: detCfg,
	}, nil
}

func parseIssueType(s string) (determinism.IssueType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range determinism.AllIssueTypes() {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}
