package output

import (
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
)

// LintOutput is the structured form of the lint command's results.
type LintOutput struct {
	Files   []LintFileResult `json:"files" yaml:"files"`
	Summary LintSummary      `json:"summary" yaml:"summary"`
}

// LintFileResult holds the diagnostics for one file.
type LintFileResult struct {
	Path        string            `json:"path" yaml:"path"`
	Diagnostics []lint.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// LintSummary counts diagnostics by severity.
type LintSummary struct {
	FilesAnalyzed int `json:"files_analyzed" yaml:"files_analyzed"`
	TotalIssues   int `json:"total_issues" yaml:"total_issues"`
	Errors        int `json:"errors" yaml:"errors"`
	Warnings      int `json:"warnings" yaml:"warnings"`
	Info          int `json:"info" yaml:"info"`
}

// Add counts one diagnostic.
func (s *LintSummary) Add(sev core.Severity) {
	s.TotalIssues++
	switch sev {
	case core.SeverityError:
		s.Errors++
	case core.SeverityWarning:
		s.Warnings++
	default:
		s.Info++
	}
}
