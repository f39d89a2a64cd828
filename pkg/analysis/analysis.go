// Package analysis runs lineage extraction, lint rules and determinism
// checks over one SQL statement and returns the three result lists.
//
// The analyses are independent: none mutates the tree, and each list is
// ordered on its own terms (select-list order, rule order, check order).
// When the SQL cannot be parsed no analysis runs; the report carries a
// single PARSE_ERROR diagnostic and issue with the parser's message.
package analysis

import (
	"errors"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/determinism"
	"github.com/leapstack-labs/sqlprobe/pkg/lineage"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
	_ "github.com/leapstack-labs/sqlprobe/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/sqlprobe/pkg/parser"
)

// Report holds the results of analyzing one statement.
type Report struct {
	Lineage     []lineage.ColumnLineage `json:"lineage" yaml:"lineage"`
	Sources     []string                `json:"sources" yaml:"sources"`
	CTEs        []string                `json:"ctes,omitempty" yaml:"ctes,omitempty"`
	Diagnostics []lint.Diagnostic       `json:"diagnostics" yaml:"diagnostics"`
	Issues      []determinism.Issue     `json:"determinism" yaml:"determinism"`
	ParseError  string                  `json:"parse_error,omitempty" yaml:"parse_error,omitempty"`
}

// Failed reports whether the statement could not be parsed.
func (r *Report) Failed() bool {
	return r.ParseError != ""
}

// Options configures an Analyzer. Nil configs run every rule and check.
// A zero Parser reads MySQL quoting; Default uses ANSI quoting.
type Options struct {
	Parser      parser.Options
	Lint        *lint.Config
	Determinism *determinism.Config

	// OnFault is told about any lint rule or determinism check that panicked.
	OnFault func(component, name string, recovered any)
}

// Analyzer runs all three analyses. It is safe for concurrent use.
type Analyzer struct {
	parseOpts   parser.Options
	lint        *lint.Analyzer
	determinism *determinism.Analyzer
}

// New creates an Analyzer.
func New(opts Options) *Analyzer {
	a := &Analyzer{
		parseOpts:   opts.Parser,
		lint:        lint.NewAnalyzer(opts.Lint),
		determinism: determinism.NewAnalyzer(opts.Determinism),
	}
	if opts.OnFault != nil {
		a.lint.OnFault(func(code lint.Code, r any) { opts.OnFault("lint", string(code), r) })
		a.determinism.OnFault(func(check string, r any) { opts.OnFault("determinism", check, r) })
	}
	return a
}

// Default returns an Analyzer with default options and ANSI quoting.
func Default() *Analyzer {
	return New(Options{Parser: parser.DefaultOptions()})
}

// Analyze parses sql and analyzes the first statement.
func Analyze(sql string) *Report {
	return Default().Analyze(sql)
}

// Analyze parses sql and analyzes the first statement. Errors other than
// a parse failure cannot occur: a failing rule or check contributes no
// findings.
func (a *Analyzer) Analyze(sql string) *Report {
	stmt, err := parser.ParseWithOptions(sql, a.parseOpts)
	if err != nil {
		var perr *parser.ParseError
		if !errors.As(err, &perr) {
			perr = &parser.ParseError{Message: err.Error()}
		}
		return parseErrorReport(perr)
	}
	return a.AnalyzeStatement(stmt)
}

// AnalyzeStatement analyzes an already parsed statement.
func (a *Analyzer) AnalyzeStatement(stmt *ast.Statement) *Report {
	model := lineage.ExtractModel(stmt)
	return &Report{
		Lineage:     model.Columns,
		Sources:     model.Sources,
		CTEs:        model.CTEs,
		Diagnostics: a.lint.Analyze(stmt),
		Issues:      a.determinism.Analyze(stmt),
	}
}

func parseErrorReport(perr *parser.ParseError) *Report {
	return &Report{
		Lineage: []lineage.ColumnLineage{},
		Sources: []string{},
		Diagnostics: []lint.Diagnostic{{
			Type:     lint.CodeParseError,
			Severity: core.SeverityError,
			Message:  perr.Message,
		}},
		Issues: []determinism.Issue{{
			Type:              determinism.ParseError,
			Severity:          core.SeverityError,
			Message:           perr.Message,
			Location:          "SQL",
			Suggestion:        "Fix syntax error",
			TieBreakerColumns: []string{},
		}},
		ParseError: perr.Message,
	}
}
