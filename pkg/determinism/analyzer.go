package determinism

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/catalog"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
)

// Generic tie-breaker hints appended after the statement's own candidates.
var (
	unorderedHints = []string{"primary_key", "created_at", "row_id"}
	nonUniqueHints = []string{"primary_key", "_source_row_id", "created_at"}
	limitHints     = []string{"primary_key", "created_at"}
)

// Config controls the analyzer.
type Config struct {
	// Disabled lists issue types to skip.
	Disabled map[IssueType]bool

	// TablePlaceholder names the table in generated DQ queries.
	TablePlaceholder string
}

// FaultHandler is told about a check that panicked. The check's findings
// for that statement are dropped.
type FaultHandler func(check string, recovered any)

// Analyzer runs the determinism checks.
type Analyzer struct {
	config  Config
	onFault FaultHandler
}

// NewAnalyzer creates an analyzer. A nil config enables every check.
func NewAnalyzer(config *Config) *Analyzer {
	a := &Analyzer{}
	if config != nil {
		a.config = *config
	}
	if a.config.TablePlaceholder == "" {
		a.config.TablePlaceholder = DefaultTablePlaceholder
	}
	return a
}

// OnFault installs a handler for checks that panic.
func (a *Analyzer) OnFault(fn FaultHandler) *Analyzer {
	a.onFault = fn
	return a
}

// Analyze runs the checks with the default configuration.
func Analyze(stmt *ast.Statement) []Issue {
	return NewAnalyzer(nil).Analyze(stmt)
}

type check struct {
	name string
	run  func(*Analyzer, *ast.Statement) []Issue
}

var checks = []check{
	{"window", (*Analyzer).checkWindows},
	{"limit", (*Analyzer).checkLimit},
	{"volatile", (*Analyzer).checkVolatile},
	{"distinct", (*Analyzer).checkDistinct},
}

// Analyze returns the statement's findings in check order.
func (a *Analyzer) Analyze(stmt *ast.Statement) []Issue {
	issues := []Issue{}
	if stmt == nil {
		return issues
	}
	for _, c := range checks {
		for _, issue := range a.run(c, stmt) {
			if !a.config.Disabled[issue.Type] {
				issues = append(issues, issue)
			}
		}
	}
	return issues
}

func (a *Analyzer) run(c check, stmt *ast.Statement) (issues []Issue) {
	defer func() {
		if r := recover(); r != nil {
			issues = nil
			if a.onFault != nil {
				a.onFault(c.name, r)
			}
		}
	}()
	return c.run(a, stmt)
}

// ===== Window functions =====

func (a *Analyzer) checkWindows(stmt *ast.Statement) []Issue {
	var issues []Issue
	for _, fn := range ast.Functions(stmt) {
		if !fn.Windowed() {
			continue
		}
		class := catalog.WindowClassOf(fn.Name)
		if class == catalog.NotOrdered {
			continue
		}

		partition := keyNames(fn.Over.PartitionBy)
		location := fn.Name + " window function"

		if len(fn.Over.OrderBy) == 0 {
			issues = append(issues, Issue{
				Type:              unorderedType(fn.Name, class),
				Severity:          core.SeverityError,
				Message:           fmt.Sprintf("%s() without ORDER BY - results are non-deterministic", fn.Name),
				Location:          location,
				Suggestion:        fmt.Sprintf("Add ORDER BY clause with unique columns to %s()", fn.Name),
				TieBreakerColumns: tieBreakers(stmt, nil, unorderedHints),
				DQCheckSQL:        tieGroupCheck(fn.Name, partition, a.config.TablePlaceholder),
			})
			continue
		}

		if class != catalog.Ranking {
			continue
		}
		order := make([]ast.Expr, 0, len(fn.Over.OrderBy))
		for _, spec := range fn.Over.OrderBy {
			order = append(order, spec.Expr)
		}
		orderNames := keyNames(order)
		issues = append(issues, Issue{
			Type:              WindowNonUniqueOrder,
			Severity:          core.SeverityWarning,
			Message:           fmt.Sprintf("%s() ORDER BY (%s) may not be unique within partition", fn.Name, strings.Join(orderNames, ", ")),
			Location:          location,
			Suggestion:        "Ensure ORDER BY includes a unique column (PK or tie-breaker)",
			TieBreakerColumns: tieBreakers(stmt, orderNames, nonUniqueHints),
			DQCheckSQL:        uniquenessCheck(fn.Name, concat(partition, orderNames), a.config.TablePlaceholder),
		})
	}
	return issues
}

func unorderedType(name string, class catalog.WindowClass) IssueType {
	if class == catalog.Ranking {
		return WindowNoOrder
	}
	switch name {
	case "FIRST_VALUE", "LAST_VALUE":
		return FirstLastNoOrder
	}
	return LagLeadNoOrder
}

// ===== LIMIT and DISTINCT =====

// limitedSelects returns the outermost selects a LIMIT can apply to, with
// whether each is ordered. Branches of a top-level set operation count as
// ordered when the set operation has its own ORDER BY.
func limitedSelects(stmt *ast.Statement) []orderedSelect {
	switch body := stmt.Body.(type) {
	case *ast.Select:
		return []orderedSelect{{body, len(body.OrderBy) > 0}}
	case *ast.SetOperation:
		outer := len(body.OrderBy) > 0
		var out []orderedSelect
		for _, sel := range ast.Branches(body) {
			out = append(out, orderedSelect{sel, outer || len(sel.OrderBy) > 0})
		}
		return out
	}
	return nil
}

type orderedSelect struct {
	sel     *ast.Select
	ordered bool
}

func (a *Analyzer) checkLimit(stmt *ast.Statement) []Issue {
	var issues []Issue
	limitIssue := Issue{
		Type:              LimitNoOrder,
		Severity:          core.SeverityError,
		Message:           "LIMIT/TOP without ORDER BY - returns arbitrary rows",
		Location:          "SELECT with LIMIT",
		Suggestion:        "Add ORDER BY clause to ensure consistent row selection",
		TieBreakerColumns: limitHints,
	}

	if op, ok := stmt.Body.(*ast.SetOperation); ok && op.Limit != nil && len(op.OrderBy) == 0 {
		issues = append(issues, cloneIssue(limitIssue))
	}
	for _, s := range limitedSelects(stmt) {
		if s.sel.Limit != nil && !s.ordered {
			issues = append(issues, cloneIssue(limitIssue))
		}
	}
	return issues
}

func (a *Analyzer) checkDistinct(stmt *ast.Statement) []Issue {
	var issues []Issue
	for _, s := range limitedSelects(stmt) {
		if !s.sel.Distinct || s.sel.Limit == nil || s.ordered {
			continue
		}
		issues = append(issues, Issue{
			Type:              DistinctNoOrder,
			Severity:          core.SeverityWarning,
			Message:           "SELECT DISTINCT with LIMIT but no ORDER BY - arbitrary row selection",
			Location:          "SELECT DISTINCT with LIMIT",
			Suggestion:        "Add ORDER BY to ensure consistent row selection",
			TieBreakerColumns: []string{},
		})
	}
	return issues
}

// ===== Volatile functions =====

func (a *Analyzer) checkVolatile(stmt *ast.Statement) []Issue {
	var issues []Issue
	seen := make(map[string]bool)
	for _, fn := range ast.Functions(stmt) {
		v := catalog.VolatilityOf(fn.Name)
		if v == catalog.NotVolatile || seen[fn.Name] {
			continue
		}
		seen[fn.Name] = true

		var msg string
		switch v {
		case catalog.VolatileRandom:
			msg = fmt.Sprintf("%s() produces different values each execution", fn.Name)
		case catalog.VolatileIdentity:
			msg = fmt.Sprintf("%s() generates new UUIDs each execution", fn.Name)
		default:
			msg = fmt.Sprintf("%s() returns current time - varies between runs", fn.Name)
		}
		issues = append(issues, Issue{
			Type:              VolatileFunction,
			Severity:          v.Severity(),
			Message:           msg,
			Location:          fn.Name + "() function call",
			Suggestion:        "For regression testing, consider parameterizing time-dependent values",
			TieBreakerColumns: []string{},
		})
	}
	return issues
}

// ===== Helpers =====

// keyNames renders window keys: the column name for a column, otherwise the
// expression text.
func keyNames(exprs []ast.Expr) []string {
	out := make([]string, 0, len(exprs))
	for _, e := range exprs {
		if c, ok := e.(*ast.Column); ok {
			out = append(out, c.Name)
			continue
		}
		out = append(out, e.Text())
	}
	return out
}

// tieBreakers ranks the statement's column names, minus those already used
// for ordering, then appends the generic hints.
func tieBreakers(stmt *ast.Statement, exclude []string, hints []string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[strings.ToLower(name)] = true
	}

	var candidates []string
	seen := make(map[string]bool)
	for _, c := range ast.Columns(stmt) {
		key := strings.ToLower(c.Name)
		if seen[key] || skip[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, c.Name)
	}

	out := Suggest(candidates)
	for _, h := range hints {
		if !contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}

// cloneIssue copies i so callers never share a tie-breaker slice.
func cloneIssue(i Issue) Issue {
	i.TieBreakerColumns = append([]string(nil), i.TieBreakerColumns...)
	return i
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}
