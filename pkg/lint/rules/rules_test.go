package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlprobe/pkg/core"
	"github.com/leapstack-labs/sqlprobe/pkg/lint"
	_ "github.com/leapstack-labs/sqlprobe/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/sqlprobe/pkg/parser"
)

// Helper to run analysis and filter by code
func runRule(t *testing.T, sql string, code lint.Code) []lint.Diagnostic {
	t.Helper()
	return runRuleWithConfig(t, sql, code, lint.NewConfig())
}

func runRuleWithConfig(t *testing.T, sql string, code lint.Code, cfg *lint.Config) []lint.Diagnostic {
	t.Helper()
	stmt, err := parser.Parse(sql)
	require.NoError(t, err, "parse %q", sql)

	diags := lint.NewAnalyzer(cfg).Analyze(stmt)

	var filtered []lint.Diagnostic
	for _, d := range diags {
		if d.Type == code {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

type ruleCase struct {
	name string
	sql  string
	want int
}

func runCases(t *testing.T, code lint.Code, tests []ruleCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.sql, code)
			assert.Len(t, diags, tt.want, "sql: %s", tt.sql)
		})
	}
}

func TestRegistry_AllRulesRegistered(t *testing.T) {
	infos := lint.AllRules()
	require.Len(t, infos, 15)

	for i, code := range lint.AllCodes() {
		assert.Equal(t, code, infos[i].Code, "rule %d out of order", i)
		assert.NotEmpty(t, infos[i].Description, code)
		assert.NotEmpty(t, infos[i].Rationale, code)
		assert.NotEmpty(t, infos[i].BadExample, code)
	}
}

func TestRegistry_RulesFireOnBadExample(t *testing.T) {
	for _, rule := range lint.GetAll() {
		t.Run(string(rule.Code), func(t *testing.T) {
			require.NotNil(t, rule.Check)
			diags := runRule(t, rule.BadExample, rule.Code)
			assert.NotEmpty(t, diags, "bad example: %s", rule.BadExample)
		})
	}
}

func TestSelectStar(t *testing.T) {
	runCases(t, lint.CodeSelectStar, []ruleCase{
		{"star", "SELECT * FROM orders", 1},
		{"qualified star", "SELECT o.* FROM orders o", 1},
		{"star in subquery", "SELECT id FROM (SELECT * FROM orders) d", 1},
		{"two stars", "SELECT o.*, c.* FROM orders o JOIN customers c ON o.cid = c.id", 2},
		{"count star is not a star", "SELECT COUNT(*) FROM orders", 0},
		{"explicit columns", "SELECT id, amount FROM orders", 0},
	})

	diags := runRule(t, "SELECT * FROM orders", lint.CodeSelectStar)
	require.Len(t, diags, 1)
	assert.Equal(t, core.SeverityWarning, diags[0].Severity)
	assert.Equal(t, "SELECT * detected - explicit column list recommended", diags[0].Message)
	assert.NotEmpty(t, diags[0].Suggestion)
}

func TestMissingAlias(t *testing.T) {
	runCases(t, lint.CodeMissingAlias, []ruleCase{
		{"single table", "SELECT id FROM orders", 0},
		{"both aliased", "SELECT o.id FROM orders o JOIN customers c ON o.cid = c.id", 0},
		{"one unaliased", "SELECT o.id FROM orders o JOIN customers ON o.cid = customers.id", 1},
		{"none aliased", "SELECT orders.id FROM orders, customers", 2},
		{"cte reference", "WITH c AS (SELECT cu.id FROM customers cu) SELECT o.id FROM orders o JOIN c ON o.cid = c.id", 0},
	})

	diags := runRule(t, "SELECT o.id FROM orders o JOIN customers ON o.cid = customers.id", lint.CodeMissingAlias)
	require.Len(t, diags, 1)
	assert.Equal(t, "Table 'customers' has no alias in multi-table query", diags[0].Message)
	assert.Equal(t, "Add alias: customers AS c", diags[0].Suggestion)
	assert.Equal(t, core.SeverityInfo, diags[0].Severity)
}

func TestMissingAlias_MinTablesOption(t *testing.T) {
	cfg := lint.NewConfig().SetRuleOptions(lint.CodeMissingAlias, map[string]any{"min_tables": 3})
	diags := runRuleWithConfig(t, "SELECT orders.id FROM orders, customers", lint.CodeMissingAlias, cfg)
	assert.Empty(t, diags)
}

func TestOrderByNumber(t *testing.T) {
	runCases(t, lint.CodeOrderByNumber, []ruleCase{
		{"position", "SELECT a, b FROM t ORDER BY 2", 1},
		{"two positions", "SELECT a, b FROM t ORDER BY 1, 2 DESC", 2},
		{"name", "SELECT a, b FROM t ORDER BY b", 0},
		{"set operation", "SELECT a FROM t1 UNION SELECT a FROM t2 ORDER BY 1", 1},
	})

	diags := runRule(t, "SELECT a, b FROM t ORDER BY 2", lint.CodeOrderByNumber)
	require.Len(t, diags, 1)
	assert.Equal(t, "ORDER BY uses column number (2) instead of name", diags[0].Message)
}

func TestImplicitJoin(t *testing.T) {
	runCases(t, lint.CodeImplicitJoin, []ruleCase{
		{"two tables comma", "SELECT a FROM t1, t2", 1},
		{"three tables comma", "SELECT a FROM t1, t2, t3 WHERE t1.id = t2.id", 1},
		{"explicit join", "SELECT a FROM t1 JOIN t2 ON t1.id = t2.id", 0},
		{"mixed", "SELECT a FROM t1 JOIN t2 ON t1.id = t2.id, t3", 1},
		{"single table", "SELECT a FROM t1", 0},
		{"comma only in subquery", "SELECT a FROM (SELECT x FROM u1, u2) d", 0},
	})
}

func TestWhere1Equals1(t *testing.T) {
	runCases(t, lint.CodeWhere1Equals1, []ruleCase{
		{"compact", "SELECT id FROM t WHERE 1=1 AND status = 'open'", 1},
		{"spaced", "SELECT id FROM t WHERE 1 = 1", 1},
		{"nested where reported once", "SELECT id FROM t WHERE id IN (SELECT id FROM u WHERE 1=1)", 1},
		{"eleven", "SELECT id FROM t WHERE 11 = 1", 0},
		{"no tautology", "SELECT id FROM t WHERE status = 'open'", 0},
	})
}

func TestDistinctStar(t *testing.T) {
	runCases(t, lint.CodeDistinctStar, []ruleCase{
		{"distinct star", "SELECT DISTINCT * FROM orders", 1},
		{"distinct columns", "SELECT DISTINCT id FROM orders", 0},
		{"star without distinct", "SELECT * FROM orders", 0},
	})
}

func TestCartesianJoin(t *testing.T) {
	runCases(t, lint.CodeCartesianJoin, []ruleCase{
		{"join without condition", "SELECT o.id FROM orders o JOIN customers c", 1},
		{"cross join", "SELECT o.id FROM orders o CROSS JOIN customers c", 0},
		{"on condition", "SELECT o.id FROM orders o JOIN customers c ON o.cid = c.id", 0},
		{"using", "SELECT o.id FROM orders o JOIN customers c USING (cid)", 0},
		{"natural join", "SELECT id FROM orders NATURAL JOIN customers", 0},
		{"comma without where", "SELECT a FROM t1, t2", 1},
		{"comma with where", "SELECT a FROM t1, t2 WHERE t1.id = t2.id", 0},
	})
}

func TestDuplicateColumn(t *testing.T) {
	runCases(t, lint.CodeDuplicateColumn, []ruleCase{
		{"same column twice", "SELECT o.id, c.id FROM orders o JOIN customers c ON o.cid = c.id", 1},
		{"alias collides", "SELECT id, amount AS id FROM orders", 1},
		{"case-insensitive", "SELECT id, ID FROM orders", 1},
		{"three copies once", "SELECT id, id, id FROM orders", 1},
		{"unique", "SELECT o.id AS order_id, c.id AS customer_id FROM orders o JOIN customers c ON o.cid = c.id", 0},
		{"unnamed expressions", "SELECT a + 1, a + 1 FROM t", 0},
	})
}

func TestNestedSubquery(t *testing.T) {
	runCases(t, lint.CodeNestedSubquery, []ruleCase{
		{"depth 1", "SELECT id FROM (SELECT id FROM t) a", 0},
		{"depth 2", "SELECT id FROM (SELECT id FROM (SELECT id FROM t) a) b", 0},
		{"depth 3", "SELECT id FROM (SELECT id FROM (SELECT id FROM (SELECT id FROM t) a) b) c", 1},
		{
			"scalar subqueries count",
			"SELECT (SELECT MAX(x) FROM u WHERE u.id IN (SELECT id FROM v WHERE v.k IN (SELECT k FROM w))) AS m FROM t",
			1,
		},
	})
}

func TestNestedSubquery_MaxDepthOption(t *testing.T) {
	cfg := lint.NewConfig().SetRuleOptions(lint.CodeNestedSubquery, map[string]any{"max_depth": 2})
	diags := runRuleWithConfig(t, "SELECT id FROM (SELECT id FROM (SELECT id FROM t) a) b", lint.CodeNestedSubquery, cfg)
	assert.Len(t, diags, 1)
}

func TestUnionColumnMismatch(t *testing.T) {
	runCases(t, lint.CodeUnionColumnMismatch, []ruleCase{
		{"three vs two", "SELECT a, b, c FROM t1 UNION SELECT a, b FROM t2", 1},
		{"equal counts", "SELECT a, b FROM t1 UNION ALL SELECT a, b FROM t2", 0},
		{"chain one mismatch", "SELECT a, b FROM t1 UNION SELECT a, b FROM t2 UNION SELECT a FROM t3", 1},
		{"star counts as one item", "SELECT * FROM t1 UNION SELECT a, b FROM t2", 1},
		{"star against one column", "SELECT * FROM t1 UNION SELECT a FROM t2", 0},
		{"except", "SELECT a FROM t1 EXCEPT SELECT a, b FROM t2", 1},
	})

	diags := runRule(t, "SELECT a, b, c FROM t1 UNION SELECT a, b FROM t2", lint.CodeUnionColumnMismatch)
	require.Len(t, diags, 1)
	assert.Equal(t, core.SeverityError, diags[0].Severity)
}

func TestLeadingWildcard(t *testing.T) {
	runCases(t, lint.CodeLeadingWildcard, []ruleCase{
		{"leading", "SELECT id FROM c WHERE email LIKE '%@example.com'", 1},
		{"not like", "SELECT id FROM c WHERE email NOT LIKE '%test'", 1},
		{"trailing only", "SELECT id FROM c WHERE name LIKE 'Jo%'", 0},
	})
}

func TestFunctionInWhere(t *testing.T) {
	runCases(t, lint.CodeFunctionInWhere, []ruleCase{
		{"function on column", "SELECT id FROM orders WHERE YEAR(created_at) = 2024", 1},
		{"two functions", "SELECT id FROM t WHERE UPPER(name) = 'X' AND LOWER(code) = 'y'", 2},
		{"function on literal", "SELECT id FROM t WHERE created_at > NOW()", 0},
		{"nested column not direct", "SELECT id FROM t WHERE ABS(a - b) > 1", 0},
		{"select list only", "SELECT UPPER(name) FROM t WHERE id = 1", 0},
	})
}

func TestOrInJoin(t *testing.T) {
	runCases(t, lint.CodeOrInJoin, []ruleCase{
		{"top-level or", "SELECT a.x FROM a JOIN b ON a.id = b.a_id OR a.code = b.a_code", 1},
		{"nested or", "SELECT a.x FROM a JOIN b ON a.id = b.a_id AND (a.k = 1 OR b.k = 2)", 1},
		{"and only", "SELECT a.x FROM a JOIN b ON a.id = b.a_id AND a.k = b.k", 0},
		{"or in where", "SELECT a.x FROM a JOIN b ON a.id = b.a_id WHERE a.k = 1 OR a.k = 2", 0},
	})
}

func TestHardcodedDate(t *testing.T) {
	runCases(t, lint.CodeHardcodedDate, []ruleCase{
		{"iso date", "SELECT id FROM o WHERE created_at >= '2024-01-01'", 1},
		{"iso timestamp", "SELECT id FROM o WHERE created_at >= '2024-01-01 10:00:00'", 1},
		{"us date", "SELECT id FROM o WHERE d = '01/31/2024'", 1},
		{"compact date", "SELECT id FROM o WHERE d = '20240131'", 1},
		{"date literal", "SELECT id FROM o WHERE d > DATE '2024-01-31'", 1},
		{"plain string", "SELECT id FROM o WHERE status = 'open'", 0},
		{"number", "SELECT id FROM o WHERE d = 20240131", 0},
	})
}

func TestMissingGroupBy(t *testing.T) {
	runCases(t, lint.CodeMissingGroupBy, []ruleCase{
		{"grouped", "SELECT region, SUM(amount) FROM sales GROUP BY region", 0},
		{"missing", "SELECT region, SUM(amount) FROM sales", 1},
		{"only aggregates", "SELECT COUNT(*), SUM(amount) FROM sales", 0},
		{"windowed aggregate", "SELECT region, SUM(amount) OVER (PARTITION BY region) FROM sales", 0},
		{"aggregate in expression", "SELECT region, SUM(amount) * 2 AS doubled FROM sales", 1},
	})

	diags := runRule(t, "SELECT region, SUM(amount) FROM sales", lint.CodeMissingGroupBy)
	require.Len(t, diags, 1)
	assert.Equal(t, core.SeverityError, diags[0].Severity)
	assert.Equal(t, "Add GROUP BY region", diags[0].Suggestion)
}

func TestAnalyze_Idempotent(t *testing.T) {
	stmt, err := parser.Parse(`SELECT DISTINCT o.*, o.id FROM orders o, customers WHERE 1=1 AND o.d > '2024-01-01' ORDER BY 1`)
	require.NoError(t, err)

	a := lint.NewAnalyzer(nil)
	first := a.Analyze(stmt)
	second := a.Analyze(stmt)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}
