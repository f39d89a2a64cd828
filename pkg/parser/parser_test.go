package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, sql string) *ast.Statement {
	t.Helper()
	stmt, err := parser.Parse(sql)
	require.NoError(t, err, "parse %q", sql)
	require.NotNil(t, stmt)
	return stmt
}

func mainSelect(t *testing.T, sql string) *ast.Select {
	t.Helper()
	sel := ast.MainSelect(mustParse(t, sql).Body)
	require.NotNil(t, sel)
	return sel
}

// ---------- Errors ----------

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"syntax", "SELECT FROM WHERE"},
		{"empty", "   "},
		{"not a query", "DROP TABLE orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.Parse(tt.sql)
			require.Error(t, err)
			assert.Nil(t, stmt)

			var perr *parser.ParseError
			require.True(t, errors.As(err, &perr), "error should be a *ParseError")
			assert.NotEmpty(t, perr.Message)
			assert.Equal(t, perr.Message, err.Error())
		})
	}
}

// ---------- Select list ----------

func TestSelectItems(t *testing.T) {
	sel := mainSelect(t, `SELECT o.id, amount AS total, o.*, 42, 'x' AS k FROM orders o`)
	require.Len(t, sel.Items, 5)

	col, ok := sel.Items[0].Expr.(*ast.Column)
	require.True(t, ok)
	assert.Equal(t, "o", col.Table)
	assert.Equal(t, "id", col.Name)

	assert.Equal(t, "total", sel.Items[1].Alias)

	star, ok := sel.Items[2].Expr.(*ast.Star)
	require.True(t, ok, "third item should be a star")
	assert.Equal(t, "o", star.Table)

	lit, ok := sel.Items[3].Expr.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.LiteralInt, lit.Type)
	assert.Equal(t, "42", lit.Value)

	lit, ok = sel.Items[4].Expr.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.LiteralString, lit.Type)
	assert.Equal(t, "x", lit.Value)
}

func TestDateLiteral(t *testing.T) {
	sel := mainSelect(t, `SELECT a FROM t WHERE d > DATE '2024-01-31'`)
	bin, ok := sel.Where.Cond.(*ast.BinaryOp)
	require.True(t, ok)
	lit, ok := bin.Right.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.LiteralDate, lit.Type)
	assert.Equal(t, "2024-01-31", lit.Value)
}

func TestTemporalLiterals(t *testing.T) {
	sel := mainSelect(t, `SELECT DATE '2024-01-31', TIME '10:00:00', TIMESTAMP '2024-01-31 10:00:00' FROM t`)
	require.Len(t, sel.Items, 3)
	for _, item := range sel.Items {
		lit, ok := item.Expr.(*ast.Literal)
		require.True(t, ok, "%T", item.Expr)
		assert.Equal(t, ast.LiteralDate, lit.Type)
	}
}

func TestNodeText(t *testing.T) {
	sel := mainSelect(t, `SELECT 'x', count(*), COUNT(*) OVER (PARTITION BY g), upper(name) FROM t`)
	require.Len(t, sel.Items, 4)

	assert.Equal(t, "'x'", sel.Items[0].Expr.Text())

	agg, ok := sel.Items[1].Expr.(*ast.FunctionCall)
	require.True(t, ok)
	assert.True(t, agg.Star)
	assert.Empty(t, agg.Args)
	assert.Equal(t, "COUNT(*)", agg.Text())

	win, ok := sel.Items[2].Expr.(*ast.FunctionCall)
	require.True(t, ok)
	assert.True(t, win.Star)
	assert.Empty(t, win.Args)
	assert.True(t, strings.HasPrefix(win.Text(), "COUNT(*) OVER"), win.Text())

	assert.Equal(t, "UPPER(name)", sel.Items[3].Expr.Text())
}

// ---------- Functions ----------

func TestFunctionFlavors(t *testing.T) {
	sel := mainSelect(t, `SELECT
		count(*) AS n,
		sum(x) OVER (PARTITION BY g) AS s,
		row_number() OVER (ORDER BY id) AS rn,
		rand() AS r,
		upper(name) AS u,
		curdate() AS d
	FROM t`)
	require.Len(t, sel.Items, 6)

	want := []struct {
		name     string
		flavor   ast.Flavor
		windowed bool
	}{
		{"COUNT", ast.FlavorAggregate, false},
		{"SUM", ast.FlavorAggregate, true},
		{"ROW_NUMBER", ast.FlavorWindow, true},
		{"RAND", ast.FlavorVolatile, false},
		{"UPPER", ast.FlavorPlain, false},
		{"CURRENT_DATE", ast.FlavorVolatile, false},
	}
	for i, w := range want {
		fn, ok := sel.Items[i].Expr.(*ast.FunctionCall)
		require.True(t, ok, "item %d should be a function call", i)
		assert.Equal(t, w.name, fn.Name)
		assert.Equal(t, w.flavor, fn.Flavor, fn.Name)
		assert.Equal(t, w.windowed, fn.Windowed(), fn.Name)
	}

	count := sel.Items[0].Expr.(*ast.FunctionCall)
	assert.True(t, count.Star, "COUNT(*) should be flagged")
}

func TestNamedWindowResolved(t *testing.T) {
	sel := mainSelect(t, `SELECT RANK() OVER w AS r FROM emp WINDOW w AS (PARTITION BY dept ORDER BY salary)`)
	fn, ok := sel.Items[0].Expr.(*ast.FunctionCall)
	require.True(t, ok)
	require.NotNil(t, fn.Over)
	assert.Equal(t, "w", fn.Over.Name)
	assert.Len(t, fn.Over.PartitionBy, 1)
	assert.Len(t, fn.Over.OrderBy, 1)
}

// ---------- Joins ----------

func TestJoinKinds(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []ast.JoinType
	}{
		{"comma", "SELECT a FROM t1, t2", []ast.JoinType{ast.JoinComma}},
		{"three comma", "SELECT a FROM t1, t2, t3", []ast.JoinType{ast.JoinComma, ast.JoinComma}},
		{"inner", "SELECT a FROM t1 INNER JOIN t2 ON t1.id = t2.id", []ast.JoinType{ast.JoinInner}},
		{"bare join", "SELECT a FROM t1 JOIN t2 ON t1.id = t2.id", []ast.JoinType{ast.JoinInner}},
		{"cross", "SELECT a FROM t1 CROSS JOIN t2", []ast.JoinType{ast.JoinCross}},
		{"left", "SELECT a FROM t1 LEFT OUTER JOIN t2 ON t1.id = t2.id", []ast.JoinType{ast.JoinLeft}},
		{"mixed", "SELECT a FROM t1 JOIN t2 ON t1.id = t2.id, t3", []ast.JoinType{ast.JoinInner, ast.JoinComma}},
		{
			"subquery in select list",
			"SELECT (SELECT MAX(x) FROM u1, u2) AS m FROM t1 LEFT JOIN t2 ON t1.id = t2.id",
			[]ast.JoinType{ast.JoinLeft},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := mainSelect(t, tt.sql)
			require.NotNil(t, sel.From)
			var got []ast.JoinType
			for _, j := range sel.From.Joins {
				got = append(got, j.Type)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinConditions(t *testing.T) {
	sel := mainSelect(t, `SELECT a FROM t1 JOIN t2 USING (id) JOIN t3 ON t3.k = t2.k`)
	require.Len(t, sel.From.Joins, 2)
	assert.Equal(t, []string{"id"}, sel.From.Joins[0].Using)
	assert.NotNil(t, sel.From.Joins[1].On)
	assert.True(t, sel.From.Joins[0].HasCondition())
}

func TestTableAliases(t *testing.T) {
	stmt := mustParse(t, `SELECT a FROM sales.orders o JOIN customers ON o.cid = customers.id`)
	tables := ast.Tables(stmt)
	require.Len(t, tables, 2)
	assert.Equal(t, "sales", tables[0].Schema)
	assert.Equal(t, "orders", tables[0].Name)
	assert.Equal(t, "o", tables[0].Alias)
	assert.Equal(t, "customers", tables[1].Name)
	assert.Empty(t, tables[1].Alias)
}

// ---------- Statements ----------

func TestCTEs(t *testing.T) {
	stmt := mustParse(t, `WITH recent AS (SELECT * FROM orders WHERE d > '2024-01-01')
		SELECT id FROM recent`)
	assert.Equal(t, []string{"recent"}, ast.CTENames(stmt))
	require.Len(t, stmt.With, 1)
	assert.NotNil(t, stmt.With[0].Query)
}

func TestSetOperation(t *testing.T) {
	stmt := mustParse(t, `SELECT a, b FROM t1 UNION ALL SELECT a, b FROM t2 UNION SELECT a, b FROM t3 ORDER BY a`)
	op, ok := stmt.Body.(*ast.SetOperation)
	require.True(t, ok, "body should be a set operation")
	assert.Equal(t, ast.SetOpUnion, op.Op)
	assert.False(t, op.All)
	assert.Len(t, op.OrderBy, 1)

	branches := ast.Branches(stmt.Body)
	require.Len(t, branches, 3)

	left, ok := op.Left.(*ast.SetOperation)
	require.True(t, ok, "chains are left-deep")
	assert.True(t, left.All)
}

func TestOrderByPosition(t *testing.T) {
	sel := mainSelect(t, `SELECT a, b FROM t ORDER BY 2 DESC`)
	require.Len(t, sel.OrderBy, 1)
	lit, ok := sel.OrderBy[0].Expr.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.LiteralInt, lit.Type)
	assert.Equal(t, "2", lit.Value)
	assert.True(t, sel.OrderBy[0].Desc)
}

func TestInsertSelectUnwrapped(t *testing.T) {
	sel := mainSelect(t, `INSERT INTO staging_orders SELECT id, name FROM raw_orders`)
	assert.Len(t, sel.Items, 2)
}

func TestParseIsRepeatable(t *testing.T) {
	sql := `SELECT o.id, SUM(o.amount) FROM orders o, customers c WHERE o.cid = c.id GROUP BY o.id`
	first := mustParse(t, sql)
	second := mustParse(t, sql)
	assert.Equal(t, first, second)
}
