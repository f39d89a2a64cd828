package parser

import (
	"testing"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/stretchr/testify/assert"
)

func TestScanConnectors(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []connector
	}{
		{
			name: "select list commas ignored",
			sql:  "SELECT a, b, c FROM t",
			want: nil,
		},
		{
			name: "comma list",
			sql:  "SELECT a, b FROM t1, t2 WHERE x IN (1, 2)",
			want: []connector{{typ: ast.JoinComma}},
		},
		{
			name: "modifiers",
			sql:  "SELECT * FROM a NATURAL LEFT OUTER JOIN b CROSS JOIN c",
			want: []connector{{typ: ast.JoinLeft, natural: true}, {typ: ast.JoinCross}},
		},
		{
			name: "strings and comments skipped",
			sql:  "SELECT 'x, JOIN' FROM a -- , JOIN\n /* JOIN */ JOIN b ON a.id = b.id",
			want: []connector{{typ: ast.JoinInner}},
		},
		{
			name: "order by commas ignored",
			sql:  "SELECT * FROM a ORDER BY x, y",
			want: nil,
		},
		{
			name: "function named left in on clause",
			sql:  "SELECT * FROM a JOIN b ON LEFT(a.k, 2) = b.k",
			want: []connector{{typ: ast.JoinInner}},
		},
		{
			name: "is distinct from",
			sql:  "SELECT * FROM a WHERE x IS DISTINCT FROM y GROUP BY p, q",
			want: nil,
		},
		{
			name: "quoted identifiers named like keywords",
			sql:  "SELECT `join`, \"left\" FROM `from`, `cross join` JOIN b ON `from`.id = b.id",
			want: []connector{{typ: ast.JoinComma}, {typ: ast.JoinInner}},
		},
		{
			name: "straight join and hash comment",
			sql:  "SELECT * FROM a # , JOIN\n STRAIGHT_JOIN b ON a.id = b.id",
			want: []connector{{typ: ast.JoinInner}},
		},
		{
			name: "nested from",
			sql:  "SELECT * FROM (SELECT * FROM x, y) d, z",
			want: []connector{{typ: ast.JoinComma}, {typ: ast.JoinComma}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scanConnectors(tt.sql))
		})
	}
}

func TestNormalizedTokens(t *testing.T) {
	assert.Equal(t,
		[]string{"select", "`a b`", ",", "?", "from", "`t`"},
		normalizedTokens("select `a b` , ? from `t`"))
	assert.Empty(t, normalizedTokens(""))
}
