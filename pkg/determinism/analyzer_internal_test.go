package determinism

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/parser"
)

func TestAnalyzer_CheckIsolation(t *testing.T) {
	saved := checks
	t.Cleanup(func() { checks = saved })

	checks = []check{
		{"broken", func(*Analyzer, *ast.Statement) []Issue { panic("check bug") }},
		{"limit", (*Analyzer).checkLimit},
	}

	var faults []string
	a := NewAnalyzer(nil).OnFault(func(name string, _ any) {
		faults = append(faults, name)
	})

	stmt, err := parser.Parse("SELECT * FROM t LIMIT 1")
	require.NoError(t, err)

	issues := a.Analyze(stmt)
	require.Len(t, issues, 1)
	assert.Equal(t, LimitNoOrder, issues[0].Type)
	assert.Equal(t, []string{"broken"}, faults)
}

func TestKeyNames(t *testing.T) {
	stmt, err := parser.Parse("SELECT ROW_NUMBER() OVER (PARTITION BY t.region, UPPER(code) ORDER BY id) FROM t")
	require.NoError(t, err)

	fns := ast.Functions(stmt)
	require.Len(t, fns, 2)
	keys := keyNames(fns[0].Over.PartitionBy)
	require.Len(t, keys, 2)
	assert.Equal(t, "region", keys[0])
	assert.Contains(t, keys[1], "code")
}
