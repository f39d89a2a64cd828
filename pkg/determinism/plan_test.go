package determinism_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlprobe/pkg/determinism"
)

func TestPlan(t *testing.T) {
	issues := analyze(t, `SELECT ROW_NUMBER() OVER (PARTITION BY g) AS rn,
		RANK() OVER (ORDER BY score) AS r
		FROM t LIMIT 5`)
	require.Len(t, issues, 3)

	plan := determinism.Plan(issues, determinism.DefaultPlanOptions())
	assert.Equal(t, []string{
		"Add _row_hash to ORDER BY in ROW_NUMBER window function",
		"Add _row_hash to ORDER BY in RANK window function",
		"Add ORDER BY clause before LIMIT",
	}, plan.Recommendations)
	assert.Equal(t, issues[0].DQCheckSQL+"\n\n"+issues[1].DQCheckSQL, plan.DQChecks)
	assert.Contains(t, plan.DQColumns, "AS _dq_tie_count")
	assert.Contains(t, plan.DQColumns, "'NON_DETERMINISTIC'")
	assert.Equal(t, issues, plan.Issues)
}

func TestPlan_NoWindowIssues(t *testing.T) {
	issues := analyze(t, "SELECT NOW() FROM t LIMIT 1")
	plan := determinism.Plan(issues, determinism.PlanOptions{TieBreakerColumn: "_id", MonitoringColumns: true})
	assert.Equal(t, []string{"Add ORDER BY clause before LIMIT"}, plan.Recommendations)
	assert.Empty(t, plan.DQChecks)
	assert.Empty(t, plan.DQColumns, "monitoring columns only accompany window issues")
}

func TestPlan_CustomTieBreaker(t *testing.T) {
	issues := analyze(t, "SELECT LAG(x) OVER () FROM t")
	plan := determinism.Plan(issues, determinism.PlanOptions{TieBreakerColumn: "event_id"})
	assert.Equal(t, []string{"Add event_id to ORDER BY in LAG window function"}, plan.Recommendations)
	assert.Empty(t, plan.DQColumns)
}
