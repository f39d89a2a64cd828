package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlprobe/internal/cli/config"
	"github.com/leapstack-labs/sqlprobe/internal/cli/testutil"
	logtest "github.com/leapstack-labs/sqlprobe/internal/testutil"
	"github.com/leapstack-labs/sqlprobe/pkg/determinism"
	"github.com/leapstack-labs/sqlprobe/pkg/lineage"
)

// resetConfig makes commands fall back to default configuration.
func resetConfig(t *testing.T) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
}

func TestVersionCommand(t *testing.T) {
	res := testutil.RunCommand(NewVersionCommand("1.2.3", "abc123", "2026-01-02"), "")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "sqlprobe v1.2.3")
	assert.Contains(t, res.Out, "commit abc123, built 2026-01-02")
}

func TestTieBreakCommand(t *testing.T) {
	resetConfig(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"spaces", []string{"customer_name", "order_id", "created_at"}, "1. created_at\n2. order_id\n"},
		{"commas", []string{"customer_name,order_id", "created_at"}, "1. created_at\n2. order_id\n"},
		{"no match", []string{"customer_name", "amount"}, "No candidate looks like a tie-breaker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := testutil.RunCommand(NewTieBreakCommand(), "", tt.args...)
			require.NoError(t, res.Err)
			assert.Contains(t, res.Out, tt.want)
		})
	}

	t.Run("json", func(t *testing.T) {
		res := testutil.RunCommand(NewTieBreakCommand(), "", "id", "stg_row_id", "-f", "json")
		require.NoError(t, res.Err)
		var got []string
		require.NoError(t, json.Unmarshal([]byte(res.Out), &got))
		assert.Equal(t, []string{"stg_row_id", "id"}, got)
	})

	t.Run("requires an argument", func(t *testing.T) {
		res := testutil.RunCommand(NewTieBreakCommand(), "")
		require.Error(t, res.Err)
	})
}

func TestRulesCommand(t *testing.T) {
	resetConfig(t)

	t.Run("markdown listing", func(t *testing.T) {
		res := testutil.RunCommand(NewRulesCommand(), "")
		require.NoError(t, res.Err)
		testutil.AssertNoANSI(t, res.Out)
		testutil.AssertValidMarkdown(t, res.Out)
		assert.Contains(t, res.Out, "# Lint Rules")
		assert.Contains(t, res.Out, "## Joins")
		assert.Contains(t, res.Out, "**IMPLICIT_JOIN**")
		assert.Contains(t, res.Out, "## Determinism Checks")
		assert.Contains(t, res.Out, "`WINDOW_NON_UNIQUE_ORDER`")
		assert.Less(t, strings.Index(res.Out, "## Aliasing"), strings.Index(res.Out, "## Structure"))
	})

	t.Run("json catalog", func(t *testing.T) {
		res := testutil.RunCommand(NewRulesCommand(), "", "-f", "json")
		require.NoError(t, res.Err)
		var got struct {
			Rules []struct {
				Code  string `json:"code"`
				Group string `json:"group"`
			} `json:"rules"`
			Determinism []string `json:"determinism_checks"`
		}
		require.NoError(t, json.Unmarshal([]byte(res.Out), &got))
		assert.Len(t, got.Rules, 15)
		assert.Equal(t, "SELECT_STAR", got.Rules[0].Code)
		assert.Contains(t, got.Determinism, "LIMIT_NO_ORDER")
	})

	t.Run("group filter", func(t *testing.T) {
		res := testutil.RunCommand(NewRulesCommand(), "", "--group", "JOINS")
		require.NoError(t, res.Err)
		assert.Contains(t, res.Out, "IMPLICIT_JOIN")
		assert.Contains(t, res.Out, "CARTESIAN_JOIN")
		assert.NotContains(t, res.Out, "SELECT_STAR")
	})

	t.Run("show rule", func(t *testing.T) {
		res := testutil.RunCommand(NewRulesCommand(), "", "implicit_join")
		require.NoError(t, res.Err)
		testutil.AssertValidMarkdown(t, res.Out)
		assert.Contains(t, res.Out, "# IMPLICIT_JOIN")
		assert.Contains(t, res.Out, "**Group:** joins")
		assert.Contains(t, res.Out, "## Bad Example")
	})

	t.Run("unknown rule", func(t *testing.T) {
		res := testutil.RunCommand(NewRulesCommand(), "", "NOT_A_RULE")
		require.Error(t, res.Err)
		assert.Contains(t, res.Err.Error(), "unknown rule")
	})
}

func TestLineageCommand(t *testing.T) {
	resetConfig(t)
	const sql = "SELECT o.id, SUM(o.amount) AS total FROM orders o GROUP BY o.id"

	t.Run("json", func(t *testing.T) {
		res := testutil.RunCommand(NewLineageCommand(), "", "--sql", sql, "-f", "json")
		require.NoError(t, res.Err)

		var got lineage.ModelLineage
		require.NoError(t, json.Unmarshal([]byte(res.Out), &got))
		assert.Equal(t, []string{"orders"}, got.Sources)
		require.Len(t, got.Columns, 2)
		assert.Equal(t, lineage.MappingDirect, got.Columns[0].MappingType)
		assert.Equal(t, lineage.MappingAggregation, got.Columns[1].MappingType)
		assert.Equal(t, []string{"orders"}, got.Columns[1].SourceTables)
		assert.Equal(t, []string{"amount"}, got.Columns[1].SourceColumns)
	})

	t.Run("markdown from file", func(t *testing.T) {
		path := testutil.WriteSQL(t, "model.sql", sql)
		cmd := NewLineageCommand()
		cmd.SetContext(config.WithLogger(context.Background(), logtest.NewTestLoggerAt(t, slog.LevelDebug)))
		res := testutil.RunCommand(cmd, "", path)
		require.NoError(t, res.Err)
		testutil.AssertNoANSI(t, res.Out)
		assert.Contains(t, res.Out, "# "+path)
		assert.Contains(t, res.Out, "| total")
		assert.Contains(t, res.Out, "orders.amount")
	})

	t.Run("stdin", func(t *testing.T) {
		res := testutil.RunCommand(NewLineageCommand(), sql, "-")
		require.NoError(t, res.Err)
		assert.Contains(t, res.Out, "# <stdin>")
	})

	t.Run("parse error", func(t *testing.T) {
		res := testutil.RunCommand(NewLineageCommand(), "", "--sql", "SELECT FROM WHERE")
		require.Error(t, res.Err)
		assert.Contains(t, res.Err.Error(), "parse error")
	})

	t.Run("empty stdin", func(t *testing.T) {
		res := testutil.RunCommand(NewLineageCommand(), "  \n")
		require.Error(t, res.Err)
		assert.Contains(t, res.Err.Error(), "no SQL given")
	})
}

func TestDeterminismCommand(t *testing.T) {
	resetConfig(t)

	t.Run("issues", func(t *testing.T) {
		res := testutil.RunCommand(NewDeterminismCommand(), "", "--sql", testutil.RankedModel, "-f", "json")
		require.NoError(t, res.Err)

		var got []determinism.Issue
		require.NoError(t, json.Unmarshal([]byte(res.Out), &got))
		require.Len(t, got, 1)
		assert.Equal(t, determinism.WindowNonUniqueOrder, got[0].Type)
		assert.NotEmpty(t, got[0].TieBreakerColumns)
		assert.Contains(t, got[0].DQCheckSQL, determinism.DefaultTablePlaceholder)
	})

	t.Run("plan", func(t *testing.T) {
		res := testutil.RunCommand(NewDeterminismCommand(), "",
			"--sql", testutil.RankedModel, "--plan", "--tie-breaker", "_surrogate", "-f", "json")
		require.NoError(t, res.Err)

		var got determinism.Remediation
		require.NoError(t, json.Unmarshal([]byte(res.Out), &got))
		require.Len(t, got.Issues, 1)
		assert.NotEmpty(t, got.Recommendations)
		assert.NotEmpty(t, got.DQChecks)
		assert.Contains(t, strings.Join(got.Recommendations, "\n"), "_surrogate")
	})

	t.Run("markdown with sql", func(t *testing.T) {
		res := testutil.RunCommand(NewDeterminismCommand(), "", "--sql", testutil.RankedModel, "--show-sql")
		require.NoError(t, res.Err)
		testutil.AssertValidMarkdown(t, res.Out)
		assert.Contains(t, res.Out, "**WINDOW_NON_UNIQUE_ORDER**")
		assert.Contains(t, res.Out, "```sql")
	})

	t.Run("clean", func(t *testing.T) {
		res := testutil.RunCommand(NewDeterminismCommand(), "", "--sql", testutil.CleanModel)
		require.NoError(t, res.Err)
		assert.Contains(t, res.Out, "No determinism issues found")
	})
}

func TestLintCommand(t *testing.T) {
	resetConfig(t)
	dir := testutil.SetupTestProject(t)
	models := filepath.Join(dir, "models")

	t.Run("findings fail the command", func(t *testing.T) {
		res := testutil.RunCommand(NewLintCommand(), "", models)
		require.ErrorIs(t, res.Err, errLintIssues)
		assert.NotContains(t, res.Out, "Usage:")
		assert.Contains(t, res.Out, "SELECT_STAR")
		assert.Contains(t, res.Out, filepath.Join(models, "star.sql"))
		assert.NotContains(t, res.Out, filepath.Join(models, "clean.sql"))
	})

	t.Run("json", func(t *testing.T) {
		res := testutil.RunCommand(NewLintCommand(), "", models, "-f", "json")
		require.ErrorIs(t, res.Err, errLintIssues)
		assert.NotContains(t, res.Out, "Usage:")

		var got struct {
			Files []struct {
				Path        string `json:"path"`
				Diagnostics []struct {
					Type     string `json:"type"`
					Severity string `json:"severity"`
				} `json:"diagnostics"`
			} `json:"files"`
			Summary struct {
				FilesAnalyzed int `json:"files_analyzed"`
				Warnings      int `json:"warnings"`
			} `json:"summary"`
		}
		require.NoError(t, json.Unmarshal([]byte(res.Out), &got))
		assert.Equal(t, 3, got.Summary.FilesAnalyzed)
		require.Len(t, got.Files, 1)
		require.Len(t, got.Files[0].Diagnostics, 1)
		assert.Equal(t, "SELECT_STAR", got.Files[0].Diagnostics[0].Type)
		assert.Equal(t, "warning", got.Files[0].Diagnostics[0].Severity)
		assert.Equal(t, 1, got.Summary.Warnings)
	})

	t.Run("disable", func(t *testing.T) {
		res := testutil.RunCommand(NewLintCommand(), "", models, "--disable", "select_star")
		require.NoError(t, res.Err)
		assert.Contains(t, res.Out, "No lint issues found (3 files)")
	})

	t.Run("only selected rules", func(t *testing.T) {
		res := testutil.RunCommand(NewLintCommand(), "", models, "--rule", "IMPLICIT_JOIN")
		require.NoError(t, res.Err)
	})

	t.Run("severity threshold", func(t *testing.T) {
		res := testutil.RunCommand(NewLintCommand(), "", models, "--severity", "error")
		require.NoError(t, res.Err)
	})

	t.Run("stdin", func(t *testing.T) {
		res := testutil.RunCommand(NewLintCommand(), "SELECT a.x FROM a, b WHERE a.id = b.id", "-")
		require.ErrorIs(t, res.Err, errLintIssues)
		assert.Contains(t, res.Out, "IMPLICIT_JOIN")
		assert.Contains(t, res.Out, "## <stdin>")
	})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown disabled rule", []string{"--disable", "NOPE"}, `unknown rule "NOPE"`},
		{"unknown selected rule", []string{"--rule", "NOPE"}, `unknown rule "NOPE"`},
		{"bad severity", []string{"--severity", "loud"}, "invalid severity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := testutil.RunCommand(NewLintCommand(), "", append([]string{models}, tt.args...)...)
			require.Error(t, res.Err)
			assert.Contains(t, res.Err.Error(), tt.want)
		})
	}
}

func TestAnalyzeCommand(t *testing.T) {
	resetConfig(t)

	t.Run("stdin json", func(t *testing.T) {
		res := testutil.RunCommand(NewAnalyzeCommand(), testutil.StarModel, "-", "-f", "json")
		require.NoError(t, res.Err)

		var got struct {
			FilesAnalyzed int            `json:"files_analyzed"`
			ByType        map[string]int `json:"by_type"`
			Files         []struct {
				Path string `json:"path"`
			} `json:"files"`
		}
		require.NoError(t, json.Unmarshal([]byte(res.Out), &got))
		assert.Equal(t, 1, got.FilesAnalyzed)
		assert.Equal(t, 1, got.ByType["SELECT_STAR"])
		assert.Equal(t, 1, got.ByType["LIMIT_NO_ORDER"])
		require.Len(t, got.Files, 1)
		assert.Equal(t, "<stdin>", got.Files[0].Path)
	})

	t.Run("directory markdown", func(t *testing.T) {
		dir := testutil.SetupTestProject(t)
		res := testutil.RunCommand(NewAnalyzeCommand(), "", filepath.Join(dir, "models"))
		require.NoError(t, res.Err)
		testutil.AssertNoANSI(t, res.Out)
		testutil.AssertValidMarkdown(t, res.Out)
		assert.Contains(t, res.Out, "## Lineage")
		assert.Contains(t, res.Out, "**WINDOW_NON_UNIQUE_ORDER**")
		assert.Contains(t, res.Out, "# Summary")
		assert.Contains(t, res.Out, "- **Files analyzed**: 3")
		assert.NotContains(t, res.Out, "README")
	})

	t.Run("yaml", func(t *testing.T) {
		res := testutil.RunCommand(NewAnalyzeCommand(), "SELECT RANDOM() AS r", "-", "-f", "yaml")
		require.NoError(t, res.Err)
		assert.Contains(t, res.Out, "files_analyzed: 1")
		assert.Contains(t, res.Out, "issue_type: VOLATILE_FUNCTION")
	})

	t.Run("parse error is reported not returned", func(t *testing.T) {
		res := testutil.RunCommand(NewAnalyzeCommand(), "SELECT FROM WHERE", "-")
		require.NoError(t, res.Err)
		assert.Contains(t, res.ErrOut, "parse error")
	})

	t.Run("no sql files", func(t *testing.T) {
		res := testutil.RunCommand(NewAnalyzeCommand(), "", t.TempDir())
		require.Error(t, res.Err)
	})
}

func TestREPLCommand(t *testing.T) {
	resetConfig(t)

	input := strings.Join([]string{
		"SELECT *",
		"FROM orders LIMIT 10;",
		".mode lint",
		"SELECT a.x FROM a, b WHERE a.id = b.id;",
		".mode nonsense",
		".bogus",
		"SELECT FROM WHERE;",
		".quit",
		"SELECT 1;",
	}, "\n") + "\n"

	res := testutil.RunCommand(NewREPLCommand(), input, "--history", "")
	require.NoError(t, res.Err)

	assert.Contains(t, res.Out, "SELECT_STAR")
	assert.Contains(t, res.Out, "LIMIT_NO_ORDER")
	assert.Contains(t, res.Out, "IMPLICIT_JOIN")
	assert.Contains(t, res.ErrOut, `Unknown mode "nonsense"`)
	assert.Contains(t, res.ErrOut, "Unknown command .bogus")
	assert.Contains(t, res.ErrOut, "Parse error")
}

func TestReadSQL(t *testing.T) {
	path := testutil.WriteSQL(t, "q.sql", "SELECT 1")

	tests := []struct {
		name     string
		args     []string
		inline   string
		stdin    string
		wantName string
		wantSQL  string
		wantErr  bool
	}{
		{name: "inline wins", args: []string{path}, inline: "SELECT 2", wantName: "<inline>", wantSQL: "SELECT 2"},
		{name: "file", args: []string{path}, wantName: path, wantSQL: "SELECT 1"},
		{name: "dash reads stdin", args: []string{"-"}, stdin: "SELECT 3", wantName: stdinName, wantSQL: "SELECT 3"},
		{name: "no args reads stdin", stdin: "SELECT 4", wantName: stdinName, wantSQL: "SELECT 4"},
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "nope.sql")}, wantErr: true},
		{name: "empty stdin", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewLineageCommand()
			cmd.SetIn(strings.NewReader(tt.stdin))
			name, sql, err := readSQL(cmd, tt.args, tt.inline)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantSQL, sql)
		})
	}
}

func TestTruncateOneLine(t *testing.T) {
	assert.Equal(t, "short", truncateOneLine("short", 10))
	assert.Equal(t, "first", truncateOneLine("first\nsecond", 10))
	assert.Equal(t, "abcdefg...", truncateOneLine("abcdefghijklmnop", 10))
}

func TestAnalysisPaths(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, []string{"a.sql"}, analysisPaths([]string{"a.sql"}, cfg))
	assert.Equal(t, []string{"."}, analysisPaths(nil, cfg))
	cfg.ProjectRoot = "/work"
	assert.Equal(t, []string{"/work"}, analysisPaths(nil, cfg))
}
