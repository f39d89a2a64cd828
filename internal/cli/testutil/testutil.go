// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlprobe/internal/cli/output"
)

// Project model files written by SetupTestProject.
const (
	// CleanModel has no lint or determinism findings.
	CleanModel = `SELECT o.order_id, o.amount AS order_amount
FROM orders o
ORDER BY o.order_id`

	// StarModel triggers SELECT_STAR and LIMIT_NO_ORDER.
	StarModel = `SELECT * FROM orders LIMIT 10`

	// RankedModel has a window ordered by a non-unique column.
	RankedModel = `SELECT customer_id, order_id, created_at,
    ROW_NUMBER() OVER (PARTITION BY customer_id ORDER BY order_date) AS rn
FROM orders`
)

// SetupTestProject creates a temporary project with a sqlprobe.yaml and
// three models under models/.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	models := filepath.Join(tmpDir, "models")
	require.NoError(t, os.MkdirAll(filepath.Join(models, "marts"), 0o755))

	files := map[string]string{
		filepath.Join(tmpDir, "sqlprobe.yaml"):       "output: markdown\n",
		filepath.Join(models, "clean.sql"):           CleanModel,
		filepath.Join(models, "star.sql"):            StarModel,
		filepath.Join(models, "marts", "ranked.sql"): RankedModel,
		filepath.Join(models, "marts", "README.md"):  "not sql",
	}
	for path, content := range files {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return tmpDir
}

// WriteSQL writes a single SQL file into a fresh temp dir and returns its path.
func WriteSQL(t *testing.T, name, sql string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(sql), 0o644))
	return path
}

// Result holds the captured streams of a command run.
type Result struct {
	Out    string
	ErrOut string
	Err    error
}

// RunCommand executes cmd with args and optional stdin, capturing both
// output streams. Usage and error printing are silenced as on the root
// command, so Out holds only what the command rendered.
func RunCommand(cmd *cobra.Command, stdin string, args ...string) Result {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return Result{Out: out.String(), ErrOut: errOut.String(), Err: err}
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a test renderer with the given mode and TTY state.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererMarkdown creates a test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererText creates a test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	assert.False(t, ansiPattern.MatchString(s), "string contains ANSI escape codes: %q", s)
}

// AssertValidMarkdown checks for balanced code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	assert.Zero(t, strings.Count(md, "```")%2, "unbalanced code fences in markdown")
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
