// Package commands implements the sqlprobe subcommands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlprobe/internal/cli/config"
	"github.com/leapstack-labs/sqlprobe/internal/cli/output"
	"github.com/leapstack-labs/sqlprobe/internal/engine"
)

// stdinName labels SQL read from standard input.
const stdinName = "<stdin>"

// CommandContext holds common dependencies for command execution.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an engine built from the
// loaded configuration. format, when set, overrides the configured output.
func NewCommandContext(cmd *cobra.Command, format string) (*CommandContext, error) {
	cmdCtx := NewCommandContextWithoutEngine(cmd, format)

	opts, err := cmdCtx.Cfg.AnalysisOptions()
	if err != nil {
		return nil, err
	}
	cmdCtx.Engine = engine.New(engine.Config{
		Analysis:    opts,
		Concurrency: cmdCtx.Cfg.Concurrency,
		Logger:      cmdCtx.Logger,
	})
	return cmdCtx, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that never analyze SQL.
func NewCommandContextWithoutEngine(cmd *cobra.Command, format string) *CommandContext {
	cfg := getConfig()
	if format == "" {
		format = cfg.OutputFormat
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format)),
	}
}

// getConfig returns the current configuration, or defaults when the root
// command did not load one (commands executed directly in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// readSQL returns the SQL to analyze and a label for it. Sources, in
// order: the inline flag value, a file argument, or standard input when
// the argument is "-" or absent.
func readSQL(cmd *cobra.Command, args []string, inline string) (name, sql string, err error) {
	if inline != "" {
		return "<inline>", inline, nil
	}
	if len(args) > 0 && args[0] != "-" {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return args[0], string(content), nil
	}
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return "", "", errors.New("no SQL given: pass a file, --sql, or pipe SQL on stdin")
	}
	return stdinName, string(content), nil
}

// analysisPaths returns the paths to analyze: the arguments, or the
// project root when none are given.
func analysisPaths(args []string, cfg *config.Config) []string {
	if len(args) > 0 {
		return args
	}
	if cfg.ProjectRoot != "" {
		return []string{cfg.ProjectRoot}
	}
	return []string{"."}
}

// isStdin reports whether the arguments ask for standard input.
func isStdin(args []string) bool {
	return len(args) == 1 && args[0] == "-"
}

// truncateOneLine shortens s to a single line of at most n runes.
func truncateOneLine(s string, n int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
