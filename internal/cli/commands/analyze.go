package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlprobe/internal/cli/output"
	"github.com/leapstack-labs/sqlprobe/internal/engine"
)

// AnalyzeOptions holds options for the analyze command.
type AnalyzeOptions struct {
	Format string // Output format override
	Watch  bool   // Re-run on file changes
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [paths...|-]",
		Short: "Run lineage, lint and determinism analysis",
		Long: `Analyze SQL files and report column lineage, lint diagnostics and
non-determinism risks for each statement.

Directories are searched recursively for .sql files. With no path the
project root (the directory holding sqlprobe.yaml, or the current
directory) is analyzed. Pass "-" to read one statement from stdin.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Analyze every .sql file under ./models
  sqlprobe analyze ./models

  # Analyze a statement from stdin as JSON
  echo "SELECT * FROM orders LIMIT 10" | sqlprobe analyze - -o json

  # Re-analyze on every save
  sqlprobe analyze ./models --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch files and re-analyze on change")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	cmdCtx, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	eng := cmdCtx.Engine

	if isStdin(args) {
		name, sql, err := readSQL(cmd, args, "")
		if err != nil {
			return err
		}
		return renderAnalysis(r, engine.Summarize([]engine.FileResult{eng.AnalyzeSource(name, sql)}))
	}

	paths := analysisPaths(args, cmdCtx.Cfg)

	if opts.Watch {
		ctx, stop := signal.NotifyContext(contextOf(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		r.Muted("Watching for changes (Ctrl+C to stop)...")
		return eng.Watch(ctx, paths, func(s *engine.Summary, err error) {
			if err != nil {
				r.Error(err.Error())
				return
			}
			_ = renderAnalysis(r, s)
		})
	}

	files, err := eng.Discover(paths)
	if err != nil {
		return err
	}
	summary, err := eng.AnalyzeFiles(contextOf(cmd), files)
	if err != nil {
		return err
	}
	return renderAnalysis(r, summary)
}

func renderAnalysis(r *output.Renderer, s *engine.Summary) error {
	if r.EffectiveMode().Structured() {
		return r.Data(s)
	}
	for _, f := range s.Files {
		renderReport(r, f.Path, f.Report)
	}
	if len(s.Files) > 1 {
		renderSummary(r, s)
	}
	return nil
}

// contextOf returns the command's context, or a background context when
// the command runs outside Execute.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
