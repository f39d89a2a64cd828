package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlprobe/pkg/lineage"
	"github.com/leapstack-labs/sqlprobe/pkg/parser"
)

// LineageOptions holds options for the lineage command.
type LineageOptions struct {
	SQL    string // Inline SQL instead of a file
	Format string // Output format override
}

// NewLineageCommand creates the lineage command.
func NewLineageCommand() *cobra.Command {
	opts := &LineageOptions{}
	cmd := &cobra.Command{
		Use:   "lineage [file|-]",
		Short: "Show column-level lineage for a statement",
		Long: `Show where each output column of a statement comes from.

Every select item of the outermost query yields one record: the target
name, how it is derived (DIRECT, RENAME, AGGREGATION, CONSTANT, DERIVED
or STAR) and the table.column references that feed it. Table aliases are
resolved to table names.`,
		Example: `  # Lineage of a model file
  sqlprobe lineage models/revenue.sql

  # Inline SQL
  sqlprobe lineage --sql "SELECT o.id, SUM(o.amount) AS total FROM orders o GROUP BY o.id"

  # As JSON
  cat query.sql | sqlprobe lineage - -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineage(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SQL, "sql", "", "SQL statement to analyze")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

func runLineage(cmd *cobra.Command, args []string, opts *LineageOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd, opts.Format)
	r := cmdCtx.Renderer

	name, sql, err := readSQL(cmd, args, opts.SQL)
	if err != nil {
		return err
	}

	stmt, err := parser.ParseWithOptions(sql, parser.Options{ANSI: cmdCtx.Cfg.Parser.ANSIQuotes})
	if err != nil {
		return fmt.Errorf("%s: parse error: %w", name, err)
	}
	model := lineage.ExtractModel(stmt)
	cmdCtx.Logger.Debug("extracted lineage", "source", name, "columns", len(model.Columns))

	if r.EffectiveMode().Structured() {
		return r.Data(model)
	}
	r.Header(1, name)
	renderLineage(r, model.Columns, model.Sources, model.CTEs)
	return nil
}
