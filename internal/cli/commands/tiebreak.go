package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlprobe/pkg/determinism"
)

// NewTieBreakCommand creates the tiebreak command.
func NewTieBreakCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tiebreak <column> [column...]",
		Short: "Rank columns as ORDER BY tie-breakers",
		Long: `Pick the columns most likely to make an ordering unique.

Candidates are matched against a fixed list of naming patterns, most
specific first (*_source_row_id, *_row_id, load timestamps, created_at,
surrogate keys, then *_id). The result is in pattern order; columns that
match no pattern are dropped. Commas may separate names as well as spaces.`,
		Example: `  sqlprobe tiebreak customer_name order_id created_at
  sqlprobe tiebreak id,_loaded_at,stg_row_id -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := NewCommandContextWithoutEngine(cmd, format).Renderer

			var candidates []string
			for _, arg := range args {
				for _, name := range strings.Split(arg, ",") {
					if name = strings.TrimSpace(name); name != "" {
						candidates = append(candidates, name)
					}
				}
			}
			picked := determinism.Suggest(candidates)

			if r.EffectiveMode().Structured() {
				return r.Data(picked)
			}
			if len(picked) == 0 {
				r.Warning("No candidate looks like a tie-breaker")
				return nil
			}
			for i, name := range picked {
				r.Printf("%d. %s\n", i+1, name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json, yaml")
	return cmd
}
