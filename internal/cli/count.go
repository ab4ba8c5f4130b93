package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordmosaic/pkg/extract"
	"github.com/matzehuels/wordmosaic/pkg/render/sink"
)

// countCommand creates the count command.
func (c *CLI) countCommand() *cobra.Command {
	var (
		flags   stopwordFlags
		top     int
		asCSV   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:               "count [file]",
		Short:             "Print the ranked word frequency table of a document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.PipelineOptions()
			flags.apply(cmd, &opts)

			text, err := extract.File(ctx, args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, cfg, runnerOpts{noCache: noCache, noHistory: true})
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			analysis, err := runner.Analyze(ctx, text, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asCSV {
				table := analysis.Table
				if top > 0 {
					table = table.Top(top)
				}
				return sink.WriteCSV(out, table)
			}
			if analysis.Empty {
				printWarning("No words left after stopword filtering")
				return nil
			}
			fmt.Fprintln(out, renderFrequencyTable(analysis.Table, top))
			printDetail("%d words, %d distinct in %s", analysis.Table.Total(), len(analysis.Table), filepath.Base(args[0]))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&top, "top", "t", 20, "show only the top N words (0 for all)")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV to stdout instead of a table")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
