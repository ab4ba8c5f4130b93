package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordmosaic/pkg/render/sink"
	"github.com/matzehuels/wordmosaic/pkg/store"
)

// historyCommand creates the history command for browsing stored tables.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved frequency tables",
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("history is disabled (store.backend = %q)", cfg.Store.Backend)
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved tables, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				records, err := st.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					printInfo("No saved tables")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderHistory(records))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of tables to list")
	return cmd
}

func (c *CLI) historyShowCommand() *cobra.Command {
	var (
		top   int
		asCSV bool
	)

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a saved table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.ValidateID(args[0]); err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(st store.Store) error {
				rec, err := st.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asCSV {
					return sink.WriteCSV(out, rec.Words)
				}
				printKeyValue("ID", rec.ID)
				printKeyValue("Created", rec.CreatedAt.Local().Format(time.DateTime))
				if rec.Source != "" {
					printKeyValue("Source", rec.Source)
				}
				printKeyValue("Words", fmt.Sprintf("%d (%d distinct)", rec.Total, len(rec.Words)))
				fmt.Fprintln(out, renderFrequencyTable(rec.Words, top))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&top, "top", "t", 20, "show only the top N words (0 for all)")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV to stdout instead of a table")
	return cmd
}

func renderHistory(records []store.Record) string {
	rows := make([][]string, len(records))
	for i, rec := range records {
		top := ""
		if len(rec.Words) > 0 {
			top = rec.Words[0].Word
		}
		rows[i] = []string{
			rec.ID,
			rec.CreatedAt.Local().Format(time.DateTime),
			rec.Source,
			strconv.Itoa(len(rec.Words)),
			strconv.Itoa(rec.Total),
			top,
		}
	}
	return renderTable(
		[]string{"ID", "Created", "Source", "Distinct", "Total", "Top word"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}
